package cli

import (
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/wayfind/origin-task/internal/config"
	"github.com/wayfind/origin-task/internal/installer"
	"github.com/wayfind/origin-task/internal/invoke"
	"github.com/wayfind/origin-task/internal/logger"
	"github.com/wayfind/origin-task/internal/output"
	"github.com/wayfind/origin-task/internal/platform"
	"github.com/wayfind/origin-task/internal/resolver"
)

// ConfigLoader interface for dependency injection in tests
type ConfigLoader interface {
	Load() (*config.Config, error)

	// Fallback is used when Load fails. It never fails itself.
	Fallback() *config.Config
}

// RealConfigLoader implements ConfigLoader using the real config package
type RealConfigLoader struct{}

func (r *RealConfigLoader) Load() (*config.Config, error) {
	return config.New()
}

// Fallback keeps the host-provided values that parse
func (r *RealConfigLoader) Fallback() *config.Config {
	cfg, _ := config.FromHostEnv()
	return cfg
}

// Dependencies struct for injection
type Dependencies struct {
	ConfigLoader ConfigLoader

	// Profile is the platform the commands resolve for
	Profile platform.Profile

	// Env backs the resolver's environment lookups
	Env platform.Env

	// NewRunner builds the runner shared by resolution, install and the
	// tool invocations
	NewRunner func(profile platform.Profile, log *logger.Logger) invoke.Runner

	// LookPath locates the package manager
	LookPath func(file string) (string, error)

	// NewRunID labels the log lines of one invocation
	NewRunID func() string

	// Color enables ANSI colors for the diagnostic commands
	Color bool

	Stdin io.Reader
}

// NewRealDependencies creates production dependencies
func NewRealDependencies() *Dependencies {
	return &Dependencies{
		ConfigLoader: &RealConfigLoader{},
		Profile:      platform.Current(),
		Env:          platform.OSEnv{},
		NewRunner: func(profile platform.Profile, log *logger.Logger) invoke.Runner {
			return invoke.NewExecRunner(profile, log)
		},
		NewRunID: func() string { return uuid.NewString() },
		Color:    output.ColorEnabled(),
		Stdin:    os.Stdin,
	}
}

// services holds what the commands build from a loaded configuration
type services struct {
	runner    invoke.Runner
	resolver  *resolver.Resolver
	installer *installer.PackageManager
}

func (d *Dependencies) services(cfg *config.Config, log *logger.Logger) *services {
	runner := d.NewRunner(d.Profile, log)

	inst := installer.NewPackageManager(cfg.PackageManager, runner, log)
	inst.Timeout = cfg.Timeouts.Install
	if d.LookPath != nil {
		inst.LookPath = d.LookPath
	}

	opts := []resolver.Option{
		resolver.WithLogger(log),
		resolver.WithVerifyTimeout(cfg.Timeouts.Verify),
		resolver.WithPackageManager(cfg.PackageManager),
	}
	if d.Env != nil {
		opts = append(opts, resolver.WithEnv(d.Env))
	}

	return &services{
		runner:    runner,
		resolver:  resolver.New(d.Profile, runner, opts...),
		installer: inst,
	}
}
