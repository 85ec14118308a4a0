package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wayfind/origin-task/internal/config"
	"github.com/wayfind/origin-task/internal/hook"
	"github.com/wayfind/origin-task/internal/logger"
)

func newSessionStartCommand(deps *Dependencies, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "session-start",
		Short: "Run the session-start hook",
		Long: `Run the session-start hook.

Reads the hook input JSON from stdin and writes the session context for the
agent host to stdout. The command always exits 0 so that a missing or broken
ie never blocks the session from starting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			runSessionStart(ctx, deps, *debug, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
}

// runSessionStart runs the hook. Failures are logged, never returned.
func runSessionStart(ctx context.Context, deps *Dependencies, debug bool, stdout, stderr io.Writer) {
	cfg, log := loadConfig(deps, debug, stderr)
	defer func() { _ = log.Sync() }()

	timer := log.Timed("session-start")
	svc := deps.services(cfg, log)
	h := hook.New(cfg, svc.resolver, svc.installer, svc.runner, log)
	if err := h.Run(ctx, deps.Stdin, stdout, stderr); err != nil {
		timer.DoneWithError(err)
		return
	}
	timer.Done()
}

// loadConfig loads the configuration and builds the run's logger. A broken
// configuration falls back to the defaults plus whatever the host
// environment still provides.
func loadConfig(deps *Dependencies, debug bool, stderr io.Writer) (*config.Config, *logger.Logger) {
	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		cfg = deps.ConfigLoader.Fallback()
	}
	if cfg.Debug {
		debug = true
	}

	logCfg := logger.ConfigFromEnv(debug)
	logCfg.Output = stderr
	log := logger.New(logCfg)
	if deps.NewRunID != nil {
		log = log.WithField("run_id", deps.NewRunID())
	}

	if err != nil {
		log.WithError(err).Error("Configuration invalid, using defaults")
	}
	cfg.Debug = debug
	return cfg, log
}

// signalContext cancels the returned context on interrupt or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
