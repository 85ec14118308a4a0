package cli

import (
	"github.com/spf13/cobra"

	"github.com/wayfind/origin-task/internal/output"
)

func newResolveCommand(deps *Dependencies, debug *bool) *cobra.Command {
	var pathOnly bool

	cmd := &cobra.Command{
		Use:   "resolve [tool]",
		Short: "Show how the tool executable is found",
		Long: `Walk the resolution order (PATH, package-manager global bin,
Windows well-known directories, WSL bridge) and print every candidate that
was probed. Exits non-zero when no working executable is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadConfig(deps, *debug, cmd.ErrOrStderr())
			defer func() { _ = log.Sync() }()

			tool := cfg.Tool
			if len(args) == 1 {
				tool = args[0]
			}

			svc := deps.services(cfg, log)
			resolved, report, err := svc.resolver.ResolveWithReport(cmd.Context(), tool)

			printer := output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), deps.Color)
			if pathOnly {
				if err != nil {
					return err
				}
				printer.Println(resolved.Path)
				return nil
			}

			printer.Report(report, resolved)
			return err
		},
	}

	cmd.Flags().BoolVar(&pathOnly, "path-only", false, "Print only the resolved path")

	return cmd
}
