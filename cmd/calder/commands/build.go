package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calder-build/calder/internal/adapters/config"
	"github.com/calder-build/calder/internal/adapters/esbuild"
	"github.com/calder-build/calder/internal/adapters/fs"
	"github.com/calder-build/calder/internal/adapters/logger"
	"github.com/calder-build/calder/internal/adapters/progress"
	"github.com/calder-build/calder/internal/app"
	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
	"github.com/calder-build/calder/internal/engine/tracker"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [dir]",
		Short: "Build the project for production",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd := "."
			if len(args) == 1 {
				cwd = args[0]
			}

			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			loader := &config.FileConfigLoader{Filename: configPath}
			cfg, err := loader.Load(cwd)
			if err != nil {
				return err
			}

			log := logger.New(cfg.LogLevel)

			var reporter ports.Reporter = progress.Noop{}
			if cfg.LogLevel == domain.LogInfo {
				rec := progress.New()
				defer rec.Close() //nolint:errcheck // best effort flush
				reporter = rec
			}

			builder := app.New(
				loader,
				esbuild.NewEngine(os.Getenv("CALDER_BUNDLER"), log),
				fs.New(),
				log,
				reporter,
				tracker.New(log),
			)

			results, err := builder.BuildWithConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			for _, result := range results.List() {
				for _, out := range result.Outputs {
					log.Info("emitted", "file", out.Name, "kind", string(out.Kind), "size", out.Size)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "build complete")
			return nil
		},
	}
}
