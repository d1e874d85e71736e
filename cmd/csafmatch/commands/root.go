package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/csafmatch/csafmatch/pkg/appctx"
	"github.com/csafmatch/csafmatch/pkg/config"
	"github.com/csafmatch/csafmatch/pkg/logging"
	"github.com/csafmatch/csafmatch/pkg/workspace"
)

const cliExecutable = "csafmatch"

// NewCommand constructs the top-level csafmatch CLI command, wiring global
// flags, configuration loading, and shared workspace preparation.
func NewCommand() *cobra.Command {
	var (
		configFile        string
		workspaceDir      string
		workspaceDisabled bool
		verbosityCount    int
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Match CSAF security advisories against an asset inventory",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")

			manager := config.NewManager()
			if err := manager.Load(config.DefaultSources(configFile, cmd.Flags(), debug)); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfg := manager.Get()

			configureLogging(cfg.Log.Level, verbosityCount, debug)

			ctx := appctx.WithConfig(cmd.Context(), manager)

			if workspaceDir == "" {
				workspaceDir = cfg.Workspace.Dir
			}
			if !workspaceDisabled && !cfg.Workspace.Disabled {
				prepared, err := workspace.Prepare(workspaceDir)
				if err != nil {
					return fmt.Errorf("prepare workspace: %w", err)
				}
				ctx = workspace.WithContext(ctx, prepared)
				log.Debug().Str("workspace", prepared).Msg("workspace ready")
			} else {
				log.Debug().Msg("workspace disabled for this run")
			}

			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringVar(&workspaceDir, "workspace-dir", "", "Override workspace root directory")
	cmd.PersistentFlags().BoolVar(&workspaceDisabled, "no-workspace", false, "Disable workspace persistence for this run")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "pipeline", Title: "Pipeline Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(newMatchCommand())
	cmd.AddCommand(newNormalizeCommand())
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// configureLogging applies the effective log level. The debug flag wins,
// then repeated -v flags, then the configured level.
func configureLogging(configured string, verbosity int, debug bool) {
	switch {
	case debug || verbosity >= 2:
		logging.ConfigureGlobal(zerolog.DebugLevel)
	case verbosity == 1:
		logging.ConfigureGlobal(zerolog.InfoLevel)
	default:
		_ = logging.ConfigureGlobalLogging(configured)
	}
}
