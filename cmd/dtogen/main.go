package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/dtogen/cmd/dtogen/commands"
	"github.com/teranos/dtogen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "dtogen",
	Short: "dtogen - generate specialized serializers for Go types",
	Long: `dtogen generates one serialization function per type, API version and
permission-group set, ahead of runtime.

Each generated function converts an object graph into nested maps and
slices ready for JSON encoding, reading only the fields the request selects.

Available commands:
  generate - Generate serializers from dtogen.toml
  check    - Verify committed serializers are up to date
  init     - Write a starting dtogen.toml
  version  - Show version information

Examples:
  dtogen init                    # Write dtogen.toml for the sample domain
  dtogen generate                # Generate into output.dir
  dtogen generate --dry-run -v   # Show what would be generated
  dtogen check                   # Fail when generated files are stale`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debugw("Logger initialized", "verbosity", logger.LevelName(verbosity))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON records")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: dtogen.toml found from the working directory upward)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		commands.PrintError(err)
		os.Exit(1)
	}
}
