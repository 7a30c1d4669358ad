package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/teranos/dtogen/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show dtogen version information",
	Long:  `Display version, build time, commit hash, and platform information for the dtogen binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		info := version.Get()

		if jsonOutput {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format version as JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", info.Platform)
		fmt.Fprintf(cmd.OutOrStdout(), "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
