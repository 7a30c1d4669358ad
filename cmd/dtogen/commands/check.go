package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dtogen/artifact"
	"github.com/teranos/dtogen/errors"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify generated serializers are up to date",
	Long: `Regenerate every configured serializer into a temporary directory and
compare it with output.dir. Exits non-zero when a file is missing, stale or
differs, which makes it suitable for CI.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}

	tempDir, err := os.MkdirTemp("", "dtogen-check-")
	if err != nil {
		return errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	res, err := s.generate(cmd.Context())
	if err != nil {
		return err
	}
	if err := artifact.NewWriter(tempDir).WriteAll(cmd.Context(), res.Artifacts); err != nil {
		return err
	}

	result, err := artifact.CompareDirectories(tempDir, s.outputDir(""))
	if err != nil {
		return errors.Wrap(err, "failed to compare directories")
	}

	if result.UpToDate {
		pterm.Success.Printfln("%d serializers are up to date", len(res.Artifacts))
		return nil
	}

	pterm.Error.Println("Serializers are out of date:")
	for _, p := range result.Problems() {
		pterm.Printfln("  - %s", p)
	}
	return errors.WithHint(errors.New("serializers are out of date"), "run dtogen generate")
}
