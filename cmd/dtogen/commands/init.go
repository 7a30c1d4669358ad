package commands

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dtogen/config"
	"github.com/teranos/dtogen/errors"
)

var initForce bool

// InitCmd represents the init command
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starting dtogen.toml",
	Long: `Write dtogen.toml in the current directory (or at --config) with the
default settings and the sample order type configured.`,
	RunE: runInit,
}

func init() {
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.FileName
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"pass --force to overwrite it; the previous file is kept as .back1")
	}

	if err := config.Save(config.Sample(), path); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", path)
	return nil
}
