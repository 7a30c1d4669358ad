package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dtogen/config"
	"github.com/teranos/dtogen/driver"
	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/metadata"
	"github.com/teranos/dtogen/render"
)

// session is a loaded, validated configuration and the directory relative
// paths resolve against.
type session struct {
	cfg  *config.Config
	path string
	dir  string
}

func loadSession(cmd *cobra.Command) (*session, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, used, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}
	if used != "" {
		if used, err = filepath.Abs(used); err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", used)
		}
		dir = filepath.Dir(used)
	}
	return &session{cfg: cfg, path: used, dir: dir}, nil
}

// outputDir resolves output.dir, or override when set.
func (s *session) outputDir(override string) string {
	dir := s.cfg.Output.Dir
	if override != "" {
		dir = override
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(s.dir, dir)
}

// generate loads metadata and runs every configured request.
func (s *session) generate(ctx context.Context) (*driver.Result, error) {
	catalog, err := driver.LoadCatalog(ctx, driver.Sources{
		Dir:       s.dir,
		Packages:  s.cfg.Source.Packages,
		Manifests: s.cfg.Source.Manifests,
	})
	if err != nil {
		return nil, err
	}

	registry, err := s.cfg.Registry()
	if err != nil {
		return nil, err
	}

	d := driver.New(metadata.NewBuilder(catalog), render.New(s.cfg.Output.Package), driver.Options{
		Workers:  s.cfg.Generator.Workers,
		Registry: registry,
		Codegen:  s.cfg.Options(),
	})
	return d.Run(ctx, s.cfg.Requests())
}

// PrintError prints err with its hints.
func PrintError(err error) {
	pterm.Error.Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.Println("hint: " + hint)
	}
}
