package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dtogen/artifact"
	"github.com/teranos/dtogen/config"
	"github.com/teranos/dtogen/driver"
	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/logger"
	"github.com/teranos/dtogen/metadata/goload"
)

var (
	generateOutput string
	generateDryRun bool
	generateWatch  bool
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate serializers from dtogen.toml",
	Long: `Generate one serializer per configured type, group set and version.

Type metadata is read from the configured Go packages (struct fields with
their json and serializer tags) and YAML manifests. Every function is
written to <output.dir>/<functionId>.gen.go together with index.json;
generated files that are no longer configured are removed.

Examples:
  dtogen generate                      # Generate into output.dir
  dtogen generate -o internal/dto      # Override the output directory
  dtogen generate --dry-run            # List functions without writing
  dtogen generate --watch              # Regenerate when inputs change

With --watch, the config file, the manifests and the directories of the
configured packages are watched. Package directories are resolved once,
when the watch starts.`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory (default: output.dir)")
	GenerateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Generate without writing files")
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate when the config, manifests or source packages change")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if err := generateOnce(cmd.Context(), s, verbosity); err != nil {
		return err
	}
	if !generateWatch {
		return nil
	}
	return watch(cmd.Context(), s, verbosity)
}

func generateOnce(ctx context.Context, s *session, verbosity int) error {
	if len(s.cfg.Types) == 0 {
		pterm.Warning.Println("No types configured - add [[types]] entries to " + config.FileName)
		return nil
	}

	res, err := s.generate(ctx)
	if err != nil {
		return err
	}

	if generateDryRun {
		pterm.Warning.Println("DRY RUN MODE: no files written")
		if logger.ShouldLogTrace(verbosity) {
			for _, a := range res.Artifacts {
				pterm.DefaultSection.Println(a.FileName())
				pterm.Println(string(a.Body))
			}
		}
		return printArtifacts(res)
	}

	dir := s.outputDir(generateOutput)
	if err := artifact.NewWriter(dir).WriteAll(ctx, res.Artifacts); err != nil {
		return err
	}
	pterm.Success.Printfln("Generated %d serializers in %s (%s)", len(res.Artifacts), dir, res.Duration.Round(time.Millisecond))
	return nil
}

func printArtifacts(res *driver.Result) error {
	data := pterm.TableData{{"Function", "Type", "Version", "Groups", "Bytes"}}
	for _, a := range res.Artifacts {
		data = append(data, []string{
			a.FunctionID,
			a.SourceTypeID.Short(),
			a.Request.Version,
			fmt.Sprint(a.Request.Groups),
			fmt.Sprint(len(a.Body)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// sourceDirs lists the directories of the configured Go packages, without
// the output directory: writing serializers must not trigger a regeneration.
func sourceDirs(ctx context.Context, s *session) ([]string, error) {
	dirs, err := goload.NewLoader(s.dir).Dirs(ctx, s.cfg.Source.Packages...)
	if err != nil {
		return nil, err
	}
	out, err := filepath.Abs(s.outputDir(generateOutput))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve output directory")
	}

	kept := dirs[:0]
	for _, dir := range dirs {
		if dir != out {
			kept = append(kept, dir)
		}
	}
	return kept, nil
}

// watch regenerates on every change of the config file, the manifests or the
// Go files of the configured packages until interrupted.
func watch(ctx context.Context, s *session, verbosity int) error {
	if s.path == "" {
		return errors.WithHint(
			errors.NewConfigError("--watch needs a config file"),
			"run dtogen init or pass --config")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cw, err := config.NewConfigWatcher(s.path)
	if err != nil {
		return err
	}
	defer cw.Stop()

	for _, m := range s.cfg.Source.Manifests {
		if !filepath.IsAbs(m) {
			m = filepath.Join(s.dir, m)
		}
		if err := cw.Watch(m); err != nil {
			return err
		}
	}

	dirs, err := sourceDirs(ctx, s)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := cw.Watch(dir); err != nil {
			return err
		}
	}

	cw.OnReload(func(cfg *config.Config) error {
		next := &session{cfg: cfg, path: s.path, dir: s.dir}
		if err := generateOnce(ctx, next, verbosity); err != nil {
			PrintError(err)
			return err
		}
		return nil
	})
	cw.Start()

	logger.ComponentLogger("watch").Infow("Watching for changes",
		logger.FieldFile, s.path,
		"package_dirs", len(dirs),
		"manifests", len(s.cfg.Source.Manifests))
	pterm.Info.Printfln("Watching %s (Ctrl+C to stop)", s.path)
	<-ctx.Done()
	return nil
}
