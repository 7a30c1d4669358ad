// Package artifact persists generated serializers.
//
// Each function is written to <functionId>.gen.go in the output directory,
// next to an index.json listing every artifact and the request it answers.
package artifact

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/logger"
	"github.com/teranos/dtogen/shape"
)

const (
	// Ext ends every generated file name.
	Ext = ".gen.go"

	// IndexFile names the artifact index in the output directory.
	IndexFile = "index.json"

	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Artifact is one rendered function.
type Artifact struct {
	FunctionID   string
	SourceTypeID shape.TypeID
	Request      shape.GenerationRequest
	Body         []byte
}

// FileName returns the artifact's file name inside the output directory.
func (a Artifact) FileName() string { return a.FunctionID + Ext }

// Index lists the artifacts of one run, sorted by function identifier.
type Index struct {
	Artifacts []IndexEntry `json:"artifacts"`
}

// IndexEntry describes one artifact.
type IndexEntry struct {
	FunctionID string   `json:"function_id"`
	File       string   `json:"file"`
	TypeID     string   `json:"type_id"`
	Version    string   `json:"version,omitempty"`
	Groups     []string `json:"groups,omitempty"`
	Size       int      `json:"size"`
}

// NewIndex builds the index of artifacts.
func NewIndex(artifacts []Artifact) *Index {
	idx := &Index{Artifacts: make([]IndexEntry, 0, len(artifacts))}
	for _, a := range artifacts {
		idx.Artifacts = append(idx.Artifacts, IndexEntry{
			FunctionID: a.FunctionID,
			File:       a.FileName(),
			TypeID:     string(a.SourceTypeID),
			Version:    a.Request.Version,
			Groups:     a.Request.Groups,
			Size:       len(a.Body),
		})
	}
	sort.Slice(idx.Artifacts, func(i, j int) bool {
		return idx.Artifacts[i].FunctionID < idx.Artifacts[j].FunctionID
	})
	return idx
}

// ReadIndex reads the index of dir.
func ReadIndex(dir string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", IndexFile)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", filepath.Join(dir, IndexFile))
	}
	return &idx, nil
}

// Writer persists artifacts into one directory. Writing the same artifact
// twice leaves the directory unchanged.
type Writer struct {
	dir    string
	logger *zap.SugaredLogger
}

// NewWriter returns a writer for dir. The directory is created on first
// write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, logger: logger.ComponentLogger("artifact")}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write persists a single artifact and returns its path.
func (w *Writer) Write(ctx context.Context, a Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, DefaultDirPermissions); err != nil {
		return "", errors.Wrapf(err, "failed to create output directory %s", w.dir)
	}

	path := filepath.Join(w.dir, a.FileName())
	if err := os.WriteFile(path, a.Body, DefaultFilePermissions); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}

	logger.LoggerFromContext(ctx).Debugw("Artifact written",
		logger.FieldFunctionID, a.FunctionID,
		logger.FieldFile, path,
		logger.FieldSize, len(a.Body),
	)
	return path, nil
}

// WriteAll persists every artifact, writes the index and removes generated
// files that are no longer part of the set.
func (w *Writer) WriteAll(ctx context.Context, artifacts []Artifact) error {
	for _, a := range artifacts {
		if _, err := w.Write(ctx, a); err != nil {
			return err
		}
	}
	if err := w.WriteIndex(artifacts); err != nil {
		return err
	}
	removed, err := w.Prune(artifacts)
	if err != nil {
		return err
	}

	w.logger.Infow("Artifacts persisted",
		logger.FieldDir, w.dir,
		logger.FieldCount, len(artifacts),
		"removed", len(removed),
	)
	return nil
}

// WriteIndex writes index.json for artifacts.
func (w *Writer) WriteIndex(artifacts []Artifact) error {
	data, err := json.MarshalIndent(NewIndex(artifacts), "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal artifact index")
	}
	if err := os.MkdirAll(w.dir, DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", w.dir)
	}

	path := filepath.Join(w.dir, IndexFile)
	if err := os.WriteFile(path, append(data, '\n'), DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Prune deletes generated files of dir that are not in keep and returns the
// removed file names. Files without the generated extension are left alone.
func (w *Writer) Prune(keep []Artifact) ([]string, error) {
	wanted := make(map[string]bool, len(keep))
	for _, a := range keep {
		wanted[a.FileName()] = true
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to list %s", w.dir)
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, Ext) || wanted[name] {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, name)); err != nil {
			return removed, errors.Wrapf(err, "failed to remove stale %s", name)
		}
		w.logger.Debugw("Stale artifact removed", logger.FieldFile, name)
		removed = append(removed, name)
	}
	return removed, nil
}
