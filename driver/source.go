package driver

import (
	"context"
	"path/filepath"
	"time"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/logger"
	"github.com/teranos/dtogen/metadata"
	"github.com/teranos/dtogen/metadata/goload"
	"github.com/teranos/dtogen/metadata/manifest"
)

// Sources names where type metadata comes from.
type Sources struct {
	// Dir anchors package patterns and relative manifest paths.
	Dir string

	Packages  []string
	Manifests []string
}

// LoadCatalog loads the Go packages, then the manifests. Manifest
// declarations win over package declarations of the same type.
func LoadCatalog(ctx context.Context, src Sources) (*metadata.Catalog, error) {
	start := time.Now()
	log := logger.ComponentLogger("driver")

	catalog, err := goload.NewLoader(src.Dir).Load(ctx, src.Packages...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	paths := make([]string, 0, len(src.Manifests))
	for _, p := range src.Manifests {
		if !filepath.IsAbs(p) && src.Dir != "" {
			p = filepath.Join(src.Dir, p)
		}
		paths = append(paths, p)
	}
	declared, err := manifest.LoadAll(paths...)
	if err != nil {
		return nil, err
	}
	catalog.Merge(declared)

	log.Infow("Metadata loaded",
		logger.FieldCount, catalog.Len(),
		"packages", len(src.Packages),
		"manifests", len(paths),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return catalog, nil
}
