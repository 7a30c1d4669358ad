// Package driver runs a generation: it turns configured requests into
// rendered artifacts.
//
// Requests are independent. Each one resolves its shape, walks it into a
// function and renders the function to source. A run fails as a whole on the
// first error.
package driver

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/dtogen/artifact"
	"github.com/teranos/dtogen/codegen"
	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/ir"
	"github.com/teranos/dtogen/logger"
	"github.com/teranos/dtogen/metadata"
	"github.com/teranos/dtogen/shape"
)

// DefaultWorkers bounds concurrent requests when Options.Workers is unset.
const DefaultWorkers = 4

// Renderer turns a function into source.
type Renderer interface {
	Render(fn *ir.Function) ([]byte, error)
}

// Options configure a driver.
type Options struct {
	Workers  int
	Registry *codegen.Registry
	Codegen  codegen.Options
}

// Driver generates artifacts for requests.
type Driver struct {
	provider  codegen.Provider
	generator *codegen.Generator
	renderer  Renderer
	workers   int
	logger    *zap.SugaredLogger
}

// New returns a driver.
func New(provider codegen.Provider, renderer Renderer, opts Options) *Driver {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Driver{
		provider:  provider,
		generator: codegen.New(provider, opts.Registry, opts.Codegen),
		renderer:  renderer,
		workers:   workers,
		logger:    logger.ComponentLogger("driver"),
	}
}

// Result is the outcome of a run.
type Result struct {
	RunID     string
	Artifacts []artifact.Artifact
	Duration  time.Duration
}

// Run generates every request and returns the artifacts sorted by function
// identifier. Identifiers are checked for uniqueness, ignoring case, before
// any work starts.
func (d *Driver) Run(ctx context.Context, reqs []shape.GenerationRequest) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logger.WithComponent(logger.WithRunID(ctx, runID), "driver")
	log := logger.LoggerFromContext(ctx)

	if err := CheckIdentifiers(reqs); err != nil {
		return nil, err
	}

	log.Infow("Generation started",
		logger.FieldCount, len(reqs),
		logger.FieldWorkers, d.workers,
	)

	artifacts := make([]artifact.Artifact, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := d.Generate(gctx, req)
			if err != nil {
				return err
			}
			artifacts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorw("Generation failed", logger.FieldError, err)
		return nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].FunctionID < artifacts[j].FunctionID
	})

	res := &Result{RunID: runID, Artifacts: artifacts, Duration: time.Since(start)}
	log.Infow("Generation finished",
		logger.FieldCount, len(artifacts),
		logger.FieldDurationMS, res.Duration.Milliseconds(),
	)
	return res, nil
}

// Generate produces the artifact of a single request.
func (d *Driver) Generate(ctx context.Context, req shape.GenerationRequest) (artifact.Artifact, error) {
	log := logger.ChildLogger(logger.LoggerFromContext(ctx),
		logger.FieldTypeID, string(req.TypeID),
		logger.FieldVersion, req.Version,
		logger.FieldGroups, req.Groups,
	)

	pipeline, err := metadata.PipelineFor(req)
	if err != nil {
		return artifact.Artifact{}, wrapRequest(err, req)
	}

	cs, err := d.provider.Resolve(ctx, req.TypeID, pipeline)
	if err != nil {
		return artifact.Artifact{}, wrapRequest(err, req)
	}

	fn, err := d.generator.BuildFunction(ctx, cs, req)
	if err != nil {
		return artifact.Artifact{}, wrapRequest(err, req)
	}

	body, err := d.renderer.Render(fn)
	if err != nil {
		return artifact.Artifact{}, wrapRequest(err, req)
	}

	log.Debugw("Function generated",
		logger.FieldFunctionID, fn.Name,
		"pipeline", pipeline.String(),
		"statements", ir.Count(fn.Body),
		logger.FieldSize, len(body),
	)
	return artifact.Artifact{
		FunctionID:   fn.Name,
		SourceTypeID: req.TypeID,
		Request:      req,
		Body:         body,
	}, nil
}

// CheckIdentifiers fails with ErrDuplicateIdentifier when two requests map to
// function identifiers that differ only in case.
func CheckIdentifiers(reqs []shape.GenerationRequest) error {
	seen := make(map[string]shape.GenerationRequest, len(reqs))
	for _, req := range reqs {
		key := strings.ToLower(codegen.FunctionID(req))
		if prev, ok := seen[key]; ok {
			return errors.WithHint(
				errors.WithDetailf(
					errors.Wrapf(errors.ErrDuplicateIdentifier, "%s", codegen.FunctionID(req)),
					"requests: %s and %s", prev, req),
				"remove the repeated type, group set or version from the configuration")
		}
		seen[key] = req
	}
	return nil
}

func wrapRequest(err error, req shape.GenerationRequest) error {
	return errors.Wrapf(err, "generate %s", req)
}
