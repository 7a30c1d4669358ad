package metadata

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/shape"
)

// Reducer narrows the variations of one property.
type Reducer interface {
	Reduce(key string, vs []Variation) []Variation
	String() string
}

// Pipeline is an ordered list of reducers.
type Pipeline []Reducer

// Apply runs every reducer in order, stopping early once nothing is left.
func (p Pipeline) Apply(key string, vs []Variation) []Variation {
	for _, r := range p {
		if len(vs) == 0 {
			return nil
		}
		vs = r.Reduce(key, vs)
	}
	return vs
}

func (p Pipeline) String() string {
	names := make([]string, len(p))
	for i, r := range p {
		names[i] = r.String()
	}
	return strings.Join(names, " > ")
}

// PreferredPipeline picks the preferred representative and then the best
// remaining candidate, ignoring groups and versions.
func PreferredPipeline() Pipeline {
	return Pipeline{PreferredReducer{}, TakeBestReducer{}}
}

// PipelineFor returns the reduction pipeline for a request:
//   - unversioned, no groups: preferred, best
//   - unversioned with groups: groups, preferred, best
//   - versioned: version, groups, best
//
// A pinned version skips the preferred step.
func PipelineFor(req shape.GenerationRequest) (Pipeline, error) {
	if !req.Versioned() {
		if len(req.Groups) == 0 {
			return PreferredPipeline(), nil
		}
		return Pipeline{GroupReducer{Groups: req.Groups}, PreferredReducer{}, TakeBestReducer{}}, nil
	}

	vr, err := NewVersionReducer(req.Version)
	if err != nil {
		return nil, err
	}
	p := Pipeline{vr}
	if len(req.Groups) > 0 {
		p = append(p, GroupReducer{Groups: req.Groups})
	}
	return append(p, TakeBestReducer{}), nil
}

// GroupReducer keeps variations that share at least one group.
type GroupReducer struct {
	Groups []string
}

func (r GroupReducer) Reduce(_ string, vs []Variation) []Variation {
	var out []Variation
	for _, v := range vs {
		if v.InGroup(r.Groups) {
			out = append(out, v)
		}
	}
	return out
}

func (r GroupReducer) String() string { return "groups(" + strings.Join(r.Groups, ",") + ")" }

// VersionReducer keeps variations whose [since, until] range contains the
// requested version. Both bounds are inclusive and optional.
type VersionReducer struct {
	raw     string
	version *semver.Version
}

// NewVersionReducer parses v leniently ("v1", "1.2", "1.2.3").
func NewVersionReducer(v string) (VersionReducer, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return VersionReducer{}, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "version %q: %v", v, err),
			"versions must be semantic versions such as v1, 1.2 or 2.0.1")
	}
	return VersionReducer{raw: v, version: parsed}, nil
}

func (r VersionReducer) Reduce(_ string, vs []Variation) []Variation {
	var out []Variation
	for _, v := range vs {
		if r.contains(v) {
			out = append(out, v)
		}
	}
	return out
}

func (r VersionReducer) contains(v Variation) bool {
	if v.Since != "" {
		since, err := semver.NewVersion(v.Since)
		if err != nil || r.version.LessThan(since) {
			return false
		}
	}
	if v.Until != "" {
		until, err := semver.NewVersion(v.Until)
		if err != nil || r.version.GreaterThan(until) {
			return false
		}
	}
	return true
}

func (r VersionReducer) String() string { return "version(" + r.raw + ")" }

// PreferredReducer keeps only preferred variations when there are any.
type PreferredReducer struct{}

func (PreferredReducer) Reduce(_ string, vs []Variation) []Variation {
	var out []Variation
	for _, v := range vs {
		if v.Preferred {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return vs
	}
	return out
}

func (PreferredReducer) String() string { return "preferred" }

// TakeBestReducer keeps a single variation: the one whose Go name matches
// the serialized key (case-insensitively), else the first.
type TakeBestReducer struct{}

func (TakeBestReducer) Reduce(key string, vs []Variation) []Variation {
	if len(vs) <= 1 {
		return vs
	}
	for _, v := range vs {
		if strings.EqualFold(v.Name, key) {
			return []Variation{v}
		}
	}
	return vs[:1]
}

func (TakeBestReducer) String() string { return "best" }
