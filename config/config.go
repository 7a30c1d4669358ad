// Package config loads the dtogen configuration.
//
// Configuration lives in a TOML file named dtogen.toml, found by walking up
// from the working directory. Every key can be overridden from the
// environment with the DTOGEN_ prefix (generator.workers becomes
// DTOGEN_GENERATOR_WORKERS).
package config

import (
	"github.com/teranos/dtogen/codegen"
	"github.com/teranos/dtogen/shape"
)

// Config is the complete dtogen configuration
type Config struct {
	Output    OutputConfig     `mapstructure:"output" toml:"output"`
	Generator GeneratorConfig  `mapstructure:"generator" toml:"generator"`
	Source    SourceConfig     `mapstructure:"source" toml:"source"`
	Types     []TypeConfig     `mapstructure:"types" toml:"types"`
	Overrides []OverrideConfig `mapstructure:"overrides" toml:"overrides,omitempty"`
}

// OutputConfig configures where generated files go
type OutputConfig struct {
	Dir     string `mapstructure:"dir" toml:"dir"`         // created if absent
	Package string `mapstructure:"package" toml:"package"` // package clause of generated files
}

// GeneratorConfig tunes the generation walk
type GeneratorConfig struct {
	MaxDepth   int    `mapstructure:"max_depth" toml:"max_depth"`     // recursion threshold per type (default: 1)
	DateFormat string `mapstructure:"date_format" toml:"date_format"` // empty = shape.DefaultDateFormat
	Workers    int    `mapstructure:"workers" toml:"workers"`         // concurrent requests (default: 4)
}

// SourceConfig configures where type metadata is read from
type SourceConfig struct {
	Packages        []string `mapstructure:"packages" toml:"packages"`                 // go/packages patterns
	Manifests       []string `mapstructure:"manifests" toml:"manifests"`               // YAML manifests, later files win
	DefaultVersions []string `mapstructure:"default_versions" toml:"default_versions"` // appended to every combination
}

// TypeConfig requests serializers for one type
type TypeConfig struct {
	ID           string        `mapstructure:"id" toml:"id"`
	Combinations []Combination `mapstructure:"combinations" toml:"combinations,omitempty"`
}

// Combination is one group set and the versions generated for it
type Combination struct {
	Groups   []string `mapstructure:"groups" toml:"groups,omitempty"`
	Versions []string `mapstructure:"versions" toml:"versions,omitempty"` // "" = unversioned
}

// OverrideConfig adds or replaces an entry of the override registry
type OverrideConfig struct {
	Type      string   `mapstructure:"type" toml:"type"`
	Kind      string   `mapstructure:"kind" toml:"kind"` // variants | attribute
	Variants  []string `mapstructure:"variants" toml:"variants,omitempty"`
	Attribute string   `mapstructure:"attribute" toml:"attribute,omitempty"`
}

// Defaults
const (
	FileName         = "dtogen.toml"
	DefaultOutputDir = "serializers"
	DefaultPackage   = "serializers"
	DefaultWorkers   = 4
	DefaultSource    = "./..."
)

// Requests expands the configured types into generation requests.
//
// A type without combinations gets one combination with no groups. A
// combination without versions generates the unversioned function. Source
// default versions are appended to every combination.
func (c *Config) Requests() []shape.GenerationRequest {
	var reqs []shape.GenerationRequest
	for _, t := range c.Types {
		combos := t.Combinations
		if len(combos) == 0 {
			combos = []Combination{{}}
		}
		for _, combo := range combos {
			for _, v := range c.versions(combo) {
				reqs = append(reqs, shape.GenerationRequest{
					TypeID:  shape.TypeID(t.ID),
					Version: v,
					Groups:  append([]string(nil), combo.Groups...),
				})
			}
		}
	}
	return reqs
}

func (c *Config) versions(combo Combination) []string {
	versions := combo.Versions
	if len(versions) == 0 {
		versions = []string{""}
	}

	seen := make(map[string]bool)
	var out []string
	for _, v := range append(append([]string(nil), versions...), c.Source.DefaultVersions...) {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Registry returns the default override registry with the configured
// overrides applied on top.
func (c *Config) Registry() (*codegen.Registry, error) {
	r := codegen.DefaultRegistry()
	for _, o := range c.Overrides {
		kind, err := codegen.ParseKind(o.Kind)
		if err != nil {
			return nil, err
		}
		override := codegen.Override{Kind: kind, Attribute: o.Attribute}
		for _, v := range o.Variants {
			override.Variants = append(override.Variants, shape.TypeID(v))
		}
		if err := r.Register(shape.TypeID(o.Type), override); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Options returns the generator options.
func (c *Config) Options() codegen.Options {
	return codegen.Options{
		MaxDepth:   c.Generator.MaxDepth,
		DateFormat: c.Generator.DateFormat,
	}
}
