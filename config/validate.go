package config

import (
	"go/token"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/dtogen/codegen"
	"github.com/teranos/dtogen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.NewConfigError("output.dir cannot be empty")
	}
	if !token.IsIdentifier(c.Output.Package) {
		return errors.NewConfigError("output.package must be a Go identifier, got %q", c.Output.Package)
	}

	// max_depth: 0 = never re-enter a type, negative = invalid
	if c.Generator.MaxDepth < 0 {
		return errors.NewConfigError("generator.max_depth must be >= 0, got %d", c.Generator.MaxDepth)
	}
	if c.Generator.Workers <= 0 {
		return errors.NewConfigError("generator.workers must be > 0, got %d", c.Generator.Workers)
	}

	if len(c.Source.Packages) == 0 && len(c.Source.Manifests) == 0 {
		return errors.WithHint(
			errors.NewConfigError("no metadata source configured"),
			"set source.packages or source.manifests")
	}
	for _, v := range c.Source.DefaultVersions {
		if err := validateVersion("source.default_versions", v); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(c.Types))
	for i, t := range c.Types {
		if strings.TrimSpace(t.ID) == "" {
			return errors.NewConfigError("types[%d].id cannot be empty", i)
		}
		if seen[t.ID] {
			return errors.NewConfigError("type %s configured twice", t.ID)
		}
		seen[t.ID] = true

		for j, combo := range t.Combinations {
			for _, g := range combo.Groups {
				if strings.TrimSpace(g) == "" {
					return errors.NewConfigError("types[%d].combinations[%d] has an empty group", i, j)
				}
			}
			for _, v := range combo.Versions {
				if err := validateVersion(t.ID, v); err != nil {
					return err
				}
			}
		}
	}

	for i, o := range c.Overrides {
		if strings.TrimSpace(o.Type) == "" {
			return errors.NewConfigError("overrides[%d].type cannot be empty", i)
		}
		if _, err := codegen.ParseKind(o.Kind); err != nil {
			return errors.Wrapf(err, "overrides[%d]", i)
		}
	}
	return nil
}

func validateVersion(owner, v string) error {
	if v == "" {
		return nil
	}
	if _, err := semver.NewVersion(v); err != nil {
		return errors.WithHint(
			errors.NewConfigError("%s: version %q: %v", owner, v, err),
			"versions are semantic versions such as 1.0 or 2.1.3")
	}
	return nil
}
