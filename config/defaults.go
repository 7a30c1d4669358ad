package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/dtogen/codegen"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.package", DefaultPackage)

	v.SetDefault("generator.max_depth", codegen.DefaultMaxDepth)
	v.SetDefault("generator.date_format", "")
	v.SetDefault("generator.workers", DefaultWorkers)

	v.SetDefault("source.packages", []string{DefaultSource})
	v.SetDefault("source.manifests", []string{})
	v.SetDefault("source.default_versions", []string{})
}

// Sample returns the configuration written by dtogen init: the sample
// order, unversioned and for the public group at version 1.0.
func Sample() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always unmarshal
		panic(err)
	}
	cfg.Source.Packages = []string{"github.com/teranos/dtogen/model/..."}
	cfg.Types = []TypeConfig{{
		ID: "github.com/teranos/dtogen/model/orders.Order",
		Combinations: []Combination{
			{Versions: []string{""}},
			{Groups: []string{"public"}, Versions: []string{"1.0"}},
		},
	}}
	return cfg
}
