package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dtogen/codegen"
	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/shape"
)

const sampleTOML = `
[output]
dir = "gen"
package = "dto"

[generator]
max_depth = 2
date_format = "2006-01-02"
workers = 2

[source]
packages = ["github.com/teranos/dtogen/model/..."]
default_versions = ["2.0"]

[[types]]
id = "github.com/teranos/dtogen/model/orders.Order"

  [[types.combinations]]
  groups = ["public"]
  versions = ["", "1.0"]

[[types]]
id = "github.com/teranos/dtogen/model/customers.Customer"

[[overrides]]
type = "github.com/teranos/dtogen/model/orders.Delivery"
kind = "attribute"
attribute = "Code"
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, DefaultPackage, cfg.Output.Package)
	assert.Equal(t, codegen.DefaultMaxDepth, cfg.Generator.MaxDepth)
	assert.Equal(t, DefaultWorkers, cfg.Generator.Workers)
	assert.Equal(t, []string{DefaultSource}, cfg.Source.Packages)
	assert.Empty(t, cfg.Types)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleTOML)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gen", cfg.Output.Dir)
	assert.Equal(t, "dto", cfg.Output.Package)
	assert.Equal(t, 2, cfg.Generator.MaxDepth)
	assert.Equal(t, "2006-01-02", cfg.Generator.DateFormat)
	assert.Equal(t, 2, cfg.Generator.Workers)
	require.Len(t, cfg.Types, 2)
	require.Len(t, cfg.Types[0].Combinations, 1)
	assert.Equal(t, []string{"public"}, cfg.Types[0].Combinations[0].Groups)
	assert.Equal(t, []string{"", "1.0"}, cfg.Types[0].Combinations[0].Versions)
	require.Len(t, cfg.Overrides, 1)
	assert.Equal(t, "Code", cfg.Overrides[0].Attribute)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleTOML)
	t.Setenv("DTOGEN_GENERATOR_WORKERS", "7")

	cfg, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 7, cfg.Generator.Workers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "dtogen init")
}

func TestFind_WalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, sampleTOML)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, path, Find(nested))
	assert.Equal(t, "", Find(t.TempDir()))
}

func TestRequests(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleTOML)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	order := shape.TypeID("github.com/teranos/dtogen/model/orders.Order")
	customer := shape.TypeID("github.com/teranos/dtogen/model/customers.Customer")
	assert.Equal(t, []shape.GenerationRequest{
		{TypeID: order, Groups: []string{"public"}},
		{TypeID: order, Version: "1.0", Groups: []string{"public"}},
		{TypeID: order, Version: "2.0", Groups: []string{"public"}},
		{TypeID: customer},
		{TypeID: customer, Version: "2.0"},
	}, cfg.Requests())
}

func TestRequests_DeduplicatesVersions(t *testing.T) {
	cfg := &Config{
		Source: SourceConfig{DefaultVersions: []string{"1.0", ""}},
		Types: []TypeConfig{{
			ID:           "x.T",
			Combinations: []Combination{{Versions: []string{"1.0"}}},
		}},
	}

	assert.Equal(t, []shape.GenerationRequest{
		{TypeID: "x.T", Version: "1.0"},
		{TypeID: "x.T"},
	}, cfg.Requests())
}

func TestRegistry(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleTOML)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	r, err := cfg.Registry()
	require.NoError(t, err)

	o, ok := r.Lookup("github.com/teranos/dtogen/model/orders.Delivery")
	require.True(t, ok)
	assert.Equal(t, codegen.KindAttribute, o.Kind)
	assert.Equal(t, "Code", o.Attribute)

	_, ok = r.Lookup(codegen.CustomerInterfaceID)
	assert.True(t, ok, "default overrides stay registered")
}

func TestRegistry_InvalidOverride(t *testing.T) {
	cfg := &Config{Overrides: []OverrideConfig{{Type: "x.T", Kind: "variants"}}}

	_, err := cfg.Registry()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Output:    OutputConfig{Dir: "out", Package: "out"},
			Generator: GeneratorConfig{MaxDepth: 1, Workers: 1},
			Source:    SourceConfig{Packages: []string{"./..."}},
			Types:     []TypeConfig{{ID: "x.T"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero max depth is valid", mutate: func(c *Config) { c.Generator.MaxDepth = 0 }},
		{name: "empty dir", mutate: func(c *Config) { c.Output.Dir = " " }, wantErr: "output.dir"},
		{name: "bad package", mutate: func(c *Config) { c.Output.Package = "my-pkg" }, wantErr: "output.package"},
		{name: "negative max depth", mutate: func(c *Config) { c.Generator.MaxDepth = -1 }, wantErr: "max_depth"},
		{name: "zero workers", mutate: func(c *Config) { c.Generator.Workers = 0 }, wantErr: "workers"},
		{name: "no source", mutate: func(c *Config) { c.Source.Packages = nil }, wantErr: "no metadata source"},
		{name: "empty type id", mutate: func(c *Config) { c.Types[0].ID = "" }, wantErr: "types[0].id"},
		{name: "duplicate type", mutate: func(c *Config) { c.Types = append(c.Types, TypeConfig{ID: "x.T"}) }, wantErr: "configured twice"},
		{
			name:    "bad version",
			mutate:  func(c *Config) { c.Types[0].Combinations = []Combination{{Versions: []string{"one"}}} },
			wantErr: `version "one"`,
		},
		{
			name:    "empty group",
			mutate:  func(c *Config) { c.Types[0].Combinations = []Combination{{Groups: []string{""}}} },
			wantErr: "empty group",
		},
		{
			name:    "bad default version",
			mutate:  func(c *Config) { c.Source.DefaultVersions = []string{"v?"} },
			wantErr: "default_versions",
		},
		{
			name:    "bad override kind",
			mutate:  func(c *Config) { c.Overrides = []OverrideConfig{{Type: "x.T", Kind: "other"}} },
			wantErr: "override kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	require.NoError(t, Save(Sample(), path))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Sample().Requests(), cfg.Requests())
	assert.NoFileExists(t, path+".back1")

	require.NoError(t, Save(cfg, path))
	assert.FileExists(t, path+".back1")
}

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleTOML)

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	cw.debouncePeriod = 10 * time.Millisecond
	defer cw.Stop()

	reloaded := make(chan *Config, 4)
	cw.OnReload(func(cfg *Config) error {
		reloaded <- cfg
		return nil
	})
	cw.Start()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	writeConfig(t, dir, sampleTOML+"\n# edited\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "dto", cfg.Output.Package)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestConfigWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleTOML)
	models := filepath.Join(dir, "model")
	require.NoError(t, os.MkdirAll(models, 0755))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Stop()
	require.NoError(t, cw.Watch(models))

	assert.True(t, cw.relevant(path))
	assert.True(t, cw.relevant(filepath.Join(models, "orders.go")))
	assert.False(t, cw.relevant(filepath.Join(dir, "notes.md")))
	assert.False(t, cw.relevant(path+".back1"))
}
