package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dtogen/shape"
)

func sample(id, body string) Artifact {
	return Artifact{
		FunctionID:   id,
		SourceTypeID: "example.com/shop.Order",
		Request:      shape.GenerationRequest{TypeID: "example.com/shop.Order", Version: "1.0", Groups: []string{"public"}},
		Body:         []byte(body),
	}
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "gen")
	w := NewWriter(dir)

	path, err := w.Write(context.Background(), sample("serialize_a", "package gen\n"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "serialize_a.gen.go"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package gen\n", string(content))
}

func TestWriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWriter(t.TempDir()).Write(ctx, sample("serialize_a", "x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteAllIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	artifacts := []Artifact{sample("serialize_b", "b"), sample("serialize_a", "a")}

	require.NoError(t, w.WriteAll(context.Background(), artifacts))
	first, err := os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)

	require.NoError(t, w.WriteAll(context.Background(), artifacts))
	second, err := os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	idx, err := ReadIndex(dir)
	require.NoError(t, err)
	require.Len(t, idx.Artifacts, 2)
	assert.Equal(t, "serialize_a", idx.Artifacts[0].FunctionID)
	assert.Equal(t, IndexEntry{
		FunctionID: "serialize_b",
		File:       "serialize_b.gen.go",
		TypeID:     "example.com/shop.Order",
		Version:    "1.0",
		Groups:     []string{"public"},
		Size:       1,
	}, idx.Artifacts[1])
}

func TestWriteAllPrunesStaleArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	require.NoError(t, w.WriteAll(context.Background(), []Artifact{sample("serialize_old", "old"), sample("serialize_a", "a")}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helpers.go"), []byte("package gen\n"), 0644))

	require.NoError(t, w.WriteAll(context.Background(), []Artifact{sample("serialize_a", "a")}))

	assert.NoFileExists(t, filepath.Join(dir, "serialize_old.gen.go"))
	assert.FileExists(t, filepath.Join(dir, "serialize_a.gen.go"))
	assert.FileExists(t, filepath.Join(dir, "helpers.go"), "hand-written files are kept")
}

func TestPruneMissingDirectory(t *testing.T) {
	removed, err := NewWriter(filepath.Join(t.TempDir(), "absent")).Prune(nil)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestCompareDirectories(t *testing.T) {
	tests := []struct {
		name      string
		generated []Artifact
		existing  []Artifact
		want      CheckResult
	}{
		{
			name:      "up to date",
			generated: []Artifact{sample("serialize_a", "a")},
			existing:  []Artifact{sample("serialize_a", "a")},
			want:      CheckResult{UpToDate: true},
		},
		{
			name:      "missing",
			generated: []Artifact{sample("serialize_a", "a"), sample("serialize_b", "b")},
			existing:  []Artifact{sample("serialize_a", "a")},
			want:      CheckResult{Missing: []string{"serialize_b.gen.go"}, Differing: []string{IndexFile}},
		},
		{
			name:      "stale",
			generated: []Artifact{sample("serialize_a", "a")},
			existing:  []Artifact{sample("serialize_a", "a"), sample("serialize_b", "b")},
			want:      CheckResult{Extra: []string{"serialize_b.gen.go"}, Differing: []string{IndexFile}},
		},
		{
			name:      "differs",
			generated: []Artifact{sample("serialize_a", "a")},
			existing:  []Artifact{sample("serialize_a", "A")},
			want:      CheckResult{Differing: []string{"serialize_a.gen.go"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir, existingDir := t.TempDir(), t.TempDir()
			require.NoError(t, NewWriter(tempDir).WriteAll(context.Background(), tt.generated))
			require.NoError(t, NewWriter(existingDir).WriteAll(context.Background(), tt.existing))

			got, err := CompareDirectories(tempDir, existingDir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestCompareDirectoriesMissingExisting(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, NewWriter(tempDir).WriteAll(context.Background(), []Artifact{sample("serialize_a", "a")}))

	got, err := CompareDirectories(tempDir, filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.False(t, got.UpToDate)
	assert.Equal(t, []string{IndexFile + " (missing)", "serialize_a.gen.go (missing)"}, got.Problems())
}
