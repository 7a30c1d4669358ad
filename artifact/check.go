package artifact

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/dtogen/errors"
)

// CheckResult holds the result of comparing freshly generated artifacts with
// the committed ones
type CheckResult struct {
	UpToDate  bool
	Missing   []string // generated but not committed
	Extra     []string // committed but no longer generated
	Differing []string
}

// Problems returns every out-of-date file with its reason, sorted by name.
func (r *CheckResult) Problems() []string {
	var out []string
	for _, f := range r.Missing {
		out = append(out, f+" (missing)")
	}
	for _, f := range r.Extra {
		out = append(out, f+" (stale)")
	}
	for _, f := range r.Differing {
		out = append(out, f+" (differs)")
	}
	sort.Strings(out)
	return out
}

// CompareDirectories compares the artifacts generated into tempDir with the
// ones in existingDir. Only generated files and the index are considered.
func CompareDirectories(tempDir, existingDir string) (*CheckResult, error) {
	generated, err := listArtifacts(tempDir)
	if err != nil {
		return nil, err
	}
	existing, err := listArtifacts(existingDir)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	for _, name := range generated {
		if !contains(existing, name) {
			result.Missing = append(result.Missing, name)
			continue
		}
		different, err := filesAreDifferent(filepath.Join(tempDir, name), filepath.Join(existingDir, name))
		if err != nil {
			return nil, err
		}
		if different {
			result.Differing = append(result.Differing, name)
		}
	}
	for _, name := range existing {
		if !contains(generated, name) {
			result.Extra = append(result.Extra, name)
		}
	}

	result.UpToDate = len(result.Missing) == 0 && len(result.Extra) == 0 && len(result.Differing) == 0
	return result, nil
}

// listArtifacts returns the sorted artifact file names of dir. A missing
// directory has none.
func listArtifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); strings.HasSuffix(name, Ext) || name == IndexFile {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func contains(sorted []string, name string) bool {
	i := sort.SearchStrings(sorted, name)
	return i < len(sorted) && sorted[i] == name
}

func filesAreDifferent(file1, file2 string) (bool, error) {
	content1, err := os.ReadFile(file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := os.ReadFile(file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}
	return !bytes.Equal(content1, content2), nil
}
