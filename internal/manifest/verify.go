package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llamapack/pkg/types"
)

// Report lists the differences between a manifest and a binaries directory.
type Report struct {
	Missing    []string // in manifest, not on disk
	Mismatched []string // on disk with a different digest or size
	Extra      []string // on disk, not in manifest
}

// Clean reports whether the directory matches the manifest exactly.
func (r Report) Clean() bool {
	return len(r.Missing) == 0 && len(r.Mismatched) == 0 && len(r.Extra) == 0
}

func (r Report) String() string {
	if r.Clean() {
		return "ok"
	}
	var parts []string
	if len(r.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing: %s", strings.Join(r.Missing, ", ")))
	}
	if len(r.Mismatched) > 0 {
		parts = append(parts, fmt.Sprintf("mismatched: %s", strings.Join(r.Mismatched, ", ")))
	}
	if len(r.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("extra: %s", strings.Join(r.Extra, ", ")))
	}
	return strings.Join(parts, "; ")
}

// Verify re-hashes binDir against m and reports missing, mismatched and extra
// files. An error is returned only for I/O failures, never for differences.
func Verify(binDir string, m types.Manifest) (Report, error) {
	var rep Report
	root, err := filepath.Abs(binDir)
	if err != nil {
		return rep, err
	}
	inManifest := make(map[string]types.Artifact, len(m.Artifacts))
	for _, a := range m.Artifacts {
		inManifest[a.Path] = a
	}
	seen := map[string]bool{}
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if name == ManifestName || name == ChecksumsName || strings.HasPrefix(name, ".") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		want, ok := inManifest[rel]
		if !ok {
			rep.Extra = append(rep.Extra, rel)
			return nil
		}
		seen[rel] = true
		if info.Size() != want.Size {
			rep.Mismatched = append(rep.Mismatched, rel)
			return nil
		}
		sum, err := FileSHA256(path)
		if err != nil {
			return err
		}
		if sum != want.SHA256 {
			rep.Mismatched = append(rep.Mismatched, rel)
		}
		return nil
	})
	if err != nil {
		return rep, err
	}
	for _, a := range m.Artifacts {
		if !seen[a.Path] {
			rep.Missing = append(rep.Missing, a.Path)
		}
	}
	sort.Strings(rep.Missing)
	sort.Strings(rep.Mismatched)
	sort.Strings(rep.Extra)
	return rep, nil
}
