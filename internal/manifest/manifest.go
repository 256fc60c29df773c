// Package manifest builds and verifies the JSON release manifest describing
// the prebuilt binaries under bin/<os>/<arch>.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"llamapack/pkg/types"
)

// ManifestName and ChecksumsName are the output filenames emitted next to the
// binaries. Both are excluded from the artifact scan.
const (
	ManifestName  = "manifest.json"
	ChecksumsName = "SHA256SUMS"
)

// Generate scans binDir recursively and returns a manifest for every regular
// file found, sorted by relative path. OS/arch are taken from the first two
// path segments when present.
func Generate(binDir, version string) (types.Manifest, error) {
	m := types.Manifest{Version: version, GeneratedAt: time.Now().Unix()}
	root, err := filepath.Abs(binDir)
	if err != nil {
		return m, fmt.Errorf("abs path: %w", err)
	}
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
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
		sum, err := FileSHA256(path)
		if err != nil {
			return err
		}
		a := types.Artifact{Path: rel, Size: info.Size(), SHA256: sum}
		if segs := strings.Split(rel, "/"); len(segs) >= 3 {
			a.OS, a.Arch = segs[0], segs[1]
		}
		m.Artifacts = append(m.Artifacts, a)
		return nil
	})
	if err != nil {
		return m, fmt.Errorf("scan %s: %w", binDir, err)
	}
	if len(m.Artifacts) == 0 {
		return m, fmt.Errorf("no artifacts found under %s", binDir)
	}
	sort.Slice(m.Artifacts, func(i, j int) bool { return m.Artifacts[i].Path < m.Artifacts[j].Path })
	return m, nil
}

// FileSHA256 returns the lowercase hex SHA-256 digest of the file contents.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Write emits the manifest as indented JSON with a trailing newline.
func Write(m types.Manifest, path string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// Load reads a manifest previously written by Write.
func Load(path string) (types.Manifest, error) {
	var m types.Manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// ChecksumLines renders the sha256sum-compatible checksum file body:
// "<hex>  <relpath>\n" per artifact.
func ChecksumLines(m types.Manifest) string {
	var sb strings.Builder
	for _, a := range m.Artifacts {
		sb.WriteString(a.SHA256)
		sb.WriteString("  ")
		sb.WriteString(a.Path)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteChecksums emits the SHA256SUMS file for the manifest.
func WriteChecksums(m types.Manifest, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(ChecksumLines(m)), 0o644)
}
