// Package release exposes a directory of staged binaries as a release:
// manifest, checksums and artifact paths for the distribution server.
package release

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"llamapack/internal/manifest"
	"llamapack/pkg/types"
)

// Store serves release data for one binaries directory. The manifest is
// generated on first use and cached; Refresh drops the cache after the
// directory changes.
type Store struct {
	dir     string
	version string
	start   time.Time

	mu     sync.Mutex
	cached *types.Manifest
}

// NewStore returns a store over dir. version is used only when no
// manifest.json is present and one has to be generated on the fly.
func NewStore(dir, version string) *Store {
	return &Store{dir: dir, version: version, start: time.Now()}
}

// Manifest returns the release manifest: the manifest.json written at release
// time when present, otherwise one generated from the directory contents.
func (s *Store) Manifest() (types.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}
	var (
		m   types.Manifest
		err error
	)
	if p := filepath.Join(s.dir, manifest.ManifestName); fileExists(p) {
		m, err = manifest.Load(p)
	} else {
		m, err = manifest.Generate(s.dir, s.version)
	}
	if err != nil {
		return types.Manifest{}, err
	}
	s.cached = &m
	return m, nil
}

// Checksums returns the SHA256SUMS body for the release.
func (s *Store) Checksums() (string, error) {
	m, err := s.Manifest()
	if err != nil {
		return "", err
	}
	return manifest.ChecksumLines(m), nil
}

// Refresh drops the cached manifest.
func (s *Store) Refresh() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// ArtifactPath maps a manifest-relative path to an absolute file path,
// rejecting traversal outside the binaries directory.
func (s *Store) ArtifactPath(rel string) (string, error) {
	rel = filepath.ToSlash(rel)
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
		return "", fmt.Errorf("invalid artifact path %q", rel)
	}
	abs := filepath.Join(s.dir, filepath.FromSlash(rel))
	fi, err := os.Stat(abs)
	if err != nil || fi.IsDir() {
		return "", fmt.Errorf("artifact not found: %s", rel)
	}
	return abs, nil
}

// Status summarizes the release for GET /status.
func (s *Store) Status() types.StatusResponse {
	st := types.StatusResponse{
		UptimeSeconds:  int64(time.Since(s.start).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	if m, err := s.Manifest(); err == nil {
		st.Version = m.Version
		st.Artifacts = len(m.Artifacts)
	}
	return st
}

// Ready reports whether the manifest can be produced.
func (s *Store) Ready() bool {
	_, err := s.Manifest()
	return err == nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
