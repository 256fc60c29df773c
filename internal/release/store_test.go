package release

import (
	"os"
	"path/filepath"
	"testing"

	"llamapack/internal/manifest"
)

func stage(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestManifestGeneratedOnTheFly(t *testing.T) {
	d := t.TempDir()
	stage(t, d, "linux/x64/libllama.so", "so")
	s := NewStore(d, "v9")
	m, err := s.Manifest()
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.Version != "v9" || len(m.Artifacts) != 1 {
		t.Fatalf("manifest = %+v", m)
	}
	if !s.Ready() {
		t.Fatalf("store should be ready")
	}
}

func TestManifestPrefersWrittenFile(t *testing.T) {
	d := t.TempDir()
	stage(t, d, "linux/x64/libllama.so", "so")
	m, err := manifest.Generate(d, "released-v1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := manifest.Write(m, filepath.Join(d, manifest.ManifestName)); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore(d, "ignored")
	got, err := s.Manifest()
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if got.Version != "released-v1" {
		t.Fatalf("version = %q, want released-v1", got.Version)
	}
}

func TestManifestCachedUntilRefresh(t *testing.T) {
	d := t.TempDir()
	stage(t, d, "linux/x64/libllama.so", "so")
	s := NewStore(d, "v1")
	if _, err := s.Manifest(); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	stage(t, d, "linux/x64/libggml.so", "so2")
	m, _ := s.Manifest()
	if len(m.Artifacts) != 1 {
		t.Fatalf("cache should hide the new file, got %d", len(m.Artifacts))
	}
	s.Refresh()
	m, _ = s.Manifest()
	if len(m.Artifacts) != 2 {
		t.Fatalf("refresh should pick up the new file, got %d", len(m.Artifacts))
	}
}

func TestArtifactPath(t *testing.T) {
	d := t.TempDir()
	stage(t, d, "linux/x64/libllama.so", "so")
	s := NewStore(d, "v1")

	p, err := s.ArtifactPath("linux/x64/libllama.so")
	if err != nil {
		t.Fatalf("artifact path: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("returned path not stat-able: %v", err)
	}
	for _, bad := range []string{"", "/etc/passwd", "../secret", "linux/../../x", "linux/x64/nope.so", "linux/x64"} {
		if _, err := s.ArtifactPath(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestStatusAndNotReady(t *testing.T) {
	s := NewStore(t.TempDir(), "v1")
	if s.Ready() {
		t.Fatalf("empty dir must not be ready")
	}
	st := s.Status()
	if st.Artifacts != 0 || st.ServerTimeUnix == 0 {
		t.Fatalf("status = %+v", st)
	}
}
