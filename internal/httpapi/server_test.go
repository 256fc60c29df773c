package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"llamapack/internal/release"
	"llamapack/pkg/types"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	d := t.TempDir()
	lib := filepath.Join(d, "linux", "x64", "libllama.so")
	if err := os.MkdirAll(filepath.Dir(lib), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(lib, []byte("fake shared object"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	srv := httptest.NewServer(NewMux(release.NewStore(d, "b6293")))
	t.Cleanup(srv.Close)
	return srv, d
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func TestManifestEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := get(t, srv.URL+"/manifest")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
	var m types.Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Version != "b6293" || len(m.Artifacts) != 1 || m.Artifacts[0].Path != "linux/x64/libllama.so" {
		t.Fatalf("manifest = %+v", m)
	}
}

func TestChecksumsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := get(t, srv.URL+"/checksums")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var digest string
	// single token read is enough: the digest comes first
	if _, err := fmt.Fscan(resp.Body, &digest); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(digest) != 64 {
		t.Fatalf("expected 64-char digest first, got %q", digest)
	}
}

func TestArtifactDownload(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := get(t, srv.URL+"/artifacts/linux/x64/libllama.so")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	if string(buf[:n]) != "fake shared object" {
		t.Fatalf("body = %q", buf[:n])
	}
}

func TestArtifactNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, p := range []string{"/artifacts/linux/x64/nope.so", "/artifacts/..%2f..%2fetc%2fpasswd"} {
		resp := get(t, srv.URL+p)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("GET %s status = %d", p, resp.StatusCode)
		}
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := get(t, srv.URL+"/status")
	defer resp.Body.Close()
	var st types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Version != "b6293" || st.Artifacts != 1 {
		t.Fatalf("status = %+v", st)
	}
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := get(t, srv.URL+"/healthz")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz = %d", resp.StatusCode)
	}
	resp = get(t, srv.URL+"/readyz")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz = %d", resp.StatusCode)
	}
}

func TestReadyzStaging(t *testing.T) {
	srv := httptest.NewServer(NewMux(release.NewStore(t.TempDir(), "v1")))
	defer srv.Close()
	resp := get(t, srv.URL+"/readyz")
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("readyz on empty dir = %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := get(t, srv.URL+"/metrics")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics = %d", resp.StatusCode)
	}
}

func TestNosniffHeader(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := get(t, srv.URL+"/manifest")
	resp.Body.Close()
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
}
