package buildkit

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIsRuntimeLibrary(t *testing.T) {
	yes := []string{
		"libllama.so", "libggml-base.so", "libggml-cuda.so", "ggml.dll",
		"llama.dll", "libmtmd.dylib", "libllamapack.so", "llamapack.dll",
	}
	no := []string{
		"libllama.so.0", "libllama.so.0.0.1", // SONAME aliases
		"libvulkan.so", "CMakeCache.txt", "libllama.a", "llama-server",
	}
	for _, n := range yes {
		if !isRuntimeLibrary(n) {
			t.Fatalf("%s should be a runtime library", n)
		}
	}
	for _, n := range no {
		if isRuntimeLibrary(n) {
			t.Fatalf("%s should not be a runtime library", n)
		}
	}
}

func TestCollectRuntimeLibraries(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "src", "libllama.so"), "a")
	writeFile(t, filepath.Join(d, "src", "libggml.so"), "b")
	writeFile(t, filepath.Join(d, "deep", "nested", "libllama.so"), "dup") // deduped by name
	writeFile(t, filepath.Join(d, "src", "libllama.so.0"), "alias")
	writeFile(t, filepath.Join(d, "src", "other.txt"), "x")

	libs, err := CollectRuntimeLibraries(d)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(libs) != 2 {
		t.Fatalf("got %d libs: %v", len(libs), libs)
	}
	if filepath.Base(libs[0]) != "libggml.so" || filepath.Base(libs[1]) != "libllama.so" {
		t.Fatalf("unexpected order: %v", libs)
	}
}

func TestCollectRuntimeLibrariesEmpty(t *testing.T) {
	if _, err := CollectRuntimeLibraries(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty build dir")
	}
}

func TestCopyRuntimeLibrariesResetsOut(t *testing.T) {
	build := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(build, "libllama.so"), "lib")
	writeFile(t, filepath.Join(out, "stale.so"), "old")

	if err := CopyRuntimeLibraries(build, out); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "stale.so")); !os.IsNotExist(err) {
		t.Fatalf("stale file survived reset")
	}
	b, err := os.ReadFile(filepath.Join(out, "libllama.so"))
	if err != nil || string(b) != "lib" {
		t.Fatalf("copied content wrong: %q err=%v", b, err)
	}
}
