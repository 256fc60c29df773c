package buildkit

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// recordingRunner captures every invocation and optionally fakes build output.
type recordingRunner struct {
	cmds  []Cmd
	after func(c Cmd)
}

func (r *recordingRunner) run(_ context.Context, c Cmd) error {
	r.cmds = append(r.cmds, c)
	if r.after != nil {
		r.after(c)
	}
	return nil
}

func TestResolveBuildDirFromPresets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "CMakePresets.json"), `{
	  "configurePresets": [
	    {"name": "linux-x64-full", "binaryDir": "${sourceDir}/build/${presetName}"},
	    {"name": "bare"}
	  ]
	}`)
	k := New(root)
	if got, want := k.ResolveBuildDir("linux-x64-full"), filepath.Join(root, "build", "linux-x64-full"); got != want {
		t.Fatalf("resolved %q, want %q", got, want)
	}
	// no binaryDir -> fallback
	if got, want := k.ResolveBuildDir("bare"), filepath.Join(root, "build", "bare"); got != want {
		t.Fatalf("resolved %q, want %q", got, want)
	}
	// unknown preset -> fallback
	if got, want := k.ResolveBuildDir("nope"), filepath.Join(root, "build", "nope"); got != want {
		t.Fatalf("resolved %q, want %q", got, want)
	}
}

func TestResolveBuildDirNoPresetsFile(t *testing.T) {
	k := New(t.TempDir())
	if got, want := k.ResolveBuildDir("p"), filepath.Join(k.Root, "build", "p"); got != want {
		t.Fatalf("resolved %q, want %q", got, want)
	}
}

func TestConfigureAndBuildCommands(t *testing.T) {
	root := t.TempDir()
	rec := &recordingRunner{}
	k := New(root)
	k.Run = rec.run
	k.Jobs = 4

	if _, err := k.configureAndBuild(context.Background(), "linux-x64-full", []string{"-DGGML_CUDA=ON"}, nil); err != nil {
		t.Fatalf("configureAndBuild: %v", err)
	}
	if len(rec.cmds) != 2 {
		t.Fatalf("expected 2 cmake invocations, got %d", len(rec.cmds))
	}
	cfg := rec.cmds[0]
	if cfg.Path != "cmake" || strings.Join(cfg.Args, " ") != "--preset linux-x64-full -DGGML_CUDA=ON" {
		t.Fatalf("configure cmd = %v", cfg)
	}
	build := rec.cmds[1]
	if strings.Join(build.Args, " ") != "--build --preset linux-x64-full --parallel 4" {
		t.Fatalf("build cmd = %v", build)
	}
}

func TestBuildLinuxEndToEnd(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only build path")
	}
	hostArch, err := DetectHostArch()
	if err != nil {
		t.Skipf("host arch: %v", err)
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "third_party", "llama.cpp", "CMakeLists.txt"), "# llama")
	buildDir := filepath.Join(root, "build", "linux-"+hostArch+"-full")

	rec := &recordingRunner{after: func(c Cmd) {
		// First cmake call configures; fake a library appearing in the build tree.
		writeFile(t, filepath.Join(buildDir, "src", "libllama.so"), "so")
		writeFile(t, filepath.Join(buildDir, "src", "libggml-base.so"), "so")
	}}
	k := New(root)
	k.Run = rec.run

	if err := k.BuildLinux(context.Background(), "", "vulkan"); err != nil {
		t.Fatalf("BuildLinux: %v", err)
	}
	if len(rec.cmds) != 2 {
		t.Fatalf("expected 2 cmake invocations, got %d", len(rec.cmds))
	}
	joined := strings.Join(rec.cmds[0].Args, " ")
	if !strings.Contains(joined, "-DGGML_VULKAN=ON") || !strings.Contains(joined, "-DGGML_CUDA=OFF") {
		t.Fatalf("configure args = %q", joined)
	}
	outDir := filepath.Join(root, "bin", "linux", hostArch)
	for _, lib := range []string{"libllama.so", "libggml-base.so"} {
		if _, err := os.Stat(filepath.Join(outDir, lib)); err != nil {
			t.Fatalf("missing staged %s: %v", lib, err)
		}
	}
}

func TestBuildLinuxMissingSubmodule(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only build path")
	}
	k := New(t.TempDir())
	k.Run = (&recordingRunner{}).run
	err := k.BuildLinux(context.Background(), "x64", "vulkan")
	if err == nil || !strings.Contains(err.Error(), "submodule") {
		t.Fatalf("expected submodule error, got %v", err)
	}
}

func TestBuildAppleRejectsUnknownTarget(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("darwin-only build path")
	}
	k := New(t.TempDir())
	if err := k.BuildApple(context.Background(), "watchos-arm64"); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}

func TestAppleTargetAliases(t *testing.T) {
	if appleTargets["macos-x64"] != appleTargets["macos-x86_64"] {
		t.Fatalf("macos-x64 must alias macos-x86_64")
	}
	if appleTargets["ios-sim-x64"] != appleTargets["ios-sim-x86_64"] {
		t.Fatalf("ios-sim-x64 must alias ios-sim-x86_64")
	}
}

func TestWriteAndroidHostToolchain(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tc", "host.cmake")
	if err := writeAndroidHostToolchain(p); err != nil {
		t.Fatalf("write toolchain: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	s := string(b)
	for _, want := range []string{"CMAKE_SYSTEM_NAME", "Threads_FOUND", "CMAKE_THREAD_LIBS_INIT"} {
		if !strings.Contains(s, want) {
			t.Fatalf("toolchain missing %s:\n%s", want, s)
		}
	}
}

func TestFindFileWithSuffix(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "a", "x86_64-linux-android", "libOpenCL.so"), "")
	writeFile(t, filepath.Join(d, "b", "aarch64-linux-android", "libOpenCL.so"), "")

	got := FindFileWithSuffix(d, "libOpenCL.so", "/aarch64-linux-android/")
	if got == "" || !strings.Contains(filepath.ToSlash(got), "aarch64") {
		t.Fatalf("got %q", got)
	}
	if FindFileWithSuffix(d, "missing.so", "") != "" {
		t.Fatalf("expected empty result for missing suffix")
	}
}
