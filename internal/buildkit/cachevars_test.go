package buildkit

import (
	"reflect"
	"testing"
)

func TestLinuxCacheVarsFull(t *testing.T) {
	cv, err := linuxCacheVars("x64", "full")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := CacheVars{
		"GGML_VULKAN":       "ON",
		"GGML_OPENCL":       "OFF",
		"GGML_CUDA":         "ON",
		"GGML_BLAS":         "ON",
		"GGML_BLAS_VENDOR":  "OpenBLAS",
		"GGML_CPU_KLEIDIAI": "OFF",
	}
	if !reflect.DeepEqual(cv, want) {
		t.Fatalf("cache vars = %v, want %v", cv, want)
	}
}

func TestLinuxCacheVarsArm64Kleidi(t *testing.T) {
	cv, err := linuxCacheVars("arm64", "vulkan")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if cv["GGML_CPU_KLEIDIAI"] != "ON" {
		t.Fatalf("arm64 must enable KleidiAI: %v", cv)
	}
	if cv["GGML_VULKAN"] != "ON" || cv["GGML_CUDA"] != "OFF" || cv["GGML_BLAS"] != "OFF" {
		t.Fatalf("vulkan backend flags wrong: %v", cv)
	}
}

func TestLinuxCudaRequiresX64(t *testing.T) {
	if _, err := linuxCacheVars("arm64", "cuda"); err == nil {
		t.Fatalf("expected error for arm64 cuda")
	}
}

func TestLinuxUnknownBackend(t *testing.T) {
	if _, err := linuxCacheVars("x64", "opencl"); err == nil {
		t.Fatalf("opencl is not a Linux backend")
	}
}

func TestAndroidCacheVars(t *testing.T) {
	cv, err := androidCacheVars("arm64-v8a", "full")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if cv["GGML_VULKAN"] != "ON" || cv["GGML_OPENCL"] != "ON" || cv["GGML_CPU_KLEIDIAI"] != "ON" {
		t.Fatalf("full arm64-v8a flags wrong: %v", cv)
	}
	cv, err = androidCacheVars("x86_64", "opencl")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if cv["GGML_VULKAN"] != "OFF" || cv["GGML_OPENCL"] != "ON" || cv["GGML_CPU_KLEIDIAI"] != "OFF" {
		t.Fatalf("opencl x86_64 flags wrong: %v", cv)
	}
	if _, err := androidCacheVars("arm64-v8a", "cuda"); err == nil {
		t.Fatalf("cuda is not an Android backend")
	}
}

func TestWindowsCacheVars(t *testing.T) {
	cv, err := windowsCacheVars("arm64", "blas")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if cv["GGML_BLAS"] != "ON" || cv["GGML_BLAS_VENDOR"] != "OpenBLAS" || cv["GGML_CPU_KLEIDIAI"] != "ON" {
		t.Fatalf("blas arm64 flags wrong: %v", cv)
	}
	if _, err := windowsCacheVars("arm64", "cuda"); err == nil {
		t.Fatalf("expected error for arm64 cuda")
	}
}

func TestCacheVarsArgsSortedAndFormatted(t *testing.T) {
	cv := CacheVars{"B": "2", "A": "1"}
	got := cv.Args()
	want := []string{"-DA=1", "-DB=2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

func TestCanonicalAndroidABI(t *testing.T) {
	cases := map[string]string{"arm64": "arm64-v8a", "arm64-v8a": "arm64-v8a", "x64": "x86_64", "x86_64": "x86_64"}
	for in, want := range cases {
		got, err := canonicalAndroidABI(in)
		if err != nil || got != want {
			t.Fatalf("canonicalAndroidABI(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := canonicalAndroidABI("mips"); err == nil {
		t.Fatalf("expected error for unsupported ABI")
	}
}

func TestAbiEnvKey(t *testing.T) {
	if got := abiEnvKey("arm64-v8a"); got != "ARM64_V8A" {
		t.Fatalf("abiEnvKey = %q", got)
	}
}
