package buildkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// appleTarget maps a user-facing Apple target name to its canonical preset
// prefix and the bin/ output directory relative to the repo root.
type appleTarget struct {
	Preset string
	OutDir string
}

var appleTargets = map[string]appleTarget{
	"macos-arm64":      {"macos-arm64", "bin/macos/arm64"},
	"macos-x86_64":     {"macos-x86_64", "bin/macos/x86_64"},
	"macos-x64":        {"macos-x86_64", "bin/macos/x86_64"},
	"ios-device-arm64": {"ios-device-arm64", "bin/ios/arm64"},
	"ios-sim-arm64":    {"ios-sim-arm64", "bin/ios/arm64-sim"},
	"ios-sim-x86_64":   {"ios-sim-x86_64", "bin/ios/x86_64-sim"},
	"ios-sim-x64":      {"ios-sim-x86_64", "bin/ios/x86_64-sim"},
}

// AppleTargetNames lists the accepted --target values, sorted.
func AppleTargetNames() []string {
	names := make([]string, 0, len(appleTargets))
	for k := range appleTargets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var androidABIAliases = map[string]string{
	"arm64-v8a": "arm64-v8a",
	"arm64":     "arm64-v8a",
	"x86_64":    "x86_64",
	"x64":       "x86_64",
}

// androidOutArch maps the canonical ABI to the bin/android/<arch> segment.
var androidOutArch = map[string]string{"arm64-v8a": "arm64", "x86_64": "x64"}

// androidArchPath is the NDK per-ABI library path component.
var androidArchPath = map[string]string{
	"arm64-v8a": "aarch64-linux-android",
	"x86_64":    "x86_64-linux-android",
}

// Backend sets accepted per platform. "full" enables every backend the
// target supports in a single library.
var (
	LinuxBackends   = []string{"full", "vulkan", "cuda", "blas"}
	WindowsBackends = []string{"full", "vulkan", "cuda", "blas"}
	AndroidBackends = []string{"full", "vulkan", "opencl"}
)

func validBackend(backends []string, b string) bool {
	for _, v := range backends {
		if v == b {
			return true
		}
	}
	return false
}

// canonicalAndroidABI resolves user aliases like "arm64" or "x64".
func canonicalAndroidABI(abi string) (string, error) {
	c, ok := androidABIAliases[strings.ToLower(abi)]
	if !ok {
		return "", fmt.Errorf("unsupported Android ABI %q", abi)
	}
	return c, nil
}

// cmakePresets is the subset of CMakePresets.json we care about.
type cmakePresets struct {
	ConfigurePresets []struct {
		Name      string `json:"name"`
		BinaryDir string `json:"binaryDir"`
	} `json:"configurePresets"`
}

// ResolveBuildDir returns the binary dir a configure preset would use,
// expanding ${sourceDir} and ${presetName}. Falls back to build/<preset> when
// the presets file is missing or the preset has no binaryDir.
func (k *Kit) ResolveBuildDir(preset string) string {
	fallback := filepath.Join(k.Root, "build", preset)
	b, err := os.ReadFile(filepath.Join(k.Root, "CMakePresets.json"))
	if err != nil {
		return fallback
	}
	var data cmakePresets
	if err := json.Unmarshal(b, &data); err != nil {
		return fallback
	}
	for _, cfg := range data.ConfigurePresets {
		if cfg.Name != preset {
			continue
		}
		if cfg.BinaryDir == "" {
			return fallback
		}
		resolved := strings.ReplaceAll(cfg.BinaryDir, "${sourceDir}", k.Root)
		resolved = strings.ReplaceAll(resolved, "${presetName}", preset)
		return filepath.FromSlash(resolved)
	}
	return fallback
}

// PresetSummaries describes the supported platform/target matrix for `list`.
func PresetSummaries() []string {
	return []string{
		"apple: target=macos-arm64|macos-x86_64|ios-device-arm64|ios-sim-arm64|ios-sim-x86_64 (consolidated: metal+cpu in one dylib)",
		"linux: arch=x64|arm64 backend=full|vulkan|cuda|blas (x64 full=vulkan+cuda+blas+cpu, arm64 full=vulkan+blas+kleidi+cpu)",
		"android: abi=arm64-v8a|x86_64|all backend=full|vulkan|opencl (arm64 full=vulkan+opencl+kleidi+cpu, x86_64 full=vulkan+opencl+cpu)",
		"windows: arch=x64|arm64 backend=full|vulkan|cuda|blas (x64 full=vulkan+cuda+blas+cpu, arm64 full=vulkan+blas+kleidi+cpu)",
	}
}
