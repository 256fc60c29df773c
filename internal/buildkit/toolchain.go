package buildkit

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

const (
	androidPragmaWarnSuppress       = "-Wno-#pragma-messages"
	androidOpenCLLoaderWarnSuppress = "-Wno-#pragma-messages -Wno-typedef-redefinition"
)

var windowsVcpkgTriplets = map[string]string{"x64": "x64-windows", "arm64": "arm64-windows"}

// DetectHostArch maps the host machine to the x64/arm64 naming used by the
// output layout.
func DetectHostArch() (string, error) {
	switch runtime.GOARCH {
	case "amd64":
		return "x64", nil
	case "arm64":
		return "arm64", nil
	}
	return "", fmt.Errorf("unsupported host architecture %q", runtime.GOARCH)
}

// DetectAndroidNDK locates an Android NDK: ANDROID_NDK_HOME first, then the
// newest ndk/<version> under known SDK roots, then the legacy ndk-bundle.
func DetectAndroidNDK() string {
	if env := os.Getenv("ANDROID_NDK_HOME"); env != "" {
		if p := expandUser(env); pathExists(p) {
			return p
		}
	}
	var sdkRoots []string
	for _, key := range []string{"ANDROID_SDK_ROOT", "ANDROID_HOME"} {
		if v := os.Getenv(key); v != "" {
			sdkRoots = append(sdkRoots, expandUser(v))
		}
	}
	home, _ := os.UserHomeDir()
	sdkRoots = append(sdkRoots,
		filepath.Join(home, "Library", "Android", "sdk"),
		filepath.Join(home, "Android", "Sdk"),
		"/usr/local/lib/android/sdk",
	)
	for _, root := range sdkRoots {
		ndkRoot := filepath.Join(root, "ndk")
		entries, err := os.ReadDir(ndkRoot)
		if err != nil {
			continue
		}
		var versions []string
		for _, e := range entries {
			if e.IsDir() {
				versions = append(versions, e.Name())
			}
		}
		if len(versions) > 0 {
			sort.Sort(sort.Reverse(sort.StringSlice(versions)))
			return filepath.Join(ndkRoot, versions[0])
		}
	}
	if legacy := "/usr/local/lib/android/sdk/ndk-bundle"; isDir(legacy) {
		return legacy
	}
	return ""
}

// InferVulkanSDK resolves a Vulkan SDK root from an explicit hint, VULKAN_SDK,
// or the location of glslc on PATH.
func InferVulkanSDK(pathHint string) string {
	if pathHint != "" {
		if p := expandUser(pathHint); pathExists(p) {
			return p
		}
	}
	if env := os.Getenv("VULKAN_SDK"); env != "" {
		if p := expandUser(env); pathExists(p) {
			return p
		}
	}
	glslc, err := exec.LookPath("glslc")
	if err != nil {
		glslc, err = exec.LookPath("glslc.exe")
	}
	if err == nil {
		abs, _ := filepath.Abs(glslc)
		for _, parent := range []string{filepath.Dir(abs), filepath.Dir(filepath.Dir(abs))} {
			if pathExists(filepath.Join(parent, "Include", "vulkan", "vulkan.h")) || isDir(filepath.Join(parent, "Lib")) {
				return parent
			}
		}
	}
	return ""
}

// DetectVcpkgRoot finds a vcpkg installation for Windows BLAS builds.
func DetectVcpkgRoot() string {
	for _, key := range []string{"VCPKG_ROOT", "VCPKG_INSTALLATION_ROOT"} {
		if v := os.Getenv(key); v != "" {
			if root := expandUser(v); isDir(root) {
				return root
			}
		}
	}
	for _, candidate := range []string{"C:/vcpkg", "C:/tools/vcpkg"} {
		if isDir(candidate) {
			return candidate
		}
	}
	return ""
}

// FindFileWithSuffix walks root and returns the first file whose path ends in
// suffix, optionally requiring contains as a substring. Empty when not found.
func FindFileWithSuffix(root, suffix, contains string) string {
	var found string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, suffix) {
			return nil
		}
		if contains != "" && !strings.Contains(filepath.ToSlash(path), contains) {
			return nil
		}
		found = path
		return filepath.SkipAll
	})
	return found
}

// writeAndroidHostToolchain emits the minimal host toolchain file used by the
// Vulkan shader generator when cross-building for Android.
func writeAndroidHostToolchain(path string) error {
	var lines []string
	makeProgram, err := exec.LookPath("ninja")
	if err != nil {
		makeProgram, err = exec.LookPath("make")
	}
	if err == nil {
		lines = append(lines, fmt.Sprintf("set(CMAKE_MAKE_PROGRAM %q CACHE STRING \"make program\" FORCE)", makeProgram))
	}
	sysName := map[string]string{"linux": "Linux", "darwin": "Darwin", "windows": "Windows"}[runtime.GOOS]
	if sysName == "" {
		sysName = runtime.GOOS
	}
	lines = append(lines,
		fmt.Sprintf("set(CMAKE_SYSTEM_NAME %q)", sysName),
		"set(Threads_FOUND TRUE)",
		`set(CMAKE_THREAD_LIBS_INIT "-pthread")`,
		"set(CMAKE_USE_PTHREADS_INIT TRUE)",
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}

func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
