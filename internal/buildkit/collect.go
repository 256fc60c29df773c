package buildkit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llamapack/internal/common/fsutil"
)

// runtimeLibPrefixes are the canonical library families shipped in a release.
var runtimeLibPrefixes = []string{
	"llamapack",
	"llama",
	"ggml",
	"mtmd",
	"libllamapack",
	"libllama",
	"libggml",
	"libmtmd",
}

// isRuntimeLibrary reports whether name is a canonical runtime library
// filename. Linux SONAME aliases like libfoo.so.0 / libfoo.so.0.0.0 are
// dropped so each library ships exactly once.
func isRuntimeLibrary(name string) bool {
	n := strings.ToLower(name)
	if !strings.HasSuffix(n, ".dll") && !strings.HasSuffix(n, ".dylib") && !strings.HasSuffix(n, ".so") {
		return false
	}
	for _, p := range runtimeLibPrefixes {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	return false
}

// CollectRuntimeLibraries walks buildDir and returns the runtime libraries to
// ship, deduplicated by filename and sorted by name.
func CollectRuntimeLibraries(buildDir string) ([]string, error) {
	selected := map[string]string{}
	err := filepath.Walk(buildDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isRuntimeLibrary(info.Name()) {
			return nil
		}
		selected[info.Name()] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no runtime libraries found under %s", buildDir)
	}
	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)
	libs := make([]string, 0, len(names))
	for _, name := range names {
		libs = append(libs, selected[name])
	}
	return libs, nil
}

// CopyRuntimeLibraries resets outDir and copies the collected libraries into
// it, preserving file modes.
func CopyRuntimeLibraries(buildDir, outDir string) error {
	libs, err := CollectRuntimeLibraries(buildDir)
	if err != nil {
		return err
	}
	if err := fsutil.ResetDir(outDir); err != nil {
		return err
	}
	for _, src := range libs {
		dst := filepath.Join(outDir, filepath.Base(src))
		if err := fsutil.CopyFile(src, dst); err != nil {
			return err
		}
		infof("built: %s", dst)
	}
	infof("copied %d runtime libraries to %s", len(libs), outDir)
	return nil
}
