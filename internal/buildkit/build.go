// Package buildkit drives CMake preset builds of the vendored llama.cpp tree
// and stages the resulting runtime libraries under bin/<os>/<arch>.
package buildkit

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
)

// Kit runs platform builds rooted at a repository checkout that carries
// CMakePresets.json and the third_party/llama.cpp submodule.
type Kit struct {
	Root  string
	Jobs  int  // parallel jobs for cmake --build; 0 leaves it to cmake
	Clean bool // delete the preset build dir before configuring
	Run   Runner
}

// New returns a Kit using the real command runner.
func New(root string) *Kit {
	return &Kit{Root: root, Run: RunCmd}
}

func (k *Kit) run(ctx context.Context, c Cmd) error {
	if c.Dir == "" {
		c.Dir = k.Root
	}
	if k.Run != nil {
		return k.Run(ctx, c)
	}
	return RunCmd(ctx, c)
}

func (k *Kit) thirdParty(parts ...string) string {
	return filepath.Join(append([]string{k.Root, "third_party"}, parts...)...)
}

func (k *Kit) ensureSubmodule(path, name string) error {
	if !isFile(path) {
		return fmt.Errorf("missing submodule: %s. Run: git submodule update --init --recursive", name)
	}
	return nil
}

func (k *Kit) ensureLlamaCheckout() error {
	return k.ensureSubmodule(k.thirdParty("llama.cpp", "CMakeLists.txt"), "third_party/llama.cpp")
}

func (k *Kit) cleanBuildDir(preset string) (string, error) {
	buildDir := k.ResolveBuildDir(preset)
	if k.Clean {
		if err := os.RemoveAll(buildDir); err != nil {
			return "", err
		}
	}
	return buildDir, nil
}

// configureAndBuild runs `cmake --preset` followed by `cmake --build --preset`
// and returns the preset's build directory.
func (k *Kit) configureAndBuild(ctx context.Context, preset string, extraArgs []string, env map[string]string) (string, error) {
	configure := append([]string{"--preset", preset}, extraArgs...)
	if err := k.run(ctx, Cmd{Path: "cmake", Args: configure, Env: env}); err != nil {
		return "", fmt.Errorf("configure %s: %w", preset, err)
	}
	build := []string{"--build", "--preset", preset}
	if k.Jobs > 0 {
		build = append(build, "--parallel", strconv.Itoa(k.Jobs))
	}
	if err := k.run(ctx, Cmd{Path: "cmake", Args: build, Env: env}); err != nil {
		return "", fmt.Errorf("build %s: %w", preset, err)
	}
	return k.ResolveBuildDir(preset), nil
}

// BuildApple builds one consolidated Apple target (metal+cpu in one dylib).
func (k *Kit) BuildApple(ctx context.Context, target string) error {
	if runtime.GOOS != "darwin" {
		return fmt.Errorf("Apple builds must be run on macOS hosts")
	}
	at, ok := appleTargets[target]
	if !ok {
		return fmt.Errorf("unsupported Apple target %q (valid: %v)", target, AppleTargetNames())
	}
	if err := k.ensureLlamaCheckout(); err != nil {
		return err
	}
	preset := at.Preset + "-full"
	if _, err := k.cleanBuildDir(preset); err != nil {
		return err
	}
	buildDir, err := k.configureAndBuild(ctx, preset, nil, nil)
	if err != nil {
		return err
	}
	return CopyRuntimeLibraries(buildDir, filepath.Join(k.Root, filepath.FromSlash(at.OutDir)))
}

// BuildLinux builds Linux shared libraries for the given arch and backend.
// Empty arch means the host architecture.
func (k *Kit) BuildLinux(ctx context.Context, arch, backend string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("Linux builds must be run on Linux hosts")
	}
	if err := k.ensureLlamaCheckout(); err != nil {
		return err
	}
	hostArch, err := DetectHostArch()
	if err != nil {
		return err
	}
	if arch == "" {
		arch = hostArch
	}
	cv, err := linuxCacheVars(arch, backend)
	if err != nil {
		return err
	}
	extraArgs := cv.Args()
	if arch == "arm64" && hostArch != "arm64" {
		cc, errCC := exec.LookPath("aarch64-linux-gnu-gcc")
		cxx, errCXX := exec.LookPath("aarch64-linux-gnu-g++")
		if errCC != nil || errCXX != nil {
			return fmt.Errorf("cross compiler not found: install aarch64-linux-gnu-gcc and aarch64-linux-gnu-g++")
		}
		extraArgs = append(extraArgs,
			"-DCMAKE_C_COMPILER="+cc,
			"-DCMAKE_CXX_COMPILER="+cxx,
			"-DCMAKE_SYSTEM_NAME=Linux",
			"-DCMAKE_SYSTEM_PROCESSOR=aarch64",
		)
	}
	if cv["GGML_CUDA"] == "ON" && !nvccOnPath() {
		return fmt.Errorf("Linux CUDA backend build requires CUDA (nvcc not found in PATH)")
	}
	preset := fmt.Sprintf("linux-%s-full", arch)
	if _, err := k.cleanBuildDir(preset); err != nil {
		return err
	}
	buildDir, err := k.configureAndBuild(ctx, preset, extraArgs, nil)
	if err != nil {
		return err
	}
	return CopyRuntimeLibraries(buildDir, filepath.Join(k.Root, "bin", "linux", arch))
}

// BuildWindows builds Windows shared libraries for the given arch and backend.
func (k *Kit) BuildWindows(ctx context.Context, arch, backend, vulkanSDKHint string) error {
	if runtime.GOOS != "windows" {
		return fmt.Errorf("Windows builds must be run on Windows hosts")
	}
	if err := k.ensureLlamaCheckout(); err != nil {
		return err
	}
	cv, err := windowsCacheVars(arch, backend)
	if err != nil {
		return err
	}
	if cv["GGML_CUDA"] == "ON" && !nvccOnPath() {
		return fmt.Errorf("Windows CUDA backend build requires CUDA (nvcc not found in PATH)")
	}
	preset := fmt.Sprintf("windows-%s-full", arch)
	if _, err := k.cleanBuildDir(preset); err != nil {
		return err
	}
	extraArgs := cv.Args()
	if root := DetectVcpkgRoot(); root != "" && cv["GGML_BLAS"] == "ON" {
		toolchain := filepath.Join(root, "scripts", "buildsystems", "vcpkg.cmake")
		if isFile(toolchain) {
			extraArgs = append(extraArgs,
				"-DCMAKE_TOOLCHAIN_FILE="+filepath.ToSlash(toolchain),
				"-DVCPKG_TARGET_TRIPLET="+windowsVcpkgTriplets[arch],
			)
		}
	}
	if cv["GGML_VULKAN"] == "ON" {
		if sdk := InferVulkanSDK(vulkanSDKHint); sdk != "" {
			if arch == "x64" {
				extraArgs = append(extraArgs,
					"-DVulkan_ROOT="+filepath.ToSlash(sdk),
					"-DVulkan_INCLUDE_DIR="+filepath.ToSlash(filepath.Join(sdk, "Include")),
				)
				if lib := FindFileWithSuffix(sdk, "vulkan-1.lib", ""); lib != "" {
					extraArgs = append(extraArgs, "-DVulkan_LIBRARY="+filepath.ToSlash(lib))
				}
			}
			if glslc := FindFileWithSuffix(sdk, "glslc.exe", ""); glslc != "" {
				extraArgs = append(extraArgs, "-DVulkan_GLSLC_EXECUTABLE="+filepath.ToSlash(glslc))
			}
		}
	}
	buildDir, err := k.configureAndBuild(ctx, preset, extraArgs, nil)
	if err != nil {
		return err
	}
	return CopyRuntimeLibraries(buildDir, filepath.Join(k.Root, "bin", "windows", arch))
}

func nvccOnPath() bool {
	if _, err := exec.LookPath("nvcc"); err == nil {
		return true
	}
	_, err := exec.LookPath("nvcc.exe")
	return err == nil
}
