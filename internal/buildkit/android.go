package buildkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BuildAndroid builds one or all Android ABIs. abi accepts the canonical
// names, their aliases, or "all".
func (k *Kit) BuildAndroid(ctx context.Context, abi, backend string) error {
	if err := k.ensureLlamaCheckout(); err != nil {
		return err
	}
	ndk := DetectAndroidNDK()
	if ndk == "" {
		return fmt.Errorf("ANDROID_NDK_HOME is not set and no NDK installation was detected")
	}
	env := map[string]string{"ANDROID_NDK_HOME": ndk}
	infof("using NDK: %s", ndk)

	var abis []string
	if strings.EqualFold(abi, "all") {
		abis = []string{"arm64-v8a", "x86_64"}
	} else {
		canonical, err := canonicalAndroidABI(abi)
		if err != nil {
			return err
		}
		abis = []string{canonical}
	}
	for _, a := range abis {
		infof("building Android ABI=%s backend=%s", a, backend)
		if err := k.buildAndroidABI(ctx, a, backend, ndk, env); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kit) buildAndroidABI(ctx context.Context, abi, backend, ndk string, env map[string]string) error {
	preset := fmt.Sprintf("android-%s-full", abi)
	buildDir, err := k.cleanBuildDir(preset)
	if err != nil {
		return err
	}
	cv, err := androidCacheVars(abi, backend)
	if err != nil {
		return err
	}
	extraArgs := cv.Args()
	extraArgs = append(extraArgs,
		"-DCMAKE_C_FLAGS="+androidPragmaWarnSuppress,
		"-DCMAKE_CXX_FLAGS="+androidPragmaWarnSuppress,
	)

	if cv["GGML_VULKAN"] == "ON" {
		if err := k.ensureSubmodule(k.thirdParty("Vulkan-Headers", "include", "vulkan", "vulkan.h"), "third_party/Vulkan-Headers"); err != nil {
			return err
		}
		// The Vulkan shader generator runs on the host, not the NDK target.
		toolchain := filepath.Join(buildDir, "android-host-toolchain.cmake")
		if err := writeAndroidHostToolchain(toolchain); err != nil {
			return err
		}
		extraArgs = append(extraArgs, "-DGGML_VULKAN_SHADERS_GEN_TOOLCHAIN="+toolchain)

		glslc := FindFileWithSuffix(ndk, "glslc", "")
		if glslc == "" {
			glslc = FindFileWithSuffix(ndk, "glslc.exe", "")
		}
		if glslc != "" {
			extraArgs = append(extraArgs, "-DVulkan_GLSLC_EXECUTABLE="+glslc)
		}

		archPath := androidArchPath[abi]
		vulkanLib := FindFileWithSuffix(ndk, "libvulkan.so", "/"+archPath+"/28/")
		if vulkanLib == "" {
			vulkanLib = FindFileWithSuffix(ndk, "libvulkan.so", "/"+archPath+"/")
		}
		if vulkanLib == "" {
			return fmt.Errorf("could not find libvulkan.so in NDK for ABI %s", abi)
		}
		extraArgs = append(extraArgs,
			"-DVulkan_LIBRARY="+vulkanLib,
			"-DVulkan_INCLUDE_DIR="+k.thirdParty("Vulkan-Headers", "include"),
		)
	}

	if cv["GGML_OPENCL"] == "ON" {
		includeDir, lib, err := k.resolveAndroidOpenCL(ctx, abi, ndk, buildDir, env)
		if err != nil {
			return err
		}
		extraArgs = append(extraArgs,
			"-DOpenCL_INCLUDE_DIR="+includeDir,
			"-DOpenCL_LIBRARY="+lib,
		)
	}

	builtDir, err := k.configureAndBuild(ctx, preset, extraArgs, env)
	if err != nil {
		return err
	}
	return CopyRuntimeLibraries(builtDir, filepath.Join(k.Root, "bin", "android", androidOutArch[abi]))
}

func abiEnvKey(abi string) string {
	return strings.ReplaceAll(strings.ToUpper(abi), "-", "_")
}

// resolveAndroidOpenCL finds OpenCL headers and a libOpenCL.so for the ABI:
// env overrides first, then the NDK, then prebuilt stubs, then building the
// ICD loader from the vendored sources.
func (k *Kit) resolveAndroidOpenCL(ctx context.Context, abi, ndk, buildDir string, env map[string]string) (string, string, error) {
	headersDir := k.thirdParty("OpenCL-Headers")
	stubDir := k.thirdParty("opencl-stubs")
	envKey := abiEnvKey(abi)

	includeCandidates := []string{}
	if v := os.Getenv("OPENCL_INCLUDE_DIR"); v != "" {
		includeCandidates = append(includeCandidates, expandUser(v))
	}
	includeCandidates = append(includeCandidates, headersDir, filepath.Join(stubDir, "include"))
	includeDir := ""
	for _, dir := range includeCandidates {
		if isFile(filepath.Join(dir, "CL", "cl.h")) {
			includeDir = dir
			break
		}
	}

	lib := ""
	if v := os.Getenv("OPENCL_LIBRARY_ANDROID_" + envKey); v != "" {
		lib = expandUser(v)
		if !isFile(lib) {
			return "", "", fmt.Errorf("OPENCL_LIBRARY_ANDROID_%s is set but file does not exist: %s", envKey, lib)
		}
	} else {
		lib = FindFileWithSuffix(ndk, "libOpenCL.so", "/"+androidArchPath[abi]+"/")
		if lib == "" {
			if prebuilt := filepath.Join(stubDir, "android", abi, "libOpenCL.so"); isFile(prebuilt) {
				lib = prebuilt
			}
		}
		if lib == "" {
			built, err := k.buildAndroidOpenCLLoader(ctx, abi, ndk, buildDir, env)
			if err != nil {
				return "", "", err
			}
			lib = built
		}
		if lib == "" {
			return "", "", fmt.Errorf(
				"could not resolve Android OpenCL library; provide env OPENCL_LIBRARY_ANDROID_%s, "+
					"third_party/opencl-stubs/android/%s/libOpenCL.so, or the OpenCL-ICD-Loader + OpenCL-Headers submodules",
				envKey, abi)
		}
	}

	if includeDir == "" {
		return "", "", fmt.Errorf(
			"could not resolve OpenCL headers (missing CL/cl.h); provide env OPENCL_INCLUDE_DIR, " +
				"the third_party/OpenCL-Headers submodule, or third_party/opencl-stubs/include")
	}
	return includeDir, lib, nil
}

// buildAndroidOpenCLLoader cross-builds the OpenCL ICD loader for the ABI.
// Returns "" without error when the loader sources are not vendored.
func (k *Kit) buildAndroidOpenCLLoader(ctx context.Context, abi, ndk, buildDir string, env map[string]string) (string, error) {
	loaderDir := k.thirdParty("OpenCL-ICD-Loader")
	headersDir := k.thirdParty("OpenCL-Headers")
	if !isFile(filepath.Join(loaderDir, "CMakeLists.txt")) || !isFile(filepath.Join(headersDir, "CL", "cl.h")) {
		return "", nil
	}
	loaderBuild := filepath.Join(buildDir, "opencl-loader")
	if err := os.MkdirAll(loaderBuild, 0o755); err != nil {
		return "", err
	}
	configure := []string{
		"-S", loaderDir,
		"-B", loaderBuild,
		"-G", "Ninja",
		"-DCMAKE_TOOLCHAIN_FILE=" + filepath.Join(ndk, "build", "cmake", "android.toolchain.cmake"),
		"-DANDROID_ABI=" + abi,
		"-DANDROID_PLATFORM=android-28",
		"-DCMAKE_BUILD_TYPE=Release",
		"-DCMAKE_C_FLAGS=" + androidOpenCLLoaderWarnSuppress,
		"-DENABLE_OPENCL_LAYERS=OFF",
		"-DENABLE_OPENCL_LAYERINFO=OFF",
		"-DOPENCL_ICD_LOADER_HEADERS_DIR=" + headersDir,
		"-DOPENCL_ICD_LOADER_BUILD_TESTING=OFF",
		"-DBUILD_TESTING=OFF",
	}
	if err := k.run(ctx, Cmd{Path: "cmake", Args: configure, Env: env}); err != nil {
		return "", err
	}
	build := []string{"--build", loaderBuild, "--config", "Release"}
	if k.Jobs > 0 {
		build = append(build, "--parallel", fmt.Sprint(k.Jobs))
	}
	if err := k.run(ctx, Cmd{Path: "cmake", Args: build, Env: env}); err != nil {
		return "", err
	}
	return FindFileWithSuffix(loaderBuild, "libOpenCL.so", ""), nil
}
