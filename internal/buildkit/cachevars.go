package buildkit

import (
	"fmt"
	"sort"
)

// CacheVars is a set of CMake cache variables (-D key=value).
type CacheVars map[string]string

// Args renders the variables as sorted -Dkey=value arguments.
func (cv CacheVars) Args() []string {
	keys := make([]string, 0, len(cv))
	for k := range cv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, fmt.Sprintf("-D%s=%s", k, cv[k]))
	}
	return args
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// linuxCacheVars translates a Linux arch/backend pair into GGML flags.
func linuxCacheVars(arch, backend string) (CacheVars, error) {
	if !validBackend(LinuxBackends, backend) {
		return nil, fmt.Errorf("unsupported Linux backend %q", backend)
	}
	if backend == "cuda" && arch != "x64" {
		return nil, fmt.Errorf("Linux cuda backend build is only available for x64")
	}
	cv := CacheVars{
		"GGML_VULKAN":       "OFF",
		"GGML_OPENCL":       "OFF",
		"GGML_CUDA":         "OFF",
		"GGML_BLAS":         "OFF",
		"GGML_CPU_KLEIDIAI": onOff(arch == "arm64"),
	}
	if backend == "full" || backend == "vulkan" {
		cv["GGML_VULKAN"] = "ON"
	}
	if backend == "full" || backend == "cuda" {
		cv["GGML_CUDA"] = "ON"
	}
	if backend == "full" || backend == "blas" {
		cv["GGML_BLAS"] = "ON"
		cv["GGML_BLAS_VENDOR"] = "OpenBLAS"
	}
	return cv, nil
}

// androidCacheVars translates an Android ABI/backend pair into GGML flags.
func androidCacheVars(abi, backend string) (CacheVars, error) {
	if !validBackend(AndroidBackends, backend) {
		return nil, fmt.Errorf("unsupported Android backend %q", backend)
	}
	cv := CacheVars{
		"GGML_VULKAN":       "OFF",
		"GGML_OPENCL":       "OFF",
		"GGML_CPU_KLEIDIAI": onOff(abi == "arm64-v8a"),
	}
	if backend == "full" || backend == "vulkan" {
		cv["GGML_VULKAN"] = "ON"
	}
	if backend == "full" || backend == "opencl" {
		cv["GGML_OPENCL"] = "ON"
	}
	return cv, nil
}

// windowsCacheVars translates a Windows arch/backend pair into GGML flags.
func windowsCacheVars(arch, backend string) (CacheVars, error) {
	if !validBackend(WindowsBackends, backend) {
		return nil, fmt.Errorf("unsupported Windows backend %q", backend)
	}
	if backend == "cuda" && arch != "x64" {
		return nil, fmt.Errorf("Windows cuda backend build is only available for x64")
	}
	cv := CacheVars{
		"GGML_VULKAN":       "OFF",
		"GGML_OPENCL":       "OFF",
		"GGML_CUDA":         "OFF",
		"GGML_BLAS":         "OFF",
		"GGML_CPU_KLEIDIAI": onOff(arch == "arm64"),
	}
	if backend == "full" || backend == "vulkan" {
		cv["GGML_VULKAN"] = "ON"
	}
	if backend == "full" || backend == "cuda" {
		cv["GGML_CUDA"] = "ON"
	}
	if backend == "full" || backend == "blas" {
		cv["GGML_BLAS"] = "ON"
		cv["GGML_BLAS_VENDOR"] = "OpenBLAS"
	}
	return cv, nil
}
