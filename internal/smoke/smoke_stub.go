//go:build !llama

package smoke

// This file provides a no-CGO stub. It is compiled when the 'llama' build tag
// is NOT set, keeping default builds and CI CGO-free. The real check lives in
// smoke_llama.go.

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

// Check fails fast: the llama runtime is not available in this build.
func Check(modelPath string, opts Options) error {
	return ErrNotBuilt
}
