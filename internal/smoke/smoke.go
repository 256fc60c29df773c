// Package smoke validates freshly built runtime libraries by loading a GGUF
// model and generating a single token through them.
package smoke

import "errors"

// ErrNotBuilt is returned when the binary was compiled without the 'llama'
// build tag and no real runtime is linked in.
var ErrNotBuilt = errors.New("llama support not built (missing 'llama' build tag)")

// Options tunes the throwaway model load used for the check.
type Options struct {
	CtxSize int
	Threads int
}

func (o Options) ctxSize() int {
	if o.CtxSize > 0 {
		return o.CtxSize
	}
	return 512
}

func (o Options) threads() int {
	if o.Threads > 0 {
		return o.Threads
	}
	return 1
}
