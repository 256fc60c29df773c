//go:build llama

package smoke

import (
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// cgo link directives mirror the binaries layout: libllama.so and
// libggml*.so sit next to the built Go binary.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// Check loads the model and generates one token. Any failure here means the
// staged libraries are not usable and the release must not ship.
func Check(modelPath string, opts Options) error {
	if strings.TrimSpace(modelPath) == "" {
		return errors.New("model path is empty")
	}
	m, err := llama.New(modelPath, llama.SetContext(opts.ctxSize()))
	if err != nil {
		return err
	}
	defer m.Free()
	_, err = m.Predict("ping", llama.SetTokens(1), llama.SetThreads(opts.threads()))
	return err
}
