//go:build llama

package loggate

// Native wiring for the gate. The callback registered with llama_log_set and
// ggml_log_set must stay installed for the process lifetime, so it routes
// through the Default gate rather than a captured closure.
//
// The rpath/-L directives mirror the smoke adapter: libllama.so and
// libggml*.so are resolved next to the built Go binary.

/*
#cgo CFLAGS: -I${SRCDIR}/../../third_party/llama.cpp/include -I${SRCDIR}/../../third_party/llama.cpp/ggml/include
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
#include <stdlib.h>
#include "llama.h"
#include "ggml.h"

extern void llamapackLogCallback(int level, char *text, void *user_data);

static void llamapack_log_install(void) {
	llama_log_set((ggml_log_callback)llamapackLogCallback, NULL);
	ggml_log_set((ggml_log_callback)llamapackLogCallback, NULL);
}
*/
import "C"

import "unsafe"

// nativeBuilt indicates this binary was compiled with real llama support.
var nativeBuilt = true

//export llamapackLogCallback
func llamapackLogCallback(level C.int, text *C.char, _ unsafe.Pointer) {
	Default().Handle(Severity(level), C.GoString(text))
}

// nativeInstaller re-arms the native log sink. The registered callback always
// dispatches to the Default gate, so fn is the gate's own Handle by contract.
func nativeInstaller(fn func(sev Severity, text string)) {
	_ = fn
	C.llamapack_log_install()
}
