// Command libllamapack builds the C-ABI shim consumed by foreign-host
// runtimes over FFI:
//
//	go build -buildmode=c-shared -o libllamapack.so ./cmd/libllamapack
//
// Pass -tags llama to also re-arm the native llama.cpp/ggml log callbacks on
// every llamapack_set_log_level call.
package main

import "C"

import "llamapack/internal/loggate"

//export llamapack_set_log_level
func llamapack_set_log_level(level C.int) {
	// Valid range is [0,4]; anything outside is clamped, not rejected.
	loggate.SetLogLevel(int(level))
}

func main() {}
