//go:build !llama

package loggate

// No-CGO stub. Compiled when the 'llama' build tag is NOT set, keeping
// default builds and CI CGO-free. The real wiring lives in native.go.

// nativeBuilt indicates this binary was compiled with real llama support.
var nativeBuilt = false

// nativeInstaller is nil without the llama tag; SetLevel then only updates
// the in-process state, which is all the packaging tools need.
var nativeInstaller Installer
