// Package loggate filters log lines emitted by the native llama.cpp/ggml
// libraries before they reach stderr. The native side tags every line with a
// severity; continuation lines (multi-line messages) carry no severity of
// their own and inherit the severity of the most recent primary line.
package loggate

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Severity mirrors the ggml log levels.
type Severity int32

const (
	SeverityNone  Severity = 0
	SeverityDebug Severity = 1
	SeverityInfo  Severity = 2
	SeverityWarn  Severity = 3
	SeverityError Severity = 4
	// SeverityCont marks a continuation of the previous log line.
	SeverityCont Severity = 5
)

// DefaultLevel is the threshold in effect before SetLogLevel is called.
const DefaultLevel = int(SeverityWarn)

// Installer registers fn as the active log sink of the native library.
// Implementations must be safe to call repeatedly; each call fully re-arms
// the sink.
type Installer func(fn func(sev Severity, text string))

type flusher interface{ Flush() error }

// Gate holds the process-wide filtering state. The native library may invoke
// Handle from multiple threads concurrently, so both fields are atomics and
// each record reads them exactly once.
type Gate struct {
	threshold   atomic.Int32
	lastPrimary atomic.Int32
	out         io.Writer
	install     Installer
}

// NewGate returns a gate writing surviving lines to out. install may be nil
// when no native library is attached (tests, tools). The threshold starts at
// DefaultLevel and lastPrimary at none.
func NewGate(out io.Writer, install Installer) *Gate {
	g := &Gate{out: out, install: install}
	g.threshold.Store(int32(DefaultLevel))
	return g
}

// SetLevel clamps level into [0,4], stores it as the active threshold,
// forgets the last primary severity, and re-arms the native sink. Out-of-range
// input is clamped, never rejected; there is no error path.
func (g *Gate) SetLevel(level int) {
	if level < 0 {
		level = 0
	} else if level > int(SeverityError) {
		level = int(SeverityError)
	}
	g.threshold.Store(int32(level))
	g.lastPrimary.Store(int32(SeverityNone))
	if g.install != nil {
		g.install(g.Handle)
	}
}

// Level reports the currently configured threshold.
func (g *Gate) Level() int { return int(g.threshold.Load()) }

// Handle classifies one log record and either forwards its raw text or drops
// it. It never blocks and runs fully on the calling thread.
func (g *Gate) Handle(sev Severity, text string) {
	threshold := g.threshold.Load()
	// Level 0 means all native logging is off, before any classification.
	if threshold <= 0 {
		return
	}

	// Continuation lines follow the previous message's severity. Primary
	// lines record theirs whether or not they end up emitted.
	var effective int32
	if sev == SeverityCont {
		effective = g.lastPrimary.Load()
	} else {
		effective = int32(sev)
		g.lastPrimary.Store(effective)
	}

	if effective == int32(SeverityNone) {
		return
	}
	if effective >= threshold {
		// Raw pass-through: no prefixes, timestamps or added newlines.
		_, _ = io.WriteString(g.out, text)
		if f, ok := g.out.(flusher); ok {
			_ = f.Flush()
		}
	}
}

var (
	defaultGate *Gate
	defaultOnce sync.Once
)

// Default returns the process-wide gate, writing to stderr. It is created on
// first use and lives for the rest of the process; log sinks have no teardown.
func Default() *Gate {
	defaultOnce.Do(func() {
		defaultGate = NewGate(os.Stderr, nativeInstaller)
	})
	return defaultGate
}

// SetLogLevel configures the process-wide gate. Safe to call at any time,
// from any goroutine, including while native code is logging; a racing line
// may be classified under the old or new threshold but is never corrupted.
func SetLogLevel(level int) {
	Default().SetLevel(level)
}
