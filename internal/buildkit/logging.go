package buildkit

import (
	"fmt"
	"log"

	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the build kit.
func SetLogger(l zerolog.Logger) { zlog = &l }

func infof(format string, a ...any) {
	if zlog != nil {
		zlog.Info().Msg(fmt.Sprintf(format, a...))
		return
	}
	log.Printf(format, a...)
}
