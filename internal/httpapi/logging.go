package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

func logDownload(r *http.Request, rel string, dur time.Duration) {
	if zlog != nil {
		z := zlog.Info().Str("artifact", rel).Dur("dur", dur)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("artifact served")
		return
	}
	log.Printf("artifact served path=%s dur=%s", rel, dur)
}
