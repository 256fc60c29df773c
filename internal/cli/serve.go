package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"llamapack/internal/httpapi"
	"llamapack/internal/release"
)

func newServeCmd(opts *Options) *cobra.Command {
	var addr, binDir, version string
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the staged release over HTTP (manifest, checksums, artifacts)",
		Example: "  llamapack serve --bin-dir bin --addr :8080",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.binDir(binDir)
			if err != nil {
				return err
			}
			listen := addr
			if listen == "" {
				listen = opts.Config.Addr
			}
			if listen == "" {
				listen = envStr("LLAMAPACK_ADDR", ":8080")
			}
			if version == "" {
				version = opts.Config.Version
			}
			store := release.NewStore(dir, version)
			srv := &http.Server{Addr: listen, Handler: httpapi.NewMux(store)}

			errCh := make(chan error, 1)
			go func() {
				opts.Logger.Info().Str("addr", listen).Str("bin_dir", dir).Msg("llamapack serving release")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			// Graceful shutdown (Ctrl+C / SIGTERM)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-stop:
			case <-cmd.Context().Done():
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				opts.Logger.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (defaults to config, LLAMAPACK_ADDR or :8080)")
	cmd.Flags().StringVar(&binDir, "bin-dir", "", "Binaries root to serve (defaults to config or ./bin)")
	cmd.Flags().StringVar(&version, "version", "", "Version reported when no manifest.json is staged")
	return cmd
}
