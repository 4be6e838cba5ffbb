package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/malusev998/currency-converter/api"
	"github.com/malusev998/currency-converter/session"
)

func serve(ctx context.Context, config *Config) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer config.close()

			if addr == "" {
				addr = config.Server.Addr
			}

			if addr == "" {
				addr = ":8080"
			}

			s := session.New(config.Fetcher, config.logger())
			s.Mount(ctx)
			defer s.Unmount()

			server := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(s, config.logger(), config.Server.Origins),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)

			go func() {
				config.logger().Info().Str("addr", addr).Msg("listening")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}

				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				return server.Shutdown(shutdownCtx)
			}
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")

	return serveCmd
}
