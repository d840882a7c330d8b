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

	"option-payoff/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		port int
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer over HTTP",
		Long: `Start the JSON API:

  GET  /health
  GET  /api/strategies
  POST /api/analyze
  GET  /api/books
  GET  /api/books/{name}/analysis
  GET  /api/books/{name}/history`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			s, err := app.Store()
			if err != nil {
				return fail(output, err)
			}

			if !cmd.Flags().Changed("port") {
				port = app.Config.Server.Port
			}
			if !cmd.Flags().Changed("dev") {
				dev = app.Config.Server.DevMode
			}

			srv := server.New(server.Config{
				Port:     port,
				Log:      app.Logger,
				Store:    s,
				Analyzer: app.Analyzer,
				DevMode:  dev,
				Version:  Version,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			output.Info("Listening on :%d (Ctrl+C to stop)", port)

			select {
			case err := <-errCh:
				if err != nil {
					return fail(output, err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fail(output, err)
			}
			output.Dim("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on (default: server.port)")
	cmd.Flags().BoolVar(&dev, "dev", false, "development mode: allow any CORS origin, no compression")

	return cmd
}
