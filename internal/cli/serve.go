package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/insureadmin/admin-console/internal/api"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(rt *runtime) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console API for a browser UI",
		Long: `serve exposes the session, agents and transactions over HTTP on the
loopback interface. It acts for the single session stored on this machine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), rt.noColor)
			app, err := rt.build(ctx, p, "serve")
			if err != nil {
				return err
			}
			defer app.Close(context.WithoutCancel(ctx))

			if addr == "" {
				addr = net.JoinHostPort("127.0.0.1", app.Config.Port)
			}
			e := api.NewRouter(api.Deps{
				Log:           app.Log,
				Auth:          app.Auth,
				Session:       app.Session,
				Agents:        app.Agents,
				Transactions:  app.Transactions,
				HealthChecks:  app.Checks,
				Location:      app.Location,
				RequiredRoles: app.Config.RequiredRoles,
			})

			errCh := make(chan error, 1)
			go func() {
				app.Log.Info().Str("addr", addr).Msg("console API listening")
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				app.Log.Error().Err(err).Msg("graceful shutdown failed")
				return err
			}
			app.Log.Info().Msg("console API stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default 127.0.0.1:$PORT)")
	return cmd
}
