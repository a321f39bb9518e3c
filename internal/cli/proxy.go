package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newProxyCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "proxy",
		Short: "Run the development proxy that forwards /api to PROXY_TARGET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := r.app.NewProxy()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			fmt.Fprintf(cmd.OutOrStdout(), "Proxying %s/api -> %s\n", r.app.Config.ProxyAddr, r.app.Config.ProxyTarget)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			slog.Info("Shutdown signal received, stopping proxy")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("Proxy shutdown error", "error", err)
				return err
			}
			return <-errCh
		},
	}
}
