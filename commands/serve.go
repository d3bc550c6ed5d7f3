package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"p9e.in/ncac/handlers"
	"p9e.in/ncac/pkg/form"
	"p9e.in/ncac/pkg/session"
	"p9e.in/ncac/routes"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := cmd.Flags().GetString("port")
			if err != nil {
				return err
			}
			if port == "" {
				port = cfg.Port
			}
			return serve(cmd.Context(), port)
		},
	}
	cmd.Flags().StringP("port", "p", "", "Port to listen on (default from PORT)")
	return cmd
}

func serve(ctx context.Context, port string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions := session.NewManager(form.NCChain, a.store, a.files, cfg.SessionCacheSize, cfg.SessionTTL)
	h := handlers.NewNCHandler(a.store, sessions, a.files, cfg.ExportPath)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           routes.RegisterRoutes(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", port, "attachments", cfg.AttachmentBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
