package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	emailPkg "studio/internal/adapters/email"
	web "studio/internal/adapters/http"
	"studio/internal/adapters/http/middleware"
	"studio/internal/adapters/identity"
	"studio/internal/application/orchestrators"
	"studio/internal/domain/account"
	"studio/internal/domain/outbox"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.cfg

	allow := account.NewAllowList(cfg.AdminEmails)
	if err := orchestrators.ExecuteSeedAdmins(ctx, allow, cfg.AdminPassword, orchestrators.SeedAdminsDeps{
		AccountStore: rt.stores.AccountStore,
	}); err != nil {
		return err
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.MailFrom, cfg.ReplyTo)
		slog.Info("startup", "event", "email_sender", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() && cfg.ReceiptsEnabled {
			slog.Warn("startup", "event", "email_sender", "provider", "noop", "detail", "STUDIO_RESEND_KEY is not set; receipts will not be delivered")
		}
	}
	processor := orchestrators.NewOutboxProcessor(rt.stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeReceiptEmail: &orchestrators.ReceiptExecutor{Sender: sender, StudioName: cfg.StudioName},
	})
	stopWorker := orchestrators.StartOutboxWorker(ctx, processor, orchestrators.OutboxWorkerConfig{
		Interval: cfg.OutboxInterval,
		Enabled:  cfg.ReceiptsEnabled,
	})
	defer stopWorker()

	sessions := middleware.NewSessionStore(cfg.SessionIdle)
	sessions.StartSweeper(cfg.SessionSweep)
	defer sessions.StopSweeper()

	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Second)
	go limiter.RunPruner(ctx)

	var google *identity.Google
	if cfg.GoogleEnabled() {
		google = identity.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	handler := web.NewMux(web.Config{
		Secure:          cfg.IsProduction(),
		CSRFKey:         cfg.CSRFKey,
		RateLimit:       cfg.RateLimit,
		SlowRequestMs:   cfg.SlowRequestMs,
		MetricsPath:     cfg.MetricsPath,
		AllowList:       allow,
		ReceiptsEnabled: cfg.ReceiptsEnabled,
	}, web.Deps{
		Stores:    rt.stores,
		Tx:        rt.tx,
		Sessions:  sessions,
		Collector: rt.collector,
		Google:    google,
		Outbox:    processor,
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("startup", "event", "listening", "addr", cfg.Addr, "version", version, "env", cfg.Env,
			"admins", len(allow.Emails()), "google", google != nil, "receipts", cfg.ReceiptsEnabled)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutdown", "event", "draining")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("shutdown", "event", "stopped")
	return nil
}
