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

	"StockWise/internal/notifier"
	"StockWise/internal/scheduler"
	"StockWise/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard, scheduler and optional Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				app.Config.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *App) serve(ctx context.Context) error {
	if err := a.build(true); err != nil {
		return err
	}
	defer a.Close()
	cfg := a.Config
	loc, _ := cfg.Location()

	var tn *notifier.TelegramNotifier
	var alerter scheduler.Alerter
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, a.Logger)
		alerter = tn
	}

	sched := scheduler.NewScheduler(ctx, loc, a.Loader.Cache(), a.Pipeline, alerter, a.Logger)
	if err := sched.RegisterAll(cfg.Schedule.SweepCron, cfg.Schedule.WarmupCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		cmds := &notifier.Commands{Pipeline: a.Pipeline}
		go tn.StartPolling(ctx, cmds.Handle)
		a.Logger.Info().Msg("telegram polling started")
	}
	if cfg.Schedule.WarmupOnStart {
		go sched.RunWarmupNow()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(a.Pipeline, cfg.Server.CORSOrigin, a.Logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error().Err(err).Msg("http shutdown")
	}
	a.Logger.Info().Msg("StockWise stopped")
	return nil
}
