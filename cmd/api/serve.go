package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	adapterHTTP "github.com/comitanigiacomo/kanso-mindful-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/timers"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/workers"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the session timer, autosave and reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, c)
		},
	}
}

func serve(ctx context.Context, c *cli) error {
	startTime := time.Now()
	logger := c.logger

	if c.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := newApp(ctx, c.cfg, logger, timers.SystemClock{})
	if err != nil {
		return err
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	sessionsDone := make(chan struct{})
	go func() {
		defer close(sessionsDone)
		a.sessions.Run(workerCtx)
	}()

	autosave := workers.NewAutosaveWorker(a.service, c.cfg.Workers.AutosaveInterval, c.cfg.Workers.MetricsInterval, logger)
	autosave.Start(workerCtx)
	a.service.OnPersistFailed(autosave.RequestSave)

	reminders := workers.NewReminderWorker(a.service, a.loc, logger)
	a.service.OnPreferencesChanged(func(p domain.Preferences) {
		if err := reminders.Reschedule(p); err != nil {
			logger.Warn("Reminder reschedule failed", zap.Error(err))
		}
	})
	remindersStarted := true
	if err := reminders.Start(workerCtx); err != nil {
		logger.Warn("Reminder scheduler disabled", zap.Error(err))
		remindersStarted = false
	}

	router := adapterHTTP.NewRouter(a.routerDeps(startTime))
	srv := &http.Server{
		Addr:         ":" + c.cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("MindfulMe engine running", zap.String("addr", "http://localhost:"+c.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Stop signal received. Shutting down...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Critical server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	cancelWorkers()
	<-sessionsDone
	<-autosave.Done()
	if remindersStarted {
		<-reminders.Stopped()
	}

	if err := a.close(shutdownCtx); err != nil {
		logger.Error("Final save failed", zap.Error(err))
		return err
	}

	logger.Info("Server stopped gracefully.")
	return nil
}
