package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

const (
	DefaultAutosaveInterval = 5 * time.Minute
	DefaultMetricsInterval  = time.Hour
)

type Saver interface {
	Save(ctx context.Context) error
	RefreshMetrics(ctx context.Context) domain.WellnessScore
}

// AutosaveWorker persists the record on a timer and on request, and
// refreshes wellness metrics hourly.
type AutosaveWorker struct {
	saver           Saver
	interval        time.Duration
	metricsInterval time.Duration
	requests        chan struct{}
	done            chan struct{}
	logger          *zap.Logger
}

func NewAutosaveWorker(saver Saver, interval, metricsInterval time.Duration, logger *zap.Logger) *AutosaveWorker {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if metricsInterval <= 0 {
		metricsInterval = DefaultMetricsInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutosaveWorker{
		saver:           saver,
		interval:        interval,
		metricsInterval: metricsInterval,
		requests:        make(chan struct{}, 1),
		done:            make(chan struct{}),
		logger:          logger,
	}
}

func (w *AutosaveWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		saveTicker := time.NewTicker(w.interval)
		defer saveTicker.Stop()
		metricsTicker := time.NewTicker(w.metricsInterval)
		defer metricsTicker.Stop()

		w.logger.Info("Autosave worker started",
			zap.Duration("interval", w.interval),
			zap.Duration("metrics_interval", w.metricsInterval),
		)
		for {
			select {
			case <-saveTicker.C:
				w.save(ctx)
			case <-w.requests:
				w.save(ctx)
			case <-metricsTicker.C:
				score := w.saver.RefreshMetrics(ctx)
				w.logger.Debug("Wellness metrics refreshed", zap.Int("score", score.Total))
			case <-ctx.Done():
				w.logger.Info("Autosave worker shutting down...")
				return
			}
		}
	}()
}

// RequestSave schedules an immediate save. Requests made while one is
// already pending are coalesced.
func (w *AutosaveWorker) RequestSave() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

// Done is closed once the worker goroutine has exited.
func (w *AutosaveWorker) Done() <-chan struct{} {
	return w.done
}

func (w *AutosaveWorker) save(ctx context.Context) {
	if err := w.saver.Save(ctx); err != nil {
		w.logger.Warn("Autosave failed, will retry", zap.Error(err))
		return
	}
	w.logger.Debug("Autosave completed")
}
