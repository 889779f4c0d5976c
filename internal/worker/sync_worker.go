package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/service"
)

const syncActor = "sync-worker"

// Runner is the slice of the triage service the sync worker drives.
type Runner interface {
	RunBatch(ctx context.Context, opts service.RunOptions) (domain.Batch, error)
}

// SyncWorker re-runs the triage pipeline on a fixed interval so the dashboard
// follows upstream queues without manual runs.
type SyncWorker struct {
	runner   Runner
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

func NewSyncWorker(runner Runner, interval time.Duration, logger *zap.Logger) *SyncWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncWorker{
		runner:   runner,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the loop and returns immediately. A nil runner or
// non-positive interval starts nothing. Start must be called once; the loop
// stops when ctx is cancelled.
func (w *SyncWorker) Start(ctx context.Context) {
	if w.runner == nil || w.interval <= 0 {
		close(w.done)
		return
	}
	go w.loop(ctx)
}

// Wait blocks until the loop has exited. It returns immediately when the
// worker was started disabled.
func (w *SyncWorker) Wait() {
	<-w.done
}

func (w *SyncWorker) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sync worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sync worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	batch, err := w.runner.RunBatch(ctx, service.RunOptions{Actor: syncActor})
	if err != nil {
		w.logger.Error("scheduled triage run failed", zap.Error(err))
		return
	}
	w.logger.Info("scheduled triage run complete",
		zap.String("run_id", batch.RunID),
		zap.Int("tickets", len(batch.Tickets)))
}

// StartObservers registers the event subscribers that react to pipeline
// events. Nil services are skipped.
func StartObservers(notifications *service.NotificationService, audits *service.AuditService, dispatcher events.Dispatcher) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if audits != nil {
		audits.RegisterHandlers(dispatcher)
	}
}
