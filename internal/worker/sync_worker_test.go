package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/service"
)

type stubRunner struct {
	mu        sync.Mutex
	calls     int
	lastActor string
	err       error
}

func (r *stubRunner) RunBatch(_ context.Context, opts service.RunOptions) (domain.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastActor = opts.Actor
	if r.err != nil {
		return domain.Batch{}, r.err
	}
	return domain.Batch{RunID: "run-1"}, nil
}

func (r *stubRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *stubRunner) actor() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActor
}

func TestSyncWorker_RunsOnInterval(t *testing.T) {
	runner := &stubRunner{}
	w := NewSyncWorker(runner, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.Eventually(t, func() bool { return runner.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	w.Wait()

	assert.Equal(t, "sync-worker", runner.actor())
}

func TestSyncWorker_DisabledWithoutInterval(t *testing.T) {
	runner := &stubRunner{}
	w := NewSyncWorker(runner, 0, zap.NewNop())

	w.Start(context.Background())
	w.Wait()

	assert.Zero(t, runner.count())
}

func TestSyncWorker_KeepsRunningAfterFailures(t *testing.T) {
	runner := &stubRunner{err: errors.New("source down")}
	w := NewSyncWorker(runner, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.Eventually(t, func() bool { return runner.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	w.Wait()
}
