package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xavierca1/painel-leads/internal/usecase"
)

type countingRefresher struct {
	mu       sync.Mutex
	triggers []string
	err      error
	delay    time.Duration
}

func (r *countingRefresher) Run(ctx context.Context, trigger string) (usecase.LoadResult, error) {
	r.mu.Lock()
	r.triggers = append(r.triggers, trigger)
	r.mu.Unlock()

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return usecase.LoadResult{}, ctx.Err()
		}
	}
	return usecase.LoadResult{}, r.err
}

func (r *countingRefresher) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.triggers))
	copy(out, r.triggers)
	return out
}

func TestRefreshWorkerRunsAtStartAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &countingRefresher{}
	w := NewRefreshWorker(r, "@every 1h", time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return len(r.seen()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker não encerrou")
	}
	assert.Equal(t, []string{usecase.TriggerStartup}, r.seen())
}

func TestRefreshWorkerFollowsSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &countingRefresher{err: errors.New("webhook fora")}
	w := NewRefreshWorker(r, "@every 1s", time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return len(r.seen()) >= 2 }, 3*time.Second, 20*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	seen := r.seen()
	assert.Equal(t, usecase.TriggerStartup, seen[0])
	assert.Equal(t, usecase.TriggerScheduled, seen[1])
}

func TestRefreshWorkerSkipsWhenAlreadyCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &countingRefresher{delay: 50 * time.Millisecond}
	w := NewRefreshWorker(r, "@every 1h", time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// contexto já cancelado: nenhuma carga nova começa e Start volta na hora
	require.NoError(t, w.Start(ctx))
	assert.Empty(t, r.seen())
}

func TestRefreshWorkerRejectsBadSchedule(t *testing.T) {
	w := NewRefreshWorker(&countingRefresher{}, "toda hora", time.Second, zerolog.Nop())
	assert.Error(t, w.Start(context.Background()))
}
