package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/xavierca1/painel-leads/internal/usecase"
)

type Refresher interface {
	Run(ctx context.Context, trigger string) (usecase.LoadResult, error)
}

// RefreshWorker recarrega leads e prompts periodicamente.
type RefreshWorker struct {
	loader   Refresher
	schedule string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewRefreshWorker recebe a agenda no formato do cron (ex.: "@every 5m").
func NewRefreshWorker(loader Refresher, schedule string, timeout time.Duration, log zerolog.Logger) *RefreshWorker {
	return &RefreshWorker{
		loader:   loader,
		schedule: schedule,
		timeout:  timeout,
		log:      log,
	}
}

// Start roda uma carga imediata e depois segue a agenda até ctx ser cancelado.
// Só retorna depois que a carga em andamento terminar.
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.log.Info().Str("schedule", w.schedule).Msg("🕒 refresh worker iniciado")

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.schedule, func() { w.refresh(ctx, usecase.TriggerScheduled) }); err != nil {
		return err
	}

	w.refresh(ctx, usecase.TriggerStartup)

	c.Start()
	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	w.log.Info().Msg("⚠️ refresh worker encerrado")
	return nil
}

func (w *RefreshWorker) refresh(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	res, err := w.loader.Run(runCtx, trigger)
	if err != nil {
		w.log.Error().Err(err).Str("trigger", trigger).Msg("❌ refresh falhou")
		return
	}
	if res.Shared {
		w.log.Debug().Str("trigger", trigger).Msg("refresh reaproveitou carga em andamento")
	}
}
