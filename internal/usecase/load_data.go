package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/http/middleware"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
)

const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerStartup   = "startup"
)

const DefaultLoadTimeout = 2 * time.Minute

type LoadResult struct {
	LeadsLoaded   bool                `json:"leads_loaded"`
	PromptsLoaded bool                `json:"prompts_loaded"`
	Leads         int                 `json:"leads"`
	Prompts       int                 `json:"prompts"`
	Warnings      []*FetchFailedError `json:"-"`
	UpdatedAt     time.Time           `json:"updated_at"`
	// Shared indica que a chamada pegou carona numa carga já em andamento.
	Shared bool `json:"shared"`
}

func (r LoadResult) WarningMessages() []string {
	msgs := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		msgs = append(msgs, w.Error())
	}
	return msgs
}

type LoadDataUseCase struct {
	Gateway    DataGateway
	Store      *Store
	Normalizer Normalizer
	Notifier   Notifier
	// Timeout limita a carga compartilhada, que não depende do contexto de quem a iniciou.
	Timeout time.Duration
	now     func() time.Time
	flight     singleflight.Group
	log        zerolog.Logger
}

func NewLoadDataUseCase(gateway DataGateway, store *Store, normalizer Normalizer, notifier Notifier, log zerolog.Logger) *LoadDataUseCase {
	return &LoadDataUseCase{
		Gateway:    gateway,
		Store:      store,
		Normalizer: normalizer,
		Notifier:   notifier,
		Timeout:    DefaultLoadTimeout,
		now:        time.Now,
		log:        log,
	}
}

func (uc *LoadDataUseCase) Execute(ctx context.Context) (LoadResult, error) {
	return uc.Run(ctx, TriggerManual)
}

// Run carrega leads e prompts em paralelo. Chamadas sobrepostas se juntam à carga
// em andamento em vez de competir pela escrita no store.
// Cada chamador espera só até o próprio ctx vencer; a carga segue para os demais.
func (uc *LoadDataUseCase) Run(ctx context.Context, trigger string) (LoadResult, error) {
	ch := uc.flight.DoChan("load", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.timeout())
		defer cancel()
		return uc.load(loadCtx, trigger)
	})
	select {
	case <-ctx.Done():
		return LoadResult{}, ctx.Err()
	case r := <-ch:
		res, _ := r.Val.(LoadResult)
		res.Shared = r.Shared
		return res, r.Err
	}
}

func (uc *LoadDataUseCase) timeout() time.Duration {
	if uc.Timeout <= 0 {
		return DefaultLoadTimeout
	}
	return uc.Timeout
}

func (uc *LoadDataUseCase) load(ctx context.Context, trigger string) (LoadResult, error) {
	start := uc.now()
	uc.log.Info().Str("trigger", trigger).Msg("🔄 carregando leads e prompts")

	var (
		leads               []entity.Lead
		prompts             []entity.Prompt
		leadsErr, promptErr error
	)

	// nenhuma goroutine devolve erro: uma falha não cancela a outra
	var g errgroup.Group
	g.Go(func() error {
		raw, err := uc.Gateway.FetchLeads(ctx)
		if err != nil {
			leadsErr = err
			return nil
		}
		leads = uc.Normalizer.Normalize(raw)
		return nil
	})
	g.Go(func() error {
		raw, err := uc.Gateway.FetchPrompts(ctx)
		if err != nil {
			promptErr = err
			return nil
		}
		prompts = uc.Normalizer.NormalizePrompts(raw)
		return nil
	})
	_ = g.Wait()

	res := LoadResult{}

	if leadsErr != nil && promptErr != nil {
		err := fmt.Errorf("%w: %w", ErrAllResourcesFailed, errors.Join(
			newFetchFailed(webhook.ResourceLeads, leadsErr),
			newFetchFailed(webhook.ResourcePrompts, promptErr),
		))
		uc.Store.MarkFailed(err)
		middleware.RecordResourceFailure(webhook.ResourceLeads)
		middleware.RecordResourceFailure(webhook.ResourcePrompts)
		middleware.RecordRefresh(trigger, "failed")
		uc.log.Error().Err(err).Str("trigger", trigger).Msg("❌ nenhum recurso carregado")
		return res, err
	}

	if leadsErr == nil {
		uc.Store.ReplaceLeads(leads)
		res.LeadsLoaded, res.Leads = true, len(leads)
	} else {
		res.Warnings = append(res.Warnings, uc.warn(ctx, webhook.ResourceLeads, leadsErr))
	}

	if promptErr == nil {
		uc.Store.ReplacePrompts(prompts)
		res.PromptsLoaded, res.Prompts = true, len(prompts)
	} else {
		res.Warnings = append(res.Warnings, uc.warn(ctx, webhook.ResourcePrompts, promptErr))
	}

	res.UpdatedAt = uc.now()
	uc.Store.MarkLoaded(res.UpdatedAt, res.Warnings)
	middleware.RecordLastRefresh(res.UpdatedAt)

	outcome := "success"
	if len(res.Warnings) > 0 {
		outcome = "partial"
	}
	middleware.RecordRefresh(trigger, outcome)

	uc.log.Info().
		Str("trigger", trigger).
		Str("outcome", outcome).
		Int("leads", res.Leads).
		Int("prompts", res.Prompts).
		Dur("took", res.UpdatedAt.Sub(start)).
		Msg("✅ dados atualizados")
	return res, nil
}

func (uc *LoadDataUseCase) warn(ctx context.Context, resource string, err error) *FetchFailedError {
	warning := newFetchFailed(resource, err)
	middleware.RecordResourceFailure(resource)
	uc.log.Warn().Err(err).Str("resource", resource).Msg("⚠️ recurso não carregado, mantendo dados anteriores")
	if uc.Notifier != nil {
		uc.Notifier.NotifyFetchFailed(ctx, warning)
	}
	return warning
}
