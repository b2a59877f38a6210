package usecase

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
	"github.com/xavierca1/painel-leads/internal/infra/queue"
)

// DataGateway lê as duas coleções cruas do serviço remoto.
type DataGateway interface {
	FetchLeads(ctx context.Context) ([]gjson.Result, error)
	FetchPrompts(ctx context.Context) ([]gjson.Result, error)
}

type LeadMutationGateway interface {
	DeleteLeads(ctx context.Context, mode webhook.DeleteMode, leads []entity.Lead) error
	EditLead(ctx context.Context, original, updated entity.Lead, changed map[string]interface{}) error
}

type PromptMutationGateway interface {
	CreatePrompt(ctx context.Context, p entity.Prompt) (int64, error)
	UpdatePrompt(ctx context.Context, id int64, fields map[string]interface{}) error
	DeletePrompt(ctx context.Context, id int64) error
}

// Notifier recebe os avisos não fatais de carga parcial.
type Notifier interface {
	NotifyFetchFailed(ctx context.Context, warning *FetchFailedError)
}

type AuditPublisher interface {
	PublishMutation(ctx context.Context, event queue.MutationEvent) error
}
