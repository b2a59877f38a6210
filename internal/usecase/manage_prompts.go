package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
	"github.com/xavierca1/painel-leads/internal/infra/queue"
)

type PromptInput struct {
	Title       string                `json:"titulo"`
	Category    string                `json:"categoria"`
	Description string                `json:"descricao"`
	Content     string                `json:"conteudo"`
	Status      entity.PromptStatus   `json:"status"`
	Priority    entity.PromptPriority `json:"prioridade"`
}

func (in PromptInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "titulo")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "categoria")
	}
	if strings.TrimSpace(in.Content) == "" {
		missing = append(missing, "conteudo")
	}
	if len(missing) > 0 {
		return validationError("MISSING_FIELDS", "campos obrigatórios: "+strings.Join(missing, ", "))
	}
	if in.Status != "" && in.Status != entity.PromptActive && in.Status != entity.PromptInactive {
		return validationError("INVALID_STATUS", fmt.Sprintf("status inválido: %q", in.Status))
	}
	return nil
}

func (in PromptInput) apply(p entity.Prompt) entity.Prompt {
	p.Title = strings.TrimSpace(in.Title)
	p.Category = strings.TrimSpace(in.Category)
	p.Description = strings.TrimSpace(in.Description)
	p.Content = in.Content
	p.Status = in.Status
	if p.Status == "" {
		p.Status = entity.PromptActive
	}
	p.Priority = in.Priority
	if p.Priority == "" {
		p.Priority = entity.PriorityMedium
	}
	return p
}

type ManagePromptsUseCase struct {
	Gateway PromptMutationGateway
	Store   *Store
	Audit   AuditPublisher
	now     func() time.Time
	log     zerolog.Logger
}

func NewManagePromptsUseCase(gateway PromptMutationGateway, store *Store, audit AuditPublisher, log zerolog.Logger) *ManagePromptsUseCase {
	return &ManagePromptsUseCase{Gateway: gateway, Store: store, Audit: audit, now: time.Now, log: log}
}

// Create exige o id devolvido pelo webhook; sem ele nada entra no store.
func (uc *ManagePromptsUseCase) Create(ctx context.Context, in PromptInput) (entity.Prompt, error) {
	if err := in.Validate(); err != nil {
		return entity.Prompt{}, err
	}
	return uc.create(ctx, in.apply(entity.Prompt{}), queue.KindPromptCreate)
}

func (uc *ManagePromptsUseCase) create(ctx context.Context, p entity.Prompt, kind string) (entity.Prompt, error) {
	id, err := uc.Gateway.CreatePrompt(ctx, p)
	if err != nil {
		uc.log.Error().Err(err).Str("titulo", p.Title).Msg("❌ criação de prompt recusada")
		return entity.Prompt{}, remoteError("criação de prompt", err)
	}
	if id == 0 {
		uc.log.Error().Str("titulo", p.Title).Msg("❌ webhook criou o prompt mas não devolveu id")
		return entity.Prompt{}, &TechnicalError{Code: "MISSING_ID", Message: "criação de prompt sem id", Err: ErrMissingPromptID}
	}

	p.ID = id
	p.CreatedAt = uc.now().UTC().Format(time.RFC3339)
	uc.Store.PrependPrompt(p)

	uc.log.Info().Int64("prompt_id", id).Str("titulo", p.Title).Msg("📝 prompt criado")
	publishAudit(ctx, uc.Audit, uc.log, queue.MutationEvent{Kind: kind, PromptID: id})
	return p, nil
}

func (uc *ManagePromptsUseCase) Update(ctx context.Context, id int64, in PromptInput) (entity.Prompt, error) {
	if err := in.Validate(); err != nil {
		return entity.Prompt{}, err
	}
	current, ok := uc.Store.Prompt(id)
	if !ok {
		return entity.Prompt{}, fmt.Errorf("%w: id %d", ErrPromptNotFound, id)
	}

	// status e prioridade omitidos mantêm o valor atual
	if in.Status == "" {
		in.Status = current.Status
	}
	if in.Priority == "" {
		in.Priority = current.Priority
	}
	updated := in.apply(current)
	fields := webhook.PromptFields(updated)
	if err := uc.Gateway.UpdatePrompt(ctx, id, fields); err != nil {
		uc.log.Error().Err(err).Int64("prompt_id", id).Msg("❌ edição de prompt recusada")
		return entity.Prompt{}, remoteError("edição de prompt", err)
	}

	uc.Store.ReplacePrompt(updated)
	uc.log.Info().Int64("prompt_id", id).Msg("✏️ prompt atualizado")
	publishAudit(ctx, uc.Audit, uc.log, queue.MutationEvent{Kind: queue.KindPromptUpdate, PromptID: id, Changed: sortedKeys(fields)})
	return updated, nil
}

func (uc *ManagePromptsUseCase) Delete(ctx context.Context, id int64) error {
	if _, ok := uc.Store.Prompt(id); !ok {
		return fmt.Errorf("%w: id %d", ErrPromptNotFound, id)
	}
	if err := uc.Gateway.DeletePrompt(ctx, id); err != nil {
		uc.log.Error().Err(err).Int64("prompt_id", id).Msg("❌ exclusão de prompt recusada")
		return remoteError("exclusão de prompt", err)
	}

	uc.Store.RemovePrompt(id)
	uc.log.Info().Int64("prompt_id", id).Msg("🗑️ prompt excluído")
	publishAudit(ctx, uc.Audit, uc.log, queue.MutationEvent{Kind: queue.KindPromptDelete, PromptID: id})
	return nil
}

// ToggleStatus manda só o status invertido, como atualização parcial.
func (uc *ManagePromptsUseCase) ToggleStatus(ctx context.Context, id int64) (entity.Prompt, error) {
	current, ok := uc.Store.Prompt(id)
	if !ok {
		return entity.Prompt{}, fmt.Errorf("%w: id %d", ErrPromptNotFound, id)
	}

	next := current.Status.Toggle()
	if err := uc.Gateway.UpdatePrompt(ctx, id, map[string]interface{}{"status": next}); err != nil {
		uc.log.Error().Err(err).Int64("prompt_id", id).Msg("❌ troca de status recusada")
		return entity.Prompt{}, remoteError("alteração de status", err)
	}

	current.Status = next
	uc.Store.ReplacePrompt(current)
	uc.log.Info().Int64("prompt_id", id).Str("status", string(next)).Msg("🔁 status do prompt alterado")
	publishAudit(ctx, uc.Audit, uc.log, queue.MutationEvent{Kind: queue.KindPromptToggle, PromptID: id, Changed: []string{"status"}})
	return current, nil
}

// Duplicate cria uma cópia inativa com o título "<título> (Cópia)". O original não muda.
func (uc *ManagePromptsUseCase) Duplicate(ctx context.Context, id int64) (entity.Prompt, error) {
	source, ok := uc.Store.Prompt(id)
	if !ok {
		return entity.Prompt{}, fmt.Errorf("%w: id %d", ErrPromptNotFound, id)
	}

	copyOf := source
	copyOf.ID = 0
	copyOf.CreatedAt = ""
	copyOf.Title = source.Title + " (Cópia)"
	copyOf.Status = entity.PromptInactive
	return uc.create(ctx, copyOf, queue.KindPromptDuplicate)
}
