package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
	"github.com/xavierca1/painel-leads/internal/infra/queue"
)

type DeleteLeadsInput struct {
	Mode webhook.DeleteMode `json:"tipo"`
	IDs  []int64            `json:"ids"`
}

type DeleteLeadsOutput struct {
	Mode    webhook.DeleteMode `json:"tipo"`
	Removed []int64            `json:"removed"`
}

type DeleteLeadsUseCase struct {
	Gateway LeadMutationGateway
	Store   *Store
	Audit   AuditPublisher
	log     zerolog.Logger
}

func NewDeleteLeadsUseCase(gateway LeadMutationGateway, store *Store, audit AuditPublisher, log zerolog.Logger) *DeleteLeadsUseCase {
	return &DeleteLeadsUseCase{Gateway: gateway, Store: store, Audit: audit, log: log}
}

// Execute envia a exclusão e, só depois da confirmação, tira do store exatamente os ids enviados.
// No modo "all" a lista vem do store no momento do envio e não vai no payload.
func (uc *DeleteLeadsUseCase) Execute(ctx context.Context, in DeleteLeadsInput) (DeleteLeadsOutput, error) {
	leads, err := uc.resolve(in)
	if err != nil {
		return DeleteLeadsOutput{}, err
	}

	ids := make([]int64, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}

	if err := uc.Gateway.DeleteLeads(ctx, in.Mode, leads); err != nil {
		uc.log.Error().Err(err).Str("mode", string(in.Mode)).Int("leads", len(ids)).Msg("❌ exclusão recusada pelo webhook")
		return DeleteLeadsOutput{}, remoteError("exclusão de leads", err)
	}

	removed := uc.Store.RemoveLeads(ids)
	uc.log.Info().Str("mode", string(in.Mode)).Int("removed", removed).Msg("🗑️ leads excluídos")

	publishAudit(ctx, uc.Audit, uc.log, queue.MutationEvent{
		Kind:    queue.KindLeadsDelete,
		Mode:    string(in.Mode),
		LeadIDs: ids,
	})
	return DeleteLeadsOutput{Mode: in.Mode, Removed: ids}, nil
}

func (uc *DeleteLeadsUseCase) resolve(in DeleteLeadsInput) ([]entity.Lead, error) {
	switch in.Mode {
	case webhook.DeleteAll:
		return uc.Store.Leads(), nil
	case webhook.DeleteSingle:
		if len(in.IDs) != 1 {
			return nil, validationError("INVALID_DELETE", "exclusão single exige exatamente um id")
		}
	case webhook.DeleteBulk:
		if len(in.IDs) == 0 {
			return nil, validationError("INVALID_DELETE", "exclusão bulk exige pelo menos um id")
		}
	default:
		return nil, validationError("INVALID_DELETE", fmt.Sprintf("tipo de exclusão desconhecido: %q", in.Mode))
	}

	leads := make([]entity.Lead, 0, len(in.IDs))
	seen := make(map[int64]bool, len(in.IDs))
	for _, id := range in.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		l, ok := uc.Store.Lead(id)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrLeadNotFound, id)
		}
		leads = append(leads, l)
	}
	return leads, nil
}

type EditLeadInput struct {
	Original entity.Lead
	Updated  entity.Lead
}

type EditLeadOutput struct {
	Lead    entity.Lead            `json:"lead"`
	Changed map[string]interface{} `json:"changed"`
}

type EditLeadUseCase struct {
	Gateway LeadMutationGateway
	Audit   AuditPublisher
	log     zerolog.Logger
}

func NewEditLeadUseCase(gateway LeadMutationGateway, audit AuditPublisher, log zerolog.Logger) *EditLeadUseCase {
	return &EditLeadUseCase{Gateway: gateway, Audit: audit, log: log}
}

// Execute só fala com o webhook. Aplicar a alteração no store é um passo separado (ApplyLeadUpdate).
func (uc *EditLeadUseCase) Execute(ctx context.Context, in EditLeadInput) (EditLeadOutput, error) {
	if in.Original.ID != in.Updated.ID {
		return EditLeadOutput{}, validationError("INVALID_EDIT", "o id do lead não pode ser alterado")
	}

	in.Updated = NormalizeEditedLead(in.Updated)
	changed := ChangedFields(in.Original, in.Updated)
	if len(changed) == 0 {
		return EditLeadOutput{}, validationError("NO_CHANGES", "nenhum campo alterado")
	}

	if err := uc.Gateway.EditLead(ctx, in.Original, in.Updated, changed); err != nil {
		uc.log.Error().Err(err).Int64("lead_id", in.Original.ID).Msg("❌ edição recusada pelo webhook")
		return EditLeadOutput{}, remoteError("edição de lead", err)
	}

	keys := sortedKeys(changed)
	uc.log.Info().Int64("lead_id", in.Original.ID).Strs("changed", keys).Msg("✏️ lead editado")
	publishAudit(ctx, uc.Audit, uc.log, queue.MutationEvent{
		Kind:    queue.KindLeadEdit,
		LeadIDs: []int64{in.Original.ID},
		Changed: keys,
	})
	return EditLeadOutput{Lead: in.Updated, Changed: changed}, nil
}

// NormalizeEditedLead refaz no lead editado as derivações da carga: telefone limpo,
// chave de comparação e textos vazios como nulos.
func NormalizeEditedLead(l entity.Lead) entity.Lead {
	raw := entity.StringValue(l.Phone)
	l.Phone = entity.CleanPhone(raw)
	if l.Phone != nil && *l.Phone == "" {
		l.Phone = nil
	}
	l.PhoneKey = entity.CleanPhoneForComparison(raw)
	l.Name = entity.NullString(strings.TrimSpace(entity.StringValue(l.Name)))
	l.Email = entity.NullString(strings.TrimSpace(entity.StringValue(l.Email)))
	l.ScheduledAt = entity.NullString(entity.StringValue(l.ScheduledAt))
	l.CreatedAt = entity.NullString(entity.StringValue(l.CreatedAt))
	return l
}

// ApplyLeadUpdate grava no store um lead já confirmado pelo webhook.
func ApplyLeadUpdate(store *Store, lead entity.Lead) error {
	if !store.ReplaceLead(lead) {
		return fmt.Errorf("%w: id %d", ErrLeadNotFound, lead.ID)
	}
	return nil
}

// ChangedFields devolve, com os nomes do wire, os campos cujo valor mudou.
// Campos que sumiram no lead editado aparecem com valor nil.
func ChangedFields(original, updated entity.Lead) map[string]interface{} {
	before, after := wireMap(original), wireMap(updated)
	changed := make(map[string]interface{})
	for k, v := range after {
		if !reflect.DeepEqual(before[k], v) {
			changed[k] = v
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			changed[k] = nil
		}
	}
	delete(changed, "extra")
	return changed
}

func wireMap(l entity.Lead) map[string]interface{} {
	m := make(map[string]interface{})
	b, err := json.Marshal(l)
	if err != nil {
		return m
	}
	_ = json.Unmarshal(b, &m)
	return m
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// publishAudit não derruba a operação: a mutação já foi confirmada pelo webhook.
func publishAudit(ctx context.Context, audit AuditPublisher, log zerolog.Logger, event queue.MutationEvent) {
	if audit == nil {
		return
	}
	if err := audit.PublishMutation(ctx, event); err != nil {
		log.Warn().Err(err).Str("kind", event.Kind).Msg("⚠️ falha ao publicar evento de auditoria")
	}
}
