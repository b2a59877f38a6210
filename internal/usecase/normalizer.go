package usecase

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
)

var leadFields = map[string]bool{
	"id": true, "nomewpp": true, "telefone": true, "telefone_limpo": true, "email": true,
	"origem_lead": true, "status_atendimento": true, "etapa_funil": true, "pontuacao_lead": true,
	"data_agendamento": true, "resumo_atendimento": true, "created_at": true, "agendamento": true,
	"is_duplicate": true, "duplicate_count": true,
}

var promptFields = map[string]bool{
	"id": true, "titulo": true, "categoria": true, "descricao": true, "conteudo": true,
	"status": true, "prioridade": true, "created_at": true,
}

// Normalizer converte os registros crus do webhook no formato canônico.
// Com PreserveUnknown os campos fora do formato vão para Lead.Extra em vez de sumir.
type Normalizer struct {
	PreserveUnknown bool
}

func NewNormalizer(preserveUnknown bool) Normalizer {
	return Normalizer{PreserveUnknown: preserveUnknown}
}

func (n Normalizer) Normalize(items []gjson.Result) []entity.Lead {
	leads := make([]entity.Lead, 0, len(items))
	for _, raw := range items {
		leads = append(leads, n.normalizeLead(raw))
	}
	return leads
}

func (n Normalizer) normalizeLead(raw gjson.Result) entity.Lead {
	id, _ := webhook.CoerceInt(raw.Get("id"))
	phone := text(raw.Get("telefone"))

	lead := entity.Lead{
		ID:             id,
		Name:           trimmed(raw.Get("nomewpp")),
		Phone:          entity.CleanPhone(phone),
		PhoneKey:       entity.CleanPhoneForComparison(phone),
		Email:          trimmed(raw.Get("email")),
		Origin:         text(raw.Get("origem_lead")),
		Status:         text(raw.Get("status_atendimento")),
		FunnelStage:    text(raw.Get("etapa_funil")),
		ScheduledAt:    entity.NullString(text(raw.Get("data_agendamento"))),
		Summary:        text(raw.Get("resumo_atendimento")),
		CreatedAt:      entity.NullString(text(raw.Get("created_at"))),
		Scheduled:      isTrue(raw.Get("agendamento")),
		IsDuplicate:    false,
		DuplicateCount: 1,
	}

	if score, ok := webhook.CoerceFloat(raw.Get("pontuacao_lead")); ok {
		lead.Score = &score
	}

	if n.PreserveUnknown {
		lead.Extra = extraFields(raw, leadFields)
	}
	return lead
}

// NormalizePrompts aplica as mesmas coerções leves aos prompts. Status e prioridade
// desconhecidos passam como vieram; quem exibe decide o fallback.
func (n Normalizer) NormalizePrompts(items []gjson.Result) []entity.Prompt {
	prompts := make([]entity.Prompt, 0, len(items))
	for _, raw := range items {
		id, _ := webhook.CoerceInt(raw.Get("id"))
		prompts = append(prompts, entity.Prompt{
			ID:          id,
			Title:       text(raw.Get("titulo")),
			Category:    text(raw.Get("categoria")),
			Description: text(raw.Get("descricao")),
			Content:     text(raw.Get("conteudo")),
			Status:      entity.PromptStatus(text(raw.Get("status"))),
			Priority:    entity.PromptPriority(text(raw.Get("prioridade"))),
			CreatedAt:   text(raw.Get("created_at")),
		})
	}
	return prompts
}

// text devolve strings e números como texto; null, objetos e arrays viram "".
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	}
	return ""
}

func trimmed(v gjson.Result) *string {
	return entity.NullString(strings.TrimSpace(text(v)))
}

func isTrue(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.String:
		return v.Str == "true"
	}
	return false
}

func extraFields(raw gjson.Result, known map[string]bool) map[string]json.RawMessage {
	if !raw.IsObject() {
		return nil
	}
	var extra map[string]json.RawMessage
	raw.ForEach(func(key, value gjson.Result) bool {
		if known[key.Str] {
			return true
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key.Str] = json.RawMessage(value.Raw)
		return true
	})
	return extra
}
