package webhook

import (
	"time"

	"github.com/xavierca1/painel-leads/internal/entity"
)

type DeleteMode string

const (
	DeleteSingle DeleteMode = "single"
	DeleteBulk   DeleteMode = "bulk"
	DeleteAll    DeleteMode = "all"
)

// DeleteLeadsRequest é o corpo enviado ao webhook deletar-dados-dash.
// No modo "all" a lista de leads e a quantidade não vão no payload: é um sinal de limpeza total.
// Nos demais modos quantidade sempre é enviada, mesmo zero.
type DeleteLeadsRequest struct {
	Titulo     string        `json:"titulo"`
	Tipo       DeleteMode    `json:"tipo,omitempty"`
	Quantidade *int          `json:"quantidade,omitempty"`
	Timestamp  string        `json:"timestamp,omitempty"`
	Leads      []entity.Lead `json:"leads,omitempty"`
}

func NewDeleteLeadsRequest(mode DeleteMode, leads []entity.Lead, now time.Time) DeleteLeadsRequest {
	ts := now.UTC().Format(time.RFC3339Nano)
	if mode == DeleteAll {
		return DeleteLeadsRequest{
			Titulo:    "excluir TODOS os Leads",
			Tipo:      DeleteAll,
			Timestamp: ts,
		}
	}
	n := len(leads)
	return DeleteLeadsRequest{
		Titulo:     "excluir leads",
		Tipo:       mode,
		Quantidade: &n,
		Timestamp:  ts,
		Leads:      leads,
	}
}

type EditLeadRequest struct {
	Titulo         string                 `json:"titulo"`
	LeadID         int64                  `json:"leadId"`
	DadosOriginais entity.Lead            `json:"dadosOriginais"`
	DadosAlterados map[string]interface{} `json:"dadosAlterados"`
	LeadCompleto   entity.Lead            `json:"leadCompleto"`
	Timestamp      string                 `json:"timestamp"`
}

func NewEditLeadRequest(original, updated entity.Lead, changed map[string]interface{}, now time.Time) EditLeadRequest {
	return EditLeadRequest{
		Titulo:         "editar lead",
		LeadID:         original.ID,
		DadosOriginais: original,
		DadosAlterados: changed,
		LeadCompleto:   updated,
		Timestamp:      now.UTC().Format(time.RFC3339Nano),
	}
}

type CreatePromptRequest struct {
	Titulo     string                `json:"titulo"`
	Categoria  string                `json:"categoria"`
	Descricao  string                `json:"descricao,omitempty"`
	Conteudo   string                `json:"conteudo"`
	Status     entity.PromptStatus   `json:"status"`
	Prioridade entity.PromptPriority `json:"prioridade"`
	Timestamp  string                `json:"timestamp"`
}

func NewCreatePromptRequest(p entity.Prompt, now time.Time) CreatePromptRequest {
	return CreatePromptRequest{
		Titulo:     p.Title,
		Categoria:  p.Category,
		Descricao:  p.Description,
		Conteudo:   p.Content,
		Status:     p.Status,
		Prioridade: p.Priority,
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
	}
}

// PromptFields converte um prompt nos campos parciais aceitos por editar-prompt.
func PromptFields(p entity.Prompt) map[string]interface{} {
	fields := map[string]interface{}{
		"titulo":     p.Title,
		"categoria":  p.Category,
		"conteudo":   p.Content,
		"status":     p.Status,
		"prioridade": p.Priority,
	}
	if p.Description != "" {
		fields["descricao"] = p.Description
	}
	return fields
}

type deletePromptRequest struct {
	PromptID  int64  `json:"promptId"`
	Timestamp string `json:"timestamp"`
}
