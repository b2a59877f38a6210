package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/painel-leads/internal/entity"
)

func TestSortPrompts(t *testing.T) {
	prompts := []entity.Prompt{
		{ID: 1, Status: entity.PromptActive, Priority: entity.PriorityLow},
		{ID: 2, Status: entity.PromptInactive, Priority: entity.PriorityHigh},
		{ID: 3, Status: entity.PromptActive, Priority: entity.PriorityHigh},
	}

	sorted := SortPrompts(prompts)
	got := []int64{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []int64{3, 1, 2}, got)
}

func TestSortPromptsUnknownPriorityLast(t *testing.T) {
	prompts := []entity.Prompt{
		{ID: 1, Status: entity.PromptActive, Priority: "urgente"},
		{ID: 2, Status: entity.PromptActive, Priority: entity.PriorityLow},
		{ID: 3, Status: entity.PromptActive, Priority: entity.PriorityMedium},
	}
	sorted := SortPrompts(prompts)
	assert.Equal(t, int64(3), sorted[0].ID)
	assert.Equal(t, int64(1), sorted[2].ID)
}

func TestFilterPrompts(t *testing.T) {
	prompts := []entity.Prompt{
		{ID: 1, Title: "Boas-vindas", Category: "Atendimento", Content: "Olá {nome}", Status: entity.PromptActive},
		{ID: 2, Title: "Cobrança", Category: "Financeiro", Description: "Lembrete de BOLETO", Status: entity.PromptInactive},
		{ID: 3, Title: "Reengajar", Category: "Atendimento", Content: "Faz tempo, {nome}!", Status: entity.PromptInactive},
	}

	byID := func(ps []entity.Prompt) []int64 {
		out := []int64{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []int64{2}, byID(FilterPrompts(prompts, PromptFilter{Search: "boleto"})))
	assert.Equal(t, []int64{1, 3}, byID(FilterPrompts(prompts, PromptFilter{Search: "{NOME}"})))
	assert.Equal(t, []int64{3}, byID(FilterPrompts(prompts, PromptFilter{Category: "Atendimento", Status: "inativo"})))
	assert.Equal(t, []int64{1, 2, 3}, byID(FilterPrompts(prompts, PromptFilter{Category: FilterAll, Status: FilterAll})))
}

func TestPromptMetrics(t *testing.T) {
	prompts := []entity.Prompt{
		{Status: entity.PromptActive, Priority: entity.PriorityHigh},
		{Status: entity.PromptInactive, Priority: entity.PriorityHigh},
		{Status: entity.PromptActive, Priority: entity.PriorityLow},
		{Status: "rascunho"},
	}
	assert.Equal(t, PromptStats{Total: 4, Active: 2, Inactive: 1, HighPriority: 2}, PromptMetrics(prompts))
	assert.Equal(t, []string{}, Categories(nil))
}
