package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
)

func promptStore() *Store {
	s := NewStore()
	s.ReplacePrompts([]entity.Prompt{
		{ID: 10, Title: "Boas-vindas", Category: "Atendimento", Content: "Olá {nome}", Status: entity.PromptActive, Priority: entity.PriorityHigh},
		{ID: 11, Title: "Cobrança", Category: "Financeiro", Content: "Seu boleto vence {data}", Status: entity.PromptInactive, Priority: entity.PriorityLow},
	})
	return s
}

func newPromptsUC(gw PromptMutationGateway, store *Store) *ManagePromptsUseCase {
	uc := NewManagePromptsUseCase(gw, store, nil, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return uc
}

func TestCreatePromptUsesServerID(t *testing.T) {
	store := promptStore()
	gw := new(MockPromptGateway)
	gw.On("CreatePrompt", mock.Anything, mock.MatchedBy(func(p entity.Prompt) bool {
		return p.ID == 0 && p.Title == "Follow-up" && p.Status == entity.PromptActive && p.Priority == entity.PriorityMedium
	})).Return(int64(77), nil)

	p, err := newPromptsUC(gw, store).Create(context.Background(), PromptInput{
		Title: " Follow-up ", Category: "Vendas", Content: "Oi {nome}",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), p.ID)
	assert.Equal(t, "2024-03-01T12:00:00Z", p.CreatedAt)
	assert.Equal(t, int64(77), store.Prompts()[0].ID, "novo prompt entra no topo")
}

func TestCreatePromptWithoutServerIDFails(t *testing.T) {
	store := promptStore()
	gw := new(MockPromptGateway)
	gw.On("CreatePrompt", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := newPromptsUC(gw, store).Create(context.Background(), PromptInput{Title: "X", Category: "Y", Content: "Z"})
	assert.ErrorIs(t, err, ErrMissingPromptID)
	assert.Len(t, store.Prompts(), 2)
}

func TestCreatePromptValidation(t *testing.T) {
	gw := new(MockPromptGateway)
	_, err := newPromptsUC(gw, promptStore()).Create(context.Background(), PromptInput{Title: "Só título"})
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
	assert.Contains(t, err.Error(), "categoria")
	gw.AssertNotCalled(t, "CreatePrompt", mock.Anything, mock.Anything)

	_, err = newPromptsUC(gw, promptStore()).Create(context.Background(), PromptInput{Title: "a", Category: "b", Content: "c", Status: "pausado"})
	assert.True(t, IsDomainError(err))
}

func TestTogglePromptSendsOnlyStatus(t *testing.T) {
	store := promptStore()
	gw := new(MockPromptGateway)
	gw.On("UpdatePrompt", mock.Anything, int64(10), map[string]interface{}{"status": entity.PromptInactive}).Return(nil)

	p, err := newPromptsUC(gw, store).ToggleStatus(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, entity.PromptInactive, p.Status)

	stored, _ := store.Prompt(10)
	assert.Equal(t, entity.PromptInactive, stored.Status)
	gw.AssertExpectations(t)
}

func TestTogglePromptFailureKeepsStatus(t *testing.T) {
	store := promptStore()
	gw := new(MockPromptGateway)
	gw.On("UpdatePrompt", mock.Anything, int64(11), mock.Anything).Return(&webhook.HTTPStatusError{Status: 500, Body: "x"})

	_, err := newPromptsUC(gw, store).ToggleStatus(context.Background(), 11)
	require.Error(t, err)

	stored, _ := store.Prompt(11)
	assert.Equal(t, entity.PromptInactive, stored.Status)
}

func TestUpdatePromptMergesFields(t *testing.T) {
	store := promptStore()
	gw := new(MockPromptGateway)
	gw.On("UpdatePrompt", mock.Anything, int64(11), mock.MatchedBy(func(f map[string]interface{}) bool {
		return f["titulo"] == "Cobrança gentil" && f["prioridade"] == entity.PriorityHigh
	})).Return(nil)

	p, err := newPromptsUC(gw, store).Update(context.Background(), 11, PromptInput{
		Title: "Cobrança gentil", Category: "Financeiro", Content: "Seu boleto vence {data}",
		Status: entity.PromptInactive, Priority: entity.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)

	stored, _ := store.Prompt(11)
	assert.Equal(t, "Cobrança gentil", stored.Title)
}

func TestUpdatePromptKeepsOmittedStatusAndPriority(t *testing.T) {
	store := promptStore()
	gw := new(MockPromptGateway)
	gw.On("UpdatePrompt", mock.Anything, int64(11), mock.MatchedBy(func(f map[string]interface{}) bool {
		return f["status"] == entity.PromptInactive && f["prioridade"] == entity.PriorityLow
	})).Return(nil)

	p, err := newPromptsUC(gw, store).Update(context.Background(), 11, PromptInput{
		Title: "Cobrança revisada", Category: "Financeiro", Content: "Seu boleto vence {data}",
	})
	require.NoError(t, err)
	gw.AssertExpectations(t)
	assert.Equal(t, entity.PromptInactive, p.Status)
	assert.Equal(t, entity.PriorityLow, p.Priority)

	stored, _ := store.Prompt(11)
	assert.Equal(t, entity.PromptInactive, stored.Status)
	assert.Equal(t, entity.PriorityLow, stored.Priority)
	assert.Equal(t, "Cobrança revisada", stored.Title)
}

func TestDeletePrompt(t *testing.T) {
	store := promptStore()
	gw := new(MockPromptGateway)
	gw.On("DeletePrompt", mock.Anything, int64(10)).Return(nil)

	uc := newPromptsUC(gw, store)
	require.NoError(t, uc.Delete(context.Background(), 10))
	assert.Len(t, store.Prompts(), 1)

	assert.ErrorIs(t, uc.Delete(context.Background(), 10), ErrPromptNotFound)
}

func TestDuplicateCreatesInactiveCopy(t *testing.T) {
	store := promptStore()
	gw := new(MockPromptGateway)
	gw.On("CreatePrompt", mock.Anything, mock.MatchedBy(func(p entity.Prompt) bool {
		return p.Title == "Boas-vindas (Cópia)" && p.Status == entity.PromptInactive && p.Content == "Olá {nome}"
	})).Return(int64(12), nil)

	p, err := newPromptsUC(gw, store).Duplicate(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.ID)

	source, _ := store.Prompt(10)
	assert.Equal(t, "Boas-vindas", source.Title)
	assert.Equal(t, entity.PromptActive, source.Status)
	assert.Len(t, store.Prompts(), 3)
	gw.AssertNotCalled(t, "UpdatePrompt", mock.Anything, mock.Anything, mock.Anything)
}
