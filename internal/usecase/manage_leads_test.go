package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
	"github.com/xavierca1/painel-leads/internal/infra/queue"
)

func seededStore() *Store {
	s := NewStore()
	s.ReplaceLeads([]entity.Lead{
		{ID: 1, Name: strPtr("Ana"), Status: "Em andamento"},
		{ID: 2, Name: strPtr("Beto"), Status: "Qualificado"},
		{ID: 3, Name: strPtr("Caio"), Status: "Perdido"},
	})
	return s
}

func TestDeleteBulkRemovesExactlyDeletedIDs(t *testing.T) {
	store := seededStore()
	gw := new(MockLeadGateway)
	audit := new(MockAuditPublisher)

	gw.On("DeleteLeads", mock.Anything, webhook.DeleteBulk, mock.MatchedBy(func(ls []entity.Lead) bool {
		return len(ls) == 2 && ls[0].ID == 1 && ls[1].ID == 3
	})).Return(nil)
	audit.On("PublishMutation", mock.Anything, mock.MatchedBy(func(e queue.MutationEvent) bool {
		return e.Kind == queue.KindLeadsDelete && e.Mode == "bulk"
	})).Return(nil)

	uc := NewDeleteLeadsUseCase(gw, store, audit, zerolog.Nop())
	out, err := uc.Execute(context.Background(), DeleteLeadsInput{Mode: webhook.DeleteBulk, IDs: []int64{1, 3, 1}})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3}, out.Removed)
	assert.Equal(t, []int64{2}, ids(store.Leads()))
	gw.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestDeleteFailureLeavesStoreUntouched(t *testing.T) {
	store := seededStore()
	gw := new(MockLeadGateway)
	gw.On("DeleteLeads", mock.Anything, webhook.DeleteSingle, mock.Anything).
		Return(&webhook.HTTPStatusError{Status: 502, Body: "bad gateway"})
	audit := new(MockAuditPublisher)

	uc := NewDeleteLeadsUseCase(gw, store, audit, zerolog.Nop())
	_, err := uc.Execute(context.Background(), DeleteLeadsInput{Mode: webhook.DeleteSingle, IDs: []int64{2}})
	require.Error(t, err)

	assert.True(t, IsTechnicalError(err))
	var statusErr *webhook.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 502, statusErr.Status)

	assert.Len(t, store.Leads(), 3)
	audit.AssertNotCalled(t, "PublishMutation", mock.Anything, mock.Anything)
	gw.AssertNumberOfCalls(t, "DeleteLeads", 1)
}

func TestDeleteAllUsesEveryKnownLead(t *testing.T) {
	store := seededStore()
	gw := new(MockLeadGateway)
	gw.On("DeleteLeads", mock.Anything, webhook.DeleteAll, mock.Anything).Return(nil)

	uc := NewDeleteLeadsUseCase(gw, store, nil, zerolog.Nop())
	out, err := uc.Execute(context.Background(), DeleteLeadsInput{Mode: webhook.DeleteAll})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, out.Removed)
	assert.Empty(t, store.Leads())
}

func TestDeleteValidation(t *testing.T) {
	uc := NewDeleteLeadsUseCase(new(MockLeadGateway), seededStore(), nil, zerolog.Nop())

	_, err := uc.Execute(context.Background(), DeleteLeadsInput{Mode: webhook.DeleteSingle, IDs: []int64{1, 2}})
	assert.True(t, IsDomainError(err))

	_, err = uc.Execute(context.Background(), DeleteLeadsInput{Mode: webhook.DeleteBulk})
	assert.True(t, IsDomainError(err))

	_, err = uc.Execute(context.Background(), DeleteLeadsInput{Mode: "tudo"})
	assert.True(t, IsDomainError(err))

	_, err = uc.Execute(context.Background(), DeleteLeadsInput{Mode: webhook.DeleteSingle, IDs: []int64{99}})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	store := seededStore()
	gw := new(MockLeadGateway)
	gw.On("DeleteLeads", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	audit := new(MockAuditPublisher)
	audit.On("PublishMutation", mock.Anything, mock.Anything).Return(errors.New("broker fora"))

	uc := NewDeleteLeadsUseCase(gw, store, audit, zerolog.Nop())
	_, err := uc.Execute(context.Background(), DeleteLeadsInput{Mode: webhook.DeleteSingle, IDs: []int64{1}})
	assert.NoError(t, err)
	assert.Len(t, store.Leads(), 2)
}

func TestEditLeadSendsDeltaWithoutTouchingStore(t *testing.T) {
	store := seededStore()
	original, _ := store.Lead(2)
	updated := original
	updated.Status = "Convertido"
	updated.Email = strPtr("beto@ex.com")

	gw := new(MockLeadGateway)
	gw.On("EditLead", mock.Anything, original, updated, map[string]interface{}{
		"status_atendimento": "Convertido",
		"email":              "beto@ex.com",
	}).Return(nil)

	uc := NewEditLeadUseCase(gw, nil, zerolog.Nop())
	out, err := uc.Execute(context.Background(), EditLeadInput{Original: original, Updated: updated})
	require.NoError(t, err)
	assert.Len(t, out.Changed, 2)
	gw.AssertExpectations(t)

	stored, _ := store.Lead(2)
	assert.Equal(t, "Qualificado", stored.Status, "edição não altera o store sozinha")

	require.NoError(t, ApplyLeadUpdate(store, out.Lead))
	stored, _ = store.Lead(2)
	assert.Equal(t, "Convertido", stored.Status)
}

func TestEditLeadValidation(t *testing.T) {
	uc := NewEditLeadUseCase(new(MockLeadGateway), nil, zerolog.Nop())
	lead := entity.Lead{ID: 1, Status: "Perdido"}

	_, err := uc.Execute(context.Background(), EditLeadInput{Original: lead, Updated: lead})
	assert.True(t, IsDomainError(err))

	other := lead
	other.ID = 2
	_, err = uc.Execute(context.Background(), EditLeadInput{Original: lead, Updated: other})
	assert.True(t, IsDomainError(err))
}

func TestChangedFieldsRemovedValue(t *testing.T) {
	original := entity.Lead{ID: 1, Summary: "ligar amanhã", Name: strPtr("Ana")}
	updated := original
	updated.Summary = ""
	updated.Name = nil

	assert.Equal(t, map[string]interface{}{
		"resumo_atendimento": nil,
		"nomewpp":            nil,
	}, ChangedFields(original, updated))
}

func TestApplyLeadUpdateUnknownLead(t *testing.T) {
	err := ApplyLeadUpdate(seededStore(), entity.Lead{ID: 42})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestEditLeadNormalizesPhoneAndBlankFields(t *testing.T) {
	original := entity.Lead{ID: 7, Name: strPtr("Dora"), Phone: strPtr("11 97777-6666"), PhoneKey: "11977776666"}
	updated := original
	updated.Phone = strPtr("5511999998888@s.whatsapp.net")
	updated.Name = strPtr("   ")
	updated.ScheduledAt = strPtr("")

	gw := new(MockLeadGateway)
	gw.On("EditLead", mock.Anything, original, mock.MatchedBy(func(l entity.Lead) bool {
		return l.PhoneKey == "5511999998888" && l.Name == nil
	}), map[string]interface{}{
		"telefone":       "5511999998888",
		"telefone_limpo": "5511999998888",
		"nomewpp":        nil,
	}).Return(nil)

	uc := NewEditLeadUseCase(gw, nil, zerolog.Nop())
	out, err := uc.Execute(context.Background(), EditLeadInput{Original: original, Updated: updated})
	require.NoError(t, err)
	gw.AssertExpectations(t)

	assert.Equal(t, "5511999998888", entity.StringValue(out.Lead.Phone))
	assert.Equal(t, "5511999998888", out.Lead.PhoneKey)
	assert.Nil(t, out.Lead.Name)
	assert.Nil(t, out.Lead.ScheduledAt)
}

func TestNormalizeEditedLeadShortPhone(t *testing.T) {
	l := NormalizeEditedLead(entity.Lead{ID: 1, Phone: strPtr("123"), PhoneKey: "11988887777"})

	assert.Equal(t, "123", l.PhoneKey)
	assert.False(t, l.HasValidPhone())

	l = NormalizeEditedLead(entity.Lead{ID: 1, Phone: strPtr(""), PhoneKey: "11988887777"})
	assert.Nil(t, l.Phone)
	assert.Empty(t, l.PhoneKey)
}
