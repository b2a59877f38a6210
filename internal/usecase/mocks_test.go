package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/tidwall/gjson"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
	"github.com/xavierca1/painel-leads/internal/infra/queue"
)

// MockDataGateway
type MockDataGateway struct {
	mock.Mock
}

func (m *MockDataGateway) FetchLeads(ctx context.Context) ([]gjson.Result, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]gjson.Result)
	return res, args.Error(1)
}

func (m *MockDataGateway) FetchPrompts(ctx context.Context) ([]gjson.Result, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]gjson.Result)
	return res, args.Error(1)
}

// MockLeadGateway
type MockLeadGateway struct {
	mock.Mock
}

func (m *MockLeadGateway) DeleteLeads(ctx context.Context, mode webhook.DeleteMode, leads []entity.Lead) error {
	return m.Called(ctx, mode, leads).Error(0)
}

func (m *MockLeadGateway) EditLead(ctx context.Context, original, updated entity.Lead, changed map[string]interface{}) error {
	return m.Called(ctx, original, updated, changed).Error(0)
}

// MockPromptGateway
type MockPromptGateway struct {
	mock.Mock
}

func (m *MockPromptGateway) CreatePrompt(ctx context.Context, p entity.Prompt) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPromptGateway) UpdatePrompt(ctx context.Context, id int64, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *MockPromptGateway) DeletePrompt(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockAuditPublisher
type MockAuditPublisher struct {
	mock.Mock
}

func (m *MockAuditPublisher) PublishMutation(ctx context.Context, event queue.MutationEvent) error {
	return m.Called(ctx, event).Error(0)
}

// recordingNotifier guarda os avisos recebidos.
type recordingNotifier struct {
	mu       sync.Mutex
	warnings []*FetchFailedError
}

func (n *recordingNotifier) NotifyFetchFailed(_ context.Context, w *FetchFailedError) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, w)
}

func parseArray(raw string) []gjson.Result {
	return gjson.Parse(raw).Array()
}

func strPtr(s string) *string { return &s }
