package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/http/middleware"
)

const (
	ResourceLeads   = "leads"
	ResourcePrompts = "prompts"
)

type Endpoints struct {
	Leads        string
	DeleteLeads  string
	EditLead     string
	Prompts      string
	CreatePrompt string
	EditPrompt   string
	DeletePrompt string
}

// Client conversa com os webhooks do n8n que alimentam o painel.
type Client struct {
	endpoints Endpoints
	http      Doer
	runner    *Runner
	userAgent string
	token     string
	now       func() time.Time
	log       zerolog.Logger
}

type Option func(*Client)

// WithClock troca o relógio usado nos timestamps dos payloads.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func NewClient(endpoints Endpoints, doer Doer, log zerolog.Logger, opts ...Option) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}
	c := &Client{
		endpoints: endpoints,
		http:      doer,
		userAgent: "Dashboard-Leads/1.0",
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.runner = NewRunner(doer, c.userAgent, c.token, log)
	return c
}

// LeadStrategies: a consulta de leads só tem um formato.
func (c *Client) LeadStrategies() []Strategy {
	return []Strategy{
		{
			Name:    "POST padrão",
			Method:  http.MethodPost,
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    c.timestampBody,
		},
	}
}

// PromptStrategies lista os formatos aceitos (em algum momento) pelo webhook consulta-prompts.
func (c *Client) PromptStrategies() []Strategy {
	return []Strategy{
		{
			Name:    "POST padrão",
			Method:  http.MethodPost,
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    c.timestampBody,
		},
		{
			Name:    "POST simples",
			Method:  http.MethodPost,
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    func() []byte { return []byte(`{}`) },
		},
		{
			Name:    "GET simples",
			Method:  http.MethodGet,
			Headers: map[string]string{"Accept": "application/json"},
		},
		{
			Name:   "POST sem headers",
			Method: http.MethodPost,
			Body:   func() []byte { return []byte(`{"action":"consultar"}`) },
		},
	}
}

func (c *Client) timestampBody() []byte {
	body, _ := json.Marshal(map[string]string{
		"timestamp": c.now().UTC().Format(time.RFC3339Nano),
	})
	return body
}

// FetchLeads devolve os registros crus; só um array conta como coleção.
func (c *Client) FetchLeads(ctx context.Context) ([]gjson.Result, error) {
	body, err := c.runner.Run(ctx, ResourceLeads, c.endpoints.Leads, c.LeadStrategies())
	if err != nil {
		return nil, err
	}
	if !body.IsArray() {
		c.log.Warn().Msg("resposta de leads não é um array, tratando como vazia")
		return []gjson.Result{}, nil
	}
	return body.Array(), nil
}

func (c *Client) FetchPrompts(ctx context.Context) ([]gjson.Result, error) {
	body, err := c.runner.Run(ctx, ResourcePrompts, c.endpoints.Prompts, c.PromptStrategies())
	if err != nil {
		return nil, err
	}
	return Collection(body), nil
}

func (c *Client) DeleteLeads(ctx context.Context, mode DeleteMode, leads []entity.Lead) error {
	req := NewDeleteLeadsRequest(mode, leads, c.now())
	_, err := c.post(ctx, "leads.delete", c.endpoints.DeleteLeads, req)
	return err
}

func (c *Client) EditLead(ctx context.Context, original, updated entity.Lead, changed map[string]interface{}) error {
	req := NewEditLeadRequest(original, updated, changed, c.now())
	_, err := c.post(ctx, "lead.edit", c.endpoints.EditLead, req)
	return err
}

// CreatePrompt devolve o id informado pelo servidor, ou 0 se a resposta não trouxer nenhum.
func (c *Client) CreatePrompt(ctx context.Context, p entity.Prompt) (int64, error) {
	body, err := c.post(ctx, "prompt.create", c.endpoints.CreatePrompt, NewCreatePromptRequest(p, c.now()))
	if err != nil {
		return 0, err
	}
	return ResponseID(body), nil
}

func (c *Client) UpdatePrompt(ctx context.Context, id int64, fields map[string]interface{}) error {
	payload := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		payload[k] = v
	}
	payload["promptId"] = id
	payload["timestamp"] = c.now().UTC().Format(time.RFC3339Nano)

	_, err := c.post(ctx, "prompt.update", c.endpoints.EditPrompt, payload)
	return err
}

func (c *Client) DeletePrompt(ctx context.Context, id int64) error {
	req := deletePromptRequest{PromptID: id, Timestamp: c.now().UTC().Format(time.RFC3339Nano)}
	_, err := c.post(ctx, "prompt.delete", c.endpoints.DeletePrompt, req)
	return err
}

// post faz uma única tentativa, sem fallback nem retry.
func (c *Client) post(ctx context.Context, operation, url string, payload interface{}) (gjson.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("erro ao converter payload de %s: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("erro ao montar requisição de %s: %w", operation, err)
	}
	c.addHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		middleware.RecordWebhookMutation(operation, "network")
		return gjson.Result{}, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		middleware.RecordWebhookMutation(operation, "http_status")
		c.log.Error().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Str("body", truncate(respBody)).
			Msg("webhook rejeitou a operação")
		return gjson.Result{}, &HTTPStatusError{Status: resp.StatusCode, Body: truncate(respBody)}
	}

	middleware.RecordWebhookMutation(operation, "success")
	c.log.Info().Str("operation", operation).Int("status", resp.StatusCode).Msg("operação enviada ao webhook")

	// 2xx basta; o corpo só é usado quando for JSON
	if !gjson.ValidBytes(respBody) {
		return gjson.Result{}, nil
	}
	return gjson.ParseBytes(respBody), nil
}

func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// ResponseID procura o id em {"id":..} ou [{"id":..}]. Devolve 0 quando ausente ou inválido.
func ResponseID(body gjson.Result) int64 {
	for _, path := range []string{"id", "0.id", "data.id"} {
		v := body.Get(path)
		if !v.Exists() {
			continue
		}
		if id, ok := CoerceInt(v); ok && id != 0 {
			return id
		}
	}
	return 0
}

// CoerceInt aceita número ou string numérica.
func CoerceInt(v gjson.Result) (int64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Int(), true
	case gjson.String:
		f, ok := CoerceFloat(v)
		return int64(f), ok
	}
	return 0, false
}

// CoerceFloat aceita número ou string numérica, como o Number() do front antigo.
func CoerceFloat(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
