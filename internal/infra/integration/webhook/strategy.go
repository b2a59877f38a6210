package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/xavierca1/painel-leads/internal/infra/http/middleware"
)

const maxResponseBody = 16 << 20

// Doer é o transporte HTTP; *http.Client satisfaz a interface.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Strategy descreve um formato de requisição tentado como fallback.
type Strategy struct {
	Name    string
	Method  string
	Headers map[string]string
	Body    func() []byte
}

// Runner tenta cada estratégia em ordem até a primeira resposta 2xx com JSON válido.
type Runner struct {
	http      Doer
	userAgent string
	token     string
	log       zerolog.Logger
}

func NewRunner(doer Doer, userAgent, token string, log zerolog.Logger) *Runner {
	return &Runner{
		http:      doer,
		userAgent: userAgent,
		token:     token,
		log:       log,
	}
}

func (r *Runner) Run(ctx context.Context, resource, url string, strategies []Strategy) (gjson.Result, error) {
	var lastErr error
	attempts := 0
	if len(strategies) == 0 {
		lastErr = errors.New("nenhuma estratégia configurada")
	}

	for _, s := range strategies {
		attempts++
		start := time.Now()
		body, err := r.attempt(ctx, url, s)
		if err == nil {
			middleware.RecordWebhookAttempt(resource, s.Name, "success")
			r.log.Info().
				Str("resource", resource).
				Str("strategy", s.Name).
				Dur("duration", time.Since(start)).
				Msg("estratégia bem-sucedida")
			return body, nil
		}

		middleware.RecordWebhookAttempt(resource, s.Name, outcome(err))
		r.log.Warn().
			Err(err).
			Str("resource", resource).
			Str("strategy", s.Name).
			Msg("estratégia falhou, tentando a próxima")
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return gjson.Result{}, &AllStrategiesExhaustedError{
		URL:      url,
		Attempts: attempts,
		Last:     lastErr,
	}
}

func (r *Runner) attempt(ctx context.Context, url string, s Strategy) (gjson.Result, error) {
	var body io.Reader
	if s.Method != http.MethodGet && s.Body != nil {
		body = bytes.NewReader(s.Body())
	}

	req, err := http.NewRequestWithContext(ctx, s.Method, url, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("erro ao montar requisição %s: %w", s.Name, err)
	}
	r.setHeaders(req, s.Headers)

	resp, err := r.http.Do(req)
	if err != nil {
		return gjson.Result{}, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return gjson.Result{}, &NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &HTTPStatusError{Status: resp.StatusCode, Body: truncate(raw)}
	}

	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, &ParseError{URL: url, Body: truncate(raw)}
	}
	return gjson.ParseBytes(raw), nil
}

// setHeaders aplica os headers padrão e depois os da estratégia, que têm precedência.
func (r *Runner) setHeaders(req *http.Request, extra map[string]string) {
	req.Header.Set("Accept", "application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
}

func outcome(err error) string {
	var statusErr *HTTPStatusError
	var parseErr *ParseError
	switch {
	case errors.As(err, &statusErr):
		return "http_status"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "network"
	}
}

// Collection interpreta o corpo como coleção: array, campo "data", objeto único ou vazio.
func Collection(body gjson.Result) []gjson.Result {
	switch {
	case body.IsArray():
		return body.Array()
	case body.Get("data").IsArray():
		return body.Get("data").Array()
	case body.IsObject():
		return []gjson.Result{body}
	}
	return []gjson.Result{}
}
