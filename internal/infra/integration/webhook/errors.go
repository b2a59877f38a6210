package webhook

import (
	"fmt"
	"unicode/utf8"
)

const maxErrorBody = 100

// NetworkError: falha de transporte (conexão recusada, DNS, timeout).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("erro de rede em %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError: resposta fora da faixa 2xx. Body já vem truncado.
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// ParseError: corpo da resposta não é JSON válido.
type ParseError struct {
	URL  string
	Body string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("resposta inválida de %s: JSON malformado (%q)", e.URL, e.Body)
}

// AllStrategiesExhaustedError envolve a última falha depois de tentar todas as estratégias.
type AllStrategiesExhaustedError struct {
	URL      string
	Attempts int
	Last     error
}

func (e *AllStrategiesExhaustedError) Error() string {
	return fmt.Sprintf("todas as %d estratégias falharam para %s: %v", e.Attempts, e.URL, e.Last)
}

func (e *AllStrategiesExhaustedError) Unwrap() error { return e.Last }

func truncate(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}
