package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/painel-leads/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Retry   string `json:"retry,omitempty"`
}

// listResponse é o envelope das listagens; warnings carrega avisos não fatais.
type listResponse struct {
	Data     interface{} `json:"data"`
	Total    int         `json:"total"`
	Warnings []string    `json:"warnings,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError traduz os erros dos casos de uso em status HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	switch {
	case errors.Is(err, usecase.ErrLeadNotFound), errors.Is(err, usecase.ErrPromptNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &de):
		writeErrorResponse(w, http.StatusBadRequest, de.Code, de.Message)
	case errors.Is(err, usecase.ErrAllResourcesFailed):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "LOAD_FAILED",
			Message: err.Error(),
			Retry:   "POST /refresh",
		})
	case usecase.IsTechnicalError(err):
		var te *usecase.TechnicalError
		errors.As(err, &te)
		writeErrorResponse(w, http.StatusBadGateway, te.Code, err.Error())
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
