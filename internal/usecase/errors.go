package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrAllResourcesFailed      = errors.New("nenhum recurso pôde ser carregado")
	ErrMissingPromptID         = errors.New("webhook não devolveu o id do prompt criado")
	ErrLeadNotFound            = errors.New("lead não encontrado")
	ErrPromptNotFound          = errors.New("prompt não encontrado")
	ErrDateRangeNotImplemented = errors.New("filtro por período ainda não implementado")
)

// DomainError é um erro de regra de negócio (o handler responde 4xx).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é uma falha de infraestrutura (o handler responde 5xx).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// FetchFailedError avisa que um recurso não carregou depois de esgotar as estratégias.
type FetchFailedError struct {
	Resource string
	Message  string
	Err      error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("falha ao carregar %s: %s", e.Resource, e.Message)
}

func (e *FetchFailedError) Unwrap() error {
	return e.Err
}

func newFetchFailed(resource string, err error) *FetchFailedError {
	return &FetchFailedError{Resource: resource, Message: err.Error(), Err: err}
}

func validationError(code, message string) error {
	return &DomainError{Code: code, Message: message}
}

func remoteError(operation string, err error) error {
	return &TechnicalError{Code: "WEBHOOK_ERROR", Message: "falha ao enviar " + operation, Err: err}
}
