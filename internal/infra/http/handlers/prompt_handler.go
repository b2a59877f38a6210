package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/usecase"
)

type PromptHandler struct {
	Store   *usecase.Store
	Prompts *usecase.ManagePromptsUseCase
	log     zerolog.Logger
}

func NewPromptHandler(store *usecase.Store, prompts *usecase.ManagePromptsUseCase, log zerolog.Logger) *PromptHandler {
	return &PromptHandler{Store: store, Prompts: prompts, log: log}
}

// PromptView acrescenta ao prompt o que a tela mostra sem recalcular.
type PromptView struct {
	entity.Prompt
	Variables     []string `json:"variaveis"`
	PriorityLabel string   `json:"prioridade_label"`
}

func newPromptView(p entity.Prompt) PromptView {
	return PromptView{Prompt: p, Variables: p.Variables(), PriorityLabel: p.PriorityLabel()}
}

type promptListResponse struct {
	Data       []PromptView `json:"data"`
	Total      int          `json:"total"`
	Categories []string     `json:"categorias"`
}

// List devolve ativos primeiro e, dentro de cada grupo, por prioridade.
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	all := h.Store.Prompts()
	filtered := usecase.SortPrompts(usecase.FilterPrompts(all, usecase.PromptFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}))

	views := make([]PromptView, 0, len(filtered))
	for _, p := range filtered {
		views = append(views, newPromptView(p))
	}
	writeJSON(w, http.StatusOK, promptListResponse{
		Data:       views,
		Total:      len(views),
		Categories: usecase.Categories(all),
	})
}

func (h *PromptHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usecase.PromptMetrics(h.Store.Prompts()))
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.PromptInput
	if err := decodeJSON(r, &in); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}
	p, err := h.Prompts.Create(r.Context(), in)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPromptView(p))
}

func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in usecase.PromptInput
	if err := decodeJSON(r, &in); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}
	p, err := h.Prompts.Update(r.Context(), id, in)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPromptView(p))
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Prompts.Delete(r.Context(), id); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromptHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Prompts.ToggleStatus(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPromptView(p))
}

func (h *PromptHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Prompts.Duplicate(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPromptView(p))
}
