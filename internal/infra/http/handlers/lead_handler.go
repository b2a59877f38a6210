package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
	"github.com/xavierca1/painel-leads/internal/usecase"
)

type LeadHandler struct {
	Store    *usecase.Store
	Edit     *usecase.EditLeadUseCase
	Delete   *usecase.DeleteLeadsUseCase
	Location *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

func NewLeadHandler(store *usecase.Store, edit *usecase.EditLeadUseCase, del *usecase.DeleteLeadsUseCase, loc *time.Location, log zerolog.Logger) *LeadHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LeadHandler{Store: store, Edit: edit, Delete: del, Location: loc, now: time.Now, log: log}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := leadFilterFromQuery(r)
	warnings, err := filterWarnings(filter.Validate())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leadsPage(usecase.FilterLeads(h.Store.Leads(), filter), warnings))
}

// Scheduled lista só os agendados, em ordem de data_agendamento.
func (h *LeadHandler) Scheduled(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := usecase.AgendaFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Period: q.Get("period"),
	}
	warnings, err := filterWarnings(filter.Validate())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	leads := usecase.FilterScheduled(usecase.ScheduledLeads(h.Store.Leads()), filter)
	writeJSON(w, http.StatusOK, leadsPage(usecase.SortBySchedule(leads, h.Location), warnings))
}

type calendarResponse struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Days  []usecase.CalendarDay `json:"days"`
}

// Calendar monta a grade do mês pedido (?year=&month=); sem parâmetros usa o mês corrente.
func (h *LeadHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.Location)
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_YEAR", "ano inválido")
			return
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_MONTH", "mês inválido")
			return
		}
		month = m
	}

	days := usecase.CalendarMonth(usecase.ScheduledLeads(h.Store.Leads()), year, time.Month(month), now)
	writeJSON(w, http.StatusOK, calendarResponse{Year: year, Month: month, Days: days})
}

// readOnlyLeadFields são derivados na normalização e nunca vêm do cliente.
var readOnlyLeadFields = []string{"telefone_limpo", "is_duplicate", "duplicate_count", "extra"}

type editLeadResponse struct {
	Lead    entity.Lead            `json:"lead"`
	Changed map[string]interface{} `json:"changed"`
}

// Update recebe só os campos alterados; o resto vem do lead atual.
// O store só muda depois que o webhook aceita a edição.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	original, found := h.Store.Lead(id)
	if !found {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", usecase.ErrLeadNotFound.Error())
		return
	}

	body, err := io.ReadAll(r.Body)
	var fields map[string]json.RawMessage
	if err != nil || json.Unmarshal(body, &fields) != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}
	for _, key := range readOnlyLeadFields {
		if _, sent := fields[key]; sent {
			writeErrorResponse(w, http.StatusBadRequest, "READ_ONLY_FIELD", "campo calculado pelo painel não pode ser editado: "+key)
			return
		}
	}
	updated, err := overlayLead(original, body)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.Edit.Execute(r.Context(), usecase.EditLeadInput{Original: original, Updated: updated})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if err := usecase.ApplyLeadUpdate(h.Store, out.Lead); err != nil {
		// lead saiu do store durante a edição (refresh concorrente)
		h.log.Warn().Err(err).Int64("lead_id", id).Msg("⚠️ lead editado não está mais no store")
	}
	writeJSON(w, http.StatusOK, editLeadResponse{Lead: out.Lead, Changed: out.Changed})
}

// overlayLead copia o lead via JSON para não compartilhar ponteiros com o store.
func overlayLead(original entity.Lead, patch []byte) (entity.Lead, error) {
	raw, err := json.Marshal(original)
	if err != nil {
		return entity.Lead{}, err
	}
	var updated entity.Lead
	if err := json.Unmarshal(raw, &updated); err != nil {
		return entity.Lead{}, err
	}
	if err := json.Unmarshal(patch, &updated); err != nil {
		return entity.Lead{}, err
	}
	return updated, nil
}

func (h *LeadHandler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.runDelete(w, r, usecase.DeleteLeadsInput{Mode: webhook.DeleteSingle, IDs: []int64{id}})
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *LeadHandler) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}
	h.runDelete(w, r, usecase.DeleteLeadsInput{Mode: webhook.DeleteBulk, IDs: req.IDs})
}

// DeleteAll exige ?confirm=true para não apagar tudo por engano.
func (h *LeadHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeErrorResponse(w, http.StatusBadRequest, "CONFIRMATION_REQUIRED", "confirme a exclusão de todos os leads com ?confirm=true")
		return
	}
	h.runDelete(w, r, usecase.DeleteLeadsInput{Mode: webhook.DeleteAll})
}

func (h *LeadHandler) runDelete(w http.ResponseWriter, r *http.Request, in usecase.DeleteLeadsInput) {
	out, err := h.Delete.Execute(r.Context(), in)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id inválido")
		return 0, false
	}
	return id, true
}
