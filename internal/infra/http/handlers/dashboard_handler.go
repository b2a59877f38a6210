package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/xavierca1/painel-leads/internal/entity"
	"github.com/xavierca1/painel-leads/internal/usecase"
)

type Loader interface {
	Execute(ctx context.Context) (usecase.LoadResult, error)
}

// DashboardHandler serve o estado da carga e as métricas derivadas dos leads.
type DashboardHandler struct {
	Store    *usecase.Store
	Loader   Loader
	Location *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

func NewDashboardHandler(store *usecase.Store, loader Loader, loc *time.Location, log zerolog.Logger) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{Store: store, Loader: loader, Location: loc, now: time.Now, log: log}
}

func (h *DashboardHandler) clock() time.Time {
	return h.now().In(h.Location)
}

type statusResponse struct {
	usecase.Snapshot
	Retry string `json:"retry,omitempty"`
}

// Status: carregando ou falha total sem dados → 503; falha parcial → 200 com avisos.
func (h *DashboardHandler) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	switch snap.State {
	case usecase.StateReady:
		writeJSON(w, http.StatusOK, statusResponse{Snapshot: snap})
	case usecase.StateError:
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Snapshot: snap, Retry: "POST /refresh"})
	default:
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Snapshot: snap})
	}
}

type refreshResponse struct {
	usecase.LoadResult
	Warnings []string `json:"warnings,omitempty"`
}

func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.Loader.Execute(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("❌ refresh manual falhou")
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{LoadResult: res, Warnings: res.WarningMessages()})
}

type overviewResponse struct {
	usecase.Overview
	Origins  []string `json:"origens"`
	Warnings []string `json:"warnings,omitempty"`
}

// Overview calcula os cards do topo sobre os leads que passam no filtro.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	leads := h.Store.Leads()
	filter := leadFilterFromQuery(r)
	warnings, err := filterWarnings(filter.Validate())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		Overview: usecase.OverviewMetrics(usecase.FilterLeads(leads, filter)),
		Origins:  usecase.Origins(leads),
		Warnings: warnings,
	})
}

func (h *DashboardHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usecase.AgendaMetrics(h.Store.Leads(), h.clock()))
}

func (h *DashboardHandler) Channels(w http.ResponseWriter, r *http.Request) {
	stats := usecase.ChannelStats(h.Store.Leads())
	writeJSON(w, http.StatusOK, listResponse{Data: stats, Total: len(stats)})
}

type coverageResponse struct {
	usecase.Coverage
	Total int `json:"total"`
}

func (h *DashboardHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	c := usecase.ContactCoverage(h.Store.Leads())
	writeJSON(w, http.StatusOK, coverageResponse{Coverage: c, Total: c.Total()})
}

func (h *DashboardHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	stats := usecase.FunnelStats(h.Store.Leads())
	writeJSON(w, http.StatusOK, listResponse{Data: stats, Total: len(stats)})
}

func (h *DashboardHandler) Daily(w http.ResponseWriter, r *http.Request) {
	points := usecase.DailySeries(h.Store.Leads(), h.clock())
	writeJSON(w, http.StatusOK, listResponse{Data: points, Total: len(points)})
}

func leadFilterFromQuery(r *http.Request) usecase.LeadFilter {
	q := r.URL.Query()
	return usecase.LeadFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Origin: q.Get("origin"),
		Period: q.Get("period"),
	}
}

// filterWarnings rebaixa o filtro de período ainda não suportado a aviso.
func filterWarnings(err error) ([]string, error) {
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, usecase.ErrDateRangeNotImplemented) {
		return []string{err.Error()}, nil
	}
	return nil, err
}

func leadsPage(leads []entity.Lead, warnings []string) listResponse {
	if leads == nil {
		leads = []entity.Lead{}
	}
	return listResponse{Data: leads, Total: len(leads), Warnings: warnings}
}
