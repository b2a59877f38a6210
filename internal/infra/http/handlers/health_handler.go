package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/painel-leads/internal/usecase"
)

// HealthChecker é satisfeito pela conexão com o RabbitMQ.
type HealthChecker interface {
	Healthy() bool
}

type HealthHandler struct {
	Store      *usecase.Store
	RabbitMQ   HealthChecker
	WebhookURL string
	Version    string
	StartTime  time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler aceita rabbitMQ nil quando a auditoria está desligada.
func NewHealthHandler(store *usecase.Store, rabbitMQ HealthChecker, webhookURL, version string) *HealthHandler {
	return &HealthHandler{
		Store:      store,
		RabbitMQ:   rabbitMQ,
		WebhookURL: webhookURL,
		Version:    version,
		StartTime:  time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.RabbitMQ != nil {
		if h.RabbitMQ.Healthy() {
			deps["rabbitmq"] = "healthy"
		} else {
			deps["rabbitmq"] = "unhealthy: connection closed"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.WebhookURL != "" {
		deps["webhook"] = "configured"
	} else {
		deps["webhook"] = "not configured"
	}

	// "loading" não degrada: a primeira carga ainda está em andamento
	switch snap := h.Store.Snapshot(); snap.State {
	case usecase.StateError:
		deps["data"] = "unhealthy: " + snap.Error
	default:
		deps["data"] = snap.State
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" &&
			v != usecase.StateReady && v != usecase.StateLoading {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	if status == "degraded" {
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
