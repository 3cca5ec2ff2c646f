package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"soloplan/internal/analytics"
	"soloplan/internal/settings"
	"soloplan/internal/storage"
)

type AnalyticsHandler struct {
	appointments *storage.AppointmentRepository
	clients      *storage.ClientRepository
	settings     *settings.Store
	logger       *slog.Logger
}

func NewAnalyticsHandler(
	appointments *storage.AppointmentRepository,
	clients *storage.ClientRepository,
	settingsStore *settings.Store,
	logger *slog.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		appointments: appointments,
		clients:      clients,
		settings:     settingsStore,
		logger:       logger,
	}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	clients, err := h.clients.GetAll(ctx)
	if err != nil {
		http.Error(w, "failed to load clients", http.StatusInternalServerError)
		return
	}
	appts, err := h.appointments.GetAll(ctx)
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}
	cfg, err := h.settings.Get(ctx)
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, analytics.Summarize(clients, appts, cfg.HourlyRate, time.Now()))
}
