package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"soloplan/internal/settings"
)

type SettingsHandler struct {
	store  *settings.Store
	logger *slog.Logger
}

func NewSettingsHandler(store *settings.Store, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{store: store, logger: logger}
}

// Settings serves GET and PUT on /api/v1/settings.
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut, http.MethodPost:
		h.put(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.Get(r.Context())
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Put(r.Context(), cfg); err != nil {
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
