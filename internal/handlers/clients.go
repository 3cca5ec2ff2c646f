package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"soloplan/internal/availability"
	"soloplan/internal/metrics"
	"soloplan/internal/model"
	"soloplan/internal/outbox"
	"soloplan/internal/planner"
	"soloplan/internal/storage"
)

type ClientHandler struct {
	repo       *storage.ClientRepository
	outboxRepo *outbox.Repository
	logger     *slog.Logger
}

func NewClientHandler(repo *storage.ClientRepository, outboxRepo *outbox.Repository, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{repo: repo, outboxRepo: outboxRepo, logger: logger}
}

type clientRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Frequency     string `json:"frequency"`
	PreferredDay  string `json:"preferred_day"`
	PreferredTime string `json:"preferred_time"`
	Notes         string `json:"notes"`
}

// validate normalizes the payload and returns the first problem as a message
// suitable for a 400 response.
func (req *clientRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Frequency = strings.ToLower(strings.TrimSpace(req.Frequency))
	req.PreferredDay = strings.ToLower(strings.TrimSpace(req.PreferredDay))
	req.PreferredTime = strings.TrimSpace(req.PreferredTime)

	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return "name, email, and phone are required"
	}
	if !model.Frequency(req.Frequency).Valid() {
		return "frequency must be weekly, biweekly, monthly, or custom"
	}
	if _, err := planner.ParseWeekday(req.PreferredDay); err != nil {
		return "preferred_day must be a weekday name"
	}
	if req.PreferredTime != "" {
		if _, err := availability.MinutesOfDay(req.PreferredTime); err != nil {
			return "preferred_time must be an HH:MM clock"
		}
	}
	return ""
}

func (req *clientRequest) toClient(now time.Time) model.Client {
	return model.Client{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Preferences: model.Preferences{
			Frequency:     model.Frequency(req.Frequency),
			PreferredDay:  req.PreferredDay,
			PreferredTime: req.PreferredTime,
			Notes:         strings.TrimSpace(req.Notes),
		},
		CreatedAt: now,
	}
}

// Clients serves GET (list) and POST (create) on /api/v1/clients.
func (h *ClientHandler) Clients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ClientHandler) list(w http.ResponseWriter, r *http.Request) {
	clients, err := h.repo.GetAll(r.Context())
	if err != nil {
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}
	if clients == nil {
		clients = []model.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	client := req.toClient(time.Now())
	if err := h.repo.Add(r.Context(), client); err != nil {
		http.Error(w, "failed to create client", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

// Intake is the public endpoint behind the QR intake form. It does the same
// work as create but also emits a registration event so downstream tooling
// can react to self-service signups.
func (h *ClientHandler) Intake(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	client := req.toClient(time.Now())

	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := h.repo.AddTx(ctx, tx, client); err != nil {
		http.Error(w, "failed to register client", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"client_id": client.ID,
		"name":      client.Name,
		"frequency": client.Preferences.Frequency,
		"source":    "qr-intake",
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "client",
		AggregateID:   client.ID,
		EventType:     outbox.EventClientRegistered,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	metrics.IntakeSubmissions.Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"client_id": client.ID})
}

type updateClientRequest struct {
	ID            string  `json:"id"`
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Frequency     *string `json:"frequency"`
	PreferredDay  *string `json:"preferred_day"`
	PreferredTime *string `json:"preferred_time"`
	Notes         *string `json:"notes"`
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	if req.Frequency != nil && !model.Frequency(strings.ToLower(*req.Frequency)).Valid() {
		http.Error(w, "frequency must be weekly, biweekly, monthly, or custom", http.StatusBadRequest)
		return
	}
	if req.PreferredDay != nil {
		if _, err := planner.ParseWeekday(*req.PreferredDay); err != nil {
			http.Error(w, "preferred_day must be a weekday name", http.StatusBadRequest)
			return
		}
	}
	if req.PreferredTime != nil && *req.PreferredTime != "" {
		if _, err := availability.MinutesOfDay(*req.PreferredTime); err != nil {
			http.Error(w, "preferred_time must be an HH:MM clock", http.StatusBadRequest)
			return
		}
	}

	err := h.repo.Update(r.Context(), req.ID, storage.ClientUpdate{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Frequency:     lowered(req.Frequency),
		PreferredDay:  lowered(req.PreferredDay),
		PreferredTime: req.PreferredTime,
		Notes:         req.Notes,
	})
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update client", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID})
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), req.ID); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete client", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func lowered(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}
