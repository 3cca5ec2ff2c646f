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
	"soloplan/internal/settings"
	"soloplan/internal/storage"
)

type PlanningHandler struct {
	appointments *storage.AppointmentRepository
	clients      *storage.ClientRepository
	settings     *settings.Store
	holidays     planner.HolidayCalendar
	outboxRepo   *outbox.Repository
	logger       *slog.Logger
}

func NewPlanningHandler(
	appointments *storage.AppointmentRepository,
	clients *storage.ClientRepository,
	settingsStore *settings.Store,
	holidays planner.HolidayCalendar,
	outboxRepo *outbox.Repository,
	logger *slog.Logger,
) *PlanningHandler {
	return &PlanningHandler{
		appointments: appointments,
		clients:      clients,
		settings:     settingsStore,
		holidays:     holidays,
		outboxRepo:   outboxRepo,
		logger:       logger,
	}
}

type previewRequest struct {
	ClientID    string `json:"client_id"`
	Year        int    `json:"year"`
	TargetCount int    `json:"target_count"`
}

// Preview runs a generation dry run and returns the candidate plan without
// persisting anything.
func (h *PlanningHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ClientID = strings.TrimSpace(req.ClientID)
	if req.ClientID == "" {
		http.Error(w, "client_id required", http.StatusBadRequest)
		return
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	ctx := r.Context()
	client, err := h.clients.Get(ctx, req.ClientID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load client", http.StatusInternalServerError)
		return
	}
	cfg, err := h.settings.Get(ctx)
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	existing, err := h.appointments.GetAll(ctx)
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}

	plan, err := planner.Generate(planner.Request{
		Client:        client,
		Year:          req.Year,
		TargetCount:   req.TargetCount,
		Country:       cfg.Country,
		BufferMinutes: cfg.BufferTimeMinutes,
		DefaultTime:   cfg.DefaultSlotTime,
		Now:           time.Now(),
	}, existing, h.holidays)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics.PlansGenerated.Inc()
	metrics.PlanConflicts.Add(float64(len(plan.Conflicts)))
	writeJSON(w, http.StatusOK, plan)
}

type commitRequest struct {
	ClientID     string            `json:"client_id"`
	Appointments []commitCandidate `json:"appointments"`
}

type commitCandidate struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

type commitResponse struct {
	Committed []model.Appointment `json:"committed"`
	Skipped   []string            `json:"skipped"`
}

// Commit persists the candidate appointments the provider accepted from a
// preview. Each candidate is re-validated against the live calendar inside
// the transaction; anything that stopped being free since the preview is
// reported in Skipped rather than failing the whole commit.
func (h *PlanningHandler) Commit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ClientID = strings.TrimSpace(req.ClientID)
	if req.ClientID == "" {
		http.Error(w, "client_id required", http.StatusBadRequest)
		return
	}
	if len(req.Appointments) == 0 {
		http.Error(w, "appointments required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	client, err := h.clients.Get(ctx, req.ClientID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load client", http.StatusInternalServerError)
		return
	}
	cfg, err := h.settings.Get(ctx)
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	tx, err := h.appointments.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	resp := commitResponse{Committed: []model.Appointment{}, Skipped: []string{}}
	// Accepted candidates block each other too, so they accumulate here and
	// join the per-day set loaded from the store.
	var accepted []model.Appointment

	for _, cand := range req.Appointments {
		day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(cand.Date), time.Local)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if _, err := availability.MinutesOfDay(cand.Time); err != nil {
			http.Error(w, "time must be an HH:MM clock", http.StatusBadRequest)
			return
		}
		duration := cand.DurationMinutes
		if duration == 0 {
			duration = 60
		}
		if duration <= 0 {
			http.Error(w, "duration must be positive", http.StatusBadRequest)
			return
		}

		sameDay, err := h.appointments.ListByDay(ctx, day)
		if err != nil {
			http.Error(w, "failed to load appointments", http.StatusInternalServerError)
			return
		}
		blocking := append(sameDay, accepted...)
		free, err := availability.Check(day, strings.TrimSpace(cand.Time), duration, cfg.BufferTimeMinutes, blocking)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !free {
			resp.Skipped = append(resp.Skipped, cand.Date+" "+cand.Time)
			continue
		}

		notes := strings.TrimSpace(cand.Notes)
		if notes == "" {
			notes = planner.GeneratedNote
		}
		apt := model.Appointment{
			ID:              uuid.NewString(),
			ClientID:        client.ID,
			ClientName:      client.Name,
			Date:            model.DayOf(day),
			Time:            strings.TrimSpace(cand.Time),
			DurationMinutes: duration,
			Status:          model.StatusScheduled,
			Notes:           notes,
			CreatedAt:       now,
		}
		if err := h.appointments.AddTx(ctx, tx, apt); err != nil {
			http.Error(w, "failed to persist plan", http.StatusInternalServerError)
			return
		}
		accepted = append(accepted, apt)
		resp.Committed = append(resp.Committed, apt)
	}

	payload, err := json.Marshal(map[string]any{
		"client_id": client.ID,
		"committed": len(resp.Committed),
		"skipped":   len(resp.Skipped),
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "plan",
		AggregateID:   client.ID,
		EventType:     outbox.EventPlanCommitted,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	metrics.PlanAppointmentsCommitted.Add(float64(len(resp.Committed)))
	writeJSON(w, http.StatusOK, resp)
}
