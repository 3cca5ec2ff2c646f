package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"soloplan/internal/availability"
	"soloplan/internal/metrics"
	"soloplan/internal/model"
	"soloplan/internal/outbox"
	"soloplan/internal/settings"
	"soloplan/internal/storage"
)

const dateLayout = "2006-01-02"

type AppointmentHandler struct {
	appointments *storage.AppointmentRepository
	clients      *storage.ClientRepository
	settings     *settings.Store
	outboxRepo   *outbox.Repository
	logger       *slog.Logger
}

func NewAppointmentHandler(
	appointments *storage.AppointmentRepository,
	clients *storage.ClientRepository,
	settingsStore *settings.Store,
	outboxRepo *outbox.Repository,
	logger *slog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointments: appointments,
		clients:      clients,
		settings:     settingsStore,
		outboxRepo:   outboxRepo,
		logger:       logger,
	}
}

// Appointments serves GET (list, optionally ?date=YYYY-MM-DD) and POST (book)
// on /api/v1/appointments.
func (h *AppointmentHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.book(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AppointmentHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		appts []model.Appointment
		err   error
	)
	switch {
	case r.URL.Query().Get("date") != "":
		day, parseErr := time.ParseInLocation(dateLayout, r.URL.Query().Get("date"), time.Local)
		if parseErr != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		appts, err = h.appointments.ListByDay(r.Context(), day)
	case r.URL.Query().Get("client_id") != "":
		appts, err = h.appointments.ListByClient(r.Context(), r.URL.Query().Get("client_id"))
	default:
		appts, err = h.appointments.GetAll(r.Context())
	}
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

type bookRequest struct {
	ClientID        string `json:"client_id"`
	ClientName      string `json:"client_name"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

func (h *AppointmentHandler) book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ClientID = strings.TrimSpace(req.ClientID)
	req.ClientName = strings.TrimSpace(req.ClientName)

	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.Date), time.Local)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if _, err := availability.MinutesOfDay(req.Time); err != nil {
		http.Error(w, "time must be an HH:MM clock", http.StatusBadRequest)
		return
	}
	if !model.ValidDuration(req.DurationMinutes) {
		http.Error(w, "unsupported duration", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// A booking is either linked to a registered client or carries only a
	// display name. The name snapshot lives on the appointment either way so
	// the calendar survives client deletion.
	clientName := req.ClientName
	if req.ClientID != "" {
		client, err := h.clients.Get(ctx, req.ClientID)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "client not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load client", http.StatusInternalServerError)
			return
		}
		clientName = client.Name
	}
	if clientName == "" {
		http.Error(w, "client_id or client_name is required", http.StatusBadRequest)
		return
	}

	cfg, err := h.settings.Get(ctx)
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	sameDay, err := h.appointments.ListByDay(ctx, day)
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}
	free, err := availability.Check(day, strings.TrimSpace(req.Time), req.DurationMinutes, cfg.BufferTimeMinutes, sameDay)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !free {
		http.Error(w, "slot is not available", http.StatusConflict)
		return
	}

	apt := model.Appointment{
		ID:              uuid.NewString(),
		ClientID:        req.ClientID,
		ClientName:      clientName,
		Date:            model.DayOf(day),
		Time:            strings.TrimSpace(req.Time),
		DurationMinutes: req.DurationMinutes,
		Status:          model.StatusScheduled,
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       time.Now(),
	}

	tx, err := h.appointments.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := h.appointments.AddTx(ctx, tx, apt); err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "slot is not available", http.StatusConflict)
			return
		}
		http.Error(w, "failed to book appointment", http.StatusInternalServerError)
		return
	}
	if err := h.insertAppointmentEvent(ctx, tx, outbox.EventAppointmentBooked, apt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	metrics.AppointmentsBooked.Inc()
	writeJSON(w, http.StatusCreated, apt)
}

type updateAppointmentRequest struct {
	ID              string  `json:"id"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	var upd storage.AppointmentUpdate
	if req.Date != nil {
		day, err := time.ParseInLocation(dateLayout, *req.Date, time.Local)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		upd.Day = &day
	}
	if req.Time != nil {
		if _, err := availability.MinutesOfDay(*req.Time); err != nil {
			http.Error(w, "time must be an HH:MM clock", http.StatusBadRequest)
			return
		}
		upd.Time = req.Time
	}
	if req.DurationMinutes != nil {
		if !model.ValidDuration(*req.DurationMinutes) {
			http.Error(w, "unsupported duration", http.StatusBadRequest)
			return
		}
		upd.DurationMinutes = req.DurationMinutes
	}
	if req.Status != nil {
		status := model.AppointmentStatus(strings.ToLower(*req.Status))
		if !status.Valid() {
			http.Error(w, "status must be scheduled, completed, or cancelled", http.StatusBadRequest)
			return
		}
		v := string(status)
		upd.Status = &v
	}
	upd.Notes = req.Notes

	if err := h.appointments.Update(r.Context(), req.ID, upd); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID})
}

// Cancel flips status to cancelled and records the cancellation event in the
// same transaction. The row stays in place: cancelled appointments keep
// blocking their slot.
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	ctx := r.Context()
	tx, err := h.appointments.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	apt, err := h.appointments.CancelTx(ctx, tx, req.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to cancel appointment", http.StatusInternalServerError)
		return
	}
	if err := h.insertAppointmentEvent(ctx, tx, outbox.EventAppointmentCancelled, apt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	metrics.AppointmentsCancelled.Inc()
	writeJSON(w, http.StatusOK, apt)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.appointments.Delete(r.Context(), req.ID); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete appointment", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Availability serves GET /api/v1/availability?date=&time=&duration=.
func (h *AppointmentHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	day, err := time.ParseInLocation(dateLayout, q.Get("date"), time.Local)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	clock := q.Get("time")
	if _, err := availability.MinutesOfDay(clock); err != nil {
		http.Error(w, "time must be an HH:MM clock", http.StatusBadRequest)
		return
	}
	duration := 60
	if raw := q.Get("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			http.Error(w, "duration must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	ctx := r.Context()
	cfg, err := h.settings.Get(ctx)
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	sameDay, err := h.appointments.ListByDay(ctx, day)
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}
	free, err := availability.Check(day, clock, duration, cfg.BufferTimeMinutes, sameDay)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": free})
}

func (h *AppointmentHandler) insertAppointmentEvent(ctx context.Context, tx pgx.Tx, eventType string, apt model.Appointment) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": apt.ID,
		"client_id":      apt.ClientID,
		"client_name":    apt.ClientName,
		"linked":         apt.Linked(),
		"date":           apt.Date.Format(dateLayout),
		"time":           apt.Time,
		"duration":       apt.DurationMinutes,
		"status":         apt.Status,
	})
	if err != nil {
		return err
	}
	return h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   apt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}
