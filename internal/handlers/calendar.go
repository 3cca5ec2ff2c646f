package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"soloplan/internal/holidays"
	"soloplan/internal/ical"
	"soloplan/internal/model"
	"soloplan/internal/settings"
	"soloplan/internal/storage"
)

type CalendarHandler struct {
	appointments *storage.AppointmentRepository
	settings     *settings.Store
	holidays     *holidays.Table
	logger       *slog.Logger
}

func NewCalendarHandler(
	appointments *storage.AppointmentRepository,
	settingsStore *settings.Store,
	table *holidays.Table,
	logger *slog.Logger,
) *CalendarHandler {
	return &CalendarHandler{
		appointments: appointments,
		settings:     settingsStore,
		holidays:     table,
		logger:       logger,
	}
}

// Feed serves GET /api/v1/calendar.ics with the full appointment calendar.
func (h *CalendarHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
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

	name := cfg.BusinessName
	if name == "" {
		name = "Appointments"
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	_, _ = w.Write([]byte(ical.Feed(appts, name)))
}

// Holidays serves GET /api/v1/holidays?country=&year=. Country defaults to the
// provider's configured country; a zero year means all years in the table.
func (h *CalendarHandler) Holidays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	country := q.Get("country")
	if country == "" {
		cfg, err := h.settings.Get(r.Context())
		if err != nil {
			http.Error(w, "failed to load settings", http.StatusInternalServerError)
			return
		}
		country = cfg.Country
	}

	year := 0
	if raw := q.Get("year"); raw != "" {
		var err error
		year, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "year must be an integer", http.StatusBadRequest)
			return
		}
	}

	list := h.holidays.List(country, year)
	if list == nil {
		list = []model.Holiday{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"country":   country,
		"holidays":  list,
		"countries": h.holidays.Countries(),
	})
}
