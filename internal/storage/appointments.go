package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"soloplan/internal/model"
	"soloplan/libs/db"
)

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const appointmentColumns = `id, client_id, client_name, day, time_of_day, duration_minutes, status, COALESCE(notes, ''), created_at`

func (r *AppointmentRepository) GetAll(ctx context.Context) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY day ASC, time_of_day ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListByDay returns every appointment on the given calendar day, regardless
// of status. The availability check needs the unfiltered set.
func (r *AppointmentRepository) ListByDay(ctx context.Context, day time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE day = $1
		ORDER BY time_of_day ASC, id ASC
	`, model.DayOf(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *AppointmentRepository) ListByClient(ctx context.Context, clientID string) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE client_id = $1
		ORDER BY day ASC, time_of_day ASC, id ASC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepository) Add(ctx context.Context, apt model.Appointment) error {
	_, err := r.pool.Exec(ctx, insertAppointmentSQL, insertAppointmentArgs(apt)...)
	return err
}

// AddTx inserts within a caller-owned transaction; planning commit uses it so
// a whole plan lands atomically with its outbox event.
func (r *AppointmentRepository) AddTx(ctx context.Context, tx pgx.Tx, apt model.Appointment) error {
	_, err := tx.Exec(ctx, insertAppointmentSQL, insertAppointmentArgs(apt)...)
	return err
}

const insertAppointmentSQL = `
	INSERT INTO appointments (id, client_id, client_name, day, time_of_day, duration_minutes, status, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func insertAppointmentArgs(apt model.Appointment) []any {
	var clientID *string
	if apt.ClientID != "" {
		clientID = &apt.ClientID
	}
	return []any{
		apt.ID, clientID, apt.ClientName,
		model.DayOf(apt.Date), apt.Time, apt.DurationMinutes,
		string(apt.Status), apt.Notes, apt.CreatedAt,
	}
}

// AppointmentUpdate is a partial update; nil fields are left untouched.
type AppointmentUpdate struct {
	Day             *time.Time
	Time            *string
	DurationMinutes *int
	Status          *string
	Notes           *string
}

func (r *AppointmentRepository) Update(ctx context.Context, id string, u AppointmentUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET day = COALESCE($2, day),
			time_of_day = COALESCE($3, time_of_day),
			duration_minutes = COALESCE($4, duration_minutes),
			status = COALESCE($5, status),
			notes = COALESCE($6, notes)
		WHERE id = $1
	`, id, u.Day, u.Time, u.DurationMinutes, u.Status, u.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CancelTx marks the appointment cancelled within a caller-owned transaction.
// The row is kept: cancelled appointments still block their slot.
func (r *AppointmentRepository) CancelTx(ctx context.Context, tx pgx.Tx, id string) (model.Appointment, error) {
	row := tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'cancelled'
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	var appts []model.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, apt)
	}
	return appts, rows.Err()
}

func scanAppointment(row rowScanner) (model.Appointment, error) {
	var apt model.Appointment
	var clientID *string
	var status string
	if err := row.Scan(
		&apt.ID,
		&clientID,
		&apt.ClientName,
		&apt.Date,
		&apt.Time,
		&apt.DurationMinutes,
		&status,
		&apt.Notes,
		&apt.CreatedAt,
	); err != nil {
		return model.Appointment{}, err
	}
	if clientID != nil {
		apt.ClientID = *clientID
	}
	apt.Status = model.AppointmentStatus(status)
	return apt, nil
}
