package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"soloplan/internal/model"
	"soloplan/libs/db"
)

type ClientRepository struct {
	pool *db.Pool
}

func NewClientRepository(pool *db.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const clientColumns = `id, name, email, phone, frequency, preferred_day, preferred_time, preference_notes, created_at`

func (r *ClientRepository) GetAll(ctx context.Context) ([]model.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Get(ctx context.Context, id string) (model.Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1
	`, id)
	return scanClient(row)
}

func (r *ClientRepository) Add(ctx context.Context, c model.Client) error {
	_, err := r.pool.Exec(ctx, insertClientSQL, insertClientArgs(c)...)
	return err
}

// AddTx inserts within a caller-owned transaction, so intake can couple the
// insert with its outbox event.
func (r *ClientRepository) AddTx(ctx context.Context, tx pgx.Tx, c model.Client) error {
	_, err := tx.Exec(ctx, insertClientSQL, insertClientArgs(c)...)
	return err
}

const insertClientSQL = `
	INSERT INTO clients (id, name, email, phone, frequency, preferred_day, preferred_time, preference_notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func insertClientArgs(c model.Client) []any {
	return []any{
		c.ID, c.Name, c.Email, c.Phone,
		string(c.Preferences.Frequency), c.Preferences.PreferredDay, c.Preferences.PreferredTime, c.Preferences.Notes,
		c.CreatedAt,
	}
}

// ClientUpdate is a partial update; nil fields are left untouched.
type ClientUpdate struct {
	Name          *string
	Email         *string
	Phone         *string
	Frequency     *string
	PreferredDay  *string
	PreferredTime *string
	Notes         *string
}

func (r *ClientRepository) Update(ctx context.Context, id string, u ClientUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clients
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			frequency = COALESCE($5, frequency),
			preferred_day = COALESCE($6, preferred_day),
			preferred_time = COALESCE($7, preferred_time),
			preference_notes = COALESCE($8, preference_notes)
		WHERE id = $1
	`, id, u.Name, u.Email, u.Phone, u.Frequency, u.PreferredDay, u.PreferredTime, u.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (model.Client, error) {
	var c model.Client
	var frequency string
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&frequency,
		&c.Preferences.PreferredDay,
		&c.Preferences.PreferredTime,
		&c.Preferences.Notes,
		&c.CreatedAt,
	); err != nil {
		return model.Client{}, err
	}
	c.Preferences.Frequency = model.Frequency(frequency)
	return c, nil
}
