package dataserver

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"

	"github.com/macracrm/macra-crm/internal/entity"
)

// PostgresStorage persists the two resources in Postgres. Timestamps stay
// text columns: the service stores and returns the ISO-8601 strings exactly
// as they travel on the wire.
type PostgresStorage struct {
	DB *sql.DB
}

// OpenPostgres opens the pool, applies production pool limits and pings with
// a deadline so a dead database fails startup instead of the first request.
func OpenPostgres(connString string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{DB: db}, nil
}

// EnsureSchema creates the two resource tables when they are missing.
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			company    TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT '',
			source     TEXT NOT NULL DEFAULT '',
			notes      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT '',
			seq        BIGSERIAL
		);
		CREATE TABLE IF NOT EXISTS interactions (
			id          TEXT PRIMARY KEY,
			lead_id     TEXT NOT NULL DEFAULT '',
			type        TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			date        TEXT NOT NULL DEFAULT '',
			seq         BIGSERIAL
		);
	`)
	return err
}

func (s *PostgresStorage) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, email, phone, company, status, source, notes, created_at, updated_at
		FROM leads ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Status, &l.Source, &l.Notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *PostgresStorage) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	var l entity.Lead
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, phone, company, status, source, notes, created_at, updated_at
		FROM leads WHERE id = $1
	`, id).Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Status, &l.Source, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresStorage) CreateLead(ctx context.Context, lead entity.Lead) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO leads (id, name, email, phone, company, status, source, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Status, lead.Source, lead.Notes, lead.CreatedAt, lead.UpdatedAt)
	return err
}

func (s *PostgresStorage) ReplaceLead(ctx context.Context, lead entity.Lead) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE leads SET name = $2, email = $3, phone = $4, company = $5,
			status = $6, source = $7, notes = $8, created_at = $9, updated_at = $10
		WHERE id = $1
	`, lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Status, lead.Source, lead.Notes, lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRecord
	}
	return nil
}

func (s *PostgresStorage) DeleteLead(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRecord
	}
	return nil
}

func (s *PostgresStorage) ListInteractions(ctx context.Context, leadID string) ([]entity.Interaction, error) {
	query := `SELECT id, lead_id, type, description, date FROM interactions`
	args := []any{}
	if leadID != "" {
		query += ` WHERE lead_id = $1`
		args = append(args, leadID)
	}
	query += ` ORDER BY seq`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []entity.Interaction
	for rows.Next() {
		var in entity.Interaction
		if err := rows.Scan(&in.ID, &in.LeadID, &in.Type, &in.Description, &in.Date); err != nil {
			return nil, err
		}
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

func (s *PostgresStorage) CreateInteraction(ctx context.Context, interaction entity.Interaction) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO interactions (id, lead_id, type, description, date)
		VALUES ($1, $2, $3, $4, $5)
	`, interaction.ID, interaction.LeadID, interaction.Type, interaction.Description, interaction.Date)
	return err
}

func (s *PostgresStorage) DeleteInteraction(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM interactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRecord
	}
	return nil
}
