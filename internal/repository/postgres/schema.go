package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		email          TEXT NOT NULL UNIQUE,
		password_hash  TEXT NOT NULL,
		role           TEXT NOT NULL CHECK (role IN ('employee', 'doctor', 'hr')),
		specialization TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS accounts_role_idx ON accounts (role)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES accounts (id),
		date        TEXT NOT NULL,
		status      TEXT NOT NULL CHECK (status IN ('present', 'absent', 'leave')),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		UNIQUE (employee_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id            TEXT PRIMARY KEY,
		employee_id   TEXT NOT NULL REFERENCES accounts (id),
		doctor_id     TEXT NOT NULL REFERENCES accounts (id),
		date          TEXT NOT NULL,
		time          TEXT NOT NULL,
		patient_name  TEXT NOT NULL,
		patient_email TEXT NOT NULL,
		status        TEXT NOT NULL,
		verified      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS appointments_employee_idx ON appointments (employee_id)`,
	`CREATE INDEX IF NOT EXISTS appointments_doctor_idx ON appointments (doctor_id)`,
	`CREATE TABLE IF NOT EXISTS medicines (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		uploaded_by TEXT NOT NULL REFERENCES accounts (id),
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the tables if they are missing. It runs in a single
// transaction so a half-applied schema is never left behind.
func (s *Store) Migrate(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
