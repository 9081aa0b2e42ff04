package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

const attendanceColumns = `id, employee_id, date, status, created_at, updated_at`

// Upsert relies on the (employee_id, date) unique constraint; ON CONFLICT
// makes insert-or-update a single statement.
func (r *attendanceRepository) Upsert(ctx context.Context, employeeID, date string, status model.AttendanceStatus) (*model.AttendanceRecord, error) {
	query := `
		INSERT INTO attendance (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (employee_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING ` + attendanceColumns

	var rec model.AttendanceRecord
	err := r.db.GetContext(ctx, &rec, query,
		uuid.New().String(),
		employeeID,
		date,
		status,
		r.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return &rec, nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*model.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE employee_id = $1 ORDER BY date DESC`

	records := make([]*model.AttendanceRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, employeeID); err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (r *attendanceRepository) List(ctx context.Context) ([]*model.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance ORDER BY date DESC, employee_id`

	records := make([]*model.AttendanceRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
