package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const appointmentColumns = `id, employee_id, doctor_id, date, time, patient_name, patient_email,
	status, verified, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.EmployeeID,
		appointment.DoctorID,
		appointment.Date,
		appointment.Time,
		appointment.PatientName,
		appointment.PatientEmail,
		appointment.Status,
		appointment.Verified,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conds = append(conds, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.DoctorID != "" {
		args = append(args, filter.DoctorID)
		conds = append(conds, fmt.Sprintf("doctor_id = $%d", len(args)))
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	appointments := make([]*model.Appointment, 0)
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) MarkVerified(ctx context.Context, id string) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET verified = TRUE, status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + appointmentColumns

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, model.AppointmentStatusConfirmed, r.now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to verify appointment: %w", err)
	}
	return &appointment, nil
}
