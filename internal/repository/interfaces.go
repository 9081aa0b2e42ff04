package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/hospital-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type (
	AccountRepository interface {
		// Create fails with ErrDuplicate when the email is taken.
		Create(ctx context.Context, account *model.Account) error
		Get(ctx context.Context, id string) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		// GetMany returns the accounts that exist, keyed by id. Unknown ids
		// are simply absent.
		GetMany(ctx context.Context, ids []string) (map[string]*model.Account, error)
		ListByRole(ctx context.Context, role model.Role) ([]*model.Account, error)
	}

	AttendanceRepository interface {
		// Upsert creates or overwrites the record for (employeeID, date) in
		// one atomic step.
		Upsert(ctx context.Context, employeeID, date string, status model.AttendanceStatus) (*model.AttendanceRecord, error)
		// ListByEmployee and List return newest dates first.
		ListByEmployee(ctx context.Context, employeeID string) ([]*model.AttendanceRecord, error)
		List(ctx context.Context) ([]*model.AttendanceRecord, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id string) (*model.Appointment, error)
		List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
		// MarkVerified sets verified and confirmed in one atomic step and
		// returns the updated appointment.
		MarkVerified(ctx context.Context, id string) (*model.Appointment, error)
	}

	MedicineRepository interface {
		Create(ctx context.Context, medicine *model.Medicine) error
		List(ctx context.Context, filter model.MedicineFilter) ([]*model.Medicine, error)
	}

	// Store is one backing database with all repositories.
	Store interface {
		Accounts() AccountRepository
		Attendance() AttendanceRepository
		Appointments() AppointmentRepository
		Medicines() MedicineRepository
		Ping(ctx context.Context) error
		Close(ctx context.Context) error
	}
)
