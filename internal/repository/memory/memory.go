// Package memory is an in-process store used for local development and
// tests. Every repository guards its state with a mutex and hands out
// copies, so callers never share records with the store.
package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

type Store struct {
	accounts     *accountRepository
	attendance   *attendanceRepository
	appointments *appointmentRepository
	medicines    *medicineRepository
}

type Option func(*Store)

// WithClock sets the time source for timestamps written by the store.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.attendance.now = now
		s.appointments.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		accounts:     newAccountRepository(),
		attendance:   newAttendanceRepository(),
		appointments: newAppointmentRepository(),
		medicines:    newMedicineRepository(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Accounts() repository.AccountRepository         { return s.accounts }
func (s *Store) Attendance() repository.AttendanceRepository   { return s.attendance }
func (s *Store) Appointments() repository.AppointmentRepository { return s.appointments }
func (s *Store) Medicines() repository.MedicineRepository       { return s.medicines }

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(context.Context) error {
	return nil
}
