package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

type accountRepository struct {
	db *sqlx.DB
}

type attendanceRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type appointmentRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type medicineRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func NewAttendanceRepository(db *sqlx.DB) repository.AttendanceRepository {
	return &attendanceRepository{db: db, now: utcNow}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db, now: utcNow}
}

func NewMedicineRepository(db *sqlx.DB) repository.MedicineRepository {
	return &medicineRepository{db: db}
}

func utcNow() time.Time { return time.Now().UTC() }

// Store bundles the repositories over one connection pool.
type Store struct {
	db           *sqlx.DB
	accounts     repository.AccountRepository
	attendance   repository.AttendanceRepository
	appointments repository.AppointmentRepository
	medicines    repository.MedicineRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:           db,
		accounts:     NewAccountRepository(db),
		attendance:   NewAttendanceRepository(db),
		appointments: NewAppointmentRepository(db),
		medicines:    NewMedicineRepository(db),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Accounts() repository.AccountRepository         { return s.accounts }
func (s *Store) Attendance() repository.AttendanceRepository   { return s.attendance }
func (s *Store) Appointments() repository.AppointmentRepository { return s.appointments }
func (s *Store) Medicines() repository.MedicineRepository       { return s.medicines }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// WithTx executes a function within a transaction
func (s *Store) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
