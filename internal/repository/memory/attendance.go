package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type attendanceKey struct {
	employeeID string
	date       string
}

type attendanceRepository struct {
	mu      sync.RWMutex
	records map[attendanceKey]model.AttendanceRecord
	now     func() time.Time
}

func newAttendanceRepository() *attendanceRepository {
	return &attendanceRepository{
		records: make(map[attendanceKey]model.AttendanceRecord),
		now:     time.Now,
	}
}

// Upsert holds the write lock across lookup and write, which gives the same
// guarantee as a unique index plus an atomic upsert.
func (r *attendanceRepository) Upsert(ctx context.Context, employeeID, date string, status model.AttendanceStatus) (*model.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	key := attendanceKey{employeeID: employeeID, date: date}
	rec, ok := r.records[key]
	if !ok {
		rec = model.AttendanceRecord{
			ID:         uuid.New().String(),
			EmployeeID: employeeID,
			Date:       date,
			CreatedAt:  now,
		}
	}
	rec.Status = status
	rec.UpdatedAt = now
	r.records[key] = rec

	return &rec, nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*model.AttendanceRecord, error) {
	return r.list(ctx, func(rec model.AttendanceRecord) bool { return rec.EmployeeID == employeeID })
}

func (r *attendanceRepository) List(ctx context.Context) ([]*model.AttendanceRecord, error) {
	return r.list(ctx, func(model.AttendanceRecord) bool { return true })
}

func (r *attendanceRepository) list(ctx context.Context, keep func(model.AttendanceRecord) bool) ([]*model.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.AttendanceRecord, 0)
	for _, rec := range r.records {
		if keep(rec) {
			rec := rec
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}
