package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type appointmentRepository struct {
	mu    sync.RWMutex
	items map[string]model.Appointment
	now   func() time.Time
}

func newAppointmentRepository() *appointmentRepository {
	return &appointmentRepository{
		items: make(map[string]model.Appointment),
		now:   time.Now,
	}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[appointment.ID]; exists {
		return repository.ErrDuplicate
	}
	r.items[appointment.ID] = *appointment
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Appointment, 0)
	for _, a := range r.items {
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.DoctorID != "" && a.DoctorID != filter.DoctorID {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *appointmentRepository) MarkVerified(ctx context.Context, id string) (*model.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.Verified = true
	a.Status = model.AppointmentStatusConfirmed
	a.UpdatedAt = r.now()
	r.items[id] = a

	return &a, nil
}
