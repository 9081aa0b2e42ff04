package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type medicineRepository struct {
	mu    sync.RWMutex
	items map[string]model.Medicine
}

func newMedicineRepository() *medicineRepository {
	return &medicineRepository{items: make(map[string]model.Medicine)}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[medicine.ID]; exists {
		return repository.ErrDuplicate
	}
	r.items[medicine.ID] = *medicine
	return nil
}

func (r *medicineRepository) List(ctx context.Context, filter model.MedicineFilter) ([]*model.Medicine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Medicine, 0)
	for _, m := range r.items {
		if filter.UploadedBy != "" && m.UploadedBy != filter.UploadedBy {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
