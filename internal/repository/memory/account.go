package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type accountRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.Account
	byEmail map[string]string
}

func newAccountRepository() *accountRepository {
	return &accountRepository{
		byID:    make(map[string]model.Account),
		byEmail: make(map[string]string),
	}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, taken := r.byEmail[email]; taken {
		return repository.ErrDuplicate
	}
	if _, taken := r.byID[account.ID]; taken {
		return repository.ErrDuplicate
	}

	r.byID[account.ID] = *account
	r.byEmail[email] = account.ID
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *accountRepository) GetMany(ctx context.Context, ids []string) (map[string]*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*model.Account, len(ids))
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out[id] = &a
		}
	}
	return out, nil
}

func (r *accountRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Account, 0)
	for _, a := range r.byID {
		if a.Role == role {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
