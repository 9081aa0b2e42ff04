package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const accountColumns = `id, name, email, password_hash, role, specialization, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	account.Email = strings.ToLower(account.Email)

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Specialization,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, strings.ToLower(email))
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Account, error) {
	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetMany(ctx context.Context, ids []string) (map[string]*model.Account, error) {
	out := make(map[string]*model.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+accountColumns+` FROM accounts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var accounts []*model.Account
	if err := r.db.SelectContext(ctx, &accounts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out, nil
}

func (r *accountRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 ORDER BY name, id`

	accounts := make([]*model.Account, 0)
	if err := r.db.SelectContext(ctx, &accounts, query, role); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
