package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type accountRepository struct {
	coll *mongo.Collection
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	account.Email = strings.ToLower(account.Email)
	if _, err := r.coll.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *accountRepository) findOne(ctx context.Context, filter bson.M) (*model.Account, error) {
	var account model.Account
	if err := r.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
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

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	accounts, err := decodeAll[model.Account](ctx, cur)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out, nil
}

func (r *accountRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.Account, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return decodeAll[model.Account](ctx, cur)
}
