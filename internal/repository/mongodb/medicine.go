package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type medicineRepository struct {
	coll *mongo.Collection
}

func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	if _, err := r.coll.InsertOne(ctx, medicine); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) List(ctx context.Context, filter model.MedicineFilter) ([]*model.Medicine, error) {
	query := bson.M{}
	if filter.UploadedBy != "" {
		query["uploaded_by"] = filter.UploadedBy
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return decodeAll[model.Medicine](ctx, cur)
}
