package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type attendanceRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// Upsert is a single findAndModify with upsert over the unique
// (employee_id, date) index. Two racing inserts can still collide on the
// index; the loser retries once and lands on the update path.
func (r *attendanceRepository) Upsert(ctx context.Context, employeeID, date string, status model.AttendanceStatus) (*model.AttendanceRecord, error) {
	rec, err := r.upsert(ctx, employeeID, date, status)
	if mongo.IsDuplicateKeyError(err) {
		rec, err = r.upsert(ctx, employeeID, date, status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return rec, nil
}

func (r *attendanceRepository) upsert(ctx context.Context, employeeID, date string, status model.AttendanceStatus) (*model.AttendanceRecord, error) {
	now := r.now()
	filter := bson.M{"employee_id": employeeID, "date": date}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.New().String(),
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var rec model.AttendanceRecord
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*model.AttendanceRecord, error) {
	return r.find(ctx, bson.M{"employee_id": employeeID})
}

func (r *attendanceRepository) List(ctx context.Context) ([]*model.AttendanceRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *attendanceRepository) find(ctx context.Context, filter bson.M) ([]*model.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "employee_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return decodeAll[model.AttendanceRecord](ctx, cur)
}
