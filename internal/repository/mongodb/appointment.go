package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type appointmentRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	if _, err := r.coll.InsertOne(ctx, appointment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	query := bson.M{}
	if filter.EmployeeID != "" {
		query["employee_id"] = filter.EmployeeID
	}
	if filter.DoctorID != "" {
		query["doctor_id"] = filter.DoctorID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return decodeAll[model.Appointment](ctx, cur)
}

func (r *appointmentRepository) MarkVerified(ctx context.Context, id string) (*model.Appointment, error) {
	update := bson.M{"$set": bson.M{
		"verified":   true,
		"status":     model.AppointmentStatusConfirmed,
		"updated_at": r.now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appointment model.Appointment
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&appointment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to verify appointment: %w", err)
	}
	return &appointment, nil
}
