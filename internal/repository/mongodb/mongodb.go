package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

const (
	collAccounts     = "accounts"
	collAttendance   = "attendance"
	collAppointments = "appointments"
	collMedicines    = "medicines"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database

	accounts     *accountRepository
	attendance   *attendanceRepository
	appointments *appointmentRepository
	medicines    *medicineRepository
}

// Connect dials the deployment, checks it with a ping and makes sure the
// unique indexes exist.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := NewStore(client, client.Database(cfg.Database))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing database handle. Indexes are not touched.
func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	now := func() time.Time { return time.Now().UTC() }
	return &Store{
		client:       client,
		db:           db,
		accounts:     &accountRepository{coll: db.Collection(collAccounts)},
		attendance:   &attendanceRepository{coll: db.Collection(collAttendance), now: now},
		appointments: &appointmentRepository{coll: db.Collection(collAppointments), now: now},
		medicines:    &medicineRepository{coll: db.Collection(collMedicines)},
	}
}

// EnsureIndexes creates the unique keys the repositories rely on. The
// attendance key is what makes the upsert safe under concurrency.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collAccounts: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		collAttendance: {
			{
				Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		collAppointments: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}}},
			{Keys: bson.D{{Key: "doctor_id", Value: 1}}},
		},
		collMedicines: {
			{Keys: bson.D{{Key: "uploaded_by", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Accounts() repository.AccountRepository         { return s.accounts }
func (s *Store) Attendance() repository.AttendanceRepository   { return s.attendance }
func (s *Store) Appointments() repository.AppointmentRepository { return s.appointments }
func (s *Store) Medicines() repository.MedicineRepository       { return s.medicines }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]*T, error) {
	defer cur.Close(ctx)

	out := make([]*T, 0)
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		out = append(out, &item)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}
