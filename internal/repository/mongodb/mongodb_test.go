package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestAccountRepository(t *testing.T) {
	mt := newMockT(t)

	mt.Run("get by id", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.accounts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "d1"},
			{Key: "name", Value: "Dr Who"},
			{Key: "email", Value: "who@h.io"},
			{Key: "role", Value: "doctor"},
			{Key: "specialization", Value: "cardiology"},
		}))

		got, err := s.Accounts().Get(context.Background(), "d1")
		require.NoError(mt, err)
		assert.Equal(mt, "Dr Who", got.Name)
		assert.Equal(mt, model.RoleDoctor, got.Role)
		assert.Equal(mt, "cardiology", got.Specialization)
	})

	mt.Run("missing account", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.accounts", mtest.FirstBatch))

		_, err := s.Accounts().Get(context.Background(), "ghost")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: db.accounts index: email_1",
		}))

		err := s.Accounts().Create(context.Background(), &model.Account{ID: "a2", Email: "Taken@h.io"})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("get many", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.accounts", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "e1"}, {Key: "name", Value: "Eve"}},
			bson.D{{Key: "_id", Value: "d1"}, {Key: "name", Value: "Dan"}},
		))

		got, err := s.Accounts().GetMany(context.Background(), []string{"e1", "d1", "x"})
		require.NoError(mt, err)
		assert.Len(mt, got, 2)
		assert.Equal(mt, "Eve", got["e1"].Name)
	})
}

func TestAttendanceUpsert(t *testing.T) {
	mt := newMockT(t)
	date := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	record := bson.D{
		{Key: "_id", Value: "r1"},
		{Key: "employee_id", Value: "e1"},
		{Key: "date", Value: "2024-05-01"},
		{Key: "status", Value: "present"},
		{Key: "created_at", Value: date},
		{Key: "updated_at", Value: date},
	}

	mt.Run("returns the stored document", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: record}))

		rec, err := s.Attendance().Upsert(context.Background(), "e1", "2024-05-01", model.AttendanceStatusPresent)
		require.NoError(mt, err)
		assert.Equal(mt, "r1", rec.ID)
		assert.Equal(mt, model.AttendanceStatusPresent, rec.Status)
	})

	mt.Run("retries once after a duplicate key race", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Name:    "DuplicateKey",
				Message: "E11000 duplicate key error",
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: record}),
		)

		rec, err := s.Attendance().Upsert(context.Background(), "e1", "2024-05-01", model.AttendanceStatusPresent)
		require.NoError(mt, err)
		assert.Equal(mt, "r1", rec.ID)
	})

	mt.Run("lists newest first as returned", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.attendance", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "r2"}, {Key: "date", Value: "2024-05-02"}},
			record,
		))

		all, err := s.Attendance().ListByEmployee(context.Background(), "e1")
		require.NoError(mt, err)
		require.Len(mt, all, 2)
		assert.Equal(mt, "r2", all[0].ID)
	})
}

func TestAppointmentMarkVerified(t *testing.T) {
	mt := newMockT(t)

	mt.Run("confirms", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "ap1"},
			{Key: "doctor_id", Value: "d1"},
			{Key: "status", Value: "confirmed"},
			{Key: "verified", Value: true},
		}}))

		a, err := s.Appointments().MarkVerified(context.Background(), "ap1")
		require.NoError(mt, err)
		assert.True(mt, a.Verified)
		assert.Equal(mt, model.AppointmentStatusConfirmed, a.Status)
	})

	mt.Run("not found", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := s.Appointments().MarkVerified(context.Background(), "ghost")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestMedicineList(t *testing.T) {
	mt := newMockT(t)

	mt.Run("by uploader", func(mt *mtest.T) {
		s := NewStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.medicines", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "m1"}, {Key: "name", Value: "Aspirin"}, {Key: "uploaded_by", Value: "d1"}},
		))

		meds, err := s.Medicines().List(context.Background(), model.MedicineFilter{UploadedBy: "d1"})
		require.NoError(mt, err)
		require.Len(mt, meds, 1)
		assert.Equal(mt, "Aspirin", meds[0].Name)
	})
}
