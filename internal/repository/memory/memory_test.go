package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func TestAccountEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Accounts().Create(ctx, &model.Account{ID: "a1", Email: "Ann@Example.com", Role: model.RoleHR}))
	err := s.Accounts().Create(ctx, &model.Account{ID: "a2", Email: "ann@example.com", Role: model.RoleDoctor})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := s.Accounts().GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	_, err = s.Accounts().Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccountGetManySkipsUnknown(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Accounts().Create(ctx, &model.Account{ID: "a1", Email: "a@x.io"}))

	got, err := s.Accounts().GetMany(ctx, []string{"a1", "ghost"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "a1")
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Accounts().Create(ctx, &model.Account{ID: "a1", Email: "a@x.io", Name: "Ann"}))

	got, err := s.Accounts().Get(ctx, "a1")
	require.NoError(t, err)
	got.Name = "Mallory"

	again, err := s.Accounts().Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Name)
}

func TestAttendanceUpsertKeepsOneRecordPerDay(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, err := s.Attendance().Upsert(ctx, "e1", "2024-05-01", model.AttendanceStatusPresent)
	require.NoError(t, err)
	second, err := s.Attendance().Upsert(ctx, "e1", "2024-05-01", model.AttendanceStatusAbsent)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.AttendanceStatusAbsent, second.Status)

	all, err := s.Attendance().ListByEmployee(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.AttendanceStatusAbsent, all[0].Status)
}

func TestAttendanceConcurrentUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.AttendanceStatusPresent
			if i%2 == 0 {
				status = model.AttendanceStatusAbsent
			}
			_, err := s.Attendance().Upsert(ctx, "e1", "2024-05-01", status)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := s.Attendance().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAttendanceListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, d := range []string{"2024-05-01", "2024-05-03", "2024-05-02"} {
		_, err := s.Attendance().Upsert(ctx, "e1", d, model.AttendanceStatusPresent)
		require.NoError(t, err)
	}

	all, err := s.Attendance().ListByEmployee(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-05-03", all[0].Date)
	assert.Equal(t, "2024-05-01", all[2].Date)
}

func TestAppointmentFilterAndVerify(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(func() time.Time { return now }))

	for i, pair := range [][2]string{{"e1", "d1"}, {"e1", "d2"}, {"e2", "d1"}} {
		require.NoError(t, s.Appointments().Create(ctx, &model.Appointment{
			ID:         fmt.Sprintf("ap%d", i),
			EmployeeID: pair[0],
			DoctorID:   pair[1],
			Status:     model.AppointmentStatusPending,
			CreatedAt:  now.Add(time.Duration(i) * time.Minute),
		}))
	}

	byDoctor, err := s.Appointments().List(ctx, model.AppointmentFilter{DoctorID: "d1"})
	require.NoError(t, err)
	require.Len(t, byDoctor, 2)
	assert.Equal(t, "ap2", byDoctor[0].ID)

	byEmployee, err := s.Appointments().List(ctx, model.AppointmentFilter{EmployeeID: "e1"})
	require.NoError(t, err)
	assert.Len(t, byEmployee, 2)

	verified, err := s.Appointments().MarkVerified(ctx, "ap0")
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, model.AppointmentStatusConfirmed, verified.Status)
	assert.Equal(t, now, verified.UpdatedAt)

	_, err = s.Appointments().MarkVerified(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMedicineListByUploader(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Medicines().Create(ctx, &model.Medicine{ID: "m1", UploadedBy: "d1"}))
	require.NoError(t, s.Medicines().Create(ctx, &model.Medicine{ID: "m2", UploadedBy: "d2"}))

	all, err := s.Medicines().List(ctx, model.MedicineFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.Medicines().List(ctx, model.MedicineFilter{UploadedBy: "d2"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "m2", mine[0].ID)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStore()
	assert.Error(t, s.Ping(ctx))
	_, err := s.Attendance().Upsert(ctx, "e1", "2024-05-01", model.AttendanceStatusPresent)
	assert.ErrorIs(t, err, context.Canceled)
}
