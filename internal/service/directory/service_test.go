package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Accounts(), metrics.NewNop())

	seed := []*model.Account{
		{ID: "e1", Name: "Eve", Email: "e1@hospital.io", Role: model.RoleEmployee},
		{ID: "e2", Name: "Adam", Email: "e2@hospital.io", Role: model.RoleEmployee},
		{ID: "d1", Name: "Dr Grey", Email: "d1@hospital.io", Role: model.RoleDoctor, Specialization: "surgery", PasswordHash: "x"},
		{ID: "h1", Name: "Hana", Email: "h1@hospital.io", Role: model.RoleHR},
	}
	for _, a := range seed {
		require.NoError(t, store.Accounts().Create(ctx, a))
	}
	employee, hr := seed[0], seed[3]

	t.Run("doctors visible to everyone", func(t *testing.T) {
		for _, caller := range seed {
			doctors, err := svc.ListDoctors(ctx, caller)
			require.NoError(t, err)
			require.Len(t, doctors, 1)
			assert.Equal(t, &model.DoctorSummary{ID: "d1", Name: "Dr Grey", Email: "d1@hospital.io", Specialization: "surgery"}, doctors[0])
		}
	})

	t.Run("employees for hr only", func(t *testing.T) {
		employees, err := svc.ListEmployees(ctx, hr)
		require.NoError(t, err)
		require.Len(t, employees, 2)
		assert.Equal(t, "Adam", employees[0].Name)

		_, err = svc.ListEmployees(ctx, employee)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("staff doctors for hr only", func(t *testing.T) {
		doctors, err := svc.ListStaffDoctors(ctx, hr)
		require.NoError(t, err)
		require.Len(t, doctors, 1)

		_, err = svc.ListStaffDoctors(ctx, seed[2])
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := svc.ListDoctors(ctx, nil)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})
}
