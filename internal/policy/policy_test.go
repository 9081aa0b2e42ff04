package policy

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

func TestMatrix(t *testing.T) {
	e, d, h := model.RoleEmployee, model.RoleDoctor, model.RoleHR

	tests := []struct {
		res  Resource
		act  Action
		want map[model.Role]Scope
	}{
		{ResourceAppointment, ActionCreate, map[model.Role]Scope{e: ScopeOwn, d: ScopeNone, h: ScopeNone}},
		{ResourceAppointment, ActionList, map[model.Role]Scope{e: ScopeOwn, d: ScopeOwn, h: ScopeAll}},
		{ResourceAppointment, ActionVerify, map[model.Role]Scope{e: ScopeNone, d: ScopeOwn, h: ScopeAll}},
		{ResourceAppointment, ActionListAll, map[model.Role]Scope{e: ScopeNone, d: ScopeNone, h: ScopeAll}},
		{ResourceAppointment, ActionVerifyAny, map[model.Role]Scope{e: ScopeNone, d: ScopeNone, h: ScopeAll}},
		{ResourceAttendance, ActionMark, map[model.Role]Scope{e: ScopeOwn, d: ScopeNone, h: ScopeNone}},
		{ResourceAttendance, ActionReadOwn, map[model.Role]Scope{e: ScopeOwn, d: ScopeNone, h: ScopeNone}},
		{ResourceAttendance, ActionReadAll, map[model.Role]Scope{e: ScopeNone, d: ScopeNone, h: ScopeAll}},
		{ResourceAttendance, ActionBulkMark, map[model.Role]Scope{e: ScopeNone, d: ScopeNone, h: ScopeAll}},
		{ResourceMedicine, ActionCreate, map[model.Role]Scope{e: ScopeNone, d: ScopeOwn, h: ScopeNone}},
		{ResourceMedicine, ActionList, map[model.Role]Scope{e: ScopeAll, d: ScopeAll, h: ScopeAll}},
		{ResourceMedicine, ActionListOwn, map[model.Role]Scope{e: ScopeNone, d: ScopeOwn, h: ScopeNone}},
		{ResourceMedicine, ActionListAll, map[model.Role]Scope{e: ScopeNone, d: ScopeNone, h: ScopeAll}},
		{ResourceAccount, ActionListDoctors, map[model.Role]Scope{e: ScopeAll, d: ScopeAll, h: ScopeAll}},
		{ResourceAccount, ActionListEmployees, map[model.Role]Scope{e: ScopeNone, d: ScopeNone, h: ScopeAll}},
		{ResourceAccount, ActionListStaff, map[model.Role]Scope{e: ScopeNone, d: ScopeNone, h: ScopeAll}},
	}

	for _, tt := range tests {
		for role, want := range tt.want {
			t.Run(string(tt.res)+"/"+string(tt.act)+"/"+string(role), func(t *testing.T) {
				assert.Equal(t, want, Lookup(role, tt.res, tt.act))
			})
		}
	}
}

func TestUnknownEntriesAreDenied(t *testing.T) {
	assert.Equal(t, ScopeNone, Lookup(model.RoleHR, ResourceMedicine, ActionVerify))
	assert.Equal(t, ScopeNone, Lookup(model.Role("admin"), ResourceMedicine, ActionList))
	assert.Equal(t, ScopeNone, Lookup(model.RoleHR, Resource("payroll"), ActionList))
}

func TestAuthorize(t *testing.T) {
	doctor := &model.Account{ID: "d1", Role: model.RoleDoctor}

	scope, err := Authorize(doctor, ResourceAppointment, ActionVerify)
	require.NoError(t, err)
	assert.Equal(t, ScopeOwn, scope)

	_, err = Authorize(doctor, ResourceAttendance, ActionMark)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = Authorize(nil, ResourceMedicine, ActionList)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestEnforcerCountsDenials(t *testing.T) {
	m := metrics.NewNop()
	e := NewEnforcer(m)

	_, err := e.Authorize(&model.Account{ID: "e1", Role: model.RoleEmployee}, ResourceMedicine, ActionCreate)
	require.Error(t, err)
	_, err = e.Authorize(&model.Account{ID: "d1", Role: model.RoleDoctor}, ResourceMedicine, ActionCreate)
	require.NoError(t, err)
	_, err = e.Authorize(nil, ResourceMedicine, ActionCreate)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessDenied.WithLabelValues("medicine", "create")))

	err = e.Deny(ResourceAppointment, ActionVerify, "not yours")
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessDenied.WithLabelValues("appointment", "verify")))
}
