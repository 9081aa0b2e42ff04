// Package policy is the single table deciding which role may do what, and
// whether the grant covers every record or only the caller's own.
package policy

import (
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type Resource string

const (
	ResourceAppointment Resource = "appointment"
	ResourceAttendance  Resource = "attendance"
	ResourceMedicine    Resource = "medicine"
	ResourceAccount     Resource = "account"
)

type Action string

const (
	ActionCreate        Action = "create"
	ActionList          Action = "list"
	ActionListAll       Action = "list_all"
	ActionListOwn       Action = "list_own"
	ActionVerify        Action = "verify"
	ActionVerifyAny     Action = "verify_any"
	ActionMark          Action = "mark"
	ActionBulkMark      Action = "bulk_mark"
	ActionReadOwn       Action = "read_own"
	ActionReadAll       Action = "read_all"
	ActionListDoctors   Action = "list_doctors"
	ActionListEmployees Action = "list_employees"
	ActionListStaff     Action = "list_staff"
)

// Scope says how far a grant reaches. ScopeOwn means the service must
// restrict the operation to records tied to the caller.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwn
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeOwn:
		return "own"
	case ScopeAll:
		return "all"
	}
	return "none"
}

type grants map[model.Role]Scope

var table = map[Resource]map[Action]grants{
	ResourceAppointment: {
		ActionCreate:    {model.RoleEmployee: ScopeOwn},
		ActionList:      {model.RoleEmployee: ScopeOwn, model.RoleDoctor: ScopeOwn, model.RoleHR: ScopeAll},
		ActionVerify:    {model.RoleDoctor: ScopeOwn, model.RoleHR: ScopeAll},
		ActionListAll:   {model.RoleHR: ScopeAll},
		ActionVerifyAny: {model.RoleHR: ScopeAll},
	},
	ResourceAttendance: {
		ActionMark:     {model.RoleEmployee: ScopeOwn},
		ActionReadOwn:  {model.RoleEmployee: ScopeOwn},
		ActionReadAll:  {model.RoleHR: ScopeAll},
		ActionBulkMark: {model.RoleHR: ScopeAll},
	},
	ResourceMedicine: {
		ActionCreate:  {model.RoleDoctor: ScopeOwn},
		ActionList:    {model.RoleEmployee: ScopeAll, model.RoleDoctor: ScopeAll, model.RoleHR: ScopeAll},
		ActionListOwn: {model.RoleDoctor: ScopeOwn},
		ActionListAll: {model.RoleHR: ScopeAll},
	},
	ResourceAccount: {
		ActionListDoctors:   {model.RoleEmployee: ScopeAll, model.RoleDoctor: ScopeAll, model.RoleHR: ScopeAll},
		ActionListEmployees: {model.RoleHR: ScopeAll},
		ActionListStaff:     {model.RoleHR: ScopeAll},
	},
}

// Lookup returns the scope granted to role, ScopeNone when there is no
// entry.
func Lookup(role model.Role, res Resource, act Action) Scope {
	return table[res][act][role]
}

// Authorize returns the caller's scope or a Forbidden error.
func Authorize(caller *model.Account, res Resource, act Action) (Scope, error) {
	if caller == nil {
		return ScopeNone, apperrors.Unauthorized("", nil)
	}
	scope := Lookup(caller.Role, res, act)
	if scope == ScopeNone {
		return ScopeNone, apperrors.Forbidden(fmt.Sprintf("role %s may not %s %s", caller.Role, act, res))
	}
	return scope, nil
}

// Enforcer is Authorize with refusals counted.
type Enforcer struct {
	metrics *metrics.Metrics
}

func NewEnforcer(m *metrics.Metrics) *Enforcer {
	return &Enforcer{metrics: m}
}

func (e *Enforcer) Authorize(caller *model.Account, res Resource, act Action) (Scope, error) {
	scope, err := Authorize(caller, res, act)
	if err != nil && apperrors.Is(err, apperrors.ErrForbidden) {
		e.metrics.AccessDenied.WithLabelValues(string(res), string(act)).Inc()
	}
	return scope, err
}

// Deny counts and returns a Forbidden error for a refusal decided by the
// caller, typically an ownership check under ScopeOwn.
func (e *Enforcer) Deny(res Resource, act Action, message string) error {
	e.metrics.AccessDenied.WithLabelValues(string(res), string(act)).Inc()
	return apperrors.Forbidden(message)
}
