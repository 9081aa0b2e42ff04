package model

import (
	"time"
)

// Role is fixed at registration and never changes afterwards.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleDoctor   Role = "doctor"
	RoleHR       Role = "hr"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleDoctor, RoleHR:
		return true
	}
	return false
}

// Account is a registered staff member.
type Account struct {
	ID             string    `json:"id" db:"id" bson:"_id"`
	Name           string    `json:"name" db:"name" bson:"name"`
	Email          string    `json:"email" db:"email" bson:"email"`
	PasswordHash   string    `json:"-" db:"password_hash" bson:"password_hash"`
	Role           Role      `json:"role" db:"role" bson:"role"`
	Specialization string    `json:"specialization,omitempty" db:"specialization" bson:"specialization,omitempty"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// AccountRef is the resolved form of an account reference embedded in
// read views.
type AccountRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

func (a *Account) Ref() *AccountRef {
	if a == nil {
		return nil
	}
	return &AccountRef{ID: a.ID, Name: a.Name, Email: a.Email}
}

// RefWithRole is used by listings where the reader needs the role too.
func (a *Account) RefWithRole() *AccountRef {
	ref := a.Ref()
	if ref != nil {
		ref.Role = a.Role
	}
	return ref
}

// DoctorSummary is what any account sees when picking a doctor.
type DoctorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

func (a *Account) DoctorSummary() *DoctorSummary {
	return &DoctorSummary{ID: a.ID, Name: a.Name, Email: a.Email, Specialization: a.Specialization}
}
