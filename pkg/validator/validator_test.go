package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,role"`
	Status string `json:"status" validate:"omitempty,attendance_status"`
}

func newValidate(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidate(t)

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"valid employee", sample{Email: "e@x.io", Role: "employee", Status: "present"}, false},
		{"valid hr no status", sample{Email: "h@x.io", Role: "hr"}, false},
		{"unknown role", sample{Email: "e@x.io", Role: "admin"}, true},
		{"leave rejected", sample{Email: "e@x.io", Role: "employee", Status: "leave"}, true},
		{"bad email", sample{Email: "nope", Role: "doctor"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFieldsUseJSONNames(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(sample{Email: "bad", Role: "root"})
	require.Error(t, err)

	fields := Fields(err)
	require.Len(t, fields, 2)
	assert.Equal(t, FieldError{Field: "email", Message: "must be a valid email address"}, fields[0])
	assert.Equal(t, FieldError{Field: "role", Message: "must be one of employee, doctor, hr"}, fields[1])
	assert.Equal(t, "email must be a valid email address; role must be one of employee, doctor, hr", Message(err))
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(assert.AnError))
	assert.Empty(t, Message(assert.AnError))
}

func TestRegisterGinIsIdempotent(t *testing.T) {
	require.NoError(t, RegisterGin())
	require.NoError(t, RegisterGin())
}
