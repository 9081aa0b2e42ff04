package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed constraint, keyed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var messages = map[string]string{
	"required":          "is required",
	"email":             "must be a valid email address",
	"min":               "is too short",
	"max":               "is too long",
	"role":              "must be one of employee, doctor, hr",
	"attendance_status": "must be present or absent",
}

var registerOnce sync.Once

// Register installs the custom tags and JSON field naming on v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("role", validateRole); err != nil {
		return fmt.Errorf("register role: %w", err)
	}
	if err := v.RegisterValidation("attendance_status", validateAttendanceStatus); err != nil {
		return fmt.Errorf("register attendance_status: %w", err)
	}
	return nil
}

// RegisterGin installs the custom tags on gin's binding validator. Safe to
// call more than once.
func RegisterGin() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin binding validator is not go-playground/validator")
			return
		}
		err = Register(v)
	})
	return err
}

// Kept as plain strings so this package does not depend on the domain
// model.
func validateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "employee", "doctor", "hr":
		return true
	}
	return false
}

// leave is a stored status but cannot be submitted.
func validateAttendanceStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "present", "absent":
		return true
	}
	return false
}

// Fields flattens validation errors. It returns nil for errors that did not
// come from the validator.
func Fields(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		msg, ok := messages[e.Tag()]
		if !ok {
			msg = fmt.Sprintf("failed on %s", e.Tag())
		}
		out = append(out, FieldError{Field: e.Field(), Message: msg})
	}
	return out
}

// Message renders validation errors as one line, e.g.
// "email must be a valid email address; role is required".
func Message(err error) string {
	fields := Fields(err)
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Field + " " + f.Message
	}
	return strings.Join(parts, "; ")
}
