package model

import (
	"encoding/json"
	"time"
)

type AppointmentStatus string

// Only pending and confirmed are reachable. The other two are kept so stored
// documents written by other tools still decode.
const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

type Appointment struct {
	ID           string            `json:"id" db:"id" bson:"_id"`
	EmployeeID   string            `json:"employee_id" db:"employee_id" bson:"employee_id"`
	DoctorID     string            `json:"doctor_id" db:"doctor_id" bson:"doctor_id"`
	Date         string            `json:"date" db:"date" bson:"date"`
	Time         string            `json:"time" db:"time" bson:"time"`
	PatientName  string            `json:"patient_name" db:"patient_name" bson:"patient_name"`
	PatientEmail string            `json:"patient_email" db:"patient_email" bson:"patient_email"`
	Status       AppointmentStatus `json:"status" db:"status" bson:"status"`
	Verified     bool              `json:"verified" db:"verified" bson:"verified"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// AppointmentView is an appointment with both participants resolved.
type AppointmentView struct {
	*Appointment
	Doctor   *AccountRef `json:"doctor,omitempty"`
	Employee *AccountRef `json:"employee,omitempty"`
}

// AppointmentFilter narrows a listing. Empty fields match everything.
type AppointmentFilter struct {
	EmployeeID string
	DoctorID   string
}

// CreateAppointmentRequest is the booking body the dashboards send. The
// doctor may also be given as doctor_id.
type CreateAppointmentRequest struct {
	DoctorID     string `json:"doctorId" binding:"required"`
	DateTime     string `json:"datetime" binding:"required"`
	PatientName  string `json:"name" binding:"required,max=200"`
	PatientEmail string `json:"email" binding:"required,email"`
}

func (r *CreateAppointmentRequest) UnmarshalJSON(data []byte) error {
	type plain CreateAppointmentRequest
	var aux struct {
		plain
		DoctorIDAlias string `json:"doctor_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = CreateAppointmentRequest(aux.plain)
	if r.DoctorID == "" {
		r.DoctorID = aux.DoctorIDAlias
	}
	return nil
}
