package model

import (
	"encoding/json"
	"time"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	// AttendanceStatusLeave is never accepted as input.
	AttendanceStatusLeave AttendanceStatus = "leave"
)

// Markable reports whether a caller may submit this status.
func (s AttendanceStatus) Markable() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusAbsent
}

// AttendanceRecord is unique per (EmployeeID, Date).
type AttendanceRecord struct {
	ID         string           `json:"id" db:"id" bson:"_id"`
	EmployeeID string           `json:"employee_id" db:"employee_id" bson:"employee_id"`
	Date       string           `json:"date" db:"date" bson:"date"`
	Status     AttendanceStatus `json:"status" db:"status" bson:"status"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

type AttendanceView struct {
	*AttendanceRecord
	Employee *AccountRef `json:"employee,omitempty"`
}

type MarkAttendanceRequest struct {
	Status AttendanceStatus `json:"status" binding:"required,attendance_status"`
}

// BulkAttendanceEntry accepts employee_id as well as employeeId.
type BulkAttendanceEntry struct {
	EmployeeID string           `json:"employeeId" binding:"required"`
	Status     AttendanceStatus `json:"status" binding:"required,attendance_status"`
}

func (e *BulkAttendanceEntry) UnmarshalJSON(data []byte) error {
	type plain BulkAttendanceEntry
	var aux struct {
		plain
		EmployeeIDAlias string `json:"employee_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = BulkAttendanceEntry(aux.plain)
	if e.EmployeeID == "" {
		e.EmployeeID = aux.EmployeeIDAlias
	}
	return nil
}

type BulkAttendanceRequest struct {
	Attendance []BulkAttendanceEntry `json:"attendance" binding:"required,min=1,dive"`
}

type BulkAttendanceResponse struct {
	Message string              `json:"message"`
	Records []*AttendanceRecord `json:"records"`
}
