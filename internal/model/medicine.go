package model

import (
	"time"
)

type Medicine struct {
	ID          string    `json:"id" db:"id" bson:"_id"`
	Name        string    `json:"name" db:"name" bson:"name"`
	Description string    `json:"description" db:"description" bson:"description"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by" bson:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

type MedicineView struct {
	*Medicine
	Uploader *AccountRef `json:"uploader,omitempty"`
}

type MedicineFilter struct {
	UploadedBy string
}

type CreateMedicineRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}
