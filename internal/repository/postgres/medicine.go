package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const medicineColumns = `id, name, description, uploaded_by, created_at`

func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	query := `INSERT INTO medicines (` + medicineColumns + `) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		medicine.ID,
		medicine.Name,
		medicine.Description,
		medicine.UploadedBy,
		medicine.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) List(ctx context.Context, filter model.MedicineFilter) ([]*model.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines`
	var args []interface{}
	if filter.UploadedBy != "" {
		query += ` WHERE uploaded_by = $1`
		args = append(args, filter.UploadedBy)
	}
	query += ` ORDER BY created_at DESC, id`

	medicines := make([]*model.Medicine, 0)
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, nil
}
