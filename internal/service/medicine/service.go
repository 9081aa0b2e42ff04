package medicine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/policy"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type Service struct {
	medicines repository.MedicineRepository
	accounts  repository.AccountRepository
	events    event.Publisher
	enforcer  *policy.Enforcer
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(
	medicines repository.MedicineRepository,
	accounts repository.AccountRepository,
	events event.Publisher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		medicines: medicines,
		accounts:  accounts,
		events:    events,
		enforcer:  policy.NewEnforcer(m),
		metrics:   m,
		now:       time.Now,
	}
}

// Create adds a catalog entry uploaded by the calling doctor.
func (s *Service) Create(ctx context.Context, caller *model.Account, req *model.CreateMedicineRequest) (*model.MedicineView, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceMedicine, policy.ActionCreate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("name is required", nil)
	}

	med := &model.Medicine{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		UploadedBy:  caller.ID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.medicines.Create(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}

	s.metrics.MedicinesCreated.Inc()
	log.Info().Str("medicine_id", med.ID).Str("uploaded_by", caller.ID).Msg("medicine added")

	view := &model.MedicineView{Medicine: med, Uploader: caller.Ref()}
	s.events.Emit(ctx, event.MedicineCreated, view)
	return view, nil
}

// List is the catalog as any authenticated account sees it.
func (s *Service) List(ctx context.Context, caller *model.Account) ([]*model.MedicineView, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceMedicine, policy.ActionList); err != nil {
		return nil, err
	}
	return s.list(ctx, model.MedicineFilter{})
}

// ListOwn returns the entries the calling doctor uploaded.
func (s *Service) ListOwn(ctx context.Context, caller *model.Account) ([]*model.MedicineView, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceMedicine, policy.ActionListOwn); err != nil {
		return nil, err
	}
	return s.list(ctx, model.MedicineFilter{UploadedBy: caller.ID})
}

func (s *Service) ListAll(ctx context.Context, caller *model.Account) ([]*model.MedicineView, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceMedicine, policy.ActionListAll); err != nil {
		return nil, err
	}
	return s.list(ctx, model.MedicineFilter{})
}

func (s *Service) list(ctx context.Context, filter model.MedicineFilter) ([]*model.MedicineView, error) {
	meds, err := s.medicines.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}

	views := make([]*model.MedicineView, 0, len(meds))
	if len(meds) == 0 {
		return views, nil
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, m := range meds {
		if _, ok := seen[m.UploadedBy]; !ok {
			seen[m.UploadedBy] = struct{}{}
			ids = append(ids, m.UploadedBy)
		}
	}
	uploaders, err := s.accounts.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve uploaders: %w", err)
	}

	for _, m := range meds {
		views = append(views, &model.MedicineView{Medicine: m, Uploader: uploaders[m.UploadedBy].Ref()})
	}
	return views, nil
}
