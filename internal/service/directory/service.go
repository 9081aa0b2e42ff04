// Package directory answers who works here: doctors for anyone booking an
// appointment, full staff listings for HR.
package directory

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/policy"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type Service struct {
	accounts repository.AccountRepository
	enforcer *policy.Enforcer
}

func NewService(accounts repository.AccountRepository, m *metrics.Metrics) *Service {
	return &Service{accounts: accounts, enforcer: policy.NewEnforcer(m)}
}

func (s *Service) ListDoctors(ctx context.Context, caller *model.Account) ([]*model.DoctorSummary, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAccount, policy.ActionListDoctors); err != nil {
		return nil, err
	}
	doctors, err := s.byRole(ctx, model.RoleDoctor)
	if err != nil {
		return nil, err
	}
	out := make([]*model.DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, d.DoctorSummary())
	}
	return out, nil
}

func (s *Service) ListEmployees(ctx context.Context, caller *model.Account) ([]*model.Account, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAccount, policy.ActionListEmployees); err != nil {
		return nil, err
	}
	return s.byRole(ctx, model.RoleEmployee)
}

// ListStaffDoctors is the HR view of doctors, full accounts included.
func (s *Service) ListStaffDoctors(ctx context.Context, caller *model.Account) ([]*model.Account, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAccount, policy.ActionListStaff); err != nil {
		return nil, err
	}
	return s.byRole(ctx, model.RoleDoctor)
}

func (s *Service) byRole(ctx context.Context, role model.Role) ([]*model.Account, error) {
	accounts, err := s.accounts.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s accounts: %w", role, err)
	}
	if accounts == nil {
		accounts = []*model.Account{}
	}
	return accounts, nil
}
