package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/policy"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const (
	sourceSelf = "self"
	sourceHR   = "hr"

	defaultBulkConcurrency = 8
	bulkSavedMessage       = "attendance saved successfully"
)

type Service struct {
	attendance repository.AttendanceRepository
	accounts   repository.AccountRepository
	events     event.Publisher
	enforcer   *policy.Enforcer
	metrics    *metrics.Metrics
	now        func() time.Time
	location   *time.Location
	bulkLimit  int
}

func NewService(
	attendance repository.AttendanceRepository,
	accounts repository.AccountRepository,
	events event.Publisher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		attendance: attendance,
		accounts:   accounts,
		events:     events,
		enforcer:   policy.NewEnforcer(m),
		metrics:    m,
		now:        time.Now,
		location:   time.Local,
		bulkLimit:  defaultBulkConcurrency,
	}
}

// today is the server-local calendar date.
func (s *Service) today() string {
	return s.now().In(s.location).Format(model.DateLayout)
}

// Mark records today's status for the calling employee. Marking again the
// same day overwrites the status.
func (s *Service) Mark(ctx context.Context, caller *model.Account, req *model.MarkAttendanceRequest) (*model.AttendanceRecord, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAttendance, policy.ActionMark); err != nil {
		return nil, err
	}
	if !req.Status.Markable() {
		return nil, apperrors.BadRequest("status must be present or absent", nil)
	}

	rec, err := s.attendance.Upsert(ctx, caller.ID, s.today(), req.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to mark attendance: %w", err)
	}

	s.metrics.AttendanceMarked.WithLabelValues(sourceSelf, string(rec.Status)).Inc()
	log.Info().
		Str("employee_id", rec.EmployeeID).
		Str("date", rec.Date).
		Str("status", string(rec.Status)).
		Msg("attendance marked")
	s.events.Emit(ctx, event.AttendanceMarked, rec)
	return rec, nil
}

// MarkBulk lets HR record today's status for several employees. Every id
// must name an employee or nothing is written. Repeated ids keep the last
// status given.
func (s *Service) MarkBulk(ctx context.Context, caller *model.Account, req *model.BulkAttendanceRequest) (*model.BulkAttendanceResponse, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAttendance, policy.ActionBulkMark); err != nil {
		return nil, err
	}
	if len(req.Attendance) == 0 {
		return nil, apperrors.BadRequest("attendance list is empty", nil)
	}

	entries := collapse(req.Attendance)
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Status.Markable() {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid status for employee %s", e.EmployeeID), nil)
		}
		ids = append(ids, e.EmployeeID)
	}

	accounts, err := s.accounts.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	for _, id := range ids {
		if a, ok := accounts[id]; !ok || a.Role != model.RoleEmployee {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid employee: %s", id), nil)
		}
	}

	date := s.today()
	records := make([]*model.AttendanceRecord, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.bulkLimit)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			rec, err := s.attendance.Upsert(gctx, e.EmployeeID, date, e.Status)
			if err != nil {
				return fmt.Errorf("failed to mark attendance for %s: %w", e.EmployeeID, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, rec := range records {
		s.metrics.AttendanceMarked.WithLabelValues(sourceHR, string(rec.Status)).Inc()
		s.events.Emit(ctx, event.AttendanceMarked, rec)
	}
	log.Info().
		Str("marked_by", caller.ID).
		Str("date", date).
		Int("count", len(records)).
		Msg("bulk attendance saved")

	return &model.BulkAttendanceResponse{Message: bulkSavedMessage, Records: records}, nil
}

// ListOwn is the caller's history, newest first.
func (s *Service) ListOwn(ctx context.Context, caller *model.Account) ([]*model.AttendanceRecord, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAttendance, policy.ActionReadOwn); err != nil {
		return nil, err
	}
	records, err := s.attendance.ListByEmployee(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// ListAll returns every record, newest first, with the employee resolved.
func (s *Service) ListAll(ctx context.Context, caller *model.Account) ([]*model.AttendanceView, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAttendance, policy.ActionReadAll); err != nil {
		return nil, err
	}
	records, err := s.attendance.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	views := make([]*model.AttendanceView, 0, len(records))
	if len(records) == 0 {
		return views, nil
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, r := range records {
		if _, ok := seen[r.EmployeeID]; !ok {
			seen[r.EmployeeID] = struct{}{}
			ids = append(ids, r.EmployeeID)
		}
	}
	accounts, err := s.accounts.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employees: %w", err)
	}

	for _, r := range records {
		views = append(views, &model.AttendanceView{
			AttendanceRecord: r,
			Employee:         accounts[r.EmployeeID].RefWithRole(),
		})
	}
	return views, nil
}

// collapse drops repeated employee ids, keeping the position of the first
// occurrence and the status of the last.
func collapse(in []model.BulkAttendanceEntry) []model.BulkAttendanceEntry {
	index := make(map[string]int, len(in))
	out := make([]model.BulkAttendanceEntry, 0, len(in))
	for _, e := range in {
		e.EmployeeID = strings.TrimSpace(e.EmployeeID)
		if i, ok := index[e.EmployeeID]; ok {
			out[i].Status = e.Status
			continue
		}
		index[e.EmployeeID] = len(out)
		out = append(out, e)
	}
	return out
}
