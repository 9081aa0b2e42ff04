package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/policy"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

// Accepted forms of the booking datetime. Values without a zone are read in
// the service location.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type Service struct {
	appointments repository.AppointmentRepository
	accounts     repository.AccountRepository
	mailer       email.Service
	events       event.Publisher
	enforcer     *policy.Enforcer
	metrics      *metrics.Metrics
	now          func() time.Time
	location     *time.Location

	// mails counts confirmation emails still being sent.
	mails sync.WaitGroup
}

func NewService(
	appointments repository.AppointmentRepository,
	accounts repository.AccountRepository,
	mailer email.Service,
	events event.Publisher,
	m *metrics.Metrics,
) *Service {
	if mailer == nil {
		mailer = email.NopService{}
	}
	return &Service{
		appointments: appointments,
		accounts:     accounts,
		mailer:       mailer,
		events:       events,
		enforcer:     policy.NewEnforcer(m),
		metrics:      m,
		now:          time.Now,
		location:     time.Local,
	}
}

// Create books an appointment for the calling employee with an existing
// doctor. Nothing is stored when the doctor is unknown.
func (s *Service) Create(ctx context.Context, caller *model.Account, req *model.CreateAppointmentRequest) (*model.AppointmentView, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAppointment, policy.ActionCreate); err != nil {
		return nil, err
	}

	at, err := s.parseDateTime(req.DateTime)
	if err != nil {
		return nil, apperrors.BadRequest("invalid datetime", err)
	}

	doctor, err := s.accounts.Get(ctx, strings.TrimSpace(req.DoctorID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.BadRequest("invalid doctor", err)
		}
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}
	if doctor.Role != model.RoleDoctor {
		return nil, apperrors.BadRequest("invalid doctor", nil)
	}

	now := s.now().UTC()
	apt := &model.Appointment{
		ID:           uuid.New().String(),
		EmployeeID:   caller.ID,
		DoctorID:     doctor.ID,
		Date:         at.Format(model.DateLayout),
		Time:         at.Format(model.TimeLayout),
		PatientName:  strings.TrimSpace(req.PatientName),
		PatientEmail: strings.ToLower(strings.TrimSpace(req.PatientEmail)),
		Status:       model.AppointmentStatusPending,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.AppointmentsCreated.Inc()
	log.Info().
		Str("appointment_id", apt.ID).
		Str("employee_id", apt.EmployeeID).
		Str("doctor_id", apt.DoctorID).
		Msg("appointment booked")

	view := &model.AppointmentView{Appointment: apt, Doctor: doctor.Ref(), Employee: caller.Ref()}
	s.events.Emit(ctx, event.AppointmentCreated, view)
	return view, nil
}

// List returns what the caller may see: their bookings for an employee,
// their assignments for a doctor, everything for HR.
func (s *Service) List(ctx context.Context, caller *model.Account) ([]*model.AppointmentView, error) {
	scope, err := s.enforcer.Authorize(caller, policy.ResourceAppointment, policy.ActionList)
	if err != nil {
		return nil, err
	}

	var filter model.AppointmentFilter
	if scope == policy.ScopeOwn {
		switch caller.Role {
		case model.RoleDoctor:
			filter.DoctorID = caller.ID
		default:
			filter.EmployeeID = caller.ID
		}
	}
	return s.list(ctx, filter)
}

// ListAll is the HR listing.
func (s *Service) ListAll(ctx context.Context, caller *model.Account) ([]*model.AppointmentView, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAppointment, policy.ActionListAll); err != nil {
		return nil, err
	}
	return s.list(ctx, model.AppointmentFilter{})
}

func (s *Service) list(ctx context.Context, filter model.AppointmentFilter) ([]*model.AppointmentView, error) {
	apts, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return s.resolve(ctx, apts)
}

// Verify confirms an appointment. A doctor may only verify appointments
// assigned to them; HR may verify any. Verifying twice is a no-op that
// returns the same state.
func (s *Service) Verify(ctx context.Context, caller *model.Account, id string) (*model.AppointmentView, error) {
	if caller == nil {
		return nil, apperrors.Unauthorized("", nil)
	}

	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	scope, err := s.enforcer.Authorize(caller, policy.ResourceAppointment, policy.ActionVerify)
	if err != nil {
		return nil, err
	}
	if scope == policy.ScopeOwn && apt.DoctorID != caller.ID {
		return nil, s.enforcer.Deny(policy.ResourceAppointment, policy.ActionVerify, "appointment is assigned to another doctor")
	}

	wasVerified := apt.Verified
	updated, err := s.appointments.MarkVerified(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to verify appointment: %w", err)
	}

	views, err := s.resolve(ctx, []*model.Appointment{updated})
	if err != nil {
		return nil, err
	}
	view := views[0]

	s.metrics.AppointmentsVerified.WithLabelValues(string(caller.Role)).Inc()
	if !wasVerified {
		log.Info().
			Str("appointment_id", id).
			Str("verified_by", caller.ID).
			Str("role", string(caller.Role)).
			Msg("appointment verified")
		s.events.Emit(ctx, event.AppointmentVerified, view)
		s.notify(ctx, view)
	}
	return view, nil
}

// VerifyAsHR backs the HR-only route: it needs verify_any before the
// common rule applies.
func (s *Service) VerifyAsHR(ctx context.Context, caller *model.Account, id string) (*model.AppointmentView, error) {
	if _, err := s.enforcer.Authorize(caller, policy.ResourceAppointment, policy.ActionVerifyAny); err != nil {
		return nil, err
	}
	return s.Verify(ctx, caller, id)
}

// notify mails the patient without holding up the response. Drain waits
// for these sends.
func (s *Service) notify(ctx context.Context, view *model.AppointmentView) {
	ctx = context.WithoutCancel(ctx)
	s.mails.Add(1)
	go func() {
		defer s.mails.Done()
		if err := s.mailer.SendAppointmentConfirmed(ctx, view); err != nil {
			log.Warn().Err(err).Str("appointment_id", view.ID).Msg("failed to send confirmation email")
		}
	}()
}

// Drain blocks until pending confirmation emails are sent or ctx is done.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mails.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("confirmation emails still pending: %w", ctx.Err())
	}
}

// resolve attaches doctor and employee references. References to accounts
// that no longer resolve are left nil.
func (s *Service) resolve(ctx context.Context, apts []*model.Appointment) ([]*model.AppointmentView, error) {
	views := make([]*model.AppointmentView, 0, len(apts))
	if len(apts) == 0 {
		return views, nil
	}

	seen := make(map[string]struct{}, len(apts)*2)
	ids := make([]string, 0, len(apts)*2)
	for _, a := range apts {
		for _, id := range []string{a.DoctorID, a.EmployeeID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	accounts, err := s.accounts.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}

	for _, a := range apts {
		views = append(views, &model.AppointmentView{
			Appointment: a,
			Doctor:      accounts[a.DoctorID].Ref(),
			Employee:    accounts[a.EmployeeID].Ref(),
		})
	}
	return views, nil
}

func (s *Service) parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, value, s.location)
		if err == nil {
			return t.In(s.location), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", value)
}
