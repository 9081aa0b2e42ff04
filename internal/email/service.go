package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// Service sends the notifications the API produces.
type Service interface {
	SendAppointmentConfirmed(ctx context.Context, appointment *model.AppointmentView) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPService struct {
	sender sender
	from   string
}

func NewSMTPService(cfg Config) *SMTPService {
	return &SMTPService{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPService) SendAppointmentConfirmed(ctx context.Context, appointment *model.AppointmentView) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if appointment.PatientEmail == "" {
		return nil
	}

	doctor := "your doctor"
	if appointment.Doctor != nil {
		doctor = appointment.Doctor.Name
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", appointment.PatientEmail, appointment.PatientName)
	m.SetHeader("Subject", "Your appointment is confirmed")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s on %s at %s has been confirmed.\n",
		appointment.PatientName, doctor, appointment.Date, appointment.Time,
	))

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation to %s: %w", appointment.PatientEmail, err)
	}
	return nil
}

// NopService is used when SMTP is not configured.
type NopService struct{}

func (NopService) SendAppointmentConfirmed(context.Context, *model.AppointmentView) error { return nil }
