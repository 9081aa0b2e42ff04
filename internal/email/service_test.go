package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m...)
	return nil
}

func confirmedView() *model.AppointmentView {
	return &model.AppointmentView{
		Appointment: &model.Appointment{
			ID:           "ap1",
			Date:         "2024-05-02",
			Time:         "10:30:00",
			PatientName:  "Pat",
			PatientEmail: "pat@example.com",
		},
		Doctor: &model.AccountRef{ID: "d1", Name: "Dr Grey"},
	}
}

func TestSendAppointmentConfirmed(t *testing.T) {
	capture := &captureSender{}
	svc := &SMTPService{sender: capture, from: "noreply@hospital.test"}

	require.NoError(t, svc.SendAppointmentConfirmed(context.Background(), confirmedView()))
	require.Len(t, capture.sent, 1)

	msg := capture.sent[0]
	assert.Equal(t, []string{"noreply@hospital.test"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"Your appointment is confirmed"}, msg.GetHeader("Subject"))
	assert.Contains(t, msg.GetHeader("To")[0], "pat@example.com")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Dr Grey")
	assert.Contains(t, buf.String(), "2024-05-02")
}

func TestSendSkipsMissingAddress(t *testing.T) {
	capture := &captureSender{}
	svc := &SMTPService{sender: capture}

	view := confirmedView()
	view.PatientEmail = ""
	require.NoError(t, svc.SendAppointmentConfirmed(context.Background(), view))
	assert.Empty(t, capture.sent)
}

func TestSendWrapsTransportError(t *testing.T) {
	svc := &SMTPService{sender: &captureSender{err: errors.New("dial tcp: refused")}}

	err := svc.SendAppointmentConfirmed(context.Background(), confirmedView())
	assert.ErrorContains(t, err, "pat@example.com")
}
