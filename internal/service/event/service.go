package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const (
	AppointmentCreated  = "appointment.created"
	AppointmentVerified = "appointment.verified"
	AttendanceMarked    = "attendance.marked"
	MedicineCreated     = "medicine.created"
	AccountRegistered   = "account.registered"
)

// DefaultChannel is the pub/sub channel every event goes to.
const DefaultChannel = "hospital.events"

// Publisher emits domain events. Emission is best effort: a broker outage
// never fails the request that produced the event.
type Publisher interface {
	Emit(ctx context.Context, eventType string, payload interface{})
}

type Service struct {
	broker  messaging.Broker
	channel string
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(broker messaging.Broker, m *metrics.Metrics) *Service {
	if broker == nil {
		broker = messaging.NopBroker{}
	}
	return &Service{
		broker:  broker,
		channel: DefaultChannel,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) {
	evt := messaging.Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: s.now().UTC(),
		Payload:    payload,
	}

	if err := s.broker.Publish(ctx, s.channel, evt); err != nil {
		s.metrics.EventsPublished.WithLabelValues(eventType, "failed").Inc()
		log.Warn().
			Err(err).
			Str("event_id", evt.ID).
			Str("event_type", eventType).
			Msg("failed to publish event")
		return
	}
	s.metrics.EventsPublished.WithLabelValues(eventType, "ok").Inc()
	log.Debug().Str("event_id", evt.ID).Str("event_type", eventType).Msg("event published")
}
