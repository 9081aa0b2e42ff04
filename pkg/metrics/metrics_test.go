package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersRegisterOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("hospital", reg)

	m.AppointmentsCreated.Inc()
	m.AttendanceMarked.WithLabelValues("self", "present").Inc()
	m.AttendanceMarked.WithLabelValues("self", "present").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AppointmentsCreated))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.AttendanceMarked.WithLabelValues("self", "present")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "hospital_appointments_created_total")
}

func TestNewNopDoesNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
