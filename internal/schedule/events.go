package schedule

import (
	"context"

	"github.com/rs/zerolog"
)

const (
	EventAppointmentCreated          = "APPOINTMENT_CREATED"
	EventAppointmentCancelled        = "APPOINTMENT_CANCELLED"
	EventAppointmentDeleted          = "APPOINTMENT_DELETED"
	EventAppointmentCascadeCancelled = "APPOINTMENT_CASCADE_CANCELLED"
)

type logEventRecorder struct {
	logger zerolog.Logger
}

// NewLogEventRecorder writes events to the log instead of a table.
func NewLogEventRecorder(logger zerolog.Logger) EventRecorder {
	return &logEventRecorder{logger: logger}
}

func (r *logEventRecorder) InsertEvent(_ context.Context, ev EventLog) error {
	payload := ev.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	r.logger.Info().
		Str("event_type", ev.EventType).
		Str("appointment_id", ev.AppointmentID).
		RawJSON("payload", payload).
		Time("at", ev.CreatedAt).
		Msg("appointment event")
	return nil
}
