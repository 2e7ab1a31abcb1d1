package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Grading event types published on the message bus.
const (
	EventJurySelected        = "jury_selected"
	EventEvaluationSubmitted = "evaluation_submitted"
	EventGradingOpened       = "grading_opened"
	EventGradingClosed       = "grading_closed"
)

// GradingEvent describes a state change in the grading workflow. It never
// carries evaluator identities; downstream consumers see the same
// anonymized surface as the API.
type GradingEvent struct {
	Source        string    `json:"source"`
	Type          string    `json:"type"`
	DeliverableID uint      `json:"deliverable_id"`
	ProjectID     uint      `json:"project_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher delivers grading events to interested consumers.
type EventPublisher interface {
	Publish(event GradingEvent) error
}

type natsEventPublisher struct {
	conn        *nats.Conn
	subjectBase string
	nodeID      string
	logger      zerolog.Logger
}

// NewNATSEventPublisher builds a publisher emitting JSON events on
// subjects of the form "<base>.<event type>".
func NewNATSEventPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) EventPublisher {
	if subjectBase == "" {
		subjectBase = "peerjury.grading"
	}

	return &natsEventPublisher{
		conn:        conn,
		subjectBase: subjectBase,
		nodeID:      uuid.NewString(),
		logger:      logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) Publish(event GradingEvent) error {
	event.Source = p.nodeID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subjectBase+"."+event.Type, payload); err != nil {
		p.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish grading event")
		return err
	}

	return nil
}
