// Package kafka publishes resolution decisions to a Kafka topic for
// downstream analytics. Publishing is best-effort and never blocks the
// webhook reply.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/observability"
)

// DecisionPublisher produces one message per resolved CEP.
type DecisionPublisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewDecisionPublisher creates a producer for the decisions topic.
func NewDecisionPublisher(brokers []string, topic string, metrics *observability.Metrics, logger *slog.Logger) *DecisionPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &DecisionPublisher{writer: w, logger: logger, metrics: metrics}
}

// decisionEvent is the wire shape of a published decision.
type decisionEvent struct {
	EventID    string  `json:"event_id"`
	CEP        string  `json:"cep"`
	Outcome    string  `json:"outcome"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	Assignee   string  `json:"assignee,omitempty"`
	Territory  string  `json:"territory,omitempty"`
	DistanceKm float64 `json:"distance_km,omitempty"`
	Stage      string  `json:"stage,omitempty"`
	ResolvedAt string  `json:"resolved_at"`
}

// Publish serializes and sends a single resolution. Errors are logged and
// returned but callers are expected to treat them as non-fatal.
func (p *DecisionPublisher) Publish(ctx context.Context, res domain.Resolution) error {
	msg, err := serializeResolution(res)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("decision publish failed", "cep", res.CEP, "error", err)
		return fmt.Errorf("publish decision: %w", err)
	}
	p.metrics.DecisionsPublished.Inc()
	return nil
}

func (p *DecisionPublisher) Close() error {
	return p.writer.Close()
}

// serializeResolution marshals a Resolution into a Kafka message keyed by CEP.
func serializeResolution(res domain.Resolution) (kafkago.Message, error) {
	ev := decisionEvent{
		EventID:    uuid.NewString(),
		CEP:        res.CEP,
		Outcome:    string(res.Outcome),
		City:       res.City,
		State:      res.State,
		Territory:  res.Territory,
		Stage:      string(res.Stage),
		ResolvedAt: res.ResolvedAt.Format(time.RFC3339),
	}
	switch {
	case res.Assignee != nil:
		ev.Assignee = res.Assignee.Name
	case res.Rep != nil:
		ev.Assignee = res.Rep.Name
	}
	if res.HasDistance || res.Outcome == domain.OutcomeNearest {
		ev.DistanceKm = res.DistanceKm
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize decision: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(res.CEP),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(res.Outcome)},
			{Key: "resolved_at", Value: []byte(res.ResolvedAt.Format(time.RFC3339))},
		},
	}, nil
}
