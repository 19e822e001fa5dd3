package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/alexjj/wen-goat/internal/domain"
)

type messageWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
}

// KafkaProducer writes projection.evaluated messages to a single topic. Messages are keyed by
// callsign and hashed to a partition, so one activator's evaluations stay in order.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer builds a synchronous writer for topic on brokers.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// Topic is where messages are written.
func (p *KafkaProducer) Topic() string { return p.writer.Topic }

// WriteMessages blocks until the broker acknowledges msgs or ctx ends.
func (p *KafkaProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return p.writer.WriteMessages(ctx, msgs...)
}

// Close flushes and closes the writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// Publisher turns evaluations into ProjectionEvaluated messages keyed by callsign.
type Publisher struct {
	writer  messageWriter
	timeout time.Duration
	now     func() time.Time
}

// NewPublisher constructs a Publisher. A positive timeout bounds each write.
func NewPublisher(writer messageWriter, timeout time.Duration) *Publisher {
	return &Publisher{writer: writer, timeout: timeout, now: time.Now}
}

var _ domain.EvaluationPublisher = (*Publisher)(nil)

// PublishEvaluation implements domain.EvaluationPublisher.
func (p *Publisher) PublishEvaluation(ctx context.Context, ev domain.Evaluation) error {
	payload, err := json.Marshal(NewProjectionEvaluated(ev, p.now().UTC()))
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Callsign),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(TypeProjectionEvaluated)},
		},
	})
}

// NewProjectionEvaluated builds the event payload for ev.
func NewProjectionEvaluated(ev domain.Evaluation, occurredAt time.Time) ProjectionEvaluated {
	r := ev.Result
	return ProjectionEvaluated{
		EventID:               uuid.NewString(),
		Callsign:              ev.Callsign,
		UserID:                ev.UserID,
		AsOf:                  r.AsOf,
		CurrentTotal:          r.CurrentTotal,
		NextTarget:            r.NextTarget,
		HistoricalWeeklyRate:  r.HistoricalWeeklyRate,
		UserWeeklyRate:        r.UserWeeklyRate,
		ProjectedAtUserRate:   r.AtUserRate.ProjectedDate,
		ProjectedAtHistorical: r.AtHistoricalRate.ProjectedDate,
		RequiredWeeklyRate:    r.RequiredWeeklyRate,
		TargetDate:            r.TargetDate,
		OccurredAt:            occurredAt,
	}
}
