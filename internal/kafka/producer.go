package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/college-feedback/feedback-service/internal/model"
)

// FeedbackEventProducer — interface so services can be tested with a mock.
// Services emit fire-and-forget; the synchronous ProduceFeedbackEvent stays
// exported for operational jobs that want to wait on delivery.
type FeedbackEventProducer interface {
	ProduceAsync(event string, payload map[string]interface{})
}

var _ FeedbackEventProducer = (*Producer)(nil)

// Producer writes lifecycle events to a Kafka topic (best-effort, never
// blocks the API path).
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a producer. With empty brokers or topic every method
// is a no-op.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// ProduceFeedbackEvent publishes one event. Failures are logged and dropped;
// event delivery is not part of the mutation's atomicity contract.
func (p *Producer) ProduceFeedbackEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("kafka: marshal feedback event: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("kafka: write feedback event: %v", err)
	}
}

// ProduceAsync fires the event in a goroutine with its own timeout so it
// survives request cancellation.
func (p *Producer) ProduceAsync(event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.ProduceFeedbackEvent(ctx, event, payload)
	}()
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// FeedbackEventPayload builds the common payload for feedback events.
func FeedbackEventPayload(f *model.Feedback) map[string]interface{} {
	if f == nil {
		return nil
	}
	return map[string]interface{}{
		"feedback_id": int64(f.ID),
		"title":       f.Title,
		"category_id": int64(f.CategoryID),
		"priority":    string(f.Priority),
		"status":      string(f.Status),
	}
}
