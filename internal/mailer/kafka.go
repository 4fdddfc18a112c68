package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/notify"
)

// Header keys attached to every published email event.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"

	EventTypeEmail = "notification.email.requested"
	eventSource    = "planner-api"
)

// EmailEvent is the JSON payload published for each message. A mail worker
// consuming the topic performs the actual SMTP delivery.
type EmailEvent struct {
	To      string `json:"to"`
	ToName  string `json:"to_name,omitempty"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// messageWriter is the subset of *kafka.Writer used by Kafka.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka is a notify.Sender that publishes each message to a topic, keyed by
// recipient so messages for one address stay ordered within a partition.
type Kafka struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafka builds a Kafka sender writing to topic on brokers.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("mailer.NewKafka: at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("mailer.NewKafka: topic cannot be empty")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
	}
	return newKafka(w), nil
}

func newKafka(w messageWriter) *Kafka {
	return &Kafka{writer: w, now: time.Now}
}

// Send publishes msg as an EmailEvent.
func (k *Kafka) Send(ctx context.Context, msg notify.Message) error {
	value, err := json.Marshal(EmailEvent{
		To:      msg.To,
		ToName:  msg.ToName,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("mailer.Kafka.Send: encode: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: value,
		Time:  k.now(),
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(EventTypeEmail)},
			{Key: HeaderSource, Value: []byte(eventSource)},
		},
	})
	if err != nil {
		return fmt.Errorf("mailer.Kafka.Send: %w", err)
	}
	return nil
}

// Close flushes pending writes and releases the connection.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
