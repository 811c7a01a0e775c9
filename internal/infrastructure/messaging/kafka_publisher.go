package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/warehouse-intake/internal/application/intake"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
)

var _ intake.EventPublisher = (*KafkaPublisher)(nil)

// MessageWriter lo que el publicador necesita de *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica IntakeRecorded como JSON, con key = id_order para mantener el orden por orden.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter construye el writer para el tópico de ingresos.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// NewKafkaPublisher construye el publicador sobre un writer ya configurado.
func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// PublishIntakeRecorded serializa y envía el evento.
func (p *KafkaPublisher) PublishIntakeRecorded(ctx context.Context, event entity.IntakeRecorded) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar IntakeRecorded: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("IntakeRecorded")},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
		Time: event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar IntakeRecorded: %w", err)
	}
	return nil
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
