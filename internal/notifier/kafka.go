package notifier

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"shop-backend-service/internal/entity"
)

// messageWriter is the slice of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher mirrors every catalog change onto a kafka topic so other
// services can follow the product set without polling.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishProducts(ctx context.Context, products []entity.Product) error {
	value, err := json.Marshal(event{Event: "updateProducts", Payload: products})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte("product.updated"),
		Value: value,
	})
}
