package kafka

import (
	"context"
	"log"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("[CheckoutService][KafkaProducer] initialized topic=%s brokers=%v", topic, brokers)
	return &Producer{writer: w, topic: topic}
}

func (p *Producer) Publish(ctx context.Context, message []byte) error {
	msg := kafka.Message{
		Value: message,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("[CheckoutService][KafkaProducer] publish failed topic=%s err=%v", p.topic, err)
		return err
	}
	return nil
}

func (p *Producer) Close() error {
	log.Printf("[CheckoutService][KafkaProducer] closing writer topic=%s", p.topic)
	return p.writer.Close()
}
