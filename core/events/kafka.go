package events

import (
	"context"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes notifications to a kafka topic. Messages are keyed
// by resource and id, so all notifications of one entity land in the same
// partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher writing to topic on brokers
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish implements Publisher
func (p *KafkaPublisher) Publish(ctx context.Context, notifications []Notification) error {
	messages := make([]kafka.Message, 0, len(notifications))
	for _, n := range notifications {
		value, err := json.Marshal(n)
		if err != nil {
			return err
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(n.Resource + "/" + strconv.FormatInt(n.ResourceID, 10)),
			Value: value,
			Headers: []kafka.Header{
				{Key: "operation", Value: []byte(n.Operation)},
			},
		})
	}
	return p.writer.WriteMessages(ctx, messages...)
}

// Close flushes pending writes and closes the publisher
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
