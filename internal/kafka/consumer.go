package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID string, topics ...string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			GroupTopics:       topics,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx is done or handler fails. Messages that are not
// valid events are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, ReservationEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var event ReservationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logrus.WithFields(logrus.Fields{"topic": msg.Topic, "offset": msg.Offset}).Warnf("decode event: %v", err)
			continue
		}
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}
