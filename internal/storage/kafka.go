package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"swapcap/internal/model"
)

// KafkaSink publishes each swap row as a JSON message.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(broker, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			BatchTimeout: 1 * time.Millisecond,
			Async:        false,
		},
	}
}

// Append publishes the record's canonical row, keyed by transaction hash.
func (s *KafkaSink) Append(ctx context.Context, record model.SwapRecord) error {
	value, err := json.Marshal(record.Row())
	if err != nil {
		return fmt.Errorf("%w: marshal swap row: %v", ErrPersistence, err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   record.TxHash.Bytes(),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("%w: write kafka message: %v", ErrPersistence, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
