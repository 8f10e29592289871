package events

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
)

// MessageCreated is published after a message and its status fan-out are
// committed. The push layer consumes it to notify online recipients.
type MessageCreated struct {
	MessageID    int64  `json:"message_id"`
	GroupID      uint   `json:"group_id"`
	SenderID     uint   `json:"sender_id"`
	RecipientIDs []uint `json:"recipient_ids"`
}

// Producer publishes domain events to Kafka. Keyed by group id so events
// of one conversation stay ordered within a partition.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Producer{producer: producer, topic: topic}, nil
}

// NewProducerWith wraps an existing sarama producer. Used by tests.
func NewProducerWith(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: producer, topic: topic}
}

// PublishMessageCreated sends the event; callers treat a failure as
// degraded delivery, never as a reason to roll back the write.
func (p *Producer) PublishMessageCreated(event MessageCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal message.created event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.GroupID), 10)),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("publish message.created event: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
