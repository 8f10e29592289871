package events

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishMessageCreated(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, config)
	defer mock.Close()

	event := MessageCreated{
		MessageID:    123456789,
		GroupID:      7,
		SenderID:     10,
		RecipientIDs: []uint{20, 30},
	}

	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(raw []byte) error {
		var got MessageCreated
		if err := json.Unmarshal(raw, &got); err != nil {
			return err
		}
		assert.Equal(t, event, got)
		return nil
	})

	producer := NewProducerWith(mock, "messenger.events")
	require.NoError(t, producer.PublishMessageCreated(event))
}

func TestPublishMessageCreatedFailure(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, config)
	defer mock.Close()

	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := NewProducerWith(mock, "messenger.events")
	err := producer.PublishMessageCreated(MessageCreated{MessageID: 1, GroupID: 1, SenderID: 1})
	assert.Error(t, err)
}
