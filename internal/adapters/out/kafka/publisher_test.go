package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sendit/internal/adapters/out/kafka"
	"sendit/internal/core/ports"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Notify_WritesEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event kafka.Event
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.Kind != string(ports.NotificationParcelStatusChanged) {
			return errors.New("unexpected kind " + event.Kind)
		}
		if event.Data["status"] != "DELIVERED" || event.RecipientEmail != "amina@sendit.test" {
			return errors.New("unexpected payload")
		}
		if event.OccurredAt.IsZero() {
			return errors.New("occurred_at is not set")
		}
		return nil
	})

	publisher, err := kafka.NewPublisher(producer, "parcel-events")
	require.NoError(t, err)

	err = publisher.Notify(context.Background(), ports.Notification{
		Kind:           ports.NotificationParcelStatusChanged,
		RecipientEmail: "amina@sendit.test",
		RecipientName:  "Amina",
		Data:           map[string]string{"parcel_id": "p-1", "status": "DELIVERED"},
	})

	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestPublisher_Notify_WrapsProducerError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher, err := kafka.NewPublisher(producer, "parcel-events")
	require.NoError(t, err)

	err = publisher.Notify(context.Background(), ports.Notification{
		Kind:           ports.NotificationWelcome,
		RecipientEmail: "otieno@sendit.test",
		Data:           map[string]string{"user_id": "u-1"},
	})

	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func TestNewPublisher_Validates(t *testing.T) {
	_, err := kafka.NewPublisher(nil, "parcel-events")
	require.Error(t, err)

	producer := mocks.NewSyncProducer(t, nil)
	_, err = kafka.NewPublisher(producer, "  ")
	require.Error(t, err)
	assert.NoError(t, producer.Close())
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := kafka.NewProducer(nil)
	require.Error(t, err)
}
