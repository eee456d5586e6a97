package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOutboxKey = "test:notifications:outbox"

func TestNotificationDispatcher_PushesToOutbox(t *testing.T) {
	mr, client := newMiniredis(t)
	dispatcher := NewNotificationDispatcher(client, quietLogger(), NotificationDispatcherConfig{
		OutboxKey:      testOutboxKey,
		Workers:        2,
		QueueSize:      16,
		EnqueueTimeout: 50 * time.Millisecond,
	})

	sent := []entity.Notification{
		entity.NewNotification("patient@clinic.test", entity.NotificationAppointmentRequested, map[string]string{"time": "10:00"}),
		entity.NewNotification("doctor@clinic.test", entity.NotificationAppointmentReceived, nil),
		entity.NewNotification("patient@clinic.test", entity.NotificationAppointmentAccepted, nil),
	}
	dispatcher.Dispatch(context.Background(), sent...)
	dispatcher.Stop()

	items, err := mr.List(testOutboxKey)
	require.NoError(t, err)
	require.Len(t, items, len(sent))

	received := map[string]entity.Notification{}
	for _, item := range items {
		var n entity.Notification
		require.NoError(t, json.Unmarshal([]byte(item), &n))
		received[n.ID.String()] = n
	}
	for _, n := range sent {
		got, ok := received[n.ID.String()]
		require.True(t, ok, "notification %s missing", n.ID)
		assert.Equal(t, n.Recipient, got.Recipient)
		assert.Equal(t, n.Kind, got.Kind)
	}
	assert.Equal(t, "10:00", received[sent[0].ID.String()].Context["time"])
}

func TestNotificationDispatcher_AfterStop(t *testing.T) {
	mr, client := newMiniredis(t)
	dispatcher := NewNotificationDispatcher(client, quietLogger(), NotificationDispatcherConfig{
		OutboxKey:      testOutboxKey,
		Workers:        1,
		QueueSize:      1,
		EnqueueTimeout: 10 * time.Millisecond,
	})
	dispatcher.Stop()
	dispatcher.Stop()

	assert.NotPanics(t, func() {
		dispatcher.Dispatch(context.Background(), entity.NewNotification("x@clinic.test", entity.NotificationAppointmentCanceled, nil))
	})
	assert.False(t, mr.Exists(testOutboxKey))
}

func TestNotificationDispatcher_RedisFailureIsSwallowed(t *testing.T) {
	mr, client := newMiniredis(t)
	dispatcher := NewNotificationDispatcher(client, quietLogger(), NotificationDispatcherConfig{
		OutboxKey:      testOutboxKey,
		Workers:        1,
		QueueSize:      4,
		EnqueueTimeout: 10 * time.Millisecond,
	})
	mr.Close()

	dispatcher.Dispatch(context.Background(), entity.NewNotification("x@clinic.test", entity.NotificationAppointmentRejected, nil))
	dispatcher.Stop()
}
