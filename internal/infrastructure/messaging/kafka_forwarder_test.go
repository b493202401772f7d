package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func newSerializer() *event.EventSerializer {
	s := event.NewEventSerializer()
	event.RegisterAllEvents(s)
	return s
}

func newInventory(t *testing.T, quantity int) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.NewInventory(uuid.New(), 6)
	require.NoError(t, err)
	inv.Quantity = quantity
	return inv
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaForwarder_Handle(t *testing.T) {
	ctx := context.Background()
	writer := new(MockMessageWriter)
	evt := inventory.NewStockAdjustedEvent(newInventory(t, 8), -2, "order ORD-20260101-00001")

	var sent []kafka.Message
	writer.On("WriteMessages", ctx, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil)

	forwarder := NewKafkaForwarder(writer, newSerializer(), zap.NewNop(), inventory.EventTypeStockAdjusted)
	require.NoError(t, forwarder.Handle(ctx, evt))

	require.Len(t, sent, 1)
	assert.Equal(t, evt.AggregateID().String(), string(sent[0].Key))
	assert.Equal(t, inventory.EventTypeStockAdjusted, header(sent[0], "event_type"))
	assert.Equal(t, evt.EventID().String(), header(sent[0], "event_id"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(sent[0].Value, &body))
	assert.Equal(t, inventory.EventTypeStockAdjusted, body["type"])
	assert.Equal(t, []string{inventory.EventTypeStockAdjusted}, forwarder.EventTypes())
}

func TestKafkaForwarder_WriteFailure(t *testing.T) {
	ctx := context.Background()
	writer := new(MockMessageWriter)
	writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("broker down"))

	forwarder := NewKafkaForwarder(writer, newSerializer(), zap.NewNop())
	err := forwarder.Handle(ctx, inventory.NewStockAdjustedEvent(newInventory(t, 5), 5, "restock"))

	assert.ErrorContains(t, err, "broker down")
}

func TestKafkaForwarder_Close(t *testing.T) {
	writer := new(MockMessageWriter)
	writer.On("Close").Return(nil)

	require.NoError(t, NewKafkaForwarder(writer, newSerializer(), zap.NewNop()).Close())
	writer.AssertExpectations(t)
}
