package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus(nil)

	var received *Event
	var callCount int

	bus.Subscribe(func(event *Event) error {
		received = event
		callCount++
		return nil
	}, EventBookingCreated, EventBookingPaid)

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 7, RoomID: 3, Status: "Confirmed"})
	require.NoError(t, err)
	require.NoError(t, bus.PublishJSON(EventBookingDeleted, BookingEventPayload{BookingID: 8}))

	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, EventBookingCreated, received.Type)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, received.Decode(&decoded))
	assert.Equal(t, int64(7), decoded.BookingID)
	assert.Equal(t, int64(3), decoded.RoomID)
}

func TestEventBus_FailingHandlersDoNotStopOthers(t *testing.T) {
	bus := NewEventBus(nil)
	calls := 0

	bus.Subscribe(func(*Event) error { return errors.New("boom") }, EventBookingPaid)
	bus.Subscribe(func(*Event) error { panic("kaboom") }, EventBookingPaid)
	bus.Subscribe(func(*Event) error { calls++; return nil }, EventBookingPaid)

	assert.NotPanics(t, func() {
		_ = bus.PublishJSON(EventBookingPaid, map[string]int{"id": 1})
	})
	assert.Equal(t, 1, calls)
}

func TestEventBus_NilAndBadPayload(t *testing.T) {
	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON(EventBookingPaid, nil))

	bus := NewEventBus(nil)
	assert.Error(t, bus.PublishJSON(EventBookingPaid, make(chan int)))
}
