package events

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func busUpdate(plate string) models.SystemUpdate {
	return models.NewBusUpdated(models.Bus{ID: "B1", PlateNumber: plate, Capacity: 40, Status: models.BusStatusInService})
}

func receive(t *testing.T, sub *Subscription) models.SystemUpdate {
	t.Helper()
	select {
	case update, ok := <-sub.Events():
		require.True(t, ok, "subscription closed unexpectedly")
		return update
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
		return models.SystemUpdate{}
	}
}

func TestPublish_FanOutByTopic(t *testing.T) {
	bus := NewBus(8, testLogger())
	defer bus.Close()

	wildcard := bus.Subscribe(TopicAll)
	busOnly := bus.Subscribe(KindTopic(models.UpdateBusUpdated))
	routeOnly := bus.Subscribe(KindTopic(models.UpdateRouteUpdated))
	defer wildcard.Close()
	defer busOnly.Close()
	defer routeOnly.Close()

	bus.Publish(busUpdate("CB-1234"))

	assert.Equal(t, models.UpdateBusUpdated, receive(t, wildcard).Kind)
	assert.Equal(t, models.UpdateBusUpdated, receive(t, busOnly).Kind)

	select {
	case update := <-routeOnly.Events():
		t.Fatalf("route subscriber received %s", update.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublish_IndependentSubscriptionsSameTopic(t *testing.T) {
	bus := NewBus(8, testLogger())
	defer bus.Close()

	first := bus.Subscribe(TopicAll)
	second := bus.Subscribe(TopicAll)
	defer first.Close()
	defer second.Close()

	bus.Publish(busUpdate("CB-1"))

	assert.Equal(t, models.UpdateBusUpdated, receive(t, first).Kind)
	assert.Equal(t, models.UpdateBusUpdated, receive(t, second).Kind)
}

func TestPublish_OrderPreservedPerSubscriber(t *testing.T) {
	bus := NewBus(64, testLogger())
	defer bus.Close()

	sub := bus.Subscribe(TopicAll)
	defer sub.Close()

	const n = 50
	for i := 0; i < n; i++ {
		bus.Publish(busUpdate(fmt.Sprintf("plate-%d", i)))
	}

	for i := 0; i < n; i++ {
		update := receive(t, sub)
		payload, ok := update.Payload.(models.Bus)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("plate-%d", i), payload.PlateNumber)
	}
}

func TestUnsubscribe_NoDeliveryAfterClose(t *testing.T) {
	bus := NewBus(8, testLogger())
	defer bus.Close()

	sub := bus.Subscribe(TopicAll)
	sub.Close()

	bus.Publish(busUpdate("CB-1"))

	// Channel is closed and drained; no update arrives.
	update, ok := <-sub.Events()
	assert.False(t, ok, "received %v after unsubscribe", update)
}

func TestUnsubscribe_OtherSubscribersUnaffected(t *testing.T) {
	bus := NewBus(8, testLogger())
	defer bus.Close()

	closed := bus.Subscribe(TopicAll)
	open := bus.Subscribe(TopicAll)
	defer open.Close()

	closed.Close()
	closed.Close() // double close is safe

	bus.Publish(busUpdate("CB-1"))
	assert.Equal(t, models.UpdateBusUpdated, receive(t, open).Kind)
}

func TestPublish_SlowSubscriberDropsOldest(t *testing.T) {
	bus := NewBus(4, testLogger())
	defer bus.Close()

	slow := bus.Subscribe(TopicAll)
	defer slow.Close()

	// Publish well past the buffer without the subscriber consuming.
	// Publish must never block and the subscriber ends up holding only the
	// newest updates, still in publish order.
	const n = 10
	for i := 0; i < n; i++ {
		bus.Publish(busUpdate(fmt.Sprintf("plate-%d", i)))
	}

	var got []string
	for i := 0; i < 4; i++ {
		update := receive(t, slow)
		got = append(got, update.Payload.(models.Bus).PlateNumber)
	}
	assert.Equal(t, []string{"plate-6", "plate-7", "plate-8", "plate-9"}, got)
}

func TestBusClose_PublishBecomesNoOp(t *testing.T) {
	bus := NewBus(8, testLogger())

	sub := bus.Subscribe(TopicAll)
	bus.Close()

	// Subscription channel is closed.
	_, ok := <-sub.Events()
	assert.False(t, ok)

	// Publishing and re-closing after Close must not panic.
	bus.Publish(busUpdate("CB-1"))
	bus.Close()
	sub.Close()

	// A late subscriber gets an already-closed stream.
	late := bus.Subscribe(TopicAll)
	_, ok = <-late.Events()
	assert.False(t, ok)
}

func TestPublish_AllKindsRoundTrip(t *testing.T) {
	bus := NewBus(16, testLogger())
	defer bus.Close()

	sub := bus.Subscribe(TopicAll)
	defer sub.Close()

	updates := []models.SystemUpdate{
		models.NewBookingCreated(models.Booking{ID: "bk-1"}),
		models.NewBookingUpdated(models.Booking{ID: "bk-1"}),
		models.NewBusCreated(models.Bus{ID: "b-1"}),
		models.NewBusUpdated(models.Bus{ID: "b-1"}),
		models.NewBusDeleted(models.Bus{ID: "b-1"}),
		models.NewRouteCreated(models.Route{ID: "r-1"}),
		models.NewRouteUpdated(models.Route{ID: "r-1"}),
		models.NewUserCreated(models.UserAccount{ID: "u-1"}),
		models.NewSettingsUpdated(models.SystemSettings{BookingWindowDays: 14}),
	}

	for _, update := range updates {
		bus.Publish(update)
	}

	for _, want := range updates {
		got := receive(t, sub)
		assert.Equal(t, want.Kind, got.Kind)
		assert.False(t, got.Timestamp.IsZero())
	}
}
