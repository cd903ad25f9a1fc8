package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskdesk/riskdesk/pkg/eventbus"
)

type testEvent struct {
	Name string
}

func TestEventBus_PublishToMatchingSubscriber(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	var received []testEvent
	bus.Subscribe(func(e testEvent) {
		received = append(received, e)
	})

	bus.Publish(testEvent{Name: "import completed"})

	require.Len(t, received, 1)
	assert.Equal(t, "import completed", received[0].Name)
}

func TestEventBus_SignatureMismatchIgnored(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	called := false
	bus.Subscribe(func(s string) { called = true })

	bus.Publish(testEvent{Name: "not a string"})
	assert.False(t, called)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	handler := func(e testEvent) { t.Fatal("should not be called") }
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	assert.Equal(t, 0, bus.SubscribersCount())

	bus.Publish(testEvent{})
}

func TestEventBus_HandlerPanicIsContained(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	bus.Subscribe(func(e testEvent) { panic("boom") })

	var after bool
	bus.Subscribe(func(e testEvent) { after = true })

	bus.Publish(testEvent{})
	assert.True(t, after)
}
