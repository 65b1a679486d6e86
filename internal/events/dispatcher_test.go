package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(EventSessionLoggedIn, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSessionLoggedIn}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSessionLoggedOut}))

	assert.Equal(t, []EventType{EventSessionLoggedIn}, got)
}

func TestDispatcherRunsAllHandlersAndReturnsFirstError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0
	d.Subscribe(EventSessionRejected, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventSessionRejected, func(context.Context, Event) error {
		calls++
		return errors.New("second")
	})

	err := d.Publish(context.Background(), Event{Type: EventSessionRejected})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
