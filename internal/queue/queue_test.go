package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRoundTrip(t *testing.T) {
	q := NewInMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := q.Consume(ctx)
	require.NoError(t, err)

	want := Reminder{SessionID: "s1", InstructorID: "i1", ClassName: "Algorithms", StartTime: "09:00"}
	require.NoError(t, q.Publish(ctx, want))

	select {
	case got := <-out:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("reminder not delivered")
	}
}

func TestInMemoryPublishHonorsCancel(t *testing.T) {
	q := NewInMemory(1)
	require.NoError(t, q.Publish(context.Background(), Reminder{SessionID: "s1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Buffer full and context done: must return instead of blocking.
	assert.ErrorIs(t, q.Publish(ctx, Reminder{SessionID: "s2"}), context.Canceled)
}

func TestInMemoryConsumeClosesOnCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	out, err := q.Consume(ctx)
	require.NoError(t, err)

	// Leave a reminder undelivered, then cancel with no receiver. The
	// forwarder must drop it and close the channel rather than sit
	// blocked on the send forever.
	require.NoError(t, q.Publish(context.Background(), Reminder{SessionID: "s1"}))
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	select {
	case r, ok := <-out:
		assert.False(t, ok, "expected closed channel, got reminder %q", r.SessionID)
	case <-time.After(time.Second):
		t.Fatal("consume channel neither closed nor delivering")
	}
}
