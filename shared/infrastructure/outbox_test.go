package infrastructure

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	mu      sync.Mutex
	pending []*events.Event
	calls   int
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, limit int, publish func(context.Context, ...*events.Event) error) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++

	n := limit
	if n > len(d.pending) {
		n = len(d.pending)
	}
	if n == 0 {
		return 0, nil
	}
	if err := publish(ctx, d.pending[:n]...); err != nil {
		return 0, err
	}
	d.pending = d.pending[n:]
	return n, nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*events.Event
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...*events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, evts...)
	return nil
}

func TestOutboxRelayRunOnce(t *testing.T) {
	pending := []*events.Event{paymentRequestedEvent(), paymentRequestedEvent(), paymentRequestedEvent()}
	dispatcher := &fakeDispatcher{pending: pending}
	publisher := &recordingPublisher{}
	relay := NewOutboxRelay(dispatcher, publisher, nil, 2, time.Millisecond)

	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, pending, publisher.published)
	assert.Equal(t, 2, dispatcher.calls)
}

func TestOutboxRelayKeepsEventsOnPublishFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{pending: []*events.Event{paymentRequestedEvent()}}
	relay := NewOutboxRelay(dispatcher, &recordingPublisher{err: errors.New("sns down")}, nil, 10, time.Millisecond)

	_, err := relay.RunOnce(context.Background())
	require.Error(t, err)
	assert.Len(t, dispatcher.pending, 1)
}

func TestOutboxRelayRunDrainsUntilCancelled(t *testing.T) {
	dispatcher := &fakeDispatcher{pending: []*events.Event{paymentRequestedEvent(), paymentRequestedEvent()}}
	publisher := &recordingPublisher{}
	relay := NewOutboxRelay(dispatcher, publisher, nil, 1, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	assert.Eventually(t, func() bool {
		publisher.mu.Lock()
		defer publisher.mu.Unlock()
		return len(publisher.published) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

type fakePurger struct {
	mu      sync.Mutex
	cutoffs []time.Time
}

func (p *fakePurger) PurgePublished(_ context.Context, before time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, before)
	return 3, nil
}

func TestOutboxRelayPurgesOncePerInterval(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	purger := &fakePurger{}
	relay := NewOutboxRelay(&fakeDispatcher{}, &recordingPublisher{}, nil, 10, time.Millisecond).
		WithRetention(purger, 24*time.Hour)
	relay.now = func() time.Time { return now }

	relay.purgeIfDue(context.Background())
	relay.purgeIfDue(context.Background())
	require.Len(t, purger.cutoffs, 1)
	assert.Equal(t, now.Add(-24*time.Hour), purger.cutoffs[0])

	now = now.Add(purgeInterval)
	relay.purgeIfDue(context.Background())
	assert.Len(t, purger.cutoffs, 2)
}

func TestOutboxRelayWithoutRetentionKeepsEvents(t *testing.T) {
	purger := &fakePurger{}
	relay := NewOutboxRelay(&fakeDispatcher{}, &recordingPublisher{}, nil, 10, time.Millisecond).
		WithRetention(purger, 0)

	relay.purgeIfDue(context.Background())
	assert.Empty(t, purger.cutoffs)
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, time.Second, nextBackoff(500*time.Millisecond, 500*time.Millisecond, 10*time.Second))
	assert.Equal(t, 10*time.Second, nextBackoff(8*time.Second, 500*time.Millisecond, 10*time.Second))
	assert.Equal(t, time.Second, nextBackoff(0, 500*time.Millisecond, 10*time.Second))
}

func TestOutboxRowRoundTrip(t *testing.T) {
	event := paymentRequestedEvent()

	row, err := toOutboxRow(event)
	require.NoError(t, err)

	decoded, err := row.toEvent()
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.Topic, decoded.Topic)
	assert.Equal(t, event.Metadata, decoded.Metadata)

	var payload events.PaymentRequested
	require.NoError(t, decoded.UnmarshalPayload(&payload))
	assert.Equal(t, event.AggregateID, payload.OrderID)
}

type fakeKeyStore struct {
	mu   sync.Mutex
	keys map[string]string
	err  error
}

func (s *fakeKeyStore) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = value
	return true, nil
}

func (s *fakeKeyStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = value
	return nil
}

func (s *fakeKeyStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *fakeKeyStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *fakeKeyStore) value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func inboxKey(event *events.Event) string {
	return "orders:inbox:ordering:" + event.ID.String()
}

// handleRecovering mirrors the subscriber: a panicking handler leaves the
// message for redelivery.
func handleRecovering(handler events.EventHandler, event *events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(context.Background(), event)
}

func TestRedisInboxWrap(t *testing.T) {
	t.Run("duplicates are skipped once done", func(t *testing.T) {
		store := &fakeKeyStore{keys: map[string]string{}}
		inbox := newInbox(store, "ordering", time.Hour, nil)
		calls := 0
		handler := inbox.Wrap(events.EventHandlerFunc(func(context.Context, *events.Event) error {
			calls++
			return nil
		}))

		event := paymentRequestedEvent()
		require.NoError(t, handler.Handle(context.Background(), event))
		require.NoError(t, handler.Handle(context.Background(), event))
		assert.Equal(t, 1, calls)
		assert.Equal(t, "done", store.value(inboxKey(event)))
	})

	t.Run("failures release the claim", func(t *testing.T) {
		store := &fakeKeyStore{keys: map[string]string{}}
		inbox := newInbox(store, "ordering", time.Hour, nil)
		calls := 0
		handler := inbox.Wrap(events.EventHandlerFunc(func(context.Context, *events.Event) error {
			calls++
			if calls == 1 {
				return errors.New("transient")
			}
			return nil
		}))

		event := paymentRequestedEvent()
		require.Error(t, handler.Handle(context.Background(), event))
		assert.Empty(t, store.value(inboxKey(event)))
		require.NoError(t, handler.Handle(context.Background(), event))
		assert.Equal(t, 2, calls)
		assert.Equal(t, "done", store.value(inboxKey(event)))
	})

	t.Run("panics release the claim", func(t *testing.T) {
		store := &fakeKeyStore{keys: map[string]string{}}
		inbox := newInbox(store, "ordering", time.Hour, nil)
		calls := 0
		handler := inbox.Wrap(events.EventHandlerFunc(func(context.Context, *events.Event) error {
			calls++
			if calls == 1 {
				panic("nil order")
			}
			return nil
		}))

		event := paymentRequestedEvent()
		require.Error(t, handleRecovering(handler, event))
		require.NoError(t, handleRecovering(handler, event))
		assert.Equal(t, 2, calls)
		assert.Equal(t, "done", store.value(inboxKey(event)))
	})

	t.Run("in-flight duplicate is retried not acked", func(t *testing.T) {
		store := &fakeKeyStore{keys: map[string]string{}}
		inbox := newInbox(store, "ordering", time.Hour, nil)

		started := make(chan struct{})
		finish := make(chan struct{})
		var calls int32
		var mu sync.Mutex
		handler := inbox.Wrap(events.EventHandlerFunc(func(context.Context, *events.Event) error {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()
			if first {
				close(started)
				<-finish
				return assert.AnError
			}
			return nil
		}))

		event := paymentRequestedEvent()
		firstErr := make(chan error, 1)
		go func() { firstErr <- handler.Handle(context.Background(), event) }()
		<-started

		err := handler.Handle(context.Background(), event)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeConcurrencyConflict, apperrors.CodeOf(err))
		assert.True(t, apperrors.IsRetryable(err))

		close(finish)
		require.ErrorIs(t, <-firstErr, assert.AnError)

		require.NoError(t, handler.Handle(context.Background(), event))
		assert.EqualValues(t, 2, calls)
	})

	t.Run("store outage falls through", func(t *testing.T) {
		inbox := newInbox(&fakeKeyStore{err: errors.New("redis down")}, "ordering", time.Hour, nil)
		calls := 0
		handler := inbox.Wrap(events.EventHandlerFunc(func(context.Context, *events.Event) error {
			calls++
			return nil
		}))

		require.NoError(t, handler.Handle(context.Background(), paymentRequestedEvent()))
		assert.Equal(t, 1, calls)
	})
}
