package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHub_PublishReachesOwnUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, cancel := hub.Subscribe(userID)
	defer cancel()

	event := NewEvent(ExpenseCreated, userID, uuid.New())
	hub.Publish(event)

	select {
	case got := <-ch:
		if got.Type != ExpenseCreated {
			t.Errorf("event type = %s, want %s", got.Type, ExpenseCreated)
		}
		if got.UserID != userID {
			t.Errorf("event user = %s, want %s", got.UserID, userID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestHub_EventsAreUserScoped(t *testing.T) {
	hub := NewHub()
	alice := uuid.New()
	bob := uuid.New()

	aliceCh, cancelAlice := hub.Subscribe(alice)
	defer cancelAlice()
	bobCh, cancelBob := hub.Subscribe(bob)
	defer cancelBob()

	hub.Publish(NewEvent(ExpenseUpdated, alice, uuid.New()))

	select {
	case <-aliceCh:
	case <-time.After(time.Second):
		t.Fatal("alice never received her event")
	}

	select {
	case got := <-bobCh:
		t.Fatalf("bob received alice's event: %+v", got)
	default:
	}
}

func TestHub_CancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, cancel := hub.Subscribe(userID)
	if hub.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", hub.SubscriberCount())
	}

	cancel()
	if hub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() after cancel = %d, want 0", hub.SubscriberCount())
	}

	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}

	// second cancel is a no-op
	cancel()
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	_, cancel := hub.Subscribe(userID)
	defer cancel()

	// more events than the channel buffers; publish must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(NewEvent(ExpenseCreated, userID, uuid.New()))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a subscriber that is not draining")
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	event := NewEvent(ExpenseDeleted, uuid.New(), uuid.New())

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() unexpected error: %v", err)
	}

	got, err := EventFromJSON(data)
	if err != nil {
		t.Fatalf("EventFromJSON() unexpected error: %v", err)
	}

	if got.Type != event.Type || got.UserID != event.UserID || got.ExpenseID != event.ExpenseID {
		t.Errorf("round trip changed the event: got %+v, want %+v", got, event)
	}
}
