package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	var forwarded, created int
	d.Subscribe(EventTicketForwarded, func(_ context.Context, e Event) error {
		forwarded++
		return nil
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		created++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketForwarded, TicketID: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if forwarded != 1 || created != 0 {
		t.Errorf("forwarded=%d created=%d", forwarded, created)
	}
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	var second bool
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		return errors.New("handler down")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !second {
		t.Errorf("second handler not invoked after first failed")
	}
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventTicketStatusChanged}); err != nil {
		t.Errorf("publish with no subscribers: %v", err)
	}
}
