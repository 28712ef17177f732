package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChangeMessageRoundTrip(t *testing.T) {
	msg := ChangeMessage(1234)
	if msg.Type != TypeRosterChanged {
		t.Fatalf("type = %q", msg.Type)
	}
	id, err := ParseChange(deserialize(serialize(msg)))
	if err != nil || id != 1234 {
		t.Fatalf("ParseChange = %d, %v", id, err)
	}

	if _, err := ParseChange(Message{Type: "checkin", Body: []byte("1")}); err == nil {
		t.Fatal("expected error for foreign message type")
	}
	if _, err := ParseChange(Message{Type: TypeRosterChanged, Body: []byte("x")}); err == nil {
		t.Fatal("expected error for non-numeric body")
	}
}

func TestDeserializeWithoutSeparator(t *testing.T) {
	msg := deserialize("raw")
	if msg.Type != "" || string(msg.Body) != "raw" {
		t.Fatalf("unexpected message %+v", msg)
	}
	msg = deserialize("a|b|c")
	if msg.Type != "a" || string(msg.Body) != "b|c" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	if err := q.Publish(ctx, ChangeMessage(7)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	select {
	case msg := <-msgs:
		if id, _ := ParseChange(msg); id != 7 {
			t.Fatalf("event id = %d, want 7", id)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}

	cancel()
	select {
	case _, ok := <-msgs:
		if ok {
			t.Fatal("expected channel closed after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestInMemoryPublishDoesNotBlock(t *testing.T) {
	q := NewInMemory(1)
	if err := q.Publish(context.Background(), ChangeMessage(1)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	start := time.Now()
	if err := q.Publish(context.Background(), ChangeMessage(2)); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("publish to full queue = %v, want ErrQueueFull", err)
	}
	if waited := time.Since(start); waited > 100*time.Millisecond {
		t.Fatalf("publish to full queue waited %v", waited)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewInMemory(1).Publish(ctx, ChangeMessage(3)); !errors.Is(err, context.Canceled) {
		t.Fatalf("publish with cancelled context = %v", err)
	}
}

func TestChangePublisher(t *testing.T) {
	q := NewInMemory(1)
	publish := ChangePublisher(q)
	start := time.Now()
	publish(9)
	publish(10) // queue full; dropped
	if waited := time.Since(start); waited > 100*time.Millisecond {
		t.Fatalf("publishing to a full queue took %v", waited)
	}

	select {
	case msg := <-q.ch:
		if id, _ := ParseChange(msg); id != 9 {
			t.Fatalf("event id = %d, want 9", id)
		}
	default:
		t.Fatal("expected a queued change")
	}
	select {
	case msg := <-q.ch:
		t.Fatalf("unexpected second message %+v", msg)
	default:
	}
}
