package queue

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}

	want := Message{Type: TypeStudentRegistered, Body: []byte("student-1")}
	if err := q.Publish(ctx, want); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-msgs:
		if got.Type != want.Type || string(got.Body) != string(want.Body) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishHonorsCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	// fill the buffer, then a second publish must block until cancel
	if err := q.Publish(ctx, Message{Type: "x"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	cancel()
	if err := q.Publish(ctx, Message{Type: "y"}); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"simple", Message{Type: TypeStudentRegistered, Body: []byte("id-1")}},
		{"pipe in body", Message{Type: "t", Body: []byte("a|b|c")}},
		{"empty body", Message{Type: "t", Body: nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := deserialize(serialize(tt.msg))
			if err != nil {
				t.Fatalf("deserialize: %v", err)
			}
			if got.Type != tt.msg.Type || string(got.Body) != string(tt.msg.Body) {
				t.Errorf("got %+v, want %+v", got, tt.msg)
			}
		})
	}
}
