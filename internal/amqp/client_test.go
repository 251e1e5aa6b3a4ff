package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{-1, time.Second},
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := Backoff(tt.attempt); got != tt.expected {
				t.Fatalf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", errors.New("dial tcp: connection refused"), true},
		{"eof", errors.New("unexpected EOF"), true},
		{"closed channel", fmt.Errorf("consume: %w", ErrChannelClosed), true},
		{"library closed", amqp091.ErrClosed, true},
		{"handler failure", errors.New("sheet not found"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Fatalf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type fakeAck struct {
	acked, nacked, requeued int
}

func (f *fakeAck) Ack(uint64, bool) error { f.acked++; return nil }
func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked++
	if requeue {
		f.requeued++
	}
	return nil
}
func (f *fakeAck) Reject(uint64, bool) error { return nil }

func delivery(ack *fakeAck, body string) amqp091.Delivery {
	return amqp091.Delivery{Acknowledger: ack, Body: []byte(body)}
}

func TestHandleDelivery(t *testing.T) {
	ctx := context.Background()
	ok := func(context.Context, *SyncMessage) error { return nil }
	fail := func(context.Context, *SyncMessage) error { return errors.New("sheets down") }

	t.Run("success acks", func(t *testing.T) {
		ack := &fakeAck{}
		var got *SyncMessage
		handleDelivery(ctx, delivery(ack, `{"kind":"meal","id":"m1","version":1}`),
			func(_ context.Context, m *SyncMessage) error { got = m; return nil })
		if ack.acked != 1 || got == nil || got.ID != "m1" {
			t.Fatalf("ack=%+v msg=%+v", ack, got)
		}
	})
	t.Run("handler failure requeues", func(t *testing.T) {
		ack := &fakeAck{}
		handleDelivery(ctx, delivery(ack, `{"kind":"transaction","id":"t1","version":1}`), fail)
		if ack.requeued != 1 || ack.acked != 0 {
			t.Fatalf("ack=%+v", ack)
		}
	})
	t.Run("garbage is dropped", func(t *testing.T) {
		ack := &fakeAck{}
		handleDelivery(ctx, delivery(ack, `not json`), ok)
		if ack.nacked != 1 || ack.requeued != 0 {
			t.Fatalf("ack=%+v", ack)
		}
	})
	t.Run("unknown kind is dropped", func(t *testing.T) {
		ack := &fakeAck{}
		handleDelivery(ctx, delivery(ack, `{"kind":"lesson","id":"x"}`), ok)
		if ack.nacked != 1 || ack.requeued != 0 {
			t.Fatalf("ack=%+v", ack)
		}
	})
}

func TestSyncMessageJSON(t *testing.T) {
	msg := NewSyncMessage(KindTransaction, "t-42", 3)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := SyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("SyncMessageFromJSON: %v", err)
	}
	if back.Kind != msg.Kind || back.ID != msg.ID || back.Version != 3 || !back.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, msg)
	}
	if _, err := SyncMessageFromJSON([]byte(`{"kind":"meal"}`)); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("missing id accepted: %v", err)
	}
}
