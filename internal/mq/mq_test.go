package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/accordmanpower/cmsapi/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeBackend struct {
	publishFn func(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	closed    bool
}

func (f *fakeBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return f.publishFn(ctx, channel, data, attrs)
}

func (f *fakeBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return handler(ctx, Message{ID: "1", Data: []byte("{}")})
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func TestMQDelegatesToBackend(t *testing.T) {
	var gotChannel string
	backend := &fakeBackend{
		publishFn: func(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
			gotChannel = channel
			return "msg-1", nil
		},
	}
	m := New(backend)

	id, err := m.Publish(context.Background(), "inquiries.created", []byte("{}"), nil)
	if err != nil || id != "msg-1" {
		t.Fatalf("Publish = %q, %v", id, err)
	}
	if gotChannel != "inquiries.created" {
		t.Fatalf("unexpected channel %q", gotChannel)
	}

	handled := false
	if err := m.Subscribe(context.Background(), "inquiries.created", func(ctx context.Context, msg Message) error {
		handled = msg.ID == "1"
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !handled {
		t.Fatalf("handler was not invoked")
	}

	if err := m.Close(); err != nil || !backend.closed {
		t.Fatalf("Close: err=%v closed=%v", err, backend.closed)
	}
}

func TestMQSubscribePropagatesHandlerError(t *testing.T) {
	m := New(&fakeBackend{})
	wantErr := errors.New("boom")
	err := m.Subscribe(context.Background(), "c", func(ctx context.Context, msg Message) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestOpenDisabled(t *testing.T) {
	m, err := Open(context.Background(), config.MQConfig{})
	if err != nil || m != nil {
		t.Fatalf("expected nil, nil; got %v, %v", m, err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.MQConfig{Backend: "kafka"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestHeadersToAttributes(t *testing.T) {
	if attrs := headersToAttributes(nil); attrs != nil {
		t.Fatalf("expected nil for empty headers, got %v", attrs)
	}

	attrs := headersToAttributes(amqp.Table{
		"type":       "inquiry.created",
		"raw":        []byte("bytes"),
		"inquiry_id": int32(42),
	})
	want := map[string]string{
		"type":       "inquiry.created",
		"raw":        "bytes",
		"inquiry_id": "42",
	}
	for key, value := range want {
		if attrs[key] != value {
			t.Fatalf("attrs[%q] = %q, want %q", key, attrs[key], value)
		}
	}
}

func TestNewMessageIDIsUnique(t *testing.T) {
	a, b := newMessageID(), newMessageID()
	if a == "" || a == b {
		t.Fatalf("expected distinct ids, got %q and %q", a, b)
	}
}
