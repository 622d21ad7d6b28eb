package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithPurchase(ctx, "4a0d9a2e")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte(`"request_id"`)) {
		t.Fatalf("expected request_id in entry: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"purchase_uuid"`)) {
		t.Fatalf("expected purchase_uuid in entry: %s", buf.String())
	}
}

func TestFieldsDoNotLeakAcrossContexts(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})

	_ = log.WithField(context.Background(), "job", "reconcile")
	log.Info(context.Background(), "plain")

	if bytes.Contains(buf.Bytes(), []byte(`"job"`)) {
		t.Fatalf("field leaked into unrelated context: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if lvl := ParseLevel("warn"); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn, got %v", lvl)
	}
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info default, got %v", lvl)
	}
	if lvl := ParseLevel("nonsense"); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", lvl)
	}
}
