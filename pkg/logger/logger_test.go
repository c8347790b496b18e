package logger

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithFieldsCtx(t *testing.T) {
	ctx := context.WithValue(context.Background(), "request_id", "req-1")
	Init()
	e := WithFieldsCtx(ctx, logrus.Fields{"event_type": "test"})
	if e.Data["request_id"] != "req-1" {
		t.Fatalf("missing request_id")
	}
	if e.Data["event_type"] != "test" {
		t.Fatalf("missing event_type")
	}
}

func TestKVFields(t *testing.T) {
	f := kvFields([]interface{}{"a", 1, "b", "x"})
	if f["a"] != 1 || f["b"] != "x" {
		t.Fatalf("kv pairs not mapped: %v", f)
	}
	f = kvFields([]interface{}{"a", 1, "dangling"})
	if f["extra"] != "dangling" {
		t.Fatalf("dangling key not kept: %v", f)
	}
}
