package kafkax

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" a:9092, ,b:9092 ")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
	if SplitBrokers("") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestNewMessageRoundTripsMeta(t *testing.T) {
	msg := NewMessage(context.Background(), "services", EventMeta{EventType: "query.invalidated.v1", Source: "console-1"}, []byte(`{}`))
	msg.Topic = "topic"

	meta := ExtractEventMeta(msg)
	if meta.EventID == "" {
		t.Fatal("expected generated event id")
	}
	if meta.EventType != "query.invalidated.v1" || meta.Source != "console-1" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if string(msg.Key) != "services" {
		t.Fatalf("unexpected key: %s", msg.Key)
	}
}

func TestExtractEventMetaFallbacks(t *testing.T) {
	meta := ExtractEventMeta(kafka.Message{Topic: "t", Key: []byte("k")})
	if meta.EventID != "k" || meta.EventType != "t" || meta.Source != "" {
		t.Fatalf("unexpected fallbacks: %+v", meta)
	}
}

func TestTraceHeadersPropagate(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := InjectTraceHeaders(ctx, nil)
	if HeaderValue(headers, "traceparent") == "" {
		t.Fatal("expected traceparent header")
	}

	out := trace.SpanContextFromContext(ExtractTraceContext(context.Background(), kafka.Message{Headers: headers}))
	if out.TraceID() != traceID {
		t.Fatalf("trace id mismatch: %s", out.TraceID())
	}
}

func TestReadyCheckReportsUnreachableBroker(t *testing.T) {
	if err := ReadyCheck(nil)(context.Background()); err == nil {
		t.Fatal("expected error without brokers")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	down := ln.Addr().String()
	_ = ln.Close()

	err = ReadyCheck([]string{down})(context.Background())
	if err == nil || !strings.Contains(err.Error(), down) {
		t.Fatalf("expected dial error naming %s, got %v", down, err)
	}
}
