package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpanRecordsError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "pricing.pool.build")
	EndSpan(span, errors.New("boom"))

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans: want=1 got=%d", len(ended))
	}
	if ended[0].Name() != "pricing.pool.build" {
		t.Fatalf("span name: want=%q got=%q", "pricing.pool.build", ended[0].Name())
	}
	if ended[0].Status().Code != codes.Error {
		t.Fatalf("span status: want=%v got=%v", codes.Error, ended[0].Status().Code)
	}
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" a=1, b = 2 ,broken,=x")
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("parseHeaders: got=%v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("parseHeaders empty: want nil")
	}
}
