package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "order", "place",
		telemetry.SpanAttrUserID, "u-1",
		telemetry.SpanAttrItemCount, 3,
	)
	assert.NotEmpty(t, telemetry.TraceID(ctx))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "order.place", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "u-1", attrs[telemetry.SpanAttrUserID].AsString())
	assert.Equal(t, int64(3), attrs[telemetry.SpanAttrItemCount].AsInt64())
}

func TestSetAttributes_SkipsMalformedPairs(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "inventory", "adjust")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrQuantity, int64(-2),
		42, "ignored",
		telemetry.SpanAttrAmount, 12.5,
		"dangling",
	)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Len(t, attrs, 2)
	assert.Equal(t, int64(-2), attrs[telemetry.SpanAttrQuantity].AsInt64())
	assert.Equal(t, 12.5, attrs[telemetry.SpanAttrAmount].AsFloat64())
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "order", "cancel")
	telemetry.RecordError(span, nil)
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "boom", ended.Status().Description)
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "exception", ended.Events()[0].Name)
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "order", "place")
	telemetry.AddEvent(span, "number_retry", "attempt", 2)
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "number_retry", events[0].Name)
	assert.Equal(t, int64(2), attrMap(events[0].Attributes)["attempt"].AsInt64())
}

func TestTraceID_WithoutSpan(t *testing.T) {
	assert.Empty(t, telemetry.TraceID(context.Background()))
}
