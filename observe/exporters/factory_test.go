package exporters

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// TestNewTracingExporter tests span exporter creation by name.
func TestNewTracingExporter(t *testing.T) {
	ctx := context.Background()

	t.Run("stdout", func(t *testing.T) {
		exp, err := NewTracingExporter(ctx, "stdout")
		if err != nil {
			t.Fatalf("NewTracingExporter(stdout) = %v", err)
		}
		if exp == nil {
			t.Fatal("exporter is nil")
		}
	})

	t.Run("none", func(t *testing.T) {
		exp, err := NewTracingExporter(ctx, "none")
		if err != nil {
			t.Fatalf("NewTracingExporter(none) = %v", err)
		}
		if exp == nil {
			t.Fatal("exporter is nil")
		}
	})

	t.Run("otlp without endpoint", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
		t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

		_, err := NewTracingExporter(ctx, "otlp")
		if !errors.Is(err, ErrEndpointNotConfigured) {
			t.Fatalf("NewTracingExporter(otlp) = %v, want ErrEndpointNotConfigured", err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewTracingExporter(ctx, "jaeger")
		if err == nil || !strings.Contains(err.Error(), "unknown") {
			t.Fatalf("NewTracingExporter(jaeger) = %v, want unknown-exporter error", err)
		}
	})
}

// TestNewMetricsReader tests metrics reader creation by name.
func TestNewMetricsReader(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"stdout", "prometheus", "none", ""} {
		label := name
		if label == "" {
			label = "empty"
		}
		t.Run(label, func(t *testing.T) {
			reader, err := NewMetricsReader(ctx, name)
			if err != nil {
				t.Fatalf("NewMetricsReader(%q) = %v", name, err)
			}
			if reader == nil {
				t.Fatal("reader is nil")
			}
		})
	}

	t.Run("otlp without endpoint", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
		t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

		_, err := NewMetricsReader(ctx, "otlp")
		if !errors.Is(err, ErrEndpointNotConfigured) {
			t.Fatalf("NewMetricsReader(otlp) = %v, want ErrEndpointNotConfigured", err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewMetricsReader(ctx, "statsd"); err == nil {
			t.Fatal("expected error for unknown reader name")
		}
	})
}
