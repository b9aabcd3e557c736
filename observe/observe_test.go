package observe

import (
	"context"
	"errors"
	"testing"
)

// TestConfig_Validate tests configuration validation rules.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			"missing service name",
			Config{},
			ErrMissingServiceName,
		},
		{
			"valid minimal",
			Config{ServiceName: "cachekit"},
			nil,
		},
		{
			"unknown tracing exporter",
			Config{ServiceName: "cachekit", Tracing: TracingConfig{Enabled: true, Exporter: "zipkin"}},
			ErrInvalidTracingExporter,
		},
		{
			"bad sample pct",
			Config{ServiceName: "cachekit", Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5}},
			ErrInvalidSamplePct,
		},
		{
			"unknown metrics exporter",
			Config{ServiceName: "cachekit", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}},
			ErrInvalidMetricsExporter,
		},
		{
			"unknown log level",
			Config{ServiceName: "cachekit", Logging: LoggingConfig{Enabled: true, Level: "verbose"}},
			ErrInvalidLogLevel,
		},
		{
			"disabled subsystems skip validation",
			Config{ServiceName: "cachekit", Tracing: TracingConfig{Exporter: "zipkin"}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidNameLists verifies every published exporter and log level
// name passes validation, so the lists and Validate cannot drift.
func TestValidNameLists(t *testing.T) {
	for _, name := range ValidTracingExporters {
		cfg := Config{ServiceName: "cachekit", Tracing: TracingConfig{Enabled: true, Exporter: name}}
		if err := cfg.Validate(); err != nil {
			t.Errorf("tracing exporter %q rejected: %v", name, err)
		}
	}
	for _, name := range ValidMetricsExporters {
		cfg := Config{ServiceName: "cachekit", Metrics: MetricsConfig{Enabled: true, Exporter: name}}
		if err := cfg.Validate(); err != nil {
			t.Errorf("metrics exporter %q rejected: %v", name, err)
		}
	}
	for _, name := range ValidLogLevels {
		cfg := Config{ServiceName: "cachekit", Logging: LoggingConfig{Enabled: true, Level: name}}
		if err := cfg.Validate(); err != nil {
			t.Errorf("log level %q rejected: %v", name, err)
		}
	}
}

// TestNewObserver_Disabled verifies an all-disabled observer works and
// shuts down cleanly.
func TestNewObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "cachekit"})
	if err != nil {
		t.Fatalf("NewObserver() = %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("Tracer() is nil")
	}
	if obs.Meter() == nil {
		t.Error("Meter() is nil")
	}
	if obs.Logger() == nil {
		t.Error("Logger() is nil")
	}

	// Noop providers: logging through them must not panic.
	obs.Logger().Info(context.Background(), "ignored")

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
	// Shutdown is idempotent.
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() = %v", err)
	}
}

// TestNewObserver_InvalidConfig verifies construction fails fast.
func TestNewObserver_InvalidConfig(t *testing.T) {
	if _, err := NewObserver(context.Background(), Config{}); !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("NewObserver() = %v, want ErrMissingServiceName", err)
	}
}
