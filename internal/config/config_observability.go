package config

import "time"

// ObservabilityConfig holds OpenTelemetry configuration
type ObservabilityConfig struct {
	Enabled        bool             `mapstructure:"enabled"`
	ServiceName    string           `mapstructure:"serviceName"`
	ServiceVersion string           `mapstructure:"serviceVersion"`
	ConsoleOutput  bool             `mapstructure:"consoleOutput"`
	Tracing        TracingConfig    `mapstructure:"tracing"`
	Metrics        MetricsConfig    `mapstructure:"metrics"`
	Prometheus     PrometheusConfig `mapstructure:"prometheus"`
	OTLP           OTLPConfig       `mapstructure:"otlp"`
}

// TracingConfig holds distributed tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics collection configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// PrometheusConfig holds the Prometheus exporter configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds the OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}
