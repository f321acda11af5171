package config

// MetricsConfig holds configuration for metrics.
type MetricsConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "prometheus" or "otel"
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
	Subsystem string `yaml:"subsystem" mapstructure:"subsystem"`
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
}
