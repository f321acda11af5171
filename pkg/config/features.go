package config

// FeatureConfig holds feature flags read from config/environment.
type FeatureConfig struct {
	// EnableFormulaCache toggles the ristretto-backed compiled-formula
	// program cache in pkg/schemakit/formula.
	EnableFormulaCache bool `yaml:"enable_formula_cache" mapstructure:"enable_formula_cache"`

	// EnableTracing toggles OpenTelemetry span emission around use-case
	// operations.
	EnableTracing bool `yaml:"enable_tracing" mapstructure:"enable_tracing"`

	// EnableGovernanceCache toggles the Redis-backed memoizer for
	// governance classification results in the use-case layer.
	EnableGovernanceCache bool `yaml:"enable_governance_cache" mapstructure:"enable_governance_cache"`

	// EnableExportSealing encrypts exported schema documents at rest with
	// AES-256-GCM. Requires storage.sealing_master_key.
	EnableExportSealing bool `yaml:"enable_export_sealing" mapstructure:"enable_export_sealing"`
}
