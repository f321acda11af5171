package config

import "fmt"

// StorageBackend selects which EntityRepository implementation is wired at
// startup.
type StorageBackend string

const (
	StorageBackendMemory StorageBackend = "memory"
	StorageBackendFile   StorageBackend = "file"
	StorageBackendS3     StorageBackend = "s3"
)

// StorageConfig configures the schema repository backend.
type StorageConfig struct {
	Backend StorageBackend `yaml:"backend" mapstructure:"backend"`

	// File backend settings.
	FilePath string `yaml:"file_path" mapstructure:"file_path"`

	// S3 backend settings.
	S3Bucket    string `yaml:"s3_bucket" mapstructure:"s3_bucket"`
	S3KeyPrefix string `yaml:"s3_key_prefix" mapstructure:"s3_key_prefix"`
	S3Region    string `yaml:"s3_region" mapstructure:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint" mapstructure:"s3_endpoint"` // optional, for S3-compatible stores

	// SealingMasterKey is the master key exported documents are sealed
	// under when features.enable_export_sealing is on. At least 32 bytes.
	SealingMasterKey string `yaml:"sealing_master_key" mapstructure:"sealing_master_key"`
}

// Validate validates the storage configuration.
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case StorageBackendMemory:
		return nil
	case StorageBackendFile:
		if s.FilePath == "" {
			return fmt.Errorf("storage.file_path is required when storage.backend is %q", StorageBackendFile)
		}
	case StorageBackendS3:
		if s.S3Bucket == "" {
			return fmt.Errorf("storage.s3_bucket is required when storage.backend is %q", StorageBackendS3)
		}
	default:
		return fmt.Errorf("invalid storage backend: %s, must be one of: memory, file, s3", s.Backend)
	}
	return nil
}
