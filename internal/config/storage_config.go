package config

// StorageConfig defines configuration for data storage
type StorageConfig struct {
	Backend           string `json:"backend,omitempty" yaml:"backend,omitempty" validate:"omitempty,storagebackend"`
	BasePath          string `json:"base_path,omitempty" yaml:"base_path,omitempty"`
	SQLitePath        string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	ParquetBasePath   string `json:"parquet_base_path,omitempty" yaml:"parquet_base_path,omitempty"`
	CompressionCodec  string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,compressioncodec"`
	FingerprintLength int    `json:"fingerprint_length,omitempty" yaml:"fingerprint_length,omitempty" validate:"omitempty,min=8,max=64"`
	EnableHistoryLog  bool   `json:"enable_history_log" yaml:"enable_history_log"`
	EnableAuditLog    bool   `json:"enable_audit_log" yaml:"enable_audit_log"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:           DefaultStorageBackend,
		BasePath:          DefaultStorageBasePath,
		SQLitePath:        DefaultStorageSQLitePath,
		ParquetBasePath:   DefaultStorageParquetBasePath,
		CompressionCodec:  DefaultStorageCompressionCodec,
		FingerprintLength: DefaultStorageFingerprintLength,
		EnableHistoryLog:  true,
		EnableAuditLog:    true,
	}
}
