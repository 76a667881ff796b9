package config

const (
	// Fetcher Defaults
	DefaultFetcherUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultFetcherTimeoutSecs      = 30
	DefaultFetcherMaxContentSizeMB = 20
	DefaultFetcherMaxRedirects     = 10

	// Storage Defaults
	DefaultStorageBackend           = "filesystem"
	DefaultStorageBasePath          = "monitored_files"
	DefaultStorageSQLitePath        = "database/jsmon.db"
	DefaultStorageParquetBasePath   = "database"
	DefaultStorageCompressionCodec  = "zstd"
	DefaultStorageFingerprintLength = 16

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = "logs/jsmon.log"
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Diff Defaults
	DefaultDiffMaxSize      = 50000
	DefaultDiffContextLines = 3
	DefaultDiffWrapColumn   = 80
	DefaultDiffPromptMax    = 30000

	// AI Defaults
	DefaultAIProvider                  = "gemini"
	DefaultAIModel                     = "gemini-1.5-flash"
	DefaultAISummaryMaxTokens          = 4096
	DefaultAISummaryTemperature        = 0.5
	DefaultAIAnalysisMaxTokens         = 8192
	DefaultAIAnalysisTemperature       = 0.7
	DefaultAIRequestTimeoutSecs        = 120
	DefaultAILogDir                    = "logs/ai_conversations"
	DefaultNotificationMaxSummaryChars = 3000

	// Monitor Defaults
	DefaultMonitorTargetsDir = "targets"

	// Retry Defaults
	DefaultRetryMaxRetries  = 3
	DefaultRetryBaseDelayMs = 500
	DefaultRetryMaxDelayMs  = 10000
)
