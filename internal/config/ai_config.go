package config

import "time"

// ModelConfig holds generation parameters for one AI operation
type ModelConfig struct {
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"omitempty,min=1"`
	Temperature float64 `json:"temperature" yaml:"temperature" validate:"min=0,max=2"`
}

// AIConfig defines the language model provider and its per-operation settings
type AIConfig struct {
	Provider              string      `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,aiprovider"`
	APIKey                string      `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL               string      `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Summarization         ModelConfig `json:"summarization" yaml:"summarization"`
	CodeAnalysis          ModelConfig `json:"code_analysis" yaml:"code_analysis"`
	RequestTimeoutSecs    int         `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"omitempty,min=1"`
	RequestsPerMinute     int         `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty" validate:"omitempty,min=0"`
	AutoGenerateSummaries bool        `json:"auto_generate_summaries" yaml:"auto_generate_summaries"`
	LogResponses          bool        `json:"log_responses" yaml:"log_responses"`
	LogDir                string      `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`
}

// NewDefaultAIConfig creates default AI configuration
func NewDefaultAIConfig() AIConfig {
	return AIConfig{
		Provider: DefaultAIProvider,
		Summarization: ModelConfig{
			Model:       DefaultAIModel,
			MaxTokens:   DefaultAISummaryMaxTokens,
			Temperature: DefaultAISummaryTemperature,
		},
		CodeAnalysis: ModelConfig{
			Model:       DefaultAIModel,
			MaxTokens:   DefaultAIAnalysisMaxTokens,
			Temperature: DefaultAIAnalysisTemperature,
		},
		RequestTimeoutSecs:    DefaultAIRequestTimeoutSecs,
		AutoGenerateSummaries: true,
		LogResponses:          true,
		LogDir:                DefaultAILogDir,
	}
}

// RequestTimeout returns the per-call timeout
func (c AIConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSecs <= 0 {
		return DefaultAIRequestTimeoutSecs * time.Second
	}
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}
