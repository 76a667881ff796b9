package config

// DiffConfig defines configuration for diffing
type DiffConfig struct {
	MaxDiffSize   int  `json:"max_diff_size,omitempty" yaml:"max_diff_size,omitempty" validate:"omitempty,min=100"`
	PromptMaxSize int  `json:"prompt_max_size,omitempty" yaml:"prompt_max_size,omitempty" validate:"omitempty,min=100"`
	ContextLines  int  `json:"context_lines,omitempty" yaml:"context_lines,omitempty" validate:"omitempty,min=0,max=50"`
	WrapColumn    int  `json:"wrap_column,omitempty" yaml:"wrap_column,omitempty" validate:"omitempty,min=20"`
	Beautify      bool `json:"beautify" yaml:"beautify"`
}

// NewDefaultDiffConfig creates default diff configuration
func NewDefaultDiffConfig() DiffConfig {
	return DiffConfig{
		MaxDiffSize:   DefaultDiffMaxSize,
		PromptMaxSize: DefaultDiffPromptMax,
		ContextLines:  DefaultDiffContextLines,
		WrapColumn:    DefaultDiffWrapColumn,
		Beautify:      true,
	}
}
