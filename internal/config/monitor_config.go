package config

// MonitorConfig defines where targets come from and how a run behaves
type MonitorConfig struct {
	TargetsDir       string   `json:"targets_dir,omitempty" yaml:"targets_dir,omitempty"`
	TargetsFile      string   `json:"targets_file,omitempty" yaml:"targets_file,omitempty"`
	InitialURLs      []string `json:"initial_urls,omitempty" yaml:"initial_urls,omitempty" validate:"omitempty,dive,url"`
	DryRun           bool     `json:"dry_run" yaml:"dry_run"`
	ExtractEndpoints bool     `json:"extract_endpoints" yaml:"extract_endpoints"`
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		TargetsDir:       DefaultMonitorTargetsDir,
		InitialURLs:      []string{},
		ExtractEndpoints: true,
	}
}
