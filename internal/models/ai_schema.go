package models

// RiskLevel is the closed severity classification of a change.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// ChangeCategory is the closed set of change categories.
type ChangeCategory string

const (
	CategorySecurityChange    ChangeCategory = "security_change"
	CategoryNewEndpoint       ChangeCategory = "new_endpoint"
	CategoryUIOnlyChange      ChangeCategory = "ui_only_change"
	CategoryNewFunction       ChangeCategory = "new_function"
	CategoryDependencyChange  ChangeCategory = "dependency_change"
	CategoryConfigChange      ChangeCategory = "config_change"
	CategoryRefactorOrCleanup ChangeCategory = "refactor_or_cleanup"
	CategoryUnknownOrMinor    ChangeCategory = "unknown_or_minor"
)

// Categories lists every accepted change category.
var Categories = []ChangeCategory{
	CategorySecurityChange,
	CategoryNewEndpoint,
	CategoryUIOnlyChange,
	CategoryNewFunction,
	CategoryDependencyChange,
	CategoryConfigChange,
	CategoryRefactorOrCleanup,
	CategoryUnknownOrMinor,
}

// Summary is the structured description of a never-before-seen version.
type Summary struct {
	ConciseSummary   string                  `json:"concise_summary" validate:"required"`
	DetailedAnalysis SummaryDetailedAnalysis `json:"detailed_analysis"`
}

type SummaryDetailedAnalysis struct {
	FileOverview           FileOverview    `json:"file_overview"`
	CoreComponents         []CoreComponent `json:"core_components" validate:"dive"`
	Dependencies           Dependencies    `json:"dependencies"`
	SecurityConsiderations StringList      `json:"security_considerations"`
}

type FileOverview struct {
	Type    string `json:"type" validate:"required"`
	Purpose string `json:"purpose" validate:"required"`
}

type CoreComponent struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=function class object"`
	Description string `json:"description"`
}

type Dependencies struct {
	Imports            StringList `json:"imports"`
	GlobalDependencies StringList `json:"global_dependencies"`
}

// ChangeAnalysis is the structured risk assessment of one transition.
type ChangeAnalysis struct {
	ShortSummary     string                 `json:"short_summary" validate:"required"`
	RiskLevel        RiskLevel              `json:"risk_level" validate:"required,oneof=HIGH MEDIUM LOW"`
	Confidence       string                 `json:"confidence,omitempty" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	DetailedAnalysis ChangeDetailedAnalysis `json:"detailed_analysis"`
}

// LowConfidence reports whether the model flagged its own answer as unreliable.
func (a *ChangeAnalysis) LowConfidence() bool {
	return a != nil && a.Confidence == string(RiskLow)
}

type ChangeDetailedAnalysis struct {
	ChangeOverview     ChangeOverview     `json:"change_overview"`
	FunctionalImpact   FunctionalImpact   `json:"functional_impact"`
	SecurityAssessment SecurityAssessment `json:"security_assessment"`
	Recommendations    Recommendations    `json:"recommendations"`
}

type ChangeOverview struct {
	Type       string         `json:"type" validate:"required,oneof=Addition Modification Deletion Refactoring"`
	Scope      string         `json:"scope"`
	Complexity string         `json:"complexity" validate:"required,oneof=Simple Moderate Complex"`
	Category   ChangeCategory `json:"category" validate:"required,oneof=security_change new_endpoint ui_only_change new_function dependency_change config_change refactor_or_cleanup unknown_or_minor"`
}

type FunctionalImpact struct {
	AffectedComponents StringList `json:"affected_components,omitempty"`
	BehaviorChanges    StringList `json:"behavior_changes,omitempty"`
	Description        string     `json:"description,omitempty"`
}

type SecurityAssessment struct {
	Risks        StringList `json:"risks"`
	Improvements StringList `json:"improvements"`
}

type Recommendations struct {
	ReviewFocus       StringList `json:"review_focus"`
	AdditionalTesting StringList `json:"additional_testing"`
}
