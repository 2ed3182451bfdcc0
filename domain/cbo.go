package domain

// CBOMetrics captures the coupling-between-objects measurements for a single
// file/class unit.
type CBOMetrics struct {
	CouplingCount               int      `json:"coupling_count"`
	ImportDependencies          int      `json:"import_dependencies"`
	InstantiationDependencies   int      `json:"instantiation_dependencies"`
	TypeHintDependencies        int      `json:"type_hint_dependencies"`
	AttributeAccessDependencies int      `json:"attribute_access_dependencies"`
	DependentClasses            []string `json:"dependent_classes"`
}

// ClassCoupling is the CBO result for a single analyzed file.
type ClassCoupling struct {
	Name      string     `json:"name"`
	FilePath  string     `json:"file_path"`
	StartLine int        `json:"start_line"`
	EndLine   int        `json:"end_line"`
	Metrics   CBOMetrics `json:"metrics"`
	RiskLevel RiskLevel  `json:"risk_level"`
}

// CBOSummary aggregates CBO statistics across all analyzed files.
type CBOSummary struct {
	TotalClasses       int             `json:"total_classes"`
	ClassesAnalyzed    int             `json:"classes_analyzed"`
	FilesAnalyzed      int             `json:"files_analyzed"`
	AverageCBO         float64         `json:"average_cbo"`
	MaxCBO             int             `json:"max_cbo"`
	MinCBO             int             `json:"min_cbo"`
	HighRiskClasses    int             `json:"high_risk_classes"`
	MediumRiskClasses  int             `json:"medium_risk_classes"`
	LowRiskClasses     int             `json:"low_risk_classes"`
	CBODistribution    map[string]int  `json:"cbo_distribution"`
	MostCoupledClasses []ClassCoupling `json:"most_coupled_classes,omitempty"`
}

// CBORequest configures a coupling-between-objects analysis run.
type CBORequest struct {
	Paths              []string      `json:"paths"`
	OutputFormat       OutputFormat  `json:"output_format"`
	SortBy             SortCriteria  `json:"sort_by,omitempty"`
	MinCBO             int           `json:"min_cbo,omitempty"`
	MaxCBO             int           `json:"max_cbo,omitempty"`
	ShowZeros          *bool         `json:"show_zeros,omitempty"`
	LowThreshold       int           `json:"low_threshold,omitempty"`
	MediumThreshold    int           `json:"medium_threshold,omitempty"`
	IncludeBuiltins    *bool         `json:"include_builtins,omitempty"`
	IncludeTypeImports *bool         `json:"include_type_imports,omitempty"`
	Recursive          bool          `json:"recursive,omitempty"`
	IncludePatterns    []string      `json:"include_patterns,omitempty"`
	ExcludePatterns    []string      `json:"exclude_patterns,omitempty"`
}

// CBOResponse is the result of a CBO analysis run.
type CBOResponse struct {
	Classes     []ClassCoupling        `json:"classes"`
	Summary     CBOSummary             `json:"summary"`
	Warnings    []string               `json:"warnings,omitempty"`
	Errors      []string               `json:"errors,omitempty"`
	GeneratedAt string                 `json:"generated_at"`
	Version     string                 `json:"version"`
	Config      map[string]interface{} `json:"config,omitempty"`
}

// Score quality thresholds used to classify an overall health score band.
const (
	ScoreThresholdExcellent = 90
	ScoreThresholdGood      = 75
	ScoreThresholdFair      = 60
)
