package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "jscan"

	// ConfigFileName is the default config file name
	ConfigFileName = ".jscan.toml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "JSCAN"
)

// Analysis type constants
const (
	AnalysisComplexity = "complexity"
	AnalysisDeadCode   = "deadcode"
	AnalysisCBO        = "cbo"
	AnalysisDeps       = "deps"
	AnalysisExports    = "exports"
	AnalysisSystem     = "system"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatHTML = "html"
	OutputFormatCSV  = "csv"
)
