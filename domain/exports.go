package domain

// ExportsRequest configures a legacy-module export analysis run.
type ExportsRequest struct {
	Paths           []string     `json:"paths"`
	OutputFormat    OutputFormat `json:"output_format"`
	Environment     string       `json:"environment,omitempty"`
	Recursive       bool         `json:"recursive,omitempty"`
	IncludePatterns []string     `json:"include_patterns,omitempty"`
	ExcludePatterns []string     `json:"exclude_patterns,omitempty"`
}

// FileExports is the export surface recovered for a single source file.
type FileExports struct {
	FilePath  string   `json:"file_path"`
	Exports   []string `json:"exports"`
	Reexports []string `json:"reexports"`
}

// ExportsSummary aggregates export analysis statistics across all files.
type ExportsSummary struct {
	TotalFiles      int `json:"total_files"`
	FilesWithErrors int `json:"files_with_errors"`
	TotalNames      int `json:"total_names"`
	TotalReexports  int `json:"total_reexports"`
}

// ExportsResponse is the result of a legacy-module export analysis run.
type ExportsResponse struct {
	Files       []FileExports          `json:"files"`
	Summary     ExportsSummary         `json:"summary"`
	Warnings    []string               `json:"warnings,omitempty"`
	Errors      []string               `json:"errors,omitempty"`
	GeneratedAt string                 `json:"generated_at"`
	Version     string                 `json:"version"`
	Config      map[string]interface{} `json:"config,omitempty"`
}
