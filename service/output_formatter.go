package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/internal/version"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// FormatUtils provides formatting helper functions
type FormatUtils struct{}

// NewFormatUtils creates a new FormatUtils instance
func NewFormatUtils() *FormatUtils {
	return &FormatUtils{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ComplexityResponseJSON wraps ComplexityResponse with JSON metadata
type ComplexityResponseJSON struct {
	Version     string                      `json:"version"`
	GeneratedAt string                      `json:"generated_at"`
	DurationMs  int64                       `json:"duration_ms,omitempty"`
	Functions   []domain.FunctionComplexity `json:"functions"`
	Summary     domain.ComplexitySummary    `json:"summary"`
	Warnings    []string                    `json:"warnings,omitempty"`
	Errors      []string                    `json:"errors,omitempty"`
	Config      interface{}                 `json:"config,omitempty"`
}

// DeadCodeResponseJSON wraps DeadCodeResponse with JSON metadata
type DeadCodeResponseJSON struct {
	Version     string                 `json:"version"`
	GeneratedAt string                 `json:"generated_at"`
	DurationMs  int64                  `json:"duration_ms,omitempty"`
	Files       []domain.FileDeadCode  `json:"files"`
	Summary     domain.DeadCodeSummary `json:"summary"`
	Warnings    []string               `json:"warnings,omitempty"`
	Errors      []string               `json:"errors,omitempty"`
	Config      interface{}            `json:"config,omitempty"`
}

// CBOResponseJSON wraps CBOResponse with JSON metadata
type CBOResponseJSON struct {
	Version     string                 `json:"version"`
	GeneratedAt string                 `json:"generated_at"`
	DurationMs  int64                  `json:"duration_ms,omitempty"`
	Classes     []domain.ClassCoupling `json:"classes"`
	Summary     domain.CBOSummary      `json:"summary"`
	Warnings    []string               `json:"warnings,omitempty"`
	Errors      []string               `json:"errors,omitempty"`
	Config      interface{}            `json:"config,omitempty"`
}

// DepsResponseJSON wraps DependencyGraphResponse with JSON metadata
type DepsResponseJSON struct {
	Version     string                           `json:"version"`
	GeneratedAt string                           `json:"generated_at"`
	Graph       *domain.DependencyGraph          `json:"graph,omitempty"`
	Analysis    *domain.DependencyAnalysisResult `json:"analysis,omitempty"`
	Warnings    []string                         `json:"warnings,omitempty"`
	Errors      []string                         `json:"errors,omitempty"`
}

// ExportsResponseJSON wraps ExportsResponse with JSON metadata
type ExportsResponseJSON struct {
	Version     string                `json:"version"`
	GeneratedAt string                `json:"generated_at"`
	DurationMs  int64                 `json:"duration_ms,omitempty"`
	Files       []domain.FileExports  `json:"files"`
	Summary     domain.ExportsSummary `json:"summary"`
	Warnings    []string              `json:"warnings,omitempty"`
	Errors      []string              `json:"errors,omitempty"`
	Config      interface{}           `json:"config,omitempty"`
}

// AnalyzeResponseJSON represents the unified analysis response for JSON output
type AnalyzeResponseJSON struct {
	Version     string                  `json:"version"`
	GeneratedAt string                  `json:"generated_at"`
	DurationMs  int64                   `json:"duration_ms"`
	Complexity  *ComplexityResponseJSON `json:"complexity,omitempty"`
	DeadCode    *DeadCodeResponseJSON   `json:"dead_code,omitempty"`
	CBO         *CBOResponseJSON        `json:"cbo,omitempty"`
	Deps        *DepsResponseJSON       `json:"deps,omitempty"`
	Exports     *ExportsResponseJSON    `json:"exports,omitempty"`
	Summary     *domain.AnalyzeSummary  `json:"summary,omitempty"`
}

// Write writes the complexity response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.ComplexityResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeComplexityJSON(response, writer)
	case domain.OutputFormatText:
		return f.writeComplexityText(response, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteDeadCode writes the dead code response in the specified format
func (f *OutputFormatterImpl) WriteDeadCode(response *domain.DeadCodeResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeDeadCodeJSON(response, writer)
	case domain.OutputFormatText:
		return f.writeDeadCodeText(response, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteExports writes the exports analysis response in the specified format
func (f *OutputFormatterImpl) WriteExports(response *domain.ExportsResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeExportsJSON(response, writer)
	case domain.OutputFormatText:
		return f.writeExportsText(response, writer)
	case domain.OutputFormatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(2)
		return encoder.Encode(response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteAnalyze writes the unified analysis response in the specified format
func (f *OutputFormatterImpl) WriteAnalyze(
	complexityResponse *domain.ComplexityResponse,
	deadCodeResponse *domain.DeadCodeResponse,
	cboResponse *domain.CBOResponse,
	depsResponse *domain.DependencyGraphResponse,
	exportsResponse *domain.ExportsResponse,
	format domain.OutputFormat,
	writer io.Writer,
	duration time.Duration,
) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeAnalyzeJSON(complexityResponse, deadCodeResponse, cboResponse, depsResponse, exportsResponse, writer, duration)
	case domain.OutputFormatText:
		return f.writeAnalyzeText(complexityResponse, deadCodeResponse, cboResponse, depsResponse, exportsResponse, writer, duration)
	case domain.OutputFormatHTML:
		return f.WriteHTML(complexityResponse, deadCodeResponse, cboResponse, depsResponse, exportsResponse, writer, duration)
	case domain.OutputFormatYAML:
		return f.writeAnalyzeYAML(complexityResponse, deadCodeResponse, cboResponse, depsResponse, exportsResponse, writer, duration)
	case domain.OutputFormatCSV:
		return f.writeAnalyzeCSV(complexityResponse, deadCodeResponse, cboResponse, depsResponse, exportsResponse, writer, duration)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeComplexityJSON writes complexity response as JSON
func (f *OutputFormatterImpl) writeComplexityJSON(response *domain.ComplexityResponse, writer io.Writer) error {
	jsonResponse := ComplexityResponseJSON{
		Version:     version.Version,
		GeneratedAt: response.GeneratedAt,
		Functions:   response.Functions,
		Summary:     response.Summary,
		Warnings:    response.Warnings,
		Errors:      response.Errors,
		Config:      response.Config,
	}
	return WriteJSON(writer, jsonResponse)
}

// writeDeadCodeJSON writes dead code response as JSON
func (f *OutputFormatterImpl) writeDeadCodeJSON(response *domain.DeadCodeResponse, writer io.Writer) error {
	jsonResponse := DeadCodeResponseJSON{
		Version:     version.Version,
		GeneratedAt: response.GeneratedAt,
		Files:       response.Files,
		Summary:     response.Summary,
		Warnings:    response.Warnings,
		Errors:      response.Errors,
		Config:      response.Config,
	}
	return WriteJSON(writer, jsonResponse)
}

// writeExportsJSON writes exports response as JSON
func (f *OutputFormatterImpl) writeExportsJSON(response *domain.ExportsResponse, writer io.Writer) error {
	jsonResponse := ExportsResponseJSON{
		Version:     version.Version,
		GeneratedAt: response.GeneratedAt,
		Files:       response.Files,
		Summary:     response.Summary,
		Warnings:    response.Warnings,
		Errors:      response.Errors,
		Config:      response.Config,
	}
	return WriteJSON(writer, jsonResponse)
}

// writeExportsText writes exports response as plain text
func (f *OutputFormatterImpl) writeExportsText(response *domain.ExportsResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Export Analysis ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files checked: %d\n", response.Summary.TotalFiles)
	fmt.Fprintf(writer, "  Files with errors: %d\n", response.Summary.FilesWithErrors)
	fmt.Fprintf(writer, "  Total exported names: %d\n", response.Summary.TotalNames)
	fmt.Fprintf(writer, "  Total re-exports: %d\n", response.Summary.TotalReexports)
	fmt.Fprintf(writer, "\n")

	for _, file := range response.Files {
		fmt.Fprintf(writer, "%s:\n", file.FilePath)
		if len(file.Exports) == 0 && len(file.Reexports) == 0 {
			fmt.Fprintf(writer, "  (no named exports found)\n")
			continue
		}
		if len(file.Exports) > 0 {
			fmt.Fprintf(writer, "  exports: %v\n", file.Exports)
		}
		if len(file.Reexports) > 0 {
			fmt.Fprintf(writer, "  re-exports: %v\n", file.Reexports)
		}
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\nErrors:\n")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}

	return nil
}

// writeAnalyzeJSON writes unified analysis response as JSON
func (f *OutputFormatterImpl) writeAnalyzeJSON(
	complexityResponse *domain.ComplexityResponse,
	deadCodeResponse *domain.DeadCodeResponse,
	cboResponse *domain.CBOResponse,
	depsResponse *domain.DependencyGraphResponse,
	exportsResponse *domain.ExportsResponse,
	writer io.Writer,
	duration time.Duration,
) error {
	now := time.Now()

	response := AnalyzeResponseJSON{
		Version:     version.Version,
		GeneratedAt: now.Format(time.RFC3339),
		DurationMs:  duration.Milliseconds(),
	}

	if complexityResponse != nil {
		response.Complexity = &ComplexityResponseJSON{
			Version:     version.Version,
			GeneratedAt: complexityResponse.GeneratedAt,
			Functions:   complexityResponse.Functions,
			Summary:     complexityResponse.Summary,
			Warnings:    complexityResponse.Warnings,
			Errors:      complexityResponse.Errors,
			Config:      complexityResponse.Config,
		}
	}

	if deadCodeResponse != nil {
		response.DeadCode = &DeadCodeResponseJSON{
			Version:     version.Version,
			GeneratedAt: deadCodeResponse.GeneratedAt,
			Files:       deadCodeResponse.Files,
			Summary:     deadCodeResponse.Summary,
			Warnings:    deadCodeResponse.Warnings,
			Errors:      deadCodeResponse.Errors,
			Config:      deadCodeResponse.Config,
		}
	}

	if cboResponse != nil {
		response.CBO = &CBOResponseJSON{
			Version:     version.Version,
			GeneratedAt: cboResponse.GeneratedAt,
			Classes:     cboResponse.Classes,
			Summary:     cboResponse.Summary,
			Warnings:    cboResponse.Warnings,
			Errors:      cboResponse.Errors,
			Config:      cboResponse.Config,
		}
	}

	if depsResponse != nil {
		response.Deps = &DepsResponseJSON{
			Version:     version.Version,
			GeneratedAt: depsResponse.GeneratedAt,
			Graph:       depsResponse.Graph,
			Analysis:    depsResponse.Analysis,
			Warnings:    depsResponse.Warnings,
			Errors:      depsResponse.Errors,
		}
	}

	if exportsResponse != nil {
		response.Exports = &ExportsResponseJSON{
			Version:     version.Version,
			GeneratedAt: exportsResponse.GeneratedAt,
			Files:       exportsResponse.Files,
			Summary:     exportsResponse.Summary,
			Warnings:    exportsResponse.Warnings,
			Errors:      exportsResponse.Errors,
			Config:      exportsResponse.Config,
		}
	}

	response.Summary = domain.BuildAnalyzeSummary(complexityResponse, deadCodeResponse, cboResponse, depsResponse, exportsResponse)

	return WriteJSON(writer, response)
}

// writeComplexityText writes complexity response as plain text
func (f *OutputFormatterImpl) writeComplexityText(response *domain.ComplexityResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Complexity Analysis ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d\n", response.Summary.FilesAnalyzed)
	fmt.Fprintf(writer, "  Total functions: %d\n", response.Summary.TotalFunctions)
	fmt.Fprintf(writer, "  Average complexity: %.2f\n", response.Summary.AverageComplexity)
	fmt.Fprintf(writer, "  Max complexity: %d\n", response.Summary.MaxComplexity)
	fmt.Fprintf(writer, "  Min complexity: %d\n", response.Summary.MinComplexity)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "Risk Distribution:\n")
	fmt.Fprintf(writer, "  High risk: %d\n", response.Summary.HighRiskFunctions)
	fmt.Fprintf(writer, "  Medium risk: %d\n", response.Summary.MediumRiskFunctions)
	fmt.Fprintf(writer, "  Low risk: %d\n", response.Summary.LowRiskFunctions)
	fmt.Fprintf(writer, "\n")

	if len(response.Functions) > 0 {
		fmt.Fprintf(writer, "Functions (sorted by complexity):\n")
		for _, fn := range response.Functions {
			riskIndicator := ""
			switch fn.RiskLevel {
			case domain.RiskLevelHigh:
				riskIndicator = " [HIGH]"
			case domain.RiskLevelMedium:
				riskIndicator = " [MEDIUM]"
			}
			fmt.Fprintf(writer, "  %s: %d%s\n", fn.Name, fn.Metrics.Complexity, riskIndicator)
			fmt.Fprintf(writer, "    File: %s:%d-%d\n", fn.FilePath, fn.StartLine, fn.EndLine)
		}
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\nErrors:\n")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}

	return nil
}

// writeDeadCodeText writes dead code response as plain text
func (f *OutputFormatterImpl) writeDeadCodeText(response *domain.DeadCodeResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Dead Code Analysis ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Total files: %d\n", response.Summary.TotalFiles)
	fmt.Fprintf(writer, "  Total functions: %d\n", response.Summary.TotalFunctions)
	fmt.Fprintf(writer, "  Total findings: %d\n", response.Summary.TotalFindings)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "Severity Distribution:\n")
	fmt.Fprintf(writer, "  Critical: %d\n", response.Summary.CriticalFindings)
	fmt.Fprintf(writer, "  Warning: %d\n", response.Summary.WarningFindings)
	fmt.Fprintf(writer, "  Info: %d\n", response.Summary.InfoFindings)
	fmt.Fprintf(writer, "\n")

	for _, file := range response.Files {
		if file.TotalFindings > 0 {
			fmt.Fprintf(writer, "%s:\n", file.FilePath)
			for _, fn := range file.Functions {
				if len(fn.Findings) > 0 {
					fmt.Fprintf(writer, "  %s:\n", fn.Name)
					for _, finding := range fn.Findings {
						severityIndicator := ""
						switch finding.Severity {
						case domain.DeadCodeSeverityCritical:
							severityIndicator = " [CRITICAL]"
						case domain.DeadCodeSeverityWarning:
							severityIndicator = " [WARNING]"
						case domain.DeadCodeSeverityInfo:
							severityIndicator = " [INFO]"
						}
						fmt.Fprintf(writer, "    Line %d-%d: %s%s\n",
							finding.Location.StartLine, finding.Location.EndLine,
							finding.Reason, severityIndicator)
						if finding.Description != "" {
							fmt.Fprintf(writer, "      %s\n", finding.Description)
						}
					}
				}
			}
		}
	}

	if response.Summary.TotalFindings == 0 {
		fmt.Fprintf(writer, "No dead code found.\n")
	}

	return nil
}

// writeAnalyzeText writes unified analysis response as plain text
func (f *OutputFormatterImpl) writeAnalyzeText(
	complexityResponse *domain.ComplexityResponse,
	deadCodeResponse *domain.DeadCodeResponse,
	cboResponse *domain.CBOResponse,
	depsResponse *domain.DependencyGraphResponse,
	exportsResponse *domain.ExportsResponse,
	writer io.Writer,
	duration time.Duration,
) error {
	fmt.Fprintf(writer, "\n=== jscan Analysis Report ===\n")
	fmt.Fprintf(writer, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(writer, "Duration: %dms\n", duration.Milliseconds())
	fmt.Fprintf(writer, "Version: %s\n\n", version.Version)

	if complexityResponse != nil {
		if err := f.writeComplexityText(complexityResponse, writer); err != nil {
			return err
		}
	}

	if deadCodeResponse != nil {
		if err := f.writeDeadCodeText(deadCodeResponse, writer); err != nil {
			return err
		}
	}

	if cboResponse != nil {
		if err := f.writeCBOText(cboResponse, writer); err != nil {
			return err
		}
	}

	if depsResponse != nil {
		if err := f.writeDepsText(depsResponse, writer); err != nil {
			return err
		}
	}

	if exportsResponse != nil {
		if err := f.writeExportsText(exportsResponse, writer); err != nil {
			return err
		}
	}

	summary := domain.BuildAnalyzeSummary(complexityResponse, deadCodeResponse, cboResponse, depsResponse, exportsResponse)

	fmt.Fprintf(writer, "\n=== Health Score ===\n\n")
	fmt.Fprintf(writer, "Overall: %d/100 (Grade: %s)\n\n", summary.HealthScore, summary.Grade)
	fmt.Fprintf(writer, "Category Scores:\n")
	fmt.Fprintf(writer, "  Complexity:   %3d/100\n", summary.ComplexityScore)
	fmt.Fprintf(writer, "  Dead Code:    %3d/100\n", summary.DeadCodeScore)
	fmt.Fprintf(writer, "  Coupling:     %3d/100\n", summary.CouplingScore)
	fmt.Fprintf(writer, "  Dependencies: %3d/100\n", summary.DependencyScore)

	return nil
}

// writeDepsText writes dependency analysis results as plain text
func (f *OutputFormatterImpl) writeDepsText(response *domain.DependencyGraphResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Dependency Analysis ===\n\n")

	if response.Graph != nil {
		fmt.Fprintf(writer, "Summary:\n")
		fmt.Fprintf(writer, "  Total modules: %d\n", response.Graph.NodeCount())
		fmt.Fprintf(writer, "  Total dependencies: %d\n", response.Graph.EdgeCount())
	}

	if response.Analysis != nil {
		fmt.Fprintf(writer, "  Entry points: %d\n", len(response.Analysis.RootModules))
		fmt.Fprintf(writer, "  Leaf modules: %d\n", len(response.Analysis.LeafModules))
		fmt.Fprintf(writer, "  Max depth: %d\n", response.Analysis.MaxDepth)

		if response.Analysis.CircularDependencies != nil && response.Analysis.CircularDependencies.HasCircularDependencies {
			cd := response.Analysis.CircularDependencies
			fmt.Fprintf(writer, "\nCircular Dependencies:\n")
			fmt.Fprintf(writer, "  Cycles found: %d\n", cd.TotalCycles)
			fmt.Fprintf(writer, "  Modules in cycles: %d\n", cd.TotalModulesInCycles)

			for i, cycle := range cd.CircularDependencies {
				if i >= 5 {
					fmt.Fprintf(writer, "  ... and %d more cycles\n", len(cd.CircularDependencies)-5)
					break
				}
				fmt.Fprintf(writer, "  Cycle %d [%s]: %v\n", i+1, cycle.Severity, cycle.Modules)
			}
		} else {
			fmt.Fprintf(writer, "\nNo circular dependencies detected.\n")
		}
	}

	return nil
}

// writeCBOText writes CBO analysis results as plain text
func (f *OutputFormatterImpl) writeCBOText(response *domain.CBOResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== CBO Analysis ===\n\n")

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Total classes: %d\n", response.Summary.TotalClasses)
	fmt.Fprintf(writer, "  Average CBO: %.2f\n", response.Summary.AverageCBO)
	fmt.Fprintf(writer, "  Max CBO: %d\n", response.Summary.MaxCBO)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "Risk Distribution:\n")
	fmt.Fprintf(writer, "  High risk: %d\n", response.Summary.HighRiskClasses)
	fmt.Fprintf(writer, "  Medium risk: %d\n", response.Summary.MediumRiskClasses)
	fmt.Fprintf(writer, "  Low risk: %d\n", response.Summary.LowRiskClasses)
	fmt.Fprintf(writer, "\n")

	if len(response.Summary.MostCoupledClasses) > 0 {
		fmt.Fprintf(writer, "Most Coupled Classes:\n")
		for _, class := range response.Summary.MostCoupledClasses {
			fmt.Fprintf(writer, "  %s: CBO=%d [%s]\n",
				class.Name, class.Metrics.CouplingCount, class.RiskLevel)
		}
	} else if len(response.Classes) == 0 {
		fmt.Fprintf(writer, "No classes found for CBO analysis.\n")
	}

	return nil
}

// writeAnalyzeYAML writes unified analysis response as YAML
func (f *OutputFormatterImpl) writeAnalyzeYAML(
	complexityResponse *domain.ComplexityResponse,
	deadCodeResponse *domain.DeadCodeResponse,
	cboResponse *domain.CBOResponse,
	depsResponse *domain.DependencyGraphResponse,
	exportsResponse *domain.ExportsResponse,
	writer io.Writer,
	duration time.Duration,
) error {
	now := time.Now()

	response := AnalyzeResponseJSON{
		Version:     version.Version,
		GeneratedAt: now.Format(time.RFC3339),
		DurationMs:  duration.Milliseconds(),
	}

	if complexityResponse != nil {
		response.Complexity = &ComplexityResponseJSON{
			Version:     version.Version,
			GeneratedAt: complexityResponse.GeneratedAt,
			Functions:   complexityResponse.Functions,
			Summary:     complexityResponse.Summary,
			Warnings:    complexityResponse.Warnings,
			Errors:      complexityResponse.Errors,
			Config:      complexityResponse.Config,
		}
	}

	if deadCodeResponse != nil {
		response.DeadCode = &DeadCodeResponseJSON{
			Version:     version.Version,
			GeneratedAt: deadCodeResponse.GeneratedAt,
			Files:       deadCodeResponse.Files,
			Summary:     deadCodeResponse.Summary,
			Warnings:    deadCodeResponse.Warnings,
			Errors:      deadCodeResponse.Errors,
			Config:      deadCodeResponse.Config,
		}
	}

	if cboResponse != nil {
		response.CBO = &CBOResponseJSON{
			Version:     version.Version,
			GeneratedAt: cboResponse.GeneratedAt,
			Classes:     cboResponse.Classes,
			Summary:     cboResponse.Summary,
			Warnings:    cboResponse.Warnings,
			Errors:      cboResponse.Errors,
			Config:      cboResponse.Config,
		}
	}

	if depsResponse != nil {
		response.Deps = &DepsResponseJSON{
			Version:     version.Version,
			GeneratedAt: depsResponse.GeneratedAt,
			Graph:       depsResponse.Graph,
			Analysis:    depsResponse.Analysis,
			Warnings:    depsResponse.Warnings,
			Errors:      depsResponse.Errors,
		}
	}

	if exportsResponse != nil {
		response.Exports = &ExportsResponseJSON{
			Version:     version.Version,
			GeneratedAt: exportsResponse.GeneratedAt,
			Files:       exportsResponse.Files,
			Summary:     exportsResponse.Summary,
			Warnings:    exportsResponse.Warnings,
			Errors:      exportsResponse.Errors,
			Config:      exportsResponse.Config,
		}
	}

	response.Summary = domain.BuildAnalyzeSummary(complexityResponse, deadCodeResponse, cboResponse, depsResponse, exportsResponse)

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// writeAnalyzeCSV writes unified analysis response as CSV
func (f *OutputFormatterImpl) writeAnalyzeCSV(
	complexityResponse *domain.ComplexityResponse,
	deadCodeResponse *domain.DeadCodeResponse,
	cboResponse *domain.CBOResponse,
	depsResponse *domain.DependencyGraphResponse,
	exportsResponse *domain.ExportsResponse,
	writer io.Writer,
	duration time.Duration,
) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	needsSeparator := false

	if complexityResponse != nil {
		if err := csvWriter.Write([]string{
			"type", "file", "function", "start_line", "end_line",
			"complexity", "risk_level", "nodes", "edges",
		}); err != nil {
			return err
		}

		for _, fn := range complexityResponse.Functions {
			record := []string{
				"complexity",
				fn.FilePath,
				fn.Name,
				strconv.Itoa(fn.StartLine),
				strconv.Itoa(fn.EndLine),
				strconv.Itoa(fn.Metrics.Complexity),
				string(fn.RiskLevel),
				strconv.Itoa(fn.Metrics.Nodes),
				strconv.Itoa(fn.Metrics.Edges),
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
		needsSeparator = true
	}

	if deadCodeResponse != nil {
		if needsSeparator {
			if err := csvWriter.Write([]string{}); err != nil {
				return err
			}
		}
		if err := csvWriter.Write([]string{
			"type", "file", "function", "start_line", "end_line",
			"severity", "reason", "description",
		}); err != nil {
			return err
		}

		for _, file := range deadCodeResponse.Files {
			for _, fn := range file.Functions {
				for _, finding := range fn.Findings {
					record := []string{
						"dead_code",
						finding.Location.FilePath,
						finding.FunctionName,
						strconv.Itoa(finding.Location.StartLine),
						strconv.Itoa(finding.Location.EndLine),
						string(finding.Severity),
						finding.Reason,
						finding.Description,
					}
					if err := csvWriter.Write(record); err != nil {
						return err
					}
				}
			}
		}
		needsSeparator = true
	}

	if cboResponse != nil && len(cboResponse.Classes) > 0 {
		if needsSeparator {
			if err := csvWriter.Write([]string{}); err != nil {
				return err
			}
		}
		if err := csvWriter.Write([]string{
			"type", "class", "file", "cbo", "risk_level",
		}); err != nil {
			return err
		}

		for _, class := range cboResponse.Classes {
			record := []string{
				"cbo",
				class.Name,
				class.FilePath,
				strconv.Itoa(class.Metrics.CouplingCount),
				string(class.RiskLevel),
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
		needsSeparator = true
	}

	if depsResponse != nil && depsResponse.Graph != nil {
		if needsSeparator {
			if err := csvWriter.Write([]string{}); err != nil {
				return err
			}
		}
		if err := csvWriter.Write([]string{
			"type", "from", "to", "edge_type", "weight",
		}); err != nil {
			return err
		}

		fromIDs := make([]string, 0, len(depsResponse.Graph.Edges))
		for from := range depsResponse.Graph.Edges {
			fromIDs = append(fromIDs, from)
		}
		sort.Strings(fromIDs)

		for _, from := range fromIDs {
			edges := append([]*domain.DependencyEdge(nil), depsResponse.Graph.Edges[from]...)
			sort.Slice(edges, func(i, j int) bool {
				if edges[i].To == edges[j].To {
					return edges[i].EdgeType < edges[j].EdgeType
				}
				return edges[i].To < edges[j].To
			})

			for _, edge := range edges {
				record := []string{
					"deps",
					edge.From,
					edge.To,
					string(edge.EdgeType),
					strconv.Itoa(edge.Weight),
				}
				if err := csvWriter.Write(record); err != nil {
					return err
				}
			}
		}
		needsSeparator = true
	}

	if exportsResponse != nil && len(exportsResponse.Files) > 0 {
		if needsSeparator {
			if err := csvWriter.Write([]string{}); err != nil {
				return err
			}
		}
		if err := csvWriter.Write([]string{
			"type", "file", "name", "kind",
		}); err != nil {
			return err
		}

		for _, file := range exportsResponse.Files {
			for _, name := range file.Exports {
				record := []string{"exports", file.FilePath, name, "export"}
				if err := csvWriter.Write(record); err != nil {
					return err
				}
			}
			for _, name := range file.Reexports {
				record := []string{"exports", file.FilePath, name, "reexport"}
				if err := csvWriter.Write(record); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// WriteDependencyGraph writes the dependency graph response in the specified format
func (f *OutputFormatterImpl) WriteDependencyGraph(response *domain.DependencyGraphResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeDependencyGraphJSON(response, writer)
	case domain.OutputFormatText:
		return f.writeDependencyGraphText(response, writer)
	case domain.OutputFormatDOT:
		dotFormatter := NewDOTFormatter(nil)
		return dotFormatter.WriteDependencyGraph(response, writer)
	default:
		return fmt.Errorf("unsupported output format for dependency graph: %s", format)
	}
}

// writeDependencyGraphJSON writes dependency graph as JSON
func (f *OutputFormatterImpl) writeDependencyGraphJSON(response *domain.DependencyGraphResponse, writer io.Writer) error {
	return WriteJSON(writer, response)
}

// writeDependencyGraphText writes dependency graph as plain text
func (f *OutputFormatterImpl) writeDependencyGraphText(response *domain.DependencyGraphResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Dependency Graph Analysis ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	if response.Graph == nil {
		fmt.Fprintln(writer, "No graph data available.")
		return nil
	}

	graph := response.Graph
	analysis := response.Analysis

	fmt.Fprintln(writer, "Summary:")
	fmt.Fprintf(writer, "  Total modules: %d\n", graph.NodeCount())
	fmt.Fprintf(writer, "  Total dependencies: %d\n", graph.EdgeCount())

	if analysis != nil {
		fmt.Fprintf(writer, "  Root modules (entry points): %d\n", len(analysis.RootModules))
		fmt.Fprintf(writer, "  Leaf modules (no dependencies): %d\n", len(analysis.LeafModules))
		fmt.Fprintf(writer, "  Max depth: %d\n", analysis.MaxDepth)
	}
	fmt.Fprintln(writer)

	if analysis != nil && analysis.CircularDependencies != nil && analysis.CircularDependencies.HasCircularDependencies {
		cd := analysis.CircularDependencies
		fmt.Fprintln(writer, "Circular Dependencies:")
		fmt.Fprintf(writer, "  Total cycles: %d\n", cd.TotalCycles)
		fmt.Fprintf(writer, "  Modules in cycles: %d\n", cd.TotalModulesInCycles)
		fmt.Fprintln(writer)

		for i, cycle := range cd.CircularDependencies {
			fmt.Fprintf(writer, "  Cycle %d [%s]:\n", i+1, cycle.Severity)
			for _, mod := range cycle.Modules {
				fmt.Fprintf(writer, "    - %s\n", mod)
			}
		}
		fmt.Fprintln(writer)
	}

	if analysis != nil && analysis.CouplingAnalysis != nil {
		ca := analysis.CouplingAnalysis
		fmt.Fprintln(writer, "Coupling Analysis:")
		fmt.Fprintf(writer, "  Average coupling: %.2f\n", ca.AverageCoupling)
		fmt.Fprintf(writer, "  Average instability: %.2f\n", ca.AverageInstability)
		fmt.Fprintf(writer, "  Highly coupled modules: %d\n", len(ca.HighlyCoupledModules))
		fmt.Fprintf(writer, "  Stable modules: %d\n", len(ca.StableModules))
		fmt.Fprintln(writer)
	}

	if analysis != nil && len(analysis.RootModules) > 0 {
		fmt.Fprintln(writer, "Entry Points:")
		for _, mod := range analysis.RootModules {
			fmt.Fprintf(writer, "  - %s\n", mod)
		}
		fmt.Fprintln(writer)
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintln(writer, "Warnings:")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
		fmt.Fprintln(writer)
	}

	if len(response.Errors) > 0 {
		fmt.Fprintln(writer, "Errors:")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
		fmt.Fprintln(writer)
	}

	return nil
}
