package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ludo-technologies/jscan/internal/config"
	"gopkg.in/yaml.v3"
)

// ComplexityResult is the minimal view of a function's complexity a
// ComplexityReporter needs; callers adapt their own result types to it rather
// than the reporter depending on any specific analyzer type.
type ComplexityResult interface {
	GetComplexity() int
	GetFunctionName() string
	GetRiskLevel() string
	GetDetailedMetrics() map[string]int
}

// SerializableComplexityResult is the flattened, marshalable form of a
// ComplexityResult used inside a ComplexityReport.
type SerializableComplexityResult struct {
	FunctionName      string `json:"function_name" yaml:"function_name"`
	Complexity        int    `json:"complexity" yaml:"complexity"`
	RiskLevel         string `json:"risk_level" yaml:"risk_level"`
	Nodes             int    `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges             int    `json:"edges,omitempty" yaml:"edges,omitempty"`
	IfStatements      int    `json:"if_statements,omitempty" yaml:"if_statements,omitempty"`
	LoopStatements     int    `json:"loop_statements,omitempty" yaml:"loop_statements,omitempty"`
	ExceptionHandlers int    `json:"exception_handlers,omitempty" yaml:"exception_handlers,omitempty"`
	SwitchCases       int    `json:"switch_cases,omitempty" yaml:"switch_cases,omitempty"`
}

// RiskDistribution counts results by risk bucket.
type RiskDistribution struct {
	Low    int `json:"low" yaml:"low"`
	Medium int `json:"medium" yaml:"medium"`
	High   int `json:"high" yaml:"high"`
}

// ReportSummary aggregates statistics across every reported function.
type ReportSummary struct {
	TotalFunctions         int            `json:"total_functions" yaml:"total_functions"`
	AverageComplexity      float64        `json:"average_complexity" yaml:"average_complexity"`
	MaxComplexity          int            `json:"max_complexity" yaml:"max_complexity"`
	MinComplexity          int            `json:"min_complexity" yaml:"min_complexity"`
	RiskDistribution       RiskDistribution `json:"risk_distribution" yaml:"risk_distribution"`
	ComplexityDistribution map[string]int `json:"complexity_distribution" yaml:"complexity_distribution"`
}

// ReportMetadata carries run-level information not tied to any one function.
type ReportMetadata struct {
	FilesAnalyzed int `json:"files_analyzed" yaml:"files_analyzed"`
}

// ReportWarning flags a function that crossed a configured complexity bound.
type ReportWarning struct {
	Type         string `json:"type" yaml:"type"`
	Message      string `json:"message" yaml:"message"`
	FunctionName string `json:"function_name" yaml:"function_name"`
	Complexity   int    `json:"complexity" yaml:"complexity"`
}

// ComplexityReport is the full, format-independent result of a complexity
// analysis run, ready to be rendered as JSON, YAML, CSV or text.
type ComplexityReport struct {
	Summary  ReportSummary                  `json:"summary" yaml:"summary"`
	Metadata ReportMetadata                 `json:"metadata" yaml:"metadata"`
	Results  []SerializableComplexityResult `json:"results" yaml:"results"`
	Warnings []ReportWarning                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ComplexityReporter renders complexity analysis results to a writer in the
// format and filtering/sorting order selected by configuration.
type ComplexityReporter struct {
	cfg    *config.Config
	writer io.Writer
}

// NewComplexityReporter validates cfg and wraps writer into a ComplexityReporter.
func NewComplexityReporter(cfg *config.Config, writer io.Writer) (*ComplexityReporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &ComplexityReporter{cfg: cfg, writer: writer}, nil
}

// GetWriter returns the writer this reporter writes to.
func (r *ComplexityReporter) GetWriter() io.Writer {
	return r.writer
}

// GenerateReport builds a ComplexityReport from results, after filtering and
// sorting according to the reporter's configuration. filesAnalyzed is
// reported as-is in the metadata section.
func (r *ComplexityReporter) GenerateReport(results []ComplexityResult, filesAnalyzed int) *ComplexityReport {
	filtered := r.filterAndSortResults(results)

	report := &ComplexityReport{
		Metadata: ReportMetadata{FilesAnalyzed: filesAnalyzed},
		Results:  make([]SerializableComplexityResult, 0, len(filtered)),
	}

	riskDist := RiskDistribution{}
	complexityDist := map[string]int{}
	total, sum, min, max := 0, 0, 0, 0

	for i, res := range filtered {
		c := res.GetComplexity()
		metrics := res.GetDetailedMetrics()

		report.Results = append(report.Results, SerializableComplexityResult{
			FunctionName:      res.GetFunctionName(),
			Complexity:        c,
			RiskLevel:         res.GetRiskLevel(),
			Nodes:             metrics["nodes"],
			Edges:             metrics["edges"],
			IfStatements:      metrics["if_statements"],
			LoopStatements:    metrics["loop_statements"],
			ExceptionHandlers: metrics["exception_handlers"],
			SwitchCases:       metrics["switch_cases"],
		})

		total++
		sum += c
		if i == 0 || c < min {
			min = c
		}
		if i == 0 || c > max {
			max = c
		}

		switch res.GetRiskLevel() {
		case "low":
			riskDist.Low++
		case "medium":
			riskDist.Medium++
		case "high":
			riskDist.High++
		}
		complexityDist[complexityBucket(c)]++

		if r.cfg.Complexity.MaxComplexity > 0 && c > r.cfg.Complexity.MaxComplexity {
			report.Warnings = append(report.Warnings, ReportWarning{
				Type:         "max_complexity_exceeded",
				Message:      fmt.Sprintf("%s exceeds maximum allowed complexity of %d", res.GetFunctionName(), r.cfg.Complexity.MaxComplexity),
				FunctionName: res.GetFunctionName(),
				Complexity:   c,
			})
		}
		if res.GetRiskLevel() == "high" {
			report.Warnings = append(report.Warnings, ReportWarning{
				Type:         "high_complexity",
				Message:      fmt.Sprintf("%s has high complexity (%d)", res.GetFunctionName(), c),
				FunctionName: res.GetFunctionName(),
				Complexity:   c,
			})
		}
	}

	avg := 0.0
	if total > 0 {
		avg = float64(sum) / float64(total)
	}

	report.Summary = ReportSummary{
		TotalFunctions:          total,
		AverageComplexity:       avg,
		MaxComplexity:           max,
		MinComplexity:           min,
		RiskDistribution:        riskDist,
		ComplexityDistribution:  complexityDist,
	}

	return report
}

func complexityBucket(c int) string {
	switch {
	case c <= 1:
		return "1"
	case c <= 5:
		return "2-5"
	case c <= 10:
		return "6-10"
	case c <= 20:
		return "11-20"
	default:
		return "21+"
	}
}

// ReportComplexity generates and writes a complexity report using the
// configured output format (json, yaml, csv, text).
func (r *ComplexityReporter) ReportComplexity(results []ComplexityResult) error {
	return r.ReportComplexityWithFileCount(results, 0)
}

// ReportComplexityWithFileCount is ReportComplexity with an explicit
// files-analyzed count, for callers that already know how many files ran.
func (r *ComplexityReporter) ReportComplexityWithFileCount(results []ComplexityResult, filesAnalyzed int) error {
	report := r.GenerateReport(results, filesAnalyzed)

	switch strings.ToLower(r.cfg.Output.Format) {
	case "json":
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml report: %w", err)
		}
		_, err = r.writer.Write(data)
		return err
	case "csv":
		return r.writeCSV(report)
	default:
		return r.writeText(report)
	}
}

func (r *ComplexityReporter) writeCSV(report *ComplexityReport) error {
	w := csv.NewWriter(r.writer)
	defer w.Flush()

	if err := w.Write([]string{"Function", "Complexity", "RiskLevel", "Nodes", "Edges"}); err != nil {
		return err
	}
	for _, res := range report.Results {
		row := []string{
			res.FunctionName,
			strconv.Itoa(res.Complexity),
			res.RiskLevel,
			strconv.Itoa(res.Nodes),
			strconv.Itoa(res.Edges),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func (r *ComplexityReporter) writeText(report *ComplexityReport) error {
	var b strings.Builder

	b.WriteString("Complexity Analysis Report\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	b.WriteString("Summary\n")
	b.WriteString(fmt.Sprintf("  Total Functions: %d\n", report.Summary.TotalFunctions))
	b.WriteString(fmt.Sprintf("  Average Complexity: %.2f\n", report.Summary.AverageComplexity))
	b.WriteString(fmt.Sprintf("  Min Complexity: %d\n", report.Summary.MinComplexity))
	b.WriteString(fmt.Sprintf("  Max Complexity: %d\n", report.Summary.MaxComplexity))
	b.WriteString(fmt.Sprintf("  Risk: low=%d medium=%d high=%d\n\n",
		report.Summary.RiskDistribution.Low, report.Summary.RiskDistribution.Medium, report.Summary.RiskDistribution.High))

	for _, res := range report.Results {
		color := r.getRiskColor(res.RiskLevel)
		reset := "\033[0m"
		b.WriteString(fmt.Sprintf("%s%s%s: complexity=%d risk=%s\n", color, res.FunctionName, reset, res.Complexity, res.RiskLevel))
		if r.cfg.Output.ShowDetails {
			b.WriteString(fmt.Sprintf("    Nodes: %d  Edges: %d  If: %d  Loops: %d  Exceptions: %d  Switches: %d\n",
				res.Nodes, res.Edges, res.IfStatements, res.LoopStatements, res.ExceptionHandlers, res.SwitchCases))
		}
	}

	if len(report.Warnings) > 0 {
		b.WriteString("\nWarnings\n")
		for _, w := range report.Warnings {
			b.WriteString(fmt.Sprintf("  [%s] %s\n", w.Type, w.Message))
		}
	}

	_, err := r.writer.Write([]byte(b.String()))
	return err
}

// filterAndSortResults applies the configured minimum-complexity filter and
// sort order (name, complexity, or risk; default leaves input order intact).
func (r *ComplexityReporter) filterAndSortResults(results []ComplexityResult) []ComplexityResult {
	filtered := make([]ComplexityResult, 0, len(results))
	for _, res := range results {
		if res.GetComplexity() >= r.cfg.Output.MinComplexity {
			filtered = append(filtered, res)
		}
	}

	switch r.cfg.Output.SortBy {
	case "complexity":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].GetComplexity() > filtered[j].GetComplexity()
		})
	case "risk":
		sort.SliceStable(filtered, func(i, j int) bool {
			return r.compareRiskLevel(filtered[i].GetRiskLevel(), filtered[j].GetRiskLevel())
		})
	case "name":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].GetFunctionName() < filtered[j].GetFunctionName()
		})
	}

	return filtered
}

var riskRank = map[string]int{"high": 2, "medium": 1, "low": 0}

// compareRiskLevel reports whether a outranks b in risk severity.
func (r *ComplexityReporter) compareRiskLevel(a, b string) bool {
	return riskRank[a] > riskRank[b]
}

func (r *ComplexityReporter) getRiskColor(risk string) string {
	switch risk {
	case "high":
		return "\033[31m"
	case "medium":
		return "\033[33m"
	case "low":
		return "\033[32m"
	default:
		return "\033[0m"
	}
}

// FormatComplexityBrief renders a one-line summary of results, suitable for
// a progress indicator or log line rather than a full report.
func FormatComplexityBrief(results []ComplexityResult) string {
	if len(results) == 0 {
		return "No functions analyzed"
	}

	sum, max, high := 0, 0, 0
	for _, res := range results {
		c := res.GetComplexity()
		sum += c
		if c > max {
			max = c
		}
		if res.GetRiskLevel() == "high" {
			high++
		}
	}
	avg := float64(sum) / float64(len(results))

	return fmt.Sprintf("%d functions analyzed, Avg: %.1f, Max: %d, High Risk: %d", len(results), avg, max, high)
}
