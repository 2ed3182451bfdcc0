package domain

import (
	"math"
	"time"
)

// MaxCyclesPenalty caps how much circular dependency findings can drag down
// the dependency health score.
const MaxCyclesPenalty = 10

// MaxMSDPenalty caps the penalty contributed by main sequence deviation.
const MaxMSDPenalty = 25

// MaxDepthPenalty caps the penalty contributed by excessive dependency depth.
const MaxDepthPenalty = 10

// AnalyzeResponse is the top-level result of a combined analysis run,
// bundling whichever sub-analyses were requested with the aggregate summary.
type AnalyzeResponse struct {
	Complexity  *ComplexityResponse `json:"complexity,omitempty"`
	DeadCode    *DeadCodeResponse   `json:"dead_code,omitempty"`
	Summary     AnalyzeSummary      `json:"summary"`
	GeneratedAt time.Time           `json:"generated_at"`
	Duration    int64               `json:"duration_ms"`
	Version     string              `json:"version"`
}

// AnalyzeSummary aggregates the results of a combined analysis run (complexity,
// dead code, coupling, dependencies, exports) into a single health report.
type AnalyzeSummary struct {
	// Complexity
	ComplexityEnabled   bool    `json:"complexity_enabled"`
	TotalFunctions      int     `json:"total_functions,omitempty"`
	AverageComplexity   float64 `json:"average_complexity,omitempty"`
	HighComplexityCount int     `json:"high_complexity_count,omitempty"`
	AnalyzedFiles       int     `json:"analyzed_files,omitempty"`

	// Dead code
	DeadCodeEnabled  bool `json:"dead_code_enabled"`
	DeadCodeCount    int  `json:"dead_code_count,omitempty"`
	CriticalDeadCode int  `json:"critical_dead_code,omitempty"`
	WarningDeadCode  int  `json:"warning_dead_code,omitempty"`
	InfoDeadCode     int  `json:"info_dead_code,omitempty"`
	TotalFiles       int  `json:"total_files,omitempty"`

	// CBO / coupling
	CBOEnabled            bool    `json:"cbo_enabled"`
	CBOClasses            int     `json:"cbo_classes,omitempty"`
	HighCouplingClasses   int     `json:"high_coupling_classes,omitempty"`
	MediumCouplingClasses int     `json:"medium_coupling_classes,omitempty"`
	AverageCoupling       float64 `json:"average_coupling,omitempty"`

	// Dependency graph
	DepsEnabled               bool    `json:"deps_enabled"`
	DepsTotalModules          int     `json:"deps_total_modules,omitempty"`
	DepsModulesInCycles       int     `json:"deps_modules_in_cycles,omitempty"`
	DepsMaxDepth              int     `json:"deps_max_depth,omitempty"`
	DepsMainSequenceDeviation float64 `json:"deps_main_sequence_deviation,omitempty"`

	// Exports (legacy-module export analysis)
	ExportsEnabled      bool `json:"exports_enabled"`
	ExportsFilesChecked int  `json:"exports_files_checked,omitempty"`
	ExportsTotalNames   int  `json:"exports_total_names,omitempty"`
	ExportsTotalReexports int `json:"exports_total_reexports,omitempty"`

	// Derived category scores (0-100)
	ComplexityScore int `json:"complexity_score"`
	DeadCodeScore   int `json:"dead_code_score"`
	CouplingScore   int `json:"coupling_score"`
	DependencyScore int `json:"dependency_score"`

	// Overall
	HealthScore int    `json:"health_score"`
	Grade       string `json:"grade"`
}

// CalculateHealthScore derives per-category scores from the raw counters and
// combines the enabled categories into an overall weighted health score.
func (s *AnalyzeSummary) CalculateHealthScore() error {
	s.ComplexityScore = 100
	s.DeadCodeScore = 100
	s.CouplingScore = 100
	s.DependencyScore = 100

	if s.ComplexityEnabled {
		penalty := s.HighComplexityCount * 5
		if s.AverageComplexity > 10 {
			penalty += int(math.Round((s.AverageComplexity - 10) * 2))
		}
		s.ComplexityScore = clampScore(100 - penalty)
	}

	if s.DeadCodeEnabled {
		penalty := s.CriticalDeadCode*10 + s.WarningDeadCode*3 + s.InfoDeadCode
		s.DeadCodeScore = clampScore(100 - penalty)
	}

	if s.CBOEnabled {
		penalty := s.HighCouplingClasses*8 + s.MediumCouplingClasses*2
		s.CouplingScore = clampScore(100 - penalty)
	}

	if s.DepsEnabled {
		penalty := 0.0

		if s.DepsModulesInCycles > 0 {
			total := s.DepsTotalModules
			if total <= 0 {
				total = s.DepsModulesInCycles
			}
			ratio := float64(s.DepsModulesInCycles) / float64(total)
			if ratio > 1 {
				ratio = 1
			}
			proportional := float64(MaxCyclesPenalty) * ratio
			logFloor := math.Log2(float64(s.DepsModulesInCycles) + 1)
			penalty += math.Min(float64(MaxCyclesPenalty), math.Max(logFloor, proportional))
		}

		if s.DepsMainSequenceDeviation > 0 {
			penalty += math.Min(float64(MaxMSDPenalty), float64(MaxMSDPenalty)*s.DepsMainSequenceDeviation)
		}

		if s.DepsMaxDepth > 10 {
			penalty += math.Min(float64(MaxDepthPenalty), float64(s.DepsMaxDepth-10))
		}

		s.DependencyScore = clampScore(100 - int(math.Round(penalty)))
	}

	totalWeight := 0
	weightedSum := 0
	if s.ComplexityEnabled {
		weightedSum += s.ComplexityScore
		totalWeight++
	}
	if s.DeadCodeEnabled {
		weightedSum += s.DeadCodeScore
		totalWeight++
	}
	if s.CBOEnabled {
		weightedSum += s.CouplingScore
		totalWeight++
	}
	if s.DepsEnabled {
		weightedSum += s.DependencyScore
		totalWeight++
	}

	if totalWeight == 0 {
		s.HealthScore = 100
	} else {
		s.HealthScore = weightedSum / totalWeight
	}
	s.Grade = gradeFor(s.HealthScore)

	return nil
}

// BuildAnalyzeSummary assembles an AnalyzeSummary from whichever per-category
// responses are non-nil, so JSON, text, YAML, CSV, and HTML output never
// compute the health score differently.
func BuildAnalyzeSummary(
	complexity *ComplexityResponse,
	deadCode *DeadCodeResponse,
	cbo *CBOResponse,
	deps *DependencyGraphResponse,
	exports *ExportsResponse,
) *AnalyzeSummary {
	summary := &AnalyzeSummary{}

	if complexity != nil {
		summary.ComplexityEnabled = true
		summary.TotalFunctions = complexity.Summary.TotalFunctions
		summary.AverageComplexity = complexity.Summary.AverageComplexity
		summary.HighComplexityCount = complexity.Summary.HighRiskFunctions
		if complexity.Summary.FilesAnalyzed > summary.AnalyzedFiles {
			summary.AnalyzedFiles = complexity.Summary.FilesAnalyzed
		}
	}

	if deadCode != nil {
		summary.DeadCodeEnabled = true
		summary.DeadCodeCount = deadCode.Summary.TotalFindings
		summary.CriticalDeadCode = deadCode.Summary.CriticalFindings
		summary.WarningDeadCode = deadCode.Summary.WarningFindings
		summary.InfoDeadCode = deadCode.Summary.InfoFindings
		summary.TotalFiles = deadCode.Summary.TotalFiles
		if deadCode.Summary.TotalFiles > summary.AnalyzedFiles {
			summary.AnalyzedFiles = deadCode.Summary.TotalFiles
		}
	}

	if cbo != nil {
		summary.CBOEnabled = true
		summary.CBOClasses = cbo.Summary.TotalClasses
		summary.HighCouplingClasses = cbo.Summary.HighRiskClasses
		summary.MediumCouplingClasses = cbo.Summary.MediumRiskClasses
		summary.AverageCoupling = cbo.Summary.AverageCBO
		if cbo.Summary.FilesAnalyzed > summary.AnalyzedFiles {
			summary.AnalyzedFiles = cbo.Summary.FilesAnalyzed
		}
	}

	if deps != nil && deps.Analysis != nil {
		summary.DepsEnabled = true
		if deps.Graph != nil {
			summary.DepsTotalModules = deps.Graph.NodeCount()
		}
		summary.DepsMaxDepth = deps.Analysis.MaxDepth
		if deps.Analysis.CircularDependencies != nil {
			summary.DepsModulesInCycles = deps.Analysis.CircularDependencies.TotalModulesInCycles
		}
		if deps.Analysis.CouplingAnalysis != nil {
			summary.DepsMainSequenceDeviation = deps.Analysis.CouplingAnalysis.MainSequenceDeviation
		}
	}

	if exports != nil {
		summary.ExportsEnabled = true
		summary.ExportsFilesChecked = exports.Summary.TotalFiles
		summary.ExportsTotalNames = exports.Summary.TotalNames
		summary.ExportsTotalReexports = exports.Summary.TotalReexports
		if exports.Summary.TotalFiles > summary.AnalyzedFiles {
			summary.AnalyzedFiles = exports.Summary.TotalFiles
		}
	}

	summary.CalculateHealthScore()
	return summary
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func gradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
