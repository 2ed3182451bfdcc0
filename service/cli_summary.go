package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ludo-technologies/jscan/domain"
)

// FormatCLISummary renders a short health-score banner for non-text output
// formats (HTML, JSON, YAML, CSV), where the structured payload itself does
// not surface a human-readable summary on the terminal.
func FormatCLISummary(summary *domain.AnalyzeSummary, duration time.Duration) string {
	if summary == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\nHealth Score: %d/100 (Grade: %s)\n", summary.HealthScore, summary.Grade)

	var parts []string
	if summary.ComplexityEnabled {
		parts = append(parts, fmt.Sprintf("Complexity %d", summary.ComplexityScore))
	}
	if summary.DeadCodeEnabled {
		parts = append(parts, fmt.Sprintf("Dead Code %d", summary.DeadCodeScore))
	}
	if summary.CBOEnabled {
		parts = append(parts, fmt.Sprintf("Coupling %d", summary.CouplingScore))
	}
	if summary.DepsEnabled {
		parts = append(parts, fmt.Sprintf("Dependencies %d", summary.DependencyScore))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, "  %s\n", strings.Join(parts, " | "))
	}

	if summary.ExportsEnabled {
		fmt.Fprintf(&b, "  Exports: %d names, %d re-exports across %d files\n",
			summary.ExportsTotalNames, summary.ExportsTotalReexports, summary.ExportsFilesChecked)
	}

	fmt.Fprintf(&b, "Completed in %s\n", duration.Round(time.Millisecond))

	return b.String()
}
