// Package steps provides step definitions and dependency validation
// for the digest pipeline.
package steps

import (
	"fmt"
	"sort"
)

// Step names
const (
	StepExtractLines   = "extract_lines"
	StepDetectHeadings = "detect_headings"
	StepSegment        = "segment_sections"
	StepRank           = "rank_sections"
	StepSummarize      = "summarize_sections"
	StepBuildReport    = "build_report"
)

// Step categories
const (
	CategoryExtraction    = "extraction"
	CategoryStructuring   = "structuring"
	CategoryRanking       = "ranking"
	CategorySummarization = "summarization"
	CategoryReport        = "report"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	// PerDocument steps run once per input document; the others run once over the merged pool.
	PerDocument bool
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepExtractLines: {
		Name:         StepExtractLines,
		Category:     CategoryExtraction,
		Dependencies: []string{},
		PerDocument:  true,
	},
	StepDetectHeadings: {
		Name:         StepDetectHeadings,
		Category:     CategoryStructuring,
		Dependencies: []string{StepExtractLines},
		PerDocument:  true,
	},
	StepSegment: {
		Name:         StepSegment,
		Category:     CategoryStructuring,
		Dependencies: []string{StepDetectHeadings},
		PerDocument:  true,
	},
	StepRank: {
		Name:         StepRank,
		Category:     CategoryRanking,
		Dependencies: []string{StepSegment},
	},
	StepSummarize: {
		Name:         StepSummarize,
		Category:     CategorySummarization,
		Dependencies: []string{StepRank},
	},
	StepBuildReport: {
		Name:         StepBuildReport,
		Category:     CategoryReport,
		Dependencies: []string{StepRank, StepSummarize},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every dependency of a step is in completed.
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// GetAvailableSteps returns the steps not yet completed whose dependencies are met, sorted by name.
func GetAvailableSteps(completed map[string]bool) []string {
	var available []string
	for stepName := range StepRegistry {
		if completed[stepName] {
			continue
		}
		if err := ValidateDependencies(completed, stepName); err != nil {
			continue
		}
		available = append(available, stepName)
	}
	sort.Strings(available)
	return available
}

// Order returns every step in an order that satisfies all dependencies.
// Ties are broken by name so the order is stable.
func Order() []string {
	completed := make(map[string]bool, len(StepRegistry))
	var order []string
	for len(order) < len(StepRegistry) {
		next := GetAvailableSteps(completed)
		if len(next) == 0 {
			break
		}
		completed[next[0]] = true
		order = append(order, next[0])
	}
	return order
}
