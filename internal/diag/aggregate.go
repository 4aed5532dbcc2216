package diag

import (
	"fmt"
	"sort"
)

// OverallLabel is the commissioning health headline.
type OverallLabel string

const (
	LabelNeedsAttention OverallLabel = "needs attention"
	LabelGood           OverallLabel = "good (with advisories)"
	LabelExcellent      OverallLabel = "excellent"
)

// AllPassed is the sole top issue when no subsystem needs attention.
const AllPassed = "All diagnostics passed"

// MaxTopIssues caps the number of issues surfaced in a Summary.
const MaxTopIssues = 3

// Summary is the overall result of one diagnostics pass.
type Summary struct {
	Label     OverallLabel `json:"label"`
	Status    Status       `json:"status"`
	TopIssues []string     `json:"top_issues"`
	Errors    int          `json:"errors"`
	Warnings  int          `json:"warnings"`
	Passed    int          `json:"passed"`
}

// Aggregate combines exactly one verdict per subsystem into a Summary.
// A single error outranks any number of warnings. Top issues follow
// subsystem declaration order regardless of severity or input order.
func Aggregate(verdicts []Verdict) (Summary, error) {
	if len(verdicts) != len(subsystems) {
		return Summary{}, fmt.Errorf("%w: got %d verdicts, want %d", ErrInvalidVerdictSet, len(verdicts), len(subsystems))
	}
	ordered := make([]Verdict, len(verdicts))
	copy(ordered, verdicts)
	seen := make(map[SubsystemID]bool, len(ordered))
	for _, v := range ordered {
		if !v.Subsystem.Valid() {
			return Summary{}, fmt.Errorf("%w: %v", ErrInvalidVerdictSet, unknownSubsystem(v.Subsystem))
		}
		if seen[v.Subsystem] {
			return Summary{}, fmt.Errorf("%w: duplicate %s verdict", ErrInvalidVerdictSet, v.Subsystem)
		}
		switch v.Status {
		case StatusSuccess, StatusWarning, StatusError:
		default:
			return Summary{}, fmt.Errorf("%w: %s has status %q", ErrInvalidVerdictSet, v.Subsystem, v.Status)
		}
		seen[v.Subsystem] = true
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Subsystem.index() < ordered[j].Subsystem.index()
	})

	sum := Summary{Status: StatusSuccess}
	var issues []string
	for _, v := range ordered {
		sum.Status = worse(sum.Status, v.Status)
		switch v.Status {
		case StatusError:
			sum.Errors++
		case StatusWarning:
			sum.Warnings++
		default:
			sum.Passed++
			continue
		}
		if len(issues) < MaxTopIssues {
			issues = append(issues, v.Title()+": "+v.SummaryPrimary)
		}
	}

	switch sum.Status {
	case StatusError:
		sum.Label = LabelNeedsAttention
	case StatusWarning:
		sum.Label = LabelGood
	default:
		sum.Label = LabelExcellent
	}
	if len(issues) == 0 {
		issues = []string{AllPassed}
	}
	sum.TopIssues = issues
	return sum, nil
}
