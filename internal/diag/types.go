package diag

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSubsystem  = errors.New("unknown subsystem")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrRuleNotFound      = errors.New("rule not found")
	ErrInvalidVerdictSet = errors.New("invalid verdict set")
)

func unknownSubsystem(id any) error {
	return fmt.Errorf("%w: %q", ErrUnknownSubsystem, fmt.Sprint(id))
}

func invalidSnapshot(id SubsystemID, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidSnapshot, id, fmt.Sprintf(format, args...))
}

// Status is the tri-state health classification of a subsystem.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Severity orders statuses: error > warning > success.
func (s Status) Severity() int {
	switch s {
	case StatusError:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// worse returns the more severe of two statuses.
func worse(a, b Status) Status {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// ActionKind tags which external workflow a remediation action drives.
type ActionKind string

const (
	ActionNetworkSetup ActionKind = "navigate-to-network-setup"
	ActionOpenRule     ActionKind = "open-rulebook-entry"
)

// Action is one remediation step offered to the operator.
type Action struct {
	Label string     `json:"label"`
	Kind  ActionKind `json:"kind"`
}

// Remediation groups the ordered actions for a non-success verdict.
// The first action is the primary recommended next step.
type Remediation struct {
	Title   string   `json:"title"`
	Actions []Action `json:"actions"`
}

// Detail is a single labelled measurement shown alongside a verdict.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Verdict is the evaluated health of one subsystem.
type Verdict struct {
	Subsystem        SubsystemID  `json:"subsystem"`
	Status           Status       `json:"status"`
	SummaryPrimary   string       `json:"summary_primary"`
	SummarySecondary string       `json:"summary_secondary"`
	Details          []Detail     `json:"details"`
	Remediation      *Remediation `json:"remediation,omitempty"`
}

// Title returns the display name of the verdict's subsystem.
func (v Verdict) Title() string {
	return v.Subsystem.Title()
}

func (v *Verdict) detail(label, value string) {
	v.Details = append(v.Details, Detail{Label: label, Value: value})
}

func (v *Verdict) set(status Status, primary, secondary string) {
	v.Status = status
	v.SummaryPrimary = primary
	v.SummarySecondary = secondary
}
