package engine

import (
	"time"

	"github.com/tonhe/fireline/internal/diag"
)

// Report is the outcome of one collect, evaluate and aggregate cycle.
// When Err is set the cycle failed before a summary could be produced and
// Verdicts is empty.
type Report struct {
	Controller string
	Time       time.Time
	Duration   time.Duration
	Snapshot   *diag.SnapshotSet
	Verdicts   []diag.Verdict
	Summary    diag.Summary
	Err        error
}

// OK reports whether the cycle produced a summary.
func (r Report) OK() bool {
	return r.Err == nil && len(r.Verdicts) > 0
}

// HealthScore condenses a report to 0-100 for trend display. Passing
// subsystems count fully and warnings count half. Failed cycles score 0.
func (r Report) HealthScore() float64 {
	if !r.OK() {
		return 0
	}
	n := float64(len(r.Verdicts))
	return 100 * (float64(r.Summary.Passed) + 0.5*float64(r.Summary.Warnings)) / n
}

// ControllerSnapshot is a point-in-time view of one watched controller.
type ControllerSnapshot struct {
	Name      string
	Latest    *Report
	History   []Report
	LastPoll  time.Time
	PollCount int
}

// Scores returns the health score of every report in History, oldest first.
func (s *ControllerSnapshot) Scores() []float64 {
	out := make([]float64, len(s.History))
	for i, r := range s.History {
		out[i] = r.HealthScore()
	}
	return out
}

// EngineState represents the lifecycle state of a polling engine.
type EngineState int

const (
	EngineStopped EngineState = iota
	EngineRunning
	EngineError
)

func (s EngineState) String() string {
	switch s {
	case EngineRunning:
		return "running"
	case EngineError:
		return "error"
	default:
		return "stopped"
	}
}

// EngineInfo provides summary information about a running engine.
type EngineInfo struct {
	Name       string
	State      EngineState
	LastPoll   time.Time
	PollCount  int
	ErrorCount int
	Label      diag.OverallLabel
}

// EngineEvent is emitted to subscribers after each poll cycle.
type EngineEvent struct {
	Controller string
	Snapshot   *ControllerSnapshot
}
