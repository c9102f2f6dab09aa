package scenario

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Event records one executed step.
type Event struct {
	Seq     int    `json:"seq"`
	Op      string `json:"op"`
	Detail  string `json:"detail"`
	Outcome string `json:"outcome"`

	// Reported lists the errors the step delivered to device callbacks.
	Reported []Report `json:"reported,omitempty"`
}

// Report is one error delivered to a device's error callback.
type Report struct {
	Device string `json:"device"`
	Code   string `json:"code"`
}

// Outcomes that are not error codes.
const (
	OutcomeOK   = "ok"
	OutcomeNone = "-"
)

// Result is the trace of one scenario run.
type Result struct {
	RunID    uuid.UUID `json:"run_id"`
	Scenario string    `json:"scenario"`
	Backend  string    `json:"backend,omitempty"`
	Events   []Event   `json:"events"`
	Failures []string  `json:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// WriteText renders the trace in the line format used by golden files.
// The run ID is omitted so the output is deterministic.
func WriteText(w io.Writer, r *Result) error {
	if _, err := fmt.Fprintf(w, "scenario: %s\n", r.Scenario); err != nil {
		return err
	}
	for _, ev := range r.Events {
		if _, err := fmt.Fprintf(w, "%d %s %s -> %s\n", ev.Seq, ev.Op, ev.Detail, ev.Outcome); err != nil {
			return err
		}
		for _, rep := range ev.Reported {
			if _, err := fmt.Fprintf(w, "  reported %s %s\n", rep.Device, rep.Code); err != nil {
				return err
			}
		}
	}
	for _, f := range r.Failures {
		if _, err := fmt.Fprintf(w, "failure: %s\n", f); err != nil {
			return err
		}
	}
	status := "pass"
	if !r.Passed() {
		status = "fail"
	}
	_, err := fmt.Fprintf(w, "result: %s\n", status)
	return err
}

// WriteJSON renders the trace as indented JSON.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
