// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus indicates the outcome of renumbering one source.
type RunStatus string

const (
	RunChanged   RunStatus = "changed"
	RunUnchanged RunStatus = "unchanged"
	RunFailed    RunStatus = "failed"
)

// StdinSource is the Source recorded for runs that read standard input.
const StdinSource = "-"

// RunRecord describes one renumbering session over one source.
type RunRecord struct {
	// Source is the file path, or StdinSource.
	Source string `json:"source" yaml:"source"`

	// Mode is the runner mode the session ran under.
	Mode Mode `json:"mode" yaml:"mode"`

	Status RunStatus `json:"status" yaml:"status"`

	InMarkers  int `json:"in_markers" yaml:"in_markers"`
	OutMarkers int `json:"out_markers" yaml:"out_markers"`
	Resets     int `json:"resets" yaml:"resets"`

	// FinalNumber is the counter value at the end of the session.
	FinalNumber int `json:"final_number" yaml:"final_number"`

	// Error holds the failure message when Status is RunFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}
