// Package core provides the business logic for spreadsheet import operations.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"time"

	"github.com/contactsheet/formatter/internal/contact"
)

// ImportPhase indicates the current stage of import processing.
type ImportPhase string

const (
	PhaseStarting  ImportPhase = "starting"
	PhaseReading   ImportPhase = "reading"
	PhaseMapping   ImportPhase = "mapping"
	PhaseEnhancing ImportPhase = "enhancing"
	PhaseComplete  ImportPhase = "complete"
	PhaseFailed    ImportPhase = "failed"
	PhaseCancelled ImportPhase = "cancelled"
)

// ImportProgress represents the current state of an import operation.
type ImportProgress struct {
	ImportID   string      `json:"importId"`
	Profile    string      `json:"profile"`
	Phase      ImportPhase `json:"phase"`
	FileName   string      `json:"fileName"`
	TotalRows  int         `json:"totalRows"`
	CurrentRow int         `json:"currentRow"`
	Enhanced   bool        `json:"enhanced"`
	Error      string      `json:"error,omitempty"` // Non-empty if Phase is PhaseFailed
}

// Percent returns the progress as a percentage (0-100).
func (p ImportProgress) Percent() int {
	if p.Phase == PhaseComplete {
		return 100
	}
	if p.TotalRows > 0 {
		return (p.CurrentRow * 100) / p.TotalRows
	}
	return 0
}

// ImportResult contains the final result of an import operation.
type ImportResult struct {
	ImportID  string           `json:"importId"`
	Profile   string           `json:"profile"`
	FileName  string           `json:"fileName"`
	TotalRows int              `json:"totalRows"`
	Enhanced  bool             `json:"enhanced"`
	Records   []contact.Record `json:"records"`
	Duration  time.Duration    `json:"duration"`
	Error     string           `json:"error,omitempty"` // Non-empty if import failed
}
