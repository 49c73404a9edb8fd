package types

import (
	"fmt"
	"time"
)

// DocumentRole distinguishes the single aggregation target from the
// documentation pages that feed it.
type DocumentRole string

const (
	// RoleHub is the one document that receives links and previews
	// (typically the homepage).
	RoleHub DocumentRole = "hub"

	// RoleSection is a documentation page that may be linked from,
	// and preview into, the hub.
	RoleSection DocumentRole = "section"
)

// IsValid checks if the role value is valid
func (r DocumentRole) IsValid() bool {
	switch r {
	case RoleHub, RoleSection:
		return true
	}
	return false
}

// DocumentFormat identifies the markup dialect of a document body.
// Extractors and strippers dispatch on this.
type DocumentFormat string

const (
	FormatMarkdown DocumentFormat = "markdown"
	FormatHTML     DocumentFormat = "html"
)

// Document is a named unit of content read from the store.
// The ID is immutable for the life of a document; the fingerprint is
// recomputed from the body on every read, so it changes iff the body changes.
type Document struct {
	ID             string         `json:"id"`
	Role           DocumentRole   `json:"role"`
	Format         DocumentFormat `json:"format"`
	Body           string         `json:"body"`
	Fingerprint    string         `json:"fingerprint"`
	LastModifiedAt time.Time      `json:"last_modified_at"`
}

// Reference is a directed edge from one document to another, extracted
// from the source document's body.
type Reference struct {
	SourceID   string `json:"source_id"`
	TargetID   string `json:"target_id"`
	AnchorText string `json:"anchor_text"`
}

// ParseWarning records reference syntax the extractor could not make
// sense of. Parse failures are reported separately from broken links.
type ParseWarning struct {
	SourceID string `json:"source_id"`
	Snippet  string `json:"snippet"`
	Reason   string `json:"reason"`
}

// ValidationResult is the link graph validator's classification of every
// reference found across the document set.
type ValidationResult struct {
	Resolvable    []Reference    `json:"resolvable"`
	Broken        []Reference    `json:"broken"`
	Orphaned      []string       `json:"orphaned"`
	ParseWarnings []ParseWarning `json:"parse_warnings,omitempty"`
}

// PreviewMapping declares that a section's content should produce a
// bounded preview embedded at a named insertion point inside the hub.
type PreviewMapping struct {
	SourceID         string `json:"source_id" yaml:"source"`
	InsertionPointID string `json:"insertion_point_id" yaml:"insertion_point"`
	MaxLength        int    `json:"max_length" yaml:"max_length"`
	LinkText         string `json:"link_text" yaml:"link_text"`
}

// Validate checks if the mapping has valid field values
func (m *PreviewMapping) Validate() error {
	if m.SourceID == "" {
		return fmt.Errorf("source id is required")
	}
	if m.InsertionPointID == "" {
		return fmt.Errorf("insertion point id is required")
	}
	if m.MaxLength <= 0 {
		return fmt.Errorf("max length must be positive (got %d)", m.MaxLength)
	}
	return nil
}

// PreviewCacheEntry is the persisted record of the last synchronized
// state for a preview mapping. Losing an entry forces a resync, never
// incorrect data.
type PreviewCacheEntry struct {
	SourceID    string    `json:"source_id"`
	Fingerprint string    `json:"fingerprint"`
	SyncedAt    time.Time `json:"synced_at"`
}

// PhaseStatus represents the deployment state of a rollout phase
type PhaseStatus string

const (
	PhasePending  PhaseStatus = "pending"
	PhaseDeployed PhaseStatus = "deployed"
)

// IsValid checks if the status value is valid
func (s PhaseStatus) IsValid() bool {
	switch s {
	case PhasePending, PhaseDeployed:
		return true
	}
	return false
}

// RolloutPhase is an ordered, named bundle of capabilities gated by a
// percentage and a deployed/pending status. Phase N may deploy only
// after phase N-1 has deployed. The percentage is advisory state
// consumed by whatever renders the hub; it is meaningful only once the
// phase is deployed, and adjusting it never changes the status.
type RolloutPhase struct {
	Order             int         `json:"order"`
	Name              string      `json:"name"`
	Capabilities      []string    `json:"capabilities"`
	RolloutPercentage int         `json:"rollout_percentage"`
	Status            PhaseStatus `json:"status"`
	DeployedAt        *time.Time  `json:"deployed_at,omitempty"`
}

// Validate checks if the phase has valid field values
func (p *RolloutPhase) Validate() error {
	if p.Order < 1 {
		return fmt.Errorf("phase order must be >= 1 (got %d)", p.Order)
	}
	if p.Name == "" {
		return fmt.Errorf("phase name is required")
	}
	if p.RolloutPercentage < 0 || p.RolloutPercentage > 100 {
		return fmt.Errorf("rollout percentage must be between 0 and 100 (got %d)", p.RolloutPercentage)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("invalid phase status: %s", p.Status)
	}
	return nil
}

// Severity classifies how urgently a recommendation needs attention
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Recommendation is a single actionable finding derived from a
// maintenance run by fixed severity rules.
type Recommendation struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
}

// SyncStats summarizes a preview synchronizer pass.
type SyncStats struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ProcedureResult records the outcome of one maintenance procedure.
// A failing procedure never aborts the run; its error lands here.
type ProcedureResult struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Message  string        `json:"message"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// MaintenanceReport is the orchestrator's sole externally visible
// artifact besides the side effects performed by the synchronizer and
// rollout controller.
type MaintenanceReport struct {
	RunID           string            `json:"run_id"`
	Schedule        ScheduleKind      `json:"schedule"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at"`
	Procedures      []ProcedureResult `json:"procedures"`
	Validation      *ValidationResult `json:"validation,omitempty"`
	Sync            *SyncStats        `json:"sync,omitempty"`
	Rollout         []RolloutPhase    `json:"rollout,omitempty"`
	Recommendations []Recommendation  `json:"recommendations"`
	HardFailures    int               `json:"hard_failures"`
}
