package riskimport

import "github.com/google/uuid"

// ParsedRow is one decoded spreadsheet row. RowIndex is 1-based in the
// original file with the header row excluded, so error messages line up with
// what the user sees in their editor.
type ParsedRow struct {
	RowIndex int               `json:"rowIndex"`
	Data     map[string]string `json:"data"`
}

// RiskFields is the typed mapped-row payload. Every field is optional; nil
// means the column was unmapped or empty in the source file.
type RiskFields struct {
	RiskName         *string `json:"risk_name,omitempty"`
	RiskDescription  *string `json:"risk_description,omitempty"`
	Impact           *string `json:"impact,omitempty"`
	Likelihood       *string `json:"likelihood,omitempty"`
	Severity         *string `json:"severity,omitempty"`
	CurrentLevel     *string `json:"current_level,omitempty"`
	Category         *string `json:"category,omitempty"`
	Owner            *string `json:"owner,omitempty"`
	Deadline         *string `json:"deadline,omitempty"`
	Phase            *string `json:"phase,omitempty"`
	MitigationStatus *string `json:"mitigation_status,omitempty"`
	RiskLevel        *string `json:"risk_level,omitempty"`
	ReviewDate       *string `json:"review_date,omitempty"`
	AutoLevel        *string `json:"auto_calculated_level,omitempty"`
}

// Get returns the value stored under a schema field key.
func (f *RiskFields) Get(field string) *string {
	if p := f.ref(field); p != nil {
		return *p
	}
	return nil
}

// Set stores a value under a schema field key; unknown keys are ignored so a
// stale mapping cannot corrupt unrelated fields.
func (f *RiskFields) Set(field string, value *string) {
	if p := f.ref(field); p != nil {
		*p = value
	}
}

func (f *RiskFields) ref(field string) **string {
	switch field {
	case FieldRiskName:
		return &f.RiskName
	case FieldRiskDescription:
		return &f.RiskDescription
	case FieldImpact:
		return &f.Impact
	case FieldLikelihood:
		return &f.Likelihood
	case FieldSeverity:
		return &f.Severity
	case FieldCurrentLevel:
		return &f.CurrentLevel
	case FieldCategory:
		return &f.Category
	case FieldOwner:
		return &f.Owner
	case FieldDeadline:
		return &f.Deadline
	case FieldPhase:
		return &f.Phase
	case FieldMitigationStatus:
		return &f.MitigationStatus
	case FieldRiskLevel:
		return &f.RiskLevel
	case FieldReviewDate:
		return &f.ReviewDate
	case FieldAutoLevel:
		return &f.AutoLevel
	}
	return nil
}

// MappedRow is the validation result for one parsed row.
type MappedRow struct {
	RowIndex int        `json:"rowIndex"`
	Fields   RiskFields `json:"mappedData"`
	Errors   []string   `json:"errors"`
	IsValid  bool       `json:"isValid"`
}

// DuplicateResult reports whether an existing tenant record matches a row's
// natural key. Computed per valid row, never persisted.
type DuplicateResult struct {
	RowIndex     int        `json:"rowIndex"`
	ExistingID   *uuid.UUID `json:"existingRecordId,omitempty"`
	ExistingName *string    `json:"existingRecordName,omitempty"`
	IsDuplicate  bool       `json:"isDuplicate"`
}

// Action is the caller's per-row duplicate-resolution instruction.
type Action string

const (
	ActionCreate    Action = "create"
	ActionOverwrite Action = "overwrite"
	ActionSkip      Action = "skip"
)

// ParseAction defaults unknown or absent input to create.
func ParseAction(s string) Action {
	switch Action(s) {
	case ActionOverwrite, ActionSkip:
		return Action(s)
	}
	return ActionCreate
}

// OutcomeAction is what actually happened to a row during import.
type OutcomeAction string

const (
	OutcomeCreated     OutcomeAction = "created"
	OutcomeOverwritten OutcomeAction = "overwritten"
	OutcomeSkipped     OutcomeAction = "skipped"
	OutcomeError       OutcomeAction = "error"
)

// Outcome is the per-row import ledger entry.
type Outcome struct {
	RowIndex int           `json:"rowIndex"`
	Success  bool          `json:"success"`
	Action   OutcomeAction `json:"action"`
	RecordID *uuid.UUID    `json:"recordId,omitempty"`
	Error    *string       `json:"error,omitempty"`
}

type ValidationSummary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

type DuplicateSummary struct {
	Total      int `json:"total"`
	Duplicates int `json:"duplicates"`
	Unique     int `json:"unique"`
}

type ImportSummary struct {
	Total       int `json:"total"`
	Success     int `json:"success"`
	Created     int `json:"created"`
	Overwritten int `json:"overwritten"`
	Skipped     int `json:"skipped"`
	Errors      int `json:"errors"`
}

// LinkType identifies what a created risk gets associated with.
type LinkType string

const (
	LinkProject   LinkType = "project"
	LinkFramework LinkType = "framework"
	LinkVendor    LinkType = "vendor"
)

// LinkTarget optionally ties created records to a project, compliance
// framework or vendor.
type LinkTarget struct {
	Type LinkType  `json:"type"`
	ID   uuid.UUID `json:"id"`
}

// CompletedEvent is published on the event bus after an import commits.
type CompletedEvent struct {
	TenantID uuid.UUID
	RiskType RiskType
	Summary  ImportSummary
}
