// Package riskimport holds the value objects of the bulk risk import
// pipeline: field schemas, the risk level matrix, parsed/mapped rows and
// per-row import outcomes. Everything here is request-scoped and immutable
// once produced.
package riskimport

// RiskType selects which field schema and level matrix an import uses.
type RiskType string

const (
	TypeProject RiskType = "project"
	TypeVendor  RiskType = "vendor"
)

// ParseRiskType maps user input to a supported risk type; anything unknown
// falls back to project.
func ParseRiskType(s string) RiskType {
	if s == string(TypeVendor) {
		return TypeVendor
	}
	return TypeProject
}

type FieldType string

const (
	FieldString FieldType = "string"
	FieldEnum   FieldType = "enum"
	FieldDate   FieldType = "date"
)

// FieldDefinition describes one importable attribute of a risk record.
type FieldDefinition struct {
	Field    string    `json:"field"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	Type     FieldType `json:"type"`
	Options  []string  `json:"options,omitempty"`
}

// Field keys. The two schemas share keys where the attribute means the same
// thing, but their labels and enum vocabularies differ and stay separate.
const (
	FieldRiskName         = "risk_name"
	FieldRiskDescription  = "risk_description"
	FieldImpact           = "impact"
	FieldLikelihood       = "likelihood"
	FieldSeverity         = "severity"
	FieldCurrentLevel     = "current_level"
	FieldCategory         = "category"
	FieldOwner            = "owner"
	FieldDeadline         = "deadline"
	FieldPhase            = "phase"
	FieldMitigationStatus = "mitigation_status"
	FieldRiskLevel        = "risk_level"
	FieldReviewDate       = "review_date"
	// FieldAutoLevel carries the matrix-derived level; it is never mapped
	// from user columns and stays distinct from any user-entered level.
	FieldAutoLevel = "auto_calculated_level"
)

var (
	projectLikelihoods = []string{"Rare", "Unlikely", "Possible", "Likely", "Almost Certain"}
	projectSeverities  = []string{"Negligible", "Minor", "Moderate", "Major", "Catastrophic"}
	projectLevels      = []string{"No risk", "Very low risk", "Low risk", "Medium risk", "High risk", "Very high risk"}
	projectPhases      = []string{"Identification", "Assessment", "Treatment", "Monitoring", "Closed"}
	projectMitigations = []string{"Open", "In progress", "Mitigated", "Accepted"}

	vendorLikelihoods = []string{"Very unlikely", "Unlikely", "Possible", "Likely", "Very likely"}
	vendorImpacts     = []string{"Insignificant", "Minor", "Moderate", "Major", "Severe"}
	vendorLevels      = []string{"Very low risk", "Low risk", "Medium risk", "High risk", "Very high risk"}
	vendorMitigations = []string{"Identified", "Under review", "Mitigated", "Accepted"}
)

var projectSchema = []FieldDefinition{
	{Field: FieldRiskName, Label: "Risk name", Required: true, Type: FieldString},
	{Field: FieldRiskDescription, Label: "Risk description", Type: FieldString},
	{Field: FieldImpact, Label: "Impact", Type: FieldString},
	{Field: FieldLikelihood, Label: "Likelihood", Type: FieldEnum, Options: projectLikelihoods},
	{Field: FieldSeverity, Label: "Severity", Type: FieldEnum, Options: projectSeverities},
	{Field: FieldCurrentLevel, Label: "Current risk level", Type: FieldEnum, Options: projectLevels},
	{Field: FieldCategory, Label: "Category", Type: FieldString},
	{Field: FieldOwner, Label: "Risk owner", Type: FieldString},
	{Field: FieldDeadline, Label: "Deadline", Type: FieldDate},
	{Field: FieldPhase, Label: "Lifecycle phase", Type: FieldEnum, Options: projectPhases},
	{Field: FieldMitigationStatus, Label: "Mitigation status", Type: FieldEnum, Options: projectMitigations},
}

var vendorSchema = []FieldDefinition{
	{Field: FieldRiskDescription, Label: "Risk description", Required: true, Type: FieldString},
	{Field: FieldLikelihood, Label: "Likelihood", Type: FieldEnum, Options: vendorLikelihoods},
	{Field: FieldImpact, Label: "Impact", Type: FieldEnum, Options: vendorImpacts},
	{Field: FieldRiskLevel, Label: "Risk level", Type: FieldEnum, Options: vendorLevels},
	{Field: FieldOwner, Label: "Risk owner", Type: FieldString},
	{Field: FieldReviewDate, Label: "Review date", Type: FieldDate},
	{Field: FieldMitigationStatus, Label: "Mitigation status", Type: FieldEnum, Options: vendorMitigations},
}

// Schema returns the ordered field definitions for the risk type. The
// returned slice is shared fixed data and must not be mutated.
func Schema(t RiskType) []FieldDefinition {
	if t == TypeVendor {
		return vendorSchema
	}
	return projectSchema
}

// SchemaField looks up a single definition by field key.
func SchemaField(t RiskType, field string) (FieldDefinition, bool) {
	for _, def := range Schema(t) {
		if def.Field == field {
			return def, true
		}
	}
	return FieldDefinition{}, false
}
