package risk

import (
	"time"

	"github.com/google/uuid"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
)

// Risk is a persisted, tenant-scoped risk record. Optional attributes are
// pointers so a partial update can tell "absent" from "set to empty".
type Risk struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	RiskType riskimport.RiskType
	// VendorID is set for vendor risks only and participates in their
	// natural key.
	VendorID *uuid.UUID

	Name             string
	Description      string
	Impact           *string
	Likelihood       *string
	Severity         *string
	CurrentLevel     *string
	AutoLevel        *string
	RiskLevel        *string
	Category         *string
	Owner            *string
	Phase            *string
	MitigationStatus *string
	Deadline         *time.Time
	ReviewDate       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
