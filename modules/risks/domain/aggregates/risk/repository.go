package risk

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
)

var ErrNotFound = errors.New("risk not found")

// Repository is the tenant-scoped store behind duplicate detection and the
// transactional importer. Natural-key lookups exclude soft-deleted records
// and return the first match in a stable order (primary key ascending).
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Risk, error)
	// FindProjectByName matches project risks by exact, case-sensitive name.
	FindProjectByName(ctx context.Context, name string) (*Risk, error)
	// FindVendorByDescription matches vendor risks by exact description,
	// scoped to the vendor when vendorID is non-nil.
	FindVendorByDescription(ctx context.Context, description string, vendorID *uuid.UUID) (*Risk, error)
	Create(ctx context.Context, r *Risk) (*Risk, error)
	// UpdateFields applies a coalesce-style partial update: only non-nil
	// fields overwrite stored values, and updated_at is touched.
	UpdateFields(ctx context.Context, id uuid.UUID, fields riskimport.RiskFields) error
	LinkToProject(ctx context.Context, riskID, projectID uuid.UUID) error
	LinkToFramework(ctx context.Context, riskID, frameworkID uuid.UUID) error
}
