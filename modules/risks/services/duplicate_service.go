package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/riskdesk/riskdesk/modules/risks/domain/aggregates/risk"
	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/pkg/composables"
)

// DuplicateCheckResult pairs per-row duplicate findings with the tally.
type DuplicateCheckResult struct {
	Rows    []riskimport.DuplicateResult `json:"rows"`
	Summary riskimport.DuplicateSummary  `json:"summary"`
}

// DuplicateService matches valid mapped rows against existing tenant records
// by natural key: project risks by exact name, vendor risks by description
// scoped to the vendor when one is supplied.
type DuplicateService struct {
	repo risk.Repository
}

func NewDuplicateService(repo risk.Repository) *DuplicateService {
	return &DuplicateService{repo: repo}
}

// Check inspects every valid row. Invalid rows are reported as non-duplicates
// without touching storage. The check reads only; nothing is persisted.
func (s *DuplicateService) Check(
	ctx context.Context,
	riskType riskimport.RiskType,
	rows []riskimport.MappedRow,
	vendorID *uuid.UUID,
) (*DuplicateCheckResult, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, err
	}

	out := &DuplicateCheckResult{Rows: make([]riskimport.DuplicateResult, 0, len(rows))}
	for _, row := range rows {
		result := riskimport.DuplicateResult{RowIndex: row.RowIndex}
		if row.IsValid {
			existing, err := s.lookup(ctx, riskType, row.Fields, vendorID)
			if err != nil && !errors.Is(err, risk.ErrNotFound) {
				return nil, errors.Wrap(err, "duplicate lookup failed")
			}
			if existing != nil {
				result.IsDuplicate = true
				result.ExistingID = &existing.ID
				name := existingName(existing)
				result.ExistingName = &name
			}
			// Invalid rows count toward neither tally.
			if result.IsDuplicate {
				out.Summary.Duplicates++
			} else {
				out.Summary.Unique++
			}
		}
		out.Summary.Total++
		out.Rows = append(out.Rows, result)
	}
	return out, nil
}

func (s *DuplicateService) lookup(
	ctx context.Context,
	riskType riskimport.RiskType,
	fields riskimport.RiskFields,
	vendorID *uuid.UUID,
) (*risk.Risk, error) {
	if riskType == riskimport.TypeVendor {
		description := fields.Get(riskimport.FieldRiskDescription)
		if description == nil {
			return nil, risk.ErrNotFound
		}
		return s.repo.FindVendorByDescription(ctx, *description, vendorID)
	}
	name := fields.Get(riskimport.FieldRiskName)
	if name == nil {
		return nil, risk.ErrNotFound
	}
	return s.repo.FindProjectByName(ctx, *name)
}

func existingName(r *risk.Risk) string {
	if r.RiskType == riskimport.TypeVendor {
		return r.Description
	}
	return r.Name
}
