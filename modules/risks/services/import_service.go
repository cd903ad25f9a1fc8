package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/riskdesk/riskdesk/modules/risks/domain/aggregates/risk"
	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/pkg/composables"
	"github.com/riskdesk/riskdesk/pkg/configuration"
	"github.com/riskdesk/riskdesk/pkg/eventbus"
)

// TxRunner wraps an import run in a tenant-scoped transaction. It is
// injectable so service tests can run against an in-memory repository
// without a database pool.
type TxRunner func(ctx context.Context, fn func(context.Context) (*ImportResult, error)) (*ImportResult, error)

// ImportCommand carries one confirmed import run: validated rows, the
// caller's duplicate resolutions keyed by row index, and an optional link
// target for created records.
type ImportCommand struct {
	RiskType riskimport.RiskType
	Rows     []riskimport.MappedRow
	Actions  map[int]riskimport.Action
	Link     *riskimport.LinkTarget
}

// ImportResult is the full per-row ledger plus the aggregate tally.
type ImportResult struct {
	Outcomes []riskimport.Outcome     `json:"outcomes"`
	Summary  riskimport.ImportSummary `json:"summary"`
}

// ImportService persists validated rows inside a single tenant transaction.
// Rows are processed sequentially in input order; a failing row is recorded
// as an error outcome and never aborts the run. The transaction commits even
// when every row fails, because the outcome ledger itself is the result.
//
// Duplicate resolution re-checks the natural key inside the transaction:
// the existence check and the write run back to back, so earlier rows of
// the same run are visible and client-side duplicate state is never trusted.
type ImportService struct {
	repo          risk.Repository
	publisher     eventbus.EventBus
	runInTx       TxRunner
	defaultAction riskimport.Action
}

func NewImportService(
	repo risk.Repository,
	publisher eventbus.EventBus,
	conf *configuration.Configuration,
) *ImportService {
	return &ImportService{
		repo:          repo,
		publisher:     publisher,
		runInTx:       composables.InTenantTxResult[*ImportResult],
		defaultAction: riskimport.ParseAction(conf.RiskImport.DefaultAction),
	}
}

// WithTxRunner swaps the transaction wrapper; used by tests.
func (s *ImportService) WithTxRunner(run TxRunner) *ImportService {
	s.runInTx = run
	return s
}

// Import executes the run. The returned error covers infrastructure failures
// only (no tenant, transaction could not start); per-row problems land in
// the outcome ledger instead.
func (s *ImportService) Import(ctx context.Context, cmd ImportCommand) (*ImportResult, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.runInTx(ctx, func(txCtx context.Context) (*ImportResult, error) {
		out := &ImportResult{Outcomes: make([]riskimport.Outcome, 0, len(cmd.Rows))}
		for _, row := range cmd.Rows {
			outcome := s.importRow(txCtx, cmd, row)
			switch outcome.Action {
			case riskimport.OutcomeCreated:
				out.Summary.Created++
				out.Summary.Success++
			case riskimport.OutcomeOverwritten:
				out.Summary.Overwritten++
				out.Summary.Success++
			case riskimport.OutcomeSkipped:
				out.Summary.Skipped++
				out.Summary.Success++
			default:
				out.Summary.Errors++
			}
			out.Summary.Total++
			out.Outcomes = append(out.Outcomes, outcome)
		}
		return out, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "import transaction failed")
	}

	s.publisher.Publish(&riskimport.CompletedEvent{
		TenantID: tenantID,
		RiskType: cmd.RiskType,
		Summary:  result.Summary,
	})
	return result, nil
}

func (s *ImportService) importRow(
	ctx context.Context,
	cmd ImportCommand,
	row riskimport.MappedRow,
) riskimport.Outcome {
	if !row.IsValid {
		return errOutcome(row.RowIndex, strings.Join(row.Errors, "; "))
	}

	action := s.defaultAction
	if a, ok := cmd.Actions[row.RowIndex]; ok {
		action = a
	}

	// Skip is unconditional: no lookup, no write.
	if action == riskimport.ActionSkip {
		return riskimport.Outcome{
			RowIndex: row.RowIndex,
			Success:  true,
			Action:   riskimport.OutcomeSkipped,
		}
	}

	if action == riskimport.ActionOverwrite {
		existing, err := s.findExisting(ctx, cmd, row.Fields)
		if err != nil && !errors.Is(err, risk.ErrNotFound) {
			return errOutcome(row.RowIndex, err.Error())
		}
		if existing != nil {
			err := composables.InNestedTx(ctx, func(rowCtx context.Context) error {
				return s.repo.UpdateFields(rowCtx, existing.ID, row.Fields)
			})
			if err != nil {
				return errOutcome(row.RowIndex, err.Error())
			}
			return riskimport.Outcome{
				RowIndex: row.RowIndex,
				Success:  true,
				Action:   riskimport.OutcomeOverwritten,
				RecordID: &existing.ID,
			}
		}
	}

	// No match, or the caller chose create. Overwrite with nothing to
	// overwrite also lands here.
	entity, err := s.buildRisk(cmd, row.Fields)
	if err != nil {
		return errOutcome(row.RowIndex, err.Error())
	}

	var created *risk.Risk
	err = composables.InNestedTx(ctx, func(rowCtx context.Context) error {
		var innerErr error
		created, innerErr = s.repo.Create(rowCtx, entity)
		if innerErr != nil {
			return innerErr
		}
		return s.linkCreated(rowCtx, cmd.Link, created.ID)
	})
	if err != nil {
		return errOutcome(row.RowIndex, err.Error())
	}
	return riskimport.Outcome{
		RowIndex: row.RowIndex,
		Success:  true,
		Action:   riskimport.OutcomeCreated,
		RecordID: &created.ID,
	}
}

// findExisting resolves the row's natural key against current transaction
// state, so rows created earlier in the same run are seen.
func (s *ImportService) findExisting(ctx context.Context, cmd ImportCommand, fields riskimport.RiskFields) (*risk.Risk, error) {
	if cmd.RiskType == riskimport.TypeVendor {
		description := fields.Get(riskimport.FieldRiskDescription)
		if description == nil {
			return nil, risk.ErrNotFound
		}
		return s.repo.FindVendorByDescription(ctx, *description, vendorIDOf(cmd.Link))
	}
	name := fields.Get(riskimport.FieldRiskName)
	if name == nil {
		return nil, risk.ErrNotFound
	}
	return s.repo.FindProjectByName(ctx, *name)
}

func (s *ImportService) buildRisk(cmd ImportCommand, fields riskimport.RiskFields) (*risk.Risk, error) {
	entity := &risk.Risk{RiskType: cmd.RiskType}
	if v := fields.Get(riskimport.FieldRiskName); v != nil {
		entity.Name = *v
	}
	if v := fields.Get(riskimport.FieldRiskDescription); v != nil {
		entity.Description = *v
	}
	entity.Impact = fields.Impact
	entity.Likelihood = fields.Likelihood
	entity.Severity = fields.Severity
	entity.CurrentLevel = fields.CurrentLevel
	entity.AutoLevel = fields.AutoLevel
	entity.RiskLevel = fields.RiskLevel
	entity.Category = fields.Category
	entity.Owner = fields.Owner
	entity.Phase = fields.Phase
	entity.MitigationStatus = fields.MitigationStatus
	entity.Deadline = parseDate(fields.Deadline)
	entity.ReviewDate = parseDate(fields.ReviewDate)

	switch cmd.RiskType {
	case riskimport.TypeVendor:
		vendorID := vendorIDOf(cmd.Link)
		if vendorID == nil {
			return nil, errors.New("vendor must be selected for vendor risk imports")
		}
		entity.VendorID = vendorID
		defaultStr(&entity.MitigationStatus, "Identified")
		if entity.ReviewDate == nil {
			now := time.Now()
			entity.ReviewDate = &now
		}
	default:
		defaultStr(&entity.Impact, "To be assessed")
		defaultStr(&entity.Phase, "Identification")
		defaultStr(&entity.MitigationStatus, "Open")
		if entity.Deadline == nil {
			now := time.Now()
			entity.Deadline = &now
		}
	}
	return entity, nil
}

func (s *ImportService) linkCreated(ctx context.Context, link *riskimport.LinkTarget, riskID uuid.UUID) error {
	if link == nil {
		return nil
	}
	switch link.Type {
	case riskimport.LinkProject:
		return s.repo.LinkToProject(ctx, riskID, link.ID)
	case riskimport.LinkFramework:
		return s.repo.LinkToFramework(ctx, riskID, link.ID)
	}
	return nil
}

func vendorIDOf(link *riskimport.LinkTarget) *uuid.UUID {
	if link == nil || link.Type != riskimport.LinkVendor {
		return nil
	}
	id := link.ID
	return &id
}

func errOutcome(rowIndex int, msg string) riskimport.Outcome {
	return riskimport.Outcome{
		RowIndex: rowIndex,
		Success:  false,
		Action:   riskimport.OutcomeError,
		Error:    &msg,
	}
}

func defaultStr(dst **string, value string) {
	if *dst == nil {
		*dst = &value
	}
}

func parseDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, *value); err == nil {
		return &t
	}
	return nil
}
