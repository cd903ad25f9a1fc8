package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/riskdesk/riskdesk/modules/risks/domain/aggregates/risk"
	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/pkg/composables"
)

const (
	riskFindQuery = `
        SELECT
            r.id,
            r.tenant_id,
            r.risk_type,
            r.vendor_id,
            r.name,
            r.description,
            r.impact,
            r.likelihood,
            r.severity,
            r.current_level,
            r.auto_level,
            r.risk_level,
            r.category,
            r.owner,
            r.phase,
            r.mitigation_status,
            r.deadline,
            r.review_date,
            r.created_at,
            r.updated_at
        FROM risks r`

	riskInsertQuery = `
        INSERT INTO risks (
            tenant_id, risk_type, vendor_id, name, description, impact,
            likelihood, severity, current_level, auto_level, risk_level,
            category, owner, phase, mitigation_status, deadline, review_date
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id, created_at, updated_at`

	projectRiskLinkQuery = `
        INSERT INTO project_risks (tenant_id, risk_id, project_id)
        VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING`

	frameworkRiskLinkQuery = `
        INSERT INTO framework_risks (tenant_id, risk_id, framework_id)
        VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING`
)

type PgRiskRepository struct {
	columnMap map[string]string
}

func NewRiskRepository() risk.Repository {
	return &PgRiskRepository{
		columnMap: map[string]string{
			riskimport.FieldRiskName:         "name",
			riskimport.FieldRiskDescription:  "description",
			riskimport.FieldImpact:           "impact",
			riskimport.FieldLikelihood:       "likelihood",
			riskimport.FieldSeverity:         "severity",
			riskimport.FieldCurrentLevel:     "current_level",
			riskimport.FieldAutoLevel:        "auto_level",
			riskimport.FieldRiskLevel:        "risk_level",
			riskimport.FieldCategory:         "category",
			riskimport.FieldOwner:            "owner",
			riskimport.FieldPhase:            "phase",
			riskimport.FieldMitigationStatus: "mitigation_status",
			riskimport.FieldDeadline:         "deadline",
			riskimport.FieldReviewDate:       "review_date",
		},
	}
}

func (g *PgRiskRepository) GetByID(ctx context.Context, id uuid.UUID) (*risk.Risk, error) {
	return g.findOne(ctx, "r.id = $2", id)
}

func (g *PgRiskRepository) FindProjectByName(ctx context.Context, name string) (*risk.Risk, error) {
	return g.findOne(ctx, "r.risk_type = 'project' AND r.name = $2", name)
}

func (g *PgRiskRepository) FindVendorByDescription(ctx context.Context, description string, vendorID *uuid.UUID) (*risk.Risk, error) {
	if vendorID != nil {
		return g.findOne(ctx, "r.risk_type = 'vendor' AND r.description = $2 AND r.vendor_id = $3", description, *vendorID)
	}
	return g.findOne(ctx, "r.risk_type = 'vendor' AND r.description = $2", description)
}

func (g *PgRiskRepository) findOne(ctx context.Context, condition string, args ...any) (*risk.Risk, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := riskFindQuery + fmt.Sprintf(`
        WHERE r.tenant_id = $1 AND r.deleted_at IS NULL AND %s
        ORDER BY r.id ASC
        LIMIT 1`, condition)

	row := tx.QueryRow(ctx, query, append([]any{tenantID}, args...)...)
	entity, err := scanRisk(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, risk.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query risk")
	}
	return entity, nil
}

func (g *PgRiskRepository) Create(ctx context.Context, r *risk.Risk) (*risk.Risk, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	created := *r
	created.TenantID = tenantID
	err = tx.QueryRow(ctx, riskInsertQuery,
		tenantID,
		string(r.RiskType),
		r.VendorID,
		r.Name,
		r.Description,
		r.Impact,
		r.Likelihood,
		r.Severity,
		r.CurrentLevel,
		r.AutoLevel,
		r.RiskLevel,
		r.Category,
		r.Owner,
		r.Phase,
		r.MitigationStatus,
		r.Deadline,
		r.ReviewDate,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, wrapPgError(err, "failed to insert risk")
	}
	return &created, nil
}

func (g *PgRiskRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields riskimport.RiskFields) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	set := []string{"updated_at = NOW()"}
	args := []any{tenantID, id}
	for field, column := range g.columnMap {
		value := fields.Get(field)
		if value == nil {
			continue
		}
		args = append(args, assignValue(field, *value))
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	query := fmt.Sprintf(
		`UPDATE risks SET %s WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		strings.Join(set, ", "),
	)
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to update risk")
	}
	if tag.RowsAffected() == 0 {
		return risk.ErrNotFound
	}
	return nil
}

func (g *PgRiskRepository) LinkToProject(ctx context.Context, riskID, projectID uuid.UUID) error {
	return g.link(ctx, projectRiskLinkQuery, riskID, projectID)
}

func (g *PgRiskRepository) LinkToFramework(ctx context.Context, riskID, frameworkID uuid.UUID) error {
	return g.link(ctx, frameworkRiskLinkQuery, riskID, frameworkID)
}

func (g *PgRiskRepository) link(ctx context.Context, query string, riskID, targetID uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, tenantID, riskID, targetID); err != nil {
		return wrapPgError(err, "failed to link risk")
	}
	return nil
}

// wrapPgError turns constraint violations into messages fit for a per-row
// outcome ledger; everything else keeps the raw driver error.
func wrapPgError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return errors.Wrap(err, "record already exists")
		case "23503":
			return errors.Wrap(err, "linked record does not exist")
		}
	}
	return errors.Wrap(err, msg)
}

// assignValue converts mapped string values to the column's native type.
// Date fields arrive as normalized RFC 3339 strings from validation.
func assignValue(field, value string) any {
	if field == riskimport.FieldDeadline || field == riskimport.FieldReviewDate {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
	}
	return value
}

func scanRisk(row pgx.Row) (*risk.Risk, error) {
	var r risk.Risk
	var riskType string
	err := row.Scan(
		&r.ID,
		&r.TenantID,
		&riskType,
		&r.VendorID,
		&r.Name,
		&r.Description,
		&r.Impact,
		&r.Likelihood,
		&r.Severity,
		&r.CurrentLevel,
		&r.AutoLevel,
		&r.RiskLevel,
		&r.Category,
		&r.Owner,
		&r.Phase,
		&r.MitigationStatus,
		&r.Deadline,
		&r.ReviewDate,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.RiskType = riskimport.ParseRiskType(riskType)
	return &r, nil
}
