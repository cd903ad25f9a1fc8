package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/riskdesk/riskdesk/modules/risks/domain/aggregates/risk"
	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/pkg/composables"
)

// InMemRiskRepository backs service tests. It applies the same tenant
// scoping and first-match-wins lookup order as the SQL implementation.
type InMemRiskRepository struct {
	mu    sync.RWMutex
	risks map[uuid.UUID]*risk.Risk
	// seq preserves insertion order so natural-key lookups are stable.
	seq      []uuid.UUID
	projects map[uuid.UUID][]uuid.UUID
	frames   map[uuid.UUID][]uuid.UUID
}

func NewInMemRiskRepository() *InMemRiskRepository {
	return &InMemRiskRepository{
		risks:    make(map[uuid.UUID]*risk.Risk),
		projects: make(map[uuid.UUID][]uuid.UUID),
		frames:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *InMemRiskRepository) GetByID(ctx context.Context, id uuid.UUID) (*risk.Risk, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.risks[id]
	if !ok || entity.TenantID != tenantID {
		return nil, risk.ErrNotFound
	}
	copied := *entity
	return &copied, nil
}

func (r *InMemRiskRepository) FindProjectByName(ctx context.Context, name string) (*risk.Risk, error) {
	return r.find(ctx, func(e *risk.Risk) bool {
		return e.RiskType == riskimport.TypeProject && e.Name == name
	})
}

func (r *InMemRiskRepository) FindVendorByDescription(ctx context.Context, description string, vendorID *uuid.UUID) (*risk.Risk, error) {
	return r.find(ctx, func(e *risk.Risk) bool {
		if e.RiskType != riskimport.TypeVendor || e.Description != description {
			return false
		}
		if vendorID == nil {
			return true
		}
		return e.VendorID != nil && *e.VendorID == *vendorID
	})
}

func (r *InMemRiskRepository) find(ctx context.Context, match func(*risk.Risk) bool) (*risk.Risk, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.seq {
		entity := r.risks[id]
		if entity.TenantID != tenantID {
			continue
		}
		if match(entity) {
			copied := *entity
			return &copied, nil
		}
	}
	return nil, risk.ErrNotFound
}

func (r *InMemRiskRepository) Create(ctx context.Context, entity *risk.Risk) (*risk.Risk, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *entity
	created.ID = uuid.New()
	created.TenantID = tenantID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	stored := created
	r.risks[created.ID] = &stored
	r.seq = append(r.seq, created.ID)
	return &created, nil
}

func (r *InMemRiskRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields riskimport.RiskFields) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.risks[id]
	if !ok || entity.TenantID != tenantID {
		return risk.ErrNotFound
	}
	apply := func(field string, dst **string) {
		if v := fields.Get(field); v != nil {
			value := *v
			*dst = &value
		}
	}
	if v := fields.Get(riskimport.FieldRiskName); v != nil {
		entity.Name = *v
	}
	if v := fields.Get(riskimport.FieldRiskDescription); v != nil {
		entity.Description = *v
	}
	apply(riskimport.FieldImpact, &entity.Impact)
	apply(riskimport.FieldLikelihood, &entity.Likelihood)
	apply(riskimport.FieldSeverity, &entity.Severity)
	apply(riskimport.FieldCurrentLevel, &entity.CurrentLevel)
	apply(riskimport.FieldAutoLevel, &entity.AutoLevel)
	apply(riskimport.FieldRiskLevel, &entity.RiskLevel)
	apply(riskimport.FieldCategory, &entity.Category)
	apply(riskimport.FieldOwner, &entity.Owner)
	apply(riskimport.FieldPhase, &entity.Phase)
	apply(riskimport.FieldMitigationStatus, &entity.MitigationStatus)
	applyDate := func(field string, dst **time.Time) {
		if v := fields.Get(field); v != nil {
			if t, err := time.Parse(time.RFC3339, *v); err == nil {
				*dst = &t
			}
		}
	}
	applyDate(riskimport.FieldDeadline, &entity.Deadline)
	applyDate(riskimport.FieldReviewDate, &entity.ReviewDate)
	entity.UpdatedAt = time.Now()
	return nil
}

func (r *InMemRiskRepository) LinkToProject(ctx context.Context, riskID, projectID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[projectID] = append(r.projects[projectID], riskID)
	return nil
}

func (r *InMemRiskRepository) LinkToFramework(ctx context.Context, riskID, frameworkID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames[frameworkID] = append(r.frames[frameworkID], riskID)
	return nil
}

// ProjectLinks returns the risk ids linked to a project, sorted for
// deterministic assertions.
func (r *InMemRiskRepository) ProjectLinks(projectID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]uuid.UUID(nil), r.projects[projectID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// FrameworkLinks returns the risk ids linked to a framework.
func (r *InMemRiskRepository) FrameworkLinks(frameworkID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]uuid.UUID(nil), r.frames[frameworkID]...)
}

// All returns every stored risk for the tenant in insertion order.
func (r *InMemRiskRepository) All(ctx context.Context) ([]*risk.Risk, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*risk.Risk
	for _, id := range r.seq {
		entity := r.risks[id]
		if entity.TenantID != tenantID {
			continue
		}
		copied := *entity
		out = append(out, &copied)
	}
	return out, nil
}
