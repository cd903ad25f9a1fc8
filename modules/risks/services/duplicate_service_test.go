package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskdesk/riskdesk/modules/risks/domain/aggregates/risk"
	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/modules/risks/infrastructure/persistence"
	"github.com/riskdesk/riskdesk/modules/risks/services"
	"github.com/riskdesk/riskdesk/pkg/composables"
)

func tenantCtx(t *testing.T) context.Context {
	t.Helper()
	return composables.WithTenantID(context.Background(), uuid.New())
}

func str(s string) *string { return &s }

func validRow(index int, field, value string) riskimport.MappedRow {
	row := riskimport.MappedRow{RowIndex: index, IsValid: true}
	v := value
	row.Fields.Set(field, &v)
	return row
}

func TestDuplicateCheck_Project(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInMemRiskRepository()
	svc := services.NewDuplicateService(repo)
	ctx := tenantCtx(t)

	_, err := repo.Create(ctx, &risk.Risk{RiskType: riskimport.TypeProject, Name: "Server outage"})
	require.NoError(t, err)

	result, err := svc.Check(ctx, riskimport.TypeProject, []riskimport.MappedRow{
		validRow(1, riskimport.FieldRiskName, "Server outage"),
		validRow(2, riskimport.FieldRiskName, "server outage"),
		validRow(3, riskimport.FieldRiskName, "Data breach"),
	}, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	assert.True(t, result.Rows[0].IsDuplicate)
	require.NotNil(t, result.Rows[0].ExistingName)
	assert.Equal(t, "Server outage", *result.Rows[0].ExistingName)

	// Matching is exact and case-sensitive.
	assert.False(t, result.Rows[1].IsDuplicate)
	assert.False(t, result.Rows[2].IsDuplicate)
	assert.Equal(t, riskimport.DuplicateSummary{Total: 3, Duplicates: 1, Unique: 2}, result.Summary)
}

func TestDuplicateCheck_VendorScopedToVendor(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInMemRiskRepository()
	svc := services.NewDuplicateService(repo)
	ctx := tenantCtx(t)

	vendorA := uuid.New()
	vendorB := uuid.New()
	_, err := repo.Create(ctx, &risk.Risk{
		RiskType:    riskimport.TypeVendor,
		Description: "Vendor has no DR plan",
		VendorID:    &vendorA,
	})
	require.NoError(t, err)

	rows := []riskimport.MappedRow{
		validRow(1, riskimport.FieldRiskDescription, "Vendor has no DR plan"),
	}

	sameVendor, err := svc.Check(ctx, riskimport.TypeVendor, rows, &vendorA)
	require.NoError(t, err)
	assert.True(t, sameVendor.Rows[0].IsDuplicate)

	otherVendor, err := svc.Check(ctx, riskimport.TypeVendor, rows, &vendorB)
	require.NoError(t, err)
	assert.False(t, otherVendor.Rows[0].IsDuplicate)
}

func TestDuplicateCheck_InvalidRowsAreNotLookedUp(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInMemRiskRepository()
	svc := services.NewDuplicateService(repo)
	ctx := tenantCtx(t)

	_, err := repo.Create(ctx, &risk.Risk{RiskType: riskimport.TypeProject, Name: "Server outage"})
	require.NoError(t, err)

	invalid := validRow(1, riskimport.FieldRiskName, "Server outage")
	invalid.IsValid = false

	result, err := svc.Check(ctx, riskimport.TypeProject, []riskimport.MappedRow{invalid}, nil)
	require.NoError(t, err)
	assert.False(t, result.Rows[0].IsDuplicate)
	// Invalid rows count toward neither duplicates nor unique.
	assert.Equal(t, riskimport.DuplicateSummary{Total: 1}, result.Summary)
}

func TestDuplicateCheck_OtherTenantRecordsInvisible(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInMemRiskRepository()
	svc := services.NewDuplicateService(repo)

	_, err := repo.Create(tenantCtx(t), &risk.Risk{RiskType: riskimport.TypeProject, Name: "Server outage"})
	require.NoError(t, err)

	result, err := svc.Check(tenantCtx(t), riskimport.TypeProject, []riskimport.MappedRow{
		validRow(1, riskimport.FieldRiskName, "Server outage"),
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Rows[0].IsDuplicate)
}

func TestDuplicateCheck_RequiresTenant(t *testing.T) {
	t.Parallel()
	svc := services.NewDuplicateService(persistence.NewInMemRiskRepository())
	_, err := svc.Check(context.Background(), riskimport.TypeProject, nil, nil)
	assert.ErrorIs(t, err, composables.ErrNoTenant)
}
