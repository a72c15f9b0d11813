package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/memory"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config/models"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/ptr"
)

var admin = domain.Actor{Kind: domain.ActorAdmin, ID: "admin-1"}

func newService() *config.Service {
	return config.NewService(memory.NewConfigRepository(), logger.NewNop())
}

func TestResolve_FallsBackToDefaults(t *testing.T) {
	svc := newService()

	cfg, err := svc.Resolve(context.Background(), "tenant-1", "B")
	require.NoError(t, err)

	assert.True(t, cfg.IsDefault())
	assert.Equal(t, 30, cfg.ExpiryDays)
	assert.Equal(t, 7, cfg.MaxDaysFromCancellation)
	assert.Equal(t, []int{7, 3, 1}, cfg.ReminderOffsets)
	assert.Equal(t, 24, cfg.MinBookingLeadHours)
}

func TestResolve_Hierarchy(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	// GIVEN: a tenant-wide config and a stricter one for category A
	_, err := svc.Upsert(ctx, &models.UpsertConfigRequest{Actor: admin, TenantID: "tenant-1", ExpiryDays: ptr.Ptr(45)})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, &models.UpsertConfigRequest{
		Actor: admin, TenantID: "tenant-1", Category: "A", RequiresAdminValidation: ptr.Ptr(true),
	})
	require.NoError(t, err)

	// WHEN / THEN
	a, err := svc.Get(ctx, "tenant-1", "A")
	require.NoError(t, err)
	assert.Equal(t, models.SourceCategory, a.Source)
	assert.True(t, a.RequiresAdminValidation)
	assert.Equal(t, 45, a.ExpiryDays, "category config starts from the tenant-wide values")

	b, err := svc.Get(ctx, "tenant-1", "B")
	require.NoError(t, err)
	assert.Equal(t, models.SourceTenant, b.Source)
	assert.False(t, b.RequiresAdminValidation)

	other, err := svc.Get(ctx, "tenant-2", "B")
	require.NoError(t, err)
	assert.Equal(t, models.SourceDefault, other.Source)
}

func TestUpsert_RejectsInvalidConfig(t *testing.T) {
	svc := newService()

	_, err := svc.Upsert(context.Background(), &models.UpsertConfigRequest{
		Actor: admin, TenantID: "tenant-1", ReminderOffsets: []int{1, 3},
	})
	assert.ErrorIs(t, err, config.ErrInvalidInput)
}

func TestUpsert_RequiresAdmin(t *testing.T) {
	svc := newService()

	_, err := svc.Upsert(context.Background(), &models.UpsertConfigRequest{
		Actor: domain.Actor{Kind: domain.ActorStudent, ID: "s-1"}, TenantID: "tenant-1",
	})
	assert.ErrorIs(t, err, config.ErrAccessDenied)
}
