package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/memory"
)

func TestGetSummary(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	ctx := context.Background()
	store := memory.NewStore()

	cat := &entity.Category{Name: "Laptops"}
	require.NoError(t, store.Categories().Create(ctx, cat))
	eq := &entity.Equipment{Name: "Dell XPS", SerialNumber: "SN001", CategoryID: cat.ID, Quantity: 5}
	require.NoError(t, store.Equipment().Create(ctx, eq))
	eq2 := &entity.Equipment{Name: "Monitor", SerialNumber: "SN002", CategoryID: cat.ID, Quantity: 7}
	require.NoError(t, store.Equipment().Create(ctx, eq2))

	record := func(kind string, qty int, at time.Time) {
		require.NoError(t, store.Movements().Create(ctx, &entity.Movement{EquipmentID: eq.ID, Kind: kind, Quantity: qty, Date: at}))
	}
	record(entity.MovementKindIn, 4, time.Date(2026, 3, 2, 10, 0, 0, 0, loc))
	record(entity.MovementKindOut, 1, time.Date(2026, 3, 20, 10, 0, 0, 0, loc))
	record(entity.MovementKindOut, 2, time.Date(2025, 12, 31, 23, 30, 0, 0, loc)) // en UTC ya es enero
	record(entity.MovementKindIn, 9, time.Date(2025, 6, 1, 12, 0, 0, 0, loc))  // fuera de la ventana

	uc := NewDashboardUseCase(store.Analytics(), loc)
	uc.now = func() time.Time { return time.Date(2026, 3, 25, 12, 0, 0, 0, loc) }

	sum, err := uc.GetSummary(ctx, policy.Actor{UserID: "u1", Role: entity.RoleUser})
	require.NoError(t, err)
	assert.EqualValues(t, 12, sum.TotalStock)
	assert.EqualValues(t, 13, sum.TotalIn)
	assert.EqualValues(t, 3, sum.TotalOut)

	require.Len(t, sum.Monthly, 6)
	assert.Equal(t, "2025-10", sum.Monthly[0].Month)
	assert.Equal(t, "out/2025", sum.Monthly[0].Label)
	assert.Equal(t, "2025-12", sum.Monthly[2].Month)
	assert.EqualValues(t, 2, sum.Monthly[2].Out)
	assert.Zero(t, sum.Monthly[3].Out)
	assert.Equal(t, "mar/2026", sum.Monthly[5].Label)
	assert.EqualValues(t, 4, sum.Monthly[5].In)
	assert.EqualValues(t, 1, sum.Monthly[5].Out)
	assert.Zero(t, sum.Monthly[4].In+sum.Monthly[4].Out)
}

func TestGetSummary_SinIdentidad(t *testing.T) {
	uc := NewDashboardUseCase(memory.NewStore().Analytics(), nil)
	_, err := uc.GetSummary(context.Background(), policy.Actor{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
