package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/cache"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/memory"
	"github.com/jhoicas/equipamentos-api/pkg/config"
	"github.com/jhoicas/equipamentos-api/pkg/logger"
)

const userID = "00000000-0000-0000-0000-0000000000bb"

// countingProfiles cuenta las lecturas que llegan a la base.
type countingProfiles struct {
	*memory.ProfileRepo
	gets int
}

func (c *countingProfiles) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	c.gets++
	return c.ProfileRepo.GetByID(ctx, id)
}

func setup(t *testing.T) (*miniredis.Miniredis, *countingProfiles, *cache.CachedProfileRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := memory.NewStore()
	store.AddIdentity(entity.UserProfile{ID: userID, Name: "Bruno", Role: entity.RoleUser}, "bruno@example.com")
	base := &countingProfiles{ProfileRepo: store.Profiles()}
	return mr, base, cache.NewCachedProfileRepository(base, rdb, time.Minute, logger.Nop())
}

func TestCachedProfile_LecturaATraves(t *testing.T) {
	mr, base, repo := setup(t)
	ctx := context.Background()

	p, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, p.Role)
	p, err = repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", p.Name)
	assert.Equal(t, 1, base.gets)
	assert.True(t, mr.Exists("profile:"+userID))

	mr.FastForward(2 * time.Minute)
	_, err = repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, base.gets, "expiró el TTL")
}

func TestCachedProfile_UpdateRoleInvalida(t *testing.T) {
	_, base, repo := setup(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateRole(ctx, userID, entity.RoleAdmin, time.Now()))

	p, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, p.Role)
	assert.Equal(t, 2, base.gets)
}

func TestCachedProfile_Ausente(t *testing.T) {
	_, base, repo := setup(t)
	ctx := context.Background()
	missing := "00000000-0000-0000-0000-0000000000ff"

	for i := 0; i < 2; i++ {
		p, err := repo.GetByID(ctx, missing)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, 1, base.gets)
}

func TestCachedProfile_RedisCaido(t *testing.T) {
	mr, base, repo := setup(t)
	mr.Close()

	p, err := repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", p.Name)
	assert.Equal(t, 1, base.gets)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := cache.Connect(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	mr.Close()
	_, err = cache.Connect(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	assert.Error(t, err)
}
