package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
	"github.com/jhoicas/equipamentos-api/pkg/logger"
)

var _ repository.ProfileRepository = (*CachedProfileRepository)(nil)

const (
	profileKeyPrefix = "profile:"
	notFoundMarker   = "notfound"
	notFoundTTL      = time.Minute
)

// CachedProfileRepository decora un ProfileRepository con lectura a través de Redis.
// Un fallo de Redis nunca falla la petición: se sigue contra la base.
type CachedProfileRepository struct {
	next  repository.ProfileRepository
	redis *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedProfileRepository construye el decorador.
func NewCachedProfileRepository(next repository.ProfileRepository, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachedProfileRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProfileRepository{next: next, redis: rdb, ttl: ttl, log: log.Component("profile_cache")}
}

// cachedProfile es la forma serializada; Email no se guarda.
type cachedProfile struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func key(id string) string { return profileKeyPrefix + id }

// GetByID lee de Redis y si no está consulta la base y guarda el resultado (también la ausencia).
func (c *CachedProfileRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	data, err := c.redis.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, nil
		}
		var cp cachedProfile
		if err := json.Unmarshal(data, &cp); err == nil {
			return &entity.UserProfile{ID: cp.ID, Name: cp.Name, Role: cp.Role, CreatedAt: cp.CreatedAt, UpdatedAt: cp.UpdatedAt}, nil
		}
		c.log.Warn().Str("user_id", id).Msg("perfil en caché ilegible, se consulta la base")
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn().Err(err).Msg("redis no disponible, se consulta la base")
	}

	p, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		if err := c.redis.Set(ctx, key(id), notFoundMarker, notFoundTTL).Err(); err != nil {
			c.log.Warn().Err(err).Msg("no se pudo cachear perfil ausente")
		}
		return nil, nil
	}
	payload, err := json.Marshal(cachedProfile{ID: p.ID, Name: p.Name, Role: p.Role, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt})
	if err == nil {
		if err := c.redis.Set(ctx, key(id), payload, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("no se pudo cachear perfil")
		}
	}
	return p, nil
}

// List no se cachea (solo lo usa la administración de usuarios).
func (c *CachedProfileRepository) List(ctx context.Context) ([]*entity.UserProfile, error) {
	return c.next.List(ctx)
}

// UpdateRole escribe en la base e invalida la entrada del perfil.
func (c *CachedProfileRepository) UpdateRole(ctx context.Context, id, role string, updatedAt time.Time) error {
	err := c.next.UpdateRole(ctx, id, role, updatedAt)
	if delErr := c.redis.Del(ctx, key(id)).Err(); delErr != nil {
		c.log.Error().Err(delErr).Str("user_id", id).Msg("no se pudo invalidar perfil en caché")
	}
	return err
}
