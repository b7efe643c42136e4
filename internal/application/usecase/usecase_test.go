package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/equipamentos-api/internal/application/usecase"
	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/memory"
)

var (
	admin   = policy.Actor{UserID: "00000000-0000-0000-0000-0000000000aa", Role: entity.RoleAdmin}
	usuario = policy.Actor{UserID: "00000000-0000-0000-0000-0000000000bb", Role: entity.RoleUser}
	semMail = "00000000-0000-0000-0000-0000000000cc"
)

func newStore() *memory.Store {
	s := memory.NewStore()
	s.AddIdentity(entity.UserProfile{ID: admin.UserID, Name: "Ana Admin", Role: entity.RoleAdmin}, "ana@example.com")
	s.AddIdentity(entity.UserProfile{ID: usuario.UserID, Name: "Bruno", Role: entity.RoleUser}, "bruno@example.com")
	s.AddIdentity(entity.UserProfile{ID: semMail, Name: "Carla", Role: entity.RoleUser}, "")
	return s
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

func TestOrderUseCase_Create(t *testing.T) {
	uc := usecase.NewOrderUseCase(newStore().Orders())
	ctx := context.Background()

	o, err := uc.Create(ctx, usuario, usecase.OrderInput{Manufacturer: "  Dell ", AcquisitionDate: day("2026-03-10"), TrackingCode: "BR123"})
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.Equal(t, "Dell", o.Manufacturer)
	assert.Equal(t, usuario.UserID, o.CreatedBy)

	_, err = uc.Create(ctx, usuario, usecase.OrderInput{AcquisitionDate: day("2026-03-10")})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "fabricante", ve.Field)

	_, err = uc.Create(ctx, usuario, usecase.OrderInput{Manufacturer: "HP"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Create(ctx, policy.Actor{}, usecase.OrderInput{Manufacturer: "HP", AcquisitionDate: day("2026-03-10")})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestOrderUseCase_ListPaginaYFiltra(t *testing.T) {
	store := newStore()
	uc := usecase.NewOrderUseCase(store.Orders())
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		manufacturer := "Dell"
		if i%2 == 0 {
			manufacturer = "Lenovo"
		}
		_, err := uc.Create(ctx, admin, usecase.OrderInput{
			Manufacturer:    manufacturer,
			AcquisitionDate: day("2026-01-01").AddDate(0, 0, i),
			TrackingCode:    fmt.Sprintf("TR%02d", i),
		})
		require.NoError(t, err)
	}

	p, err := uc.List(ctx, usuario, usecase.OrderQuery{})
	require.NoError(t, err)
	assert.Equal(t, 12, p.Total)
	assert.Equal(t, 2, p.Pages())
	require.Len(t, p.Items, usecase.OrderPageSize)
	assert.Equal(t, "Ana Admin", p.Items[0].CreatorName)

	p, err = uc.List(ctx, usuario, usecase.OrderQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, p.Items, 2)

	p, err = uc.List(ctx, usuario, usecase.OrderQuery{Manufacturer: "len", SortField: repository.OrderSortTrackingCode, Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, 6, p.Total)
	assert.Equal(t, "TR02", p.Items[0].TrackingCode)

	from, to := day("2026-01-03"), day("2026-01-05")
	p, err = uc.List(ctx, usuario, usecase.OrderQuery{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Total)

	p, err = uc.List(ctx, usuario, usecase.OrderQuery{Search: "tr1"})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Total)

	_, err = uc.List(ctx, usuario, usecase.OrderQuery{SortField: "usuario_id; drop table"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.List(ctx, usuario, usecase.OrderQuery{From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func TestUserUseCase_ListConEmails(t *testing.T) {
	store := newStore()
	uc := usecase.NewUserUseCase(store.Profiles(), store.Identities())

	list, err := uc.List(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, list, 3)
	emails := map[string]string{}
	for _, p := range list {
		emails[p.ID] = p.Email
	}
	assert.Equal(t, "ana@example.com", emails[admin.UserID])
	assert.Empty(t, emails[semMail])

	_, err = uc.List(context.Background(), usuario)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

type failingDirectory struct{}

func (failingDirectory) ListEmails(context.Context) (map[string]string, error) {
	return nil, errors.New("service role ausente")
}

func TestUserUseCase_ListSinDirectorio(t *testing.T) {
	store := newStore()
	for _, dir := range []repository.IdentityDirectory{nil, failingDirectory{}} {
		uc := usecase.NewUserUseCase(store.Profiles(), dir)
		list, err := uc.List(context.Background(), admin)
		require.NoError(t, err)
		assert.Len(t, list, 3)
	}
}

func TestUserUseCase_CambioDeRol(t *testing.T) {
	store := newStore()
	uc := usecase.NewUserUseCase(store.Profiles(), store.Identities())
	ctx := context.Background()

	p, err := uc.Promote(ctx, admin, usuario.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, p.Role)
	assert.NotNil(t, p.UpdatedAt)

	p, err = uc.Demote(ctx, admin, usuario.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, p.Role)

	_, err = uc.ChangeRole(ctx, admin, usuario.UserID, "superuser")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Promote(ctx, admin, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Promote(ctx, admin, "00000000-0000-0000-0000-0000000000ff")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Promote(ctx, usuario, usuario.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	got, err := uc.Profile(ctx, usuario.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, got.Role)
}

func TestUserUseCase_Profile(t *testing.T) {
	uc := usecase.NewUserUseCase(newStore().Profiles(), nil)
	p, err := uc.Profile(context.Background(), admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Admin", p.Name)

	p, err = uc.Profile(context.Background(), "00000000-0000-0000-0000-0000000000ff")
	require.NoError(t, err)
	assert.Nil(t, p)
}
