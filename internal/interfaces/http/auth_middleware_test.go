package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	apphttp "github.com/jhoicas/equipamentos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/equipamentos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	adminID       = "00000000-0000-0000-0000-0000000000aa"
	usuarioID     = "00000000-0000-0000-0000-0000000000bb"
	sinPerfilID   = "00000000-0000-0000-0000-0000000000cc"
	caidoID       = "00000000-0000-0000-0000-0000000000dd"
)

var testJWT = pkgjwt.Options{Secret: testJWTSecret, Audience: "authenticated", Expiration: time.Hour}

// stubProfiles resuelve perfiles fijos; caidoID simula la base caída.
type stubProfiles map[string]*entity.UserProfile

func (s stubProfiles) Profile(_ context.Context, id string) (*entity.UserProfile, error) {
	if id == caidoID {
		return nil, errors.New("connection refused")
	}
	p, ok := s[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

var profiles = stubProfiles{
	adminID:   {ID: adminID, Name: "Ana", Role: entity.RoleAdmin},
	usuarioID: {ID: usuarioID, Name: "Bruno", Role: entity.RoleUser},
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el JWT y cargar el perfil
//   - RequireCapability para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(cap policy.Capability) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWT, profiles),
		apphttp.RequireCapability(cap),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// bearer genera un JWT para userID.
func bearer(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWT, userID, userID[len(userID)-2:]+"@example.com")
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireCapability
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: admin tiene manage_users → 200.
func TestRequireCapability_AdminGestionaUsuarios(t *testing.T) {
	resp := doRequest(t, buildTestApp(policy.CapManageUsers), bearer(t, adminID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin", body["role"], "el rol sale de profiles, no del token")
}

// Caso 2: usuario registra movimientos → 200.
func TestRequireCapability_UsuarioRegistraMovimiento(t *testing.T) {
	resp := doRequest(t, buildTestApp(policy.CapRecordMovement), bearer(t, usuarioID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 3: usuario sin delete_equipment → 403 FORBIDDEN.
func TestRequireCapability_UsuarioNoEliminaEquipamento(t *testing.T) {
	resp := doRequest(t, buildTestApp(policy.CapDeleteEquipment), bearer(t, usuarioID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(policy.CapReadInventory), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(policy.CapReadInventory)
	for _, h := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, h)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, h)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	opts := testJWT
	opts.Expiration = -time.Minute
	tok, err := pkgjwt.Generate(opts, adminID, "")
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(policy.CapReadInventory), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SinPerfil_Retorna403(t *testing.T) {
	resp := doRequest(t, buildTestApp(policy.CapReadInventory), bearer(t, sinPerfilID))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_BaseCaida_Retorna500(t *testing.T) {
	resp := doRequest(t, buildTestApp(policy.CapReadInventory), bearer(t, caidoID))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "connection refused", "el detalle interno no se expone")
}

func TestAuthMiddleware_CargaLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", apphttp.AuthMiddleware(testJWT, profiles), func(c *fiber.Ctx) error {
		actor := apphttp.ActorFrom(c)
		return c.JSON(fiber.Map{
			"user_id": actor.UserID,
			"role":    actor.Role,
			"name":    apphttp.GetProfile(c).Name,
			"email":   apphttp.GetProfile(c).Email,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", bearer(t, usuarioID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, usuarioID, body["user_id"])
	assert.Equal(t, "usuario", body["role"])
	assert.Equal(t, "Bruno", body["name"])
	assert.Equal(t, "bb@example.com", body["email"])
}
