package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/equipamentos-api/internal/application/analytics"
	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/application/inventory"
	"github.com/jhoicas/equipamentos-api/internal/application/transfer"
	"github.com/jhoicas/equipamentos-api/internal/application/usecase"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/memory"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/equipamentos-api/internal/interfaces/http"
	"github.com/jhoicas/equipamentos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de test sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	t     *testing.T
	app   *fiber.App
	store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	store.AddIdentity(entity.UserProfile{ID: adminID, Name: "Ana", Role: entity.RoleAdmin}, "ana@example.com")
	store.AddIdentity(entity.UserProfile{ID: usuarioID, Name: "Bruno", Role: entity.RoleUser}, "bruno@example.com")

	loc := time.UTC
	codec := spreadsheet.NewCodec()
	categoryUC := inventory.NewCategoryUseCase(store.Categories(), store.Equipment())
	equipmentUC := inventory.NewEquipmentUseCase(memory.NewTxRunner(store), store.Equipment(), store.Categories())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC:     categoryUC,
		EquipmentUC:    equipmentUC,
		MovementUC:     inventory.NewMovementUseCase(memory.NewTxRunner(store), store.Movements(), store.Equipment()),
		ImportUC:       transfer.NewImportUseCase(codec, equipmentUC, categoryUC, logger.Nop()),
		ExportUC:       transfer.NewExportUseCase(store.Movements(), codec, pdf.NewMarotoReportRenderer("test"), loc),
		OrderUC:        usecase.NewOrderUseCase(store.Orders()),
		UserUC:         usecase.NewUserUseCase(store.Profiles(), store.Identities()),
		DashboardUC:    appanalytics.NewDashboardUseCase(store.Analytics(), loc),
		JWT:            testJWT,
		Location:       loc,
		ImportMaxBytes: 1 << 20,
	})
	return &testServer{t: t, app: app, store: store}
}

// do envía body como JSON (si no es nil) autenticado como userID.
func (s *testServer) do(method, path, userID string, body any) *http.Response {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", bearer(s.t, userID))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	return resp
}

// upload envía content como campo multipart "file".
func (s *testServer) upload(path, filename string, content []byte) *http.Response {
	s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", bearer(s.t, adminID))
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seed crea una categoria y un equipamento con quantity unidades.
func (s *testServer) seed(serial string, quantity int) (categoryID, equipmentID int64) {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/categories", adminID, dto.CreateCategoryRequest{Name: "Notebooks " + serial})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	cat := decode[dto.CategoryResponse](s.t, resp)

	resp = s.do(http.MethodPost, "/api/equipment", adminID, dto.CreateEquipmentRequest{
		Name: "Dell " + serial, SerialNumber: serial, CategoryID: cat.ID, Quantity: quantity,
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	eq := decode[dto.EquipmentResponse](s.t, resp)
	return cat.ID, eq.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_NoRequiereToken(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth_BaseCaida_Retorna503(t *testing.T) {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		JWT:  testJWT,
		Ping: func(context.Context) error { return errors.New("dial tcp: timeout") },
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMe_DevuelveCapacidadesDelRol(t *testing.T) {
	s := newTestServer(t)

	admin := decode[dto.MeResponse](t, s.do(http.MethodGet, "/api/me", adminID, nil))
	assert.Equal(t, "admin", admin.Role)
	assert.Equal(t, "ana@example.com", admin.Email)
	assert.Contains(t, admin.Capabilities, "manage_users")

	user := decode[dto.MeResponse](t, s.do(http.MethodGet, "/api/me", usuarioID, nil))
	assert.Equal(t, "usuario", user.Role)
	assert.NotContains(t, user.Capabilities, "manage_users")
	assert.Contains(t, user.Capabilities, "record_movement")
}

func TestCategorias_EliminarConEquipamentos_Retorna409(t *testing.T) {
	s := newTestServer(t)
	catID, _ := s.seed("SN-1", 1)

	resp := s.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), adminID, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "REFERENTIAL_CONFLICT", body.Code)
}

func TestCategorias_UsuarioNoCrea(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodPost, "/api/categories", usuarioID, dto.CreateCategoryRequest{Name: "Monitores"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestEquipamentos_SerieDuplicada_Retorna409(t *testing.T) {
	s := newTestServer(t)
	catID, _ := s.seed("SN-1", 1)

	resp := s.do(http.MethodPost, "/api/equipment", adminID, dto.CreateEquipmentRequest{
		Name: "Outro", SerialNumber: "SN-1", CategoryID: catID, Quantity: 1,
	})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_SERIAL", body.Code)
	assert.Equal(t, []string{"SN-1"}, body.Serials)
}

func TestEquipamentos_LoteConDuplicados_NoPersisteNada(t *testing.T) {
	s := newTestServer(t)
	catID, _ := s.seed("SN-1", 1)

	resp := s.do(http.MethodPost, "/api/equipment/batch", adminID, dto.BatchEquipmentRequest{Items: []dto.CreateEquipmentRequest{
		{Name: "A", SerialNumber: "SN-2", CategoryID: catID, Quantity: 1},
		{Name: "B", SerialNumber: "SN-1", CategoryID: catID, Quantity: 1},
	}})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, []string{"SN-1"}, body.Serials)

	list := decode[[]dto.EquipmentResponse](t, s.do(http.MethodGet, "/api/equipment", usuarioID, nil))
	assert.Len(t, list, 1)
}

func TestEquipamentos_ValidacionDelBody(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodPost, "/api/equipment", adminID, map[string]any{"nome": "Sem série", "quantidade": 1})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "num_serie", body.Field)
}

func TestEquipamentos_UsuarioNoElimina(t *testing.T) {
	s := newTestServer(t)
	_, eqID := s.seed("SN-1", 1)

	resp := s.do(http.MethodDelete, fmt.Sprintf("/api/equipment/%d", eqID), usuarioID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/equipment/%d", eqID), adminID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/equipment/%d", eqID), adminID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovimentacoes_SaidaSinStock_Retorna422(t *testing.T) {
	s := newTestServer(t)
	_, eqID := s.seed("SN-1", 2)

	resp := s.do(http.MethodPost, "/api/movements", usuarioID, dto.RecordMovementRequest{EquipmentID: eqID, Kind: "saida", Quantity: 3})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.NotNil(t, body.Available)
	assert.Equal(t, 2, *body.Available)
}

func TestMovimentacoes_RegistrarYListar(t *testing.T) {
	s := newTestServer(t)
	_, eqID := s.seed("SN-1", 2)

	resp := s.do(http.MethodPost, "/api/movements", usuarioID, dto.RecordMovementRequest{EquipmentID: eqID, Kind: "entrada", Quantity: 5, Notes: "compra"})
	m := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, usuarioID, m.UserID)

	list := decode[[]dto.MovementResponse](t, s.do(http.MethodGet, "/api/movements?kind=entrada", usuarioID, nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Dell SN-1", list[0].EquipmentName)
	assert.Equal(t, "Bruno", list[0].UserName)

	resp = s.do(http.MethodGet, "/api/movements?kind=devolucao", usuarioID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovimentacoes_AplicarAlStock(t *testing.T) {
	s := newTestServer(t)
	_, eqID := s.seed("SN-1", 2)
	m := decode[dto.MovementResponse](t, s.do(http.MethodPost, "/api/movements", usuarioID, dto.RecordMovementRequest{EquipmentID: eqID, Kind: "saida", Quantity: 2}))

	resp := s.do(http.MethodPost, fmt.Sprintf("/api/movements/%d/apply", m.ID), usuarioID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	eq := decode[dto.EquipmentResponse](t, s.do(http.MethodPost, fmt.Sprintf("/api/movements/%d/apply", m.ID), adminID, nil))
	assert.Equal(t, 0, eq.Quantity)

	resp = s.do(http.MethodPost, fmt.Sprintf("/api/movements/%d/apply", m.ID), adminID, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_APPLIED", body.Code)

	list := decode[[]dto.MovementResponse](t, s.do(http.MethodGet, "/api/movements", usuarioID, nil))
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].AppliedAt)
}

func TestExport_SinMovimientos_RetornaEmptyResult(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/api/transfer/export/movements", usuarioID, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "EMPTY_RESULT", body.Code)
	assert.Equal(t, "Nenhum dado encontrado para exportação", body.Message)
}

func TestExport_Planilla(t *testing.T) {
	s := newTestServer(t)
	_, eqID := s.seed("SN-1", 2)
	resp := s.do(http.MethodPost, "/api/movements", usuarioID, dto.RecordMovementRequest{EquipmentID: eqID, Kind: "entrada", Quantity: 1})
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/transfer/export/movements?format=xlsx", usuarioID, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, transfer.ContentTypeXLSX, resp.Header.Get("Content-Type"))
	assert.Equal(t, "1", resp.Header.Get("X-Total-Rows"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestImport_PreviewEImportCSV(t *testing.T) {
	s := newTestServer(t)
	csv := []byte("Nome,Nº Série,Categoria,Quantidade\nDell,SN-10,Notebooks,2\nHP,SN-11,Notebooks,\n,SN-12,Notebooks,1\n")

	resp := s.upload("/api/transfer/import/preview?limit=2", "equipamentos.csv", csv)
	preview := decode[dto.ImportPreviewResponse](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, preview.TotalRows)
	assert.Len(t, preview.Rows, 2)
	assert.Equal(t, "Nº Série", preview.Columns["serial"])

	resp = s.upload("/api/transfer/import", "equipamentos.csv", csv)
	result := decode[transfer.ImportResult](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Failed)
}

func TestImport_SinArchivo_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodPost, "/api/transfer/import", adminID, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "file", body.Field)
}

func TestImport_FormatoDesconocido_Retorna422(t *testing.T) {
	s := newTestServer(t)
	resp := s.upload("/api/transfer/import/preview", "notas.txt", []byte("x"))
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "UNRECOGNIZED_FORMAT", body.Code)
}

func TestPedidos_Paginacion(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 12; i++ {
		resp := s.do(http.MethodPost, "/api/orders", usuarioID, dto.CreateOrderRequest{
			Manufacturer: fmt.Sprintf("Fabricante %02d", i), AcquisitionDate: "2026-03-01",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	page := decode[dto.OrderListResponse](t, s.do(http.MethodGet, "/api/orders?page=2&sort=fabricante&asc=true", usuarioID, nil))
	assert.Equal(t, 12, page.Page.Total)
	assert.Equal(t, 2, page.Page.Pages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Fabricante 10", page.Items[0].Manufacturer)

	resp := s.do(http.MethodGet, "/api/orders?sort=usuario_id", usuarioID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsuarios_CambioDeRol(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(http.MethodGet, "/api/users", usuarioID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	users := decode[[]dto.UserResponse](t, s.do(http.MethodGet, "/api/users", adminID, nil))
	assert.Len(t, users, 2)

	promoted := decode[dto.UserResponse](t, s.do(http.MethodPost, "/api/users/"+usuarioID+"/promote", adminID, nil))
	assert.Equal(t, "admin", promoted.Role)

	// el rol se lee del perfil en cada petición
	resp = s.do(http.MethodGet, "/api/users", usuarioID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodPut, "/api/users/"+usuarioID+"/role", adminID, dto.ChangeRoleRequest{Role: "superuser"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_Resumen(t *testing.T) {
	s := newTestServer(t)
	_, eqID := s.seed("SN-1", 4)
	resp := s.do(http.MethodPost, "/api/movements", usuarioID, dto.RecordMovementRequest{EquipmentID: eqID, Kind: "saida", Quantity: 1})
	resp.Body.Close()

	summary := decode[dto.DashboardSummaryDTO](t, s.do(http.MethodGet, "/api/dashboard/summary", usuarioID, nil))
	assert.Equal(t, int64(4), summary.TotalStock)
	assert.Equal(t, int64(1), summary.TotalOut)
	assert.Len(t, summary.Monthly, 6)
}
