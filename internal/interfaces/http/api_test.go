package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candelacafe/candela-api/internal/application/auth"
	"github.com/candelacafe/candela-api/internal/application/dashboard"
	"github.com/candelacafe/candela-api/internal/infrastructure/file"
	ihttp "github.com/candelacafe/candela-api/internal/interfaces/http"
	"github.com/candelacafe/candela-api/pkg/logger"
)

const apiSecret = "api-test-secret"

type testAPI struct {
	app *fiber.App
}

func nuevaAPI(t *testing.T, registroAbierto bool) *testAPI {
	t.Helper()
	dir := t.TempDir()
	store := file.NuevoStore(filepath.Join(dir, "data.json"), filepath.Join(dir, "users.json"))

	authUC := auth.NewAuthUseCase(store, store, auth.JWTConfig{
		Secret:     apiSecret,
		ExpMinutes: 60,
		Issuer:     "candela-test",
	})
	require.NoError(t, authUC.SembrarAdmin(context.Background(), "admin", "admin-secreto"))

	app := fiber.New()
	ihttp.Router(app, ihttp.RouterDeps{
		AuthUC:          authUC,
		DashboardUC:     dashboard.NewUseCase(store, logger.Nop()),
		JWTSecret:       apiSecret,
		RegistroAbierto: registroAbierto,
	})
	return &testAPI{app: app}
}

func (a *testAPI) do(t *testing.T, metodo, ruta, token string, cuerpo any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if cuerpo != nil {
		datos, err := json.Marshal(cuerpo)
		require.NoError(t, err)
		body = bytes.NewReader(datos)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(metodo, ruta, body)
	if cuerpo != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodificar[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registra y loguea una cuenta nueva; devuelve su token.
func (a *testAPI) sesion(t *testing.T, username, password string) string {
	t.Helper()
	resp := a.do(t, "POST", "/api/register", "", fiber.Map{"username": username, "password": password})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return a.login(t, username, password)
}

func (a *testAPI) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := a.do(t, "POST", "/api/login", "", fiber.Map{"username": username, "password": password})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodificar[map[string]any](t, resp)
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAPI_DataSinTokenEs401(t *testing.T) {
	api := nuevaAPI(t, true)
	resp := api.do(t, "GET", "/api/data", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_RegistroLoginYDocumentoVacio(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "GET", "/api/data", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	doc := decodificar[map[string]any](t, resp)

	ventas, ok := doc["ventas"].([]any)
	require.True(t, ok)
	assert.Empty(t, ventas)
}

func TestAPI_LoginCredencialesInvalidas(t *testing.T) {
	api := nuevaAPI(t, true)
	api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/login", "", fiber.Map{"username": "demo", "password": "mal"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_AislamientoEntreTenants(t *testing.T) {
	api := nuevaAPI(t, true)
	tokenAna := api.sesion(t, "ana", "clave-ana")
	tokenBeto := api.sesion(t, "beto", "clave-beto")

	resp := api.do(t, "POST", "/api/push?array=ventas", tokenAna,
		fiber.Map{"id": 1, "monto": 119000})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Beto nunca ve los datos de Ana.
	resp = api.do(t, "GET", "/api/data", tokenBeto, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	doc := decodificar[map[string]any](t, resp)
	assert.Empty(t, doc["ventas"])
}

func TestAPI_PushDevuelveArrayActualizado(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/push?array=inventario", token,
		fiber.Map{"origen": "Brasil", "stockActual": 10})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	arr := decodificar[[]any](t, resp)
	require.Len(t, arr, 1)
	item := arr[0].(map[string]any)
	assert.Equal(t, "Brasil", item["origen"])
	assert.NotNil(t, item["id"], "el servidor asigna id")
}

func TestAPI_PushSinQueryEs400(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/push", token, fiber.Map{"id": 1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAPI_PushArrayDesconocidoEs400(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/push?array=credenciales", token, fiber.Map{"id": 1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAPI_VentaLocalDescuentaInventario(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/push?array=inventario", token,
		fiber.Map{"origen": "Brasil", "stockActual": 10})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, "POST", "/api/sales/local", token, fiber.Map{
		"sale":            fiber.Map{"id": 42, "monto": 5000},
		"deductInventory": []fiber.Map{{"origen": "Brasil", "kg": 2}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodificar[map[string]any](t, resp)
	ventas := out["sales"].([]any)
	require.Len(t, ventas, 1)
	inventario := out["inventory"].([]any)
	item := inventario[0].(map[string]any)
	assert.Equal(t, 8.0, item["stockActual"])
}

func TestAPI_CicloEstadoYToggle(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/push?array=ventas", token,
		fiber.Map{"id": 7, "estado": "iniciada"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, "POST", "/api/sales/7/estado", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodificar[map[string]any](t, resp)
	venta := out["venta"].(map[string]any)
	assert.Equal(t, "proceso", venta["estado"])

	resp = api.do(t, "POST", "/api/sales/7/toggle?campo=pagado", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out = decodificar[map[string]any](t, resp)
	venta = out["venta"].(map[string]any)
	assert.Equal(t, true, venta["pagado"])
}

func TestAPI_EstadoVentaInexistenteEsNoOp(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/sales/999/estado", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodificar[map[string]any](t, resp)
	assert.Equal(t, false, out["encontrada"])
}

func TestAPI_SummaryCalculaTotales(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/push?array=ventas", token,
		fiber.Map{"id": 1, "monto": 119000, "kg": 10, "pagado": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, "GET", "/api/summary", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodificar[map[string]any](t, resp)
	assert.Equal(t, 119000.0, out["totalVentas"])
	assert.Equal(t, 100000.0, out["neto"])
	assert.Equal(t, 19000.0, out["iva"])
}

func TestAPI_ExportVentasDevuelveXLSX(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "GET", "/api/export/sales", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ventas.xlsx")
}

// ──────────────────────────────────────────────────────────────────────────────
// Administración
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_AdminProhibidoParaUsuarioComun(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "GET", "/api/admin/users", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAPI_AdminListaUsuariosYLeeOtrosTenants(t *testing.T) {
	api := nuevaAPI(t, true)
	tokenDemo := api.sesion(t, "demo", "demo123")
	tokenAdmin := api.login(t, "admin", "admin-secreto")

	resp := api.do(t, "POST", "/api/push?array=ventas", tokenDemo, fiber.Map{"id": 1})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, "GET", "/api/admin/users", tokenAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	usuarios := decodificar[[]map[string]any](t, resp)
	require.Len(t, usuarios, 2)

	var demoID string
	for _, u := range usuarios {
		if u["username"] == "demo" {
			demoID, _ = u["id"].(string)
		}
	}
	require.NotEmpty(t, demoID)

	resp = api.do(t, "GET", "/api/admin/users/"+demoID+"/data", tokenAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	doc := decodificar[map[string]any](t, resp)
	assert.Len(t, doc["ventas"], 1)
}

func TestAPI_RegistroCerradoExigeAdmin(t *testing.T) {
	api := nuevaAPI(t, false)

	// Sin token: el registro cerrado rebota en el middleware.
	resp := api.do(t, "POST", "/api/register", "", fiber.Map{"username": "x", "password": "y"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Un admin sí puede crear cuentas.
	tokenAdmin := api.login(t, "admin", "admin-secreto")
	resp = api.do(t, "POST", "/api/register", tokenAdmin, fiber.Map{"username": "nueva", "password": "clave"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestAPI_UpgradeYMe(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "GET", "/api/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me := decodificar[map[string]any](t, resp)
	assert.Equal(t, "free", me["plan"])

	resp = api.do(t, "POST", "/api/upgrade", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, "GET", "/api/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me = decodificar[map[string]any](t, resp)
	assert.Equal(t, "pro", me["plan"])
	assert.NotNil(t, me["plan_expires"])
}

func TestAPI_SobrescrituraCompleta(t *testing.T) {
	api := nuevaAPI(t, true)
	token := api.sesion(t, "demo", "demo123")

	resp := api.do(t, "POST", "/api/data", token, fiber.Map{
		"ventas":        []fiber.Map{{"id": 1, "monto": 1000}},
		"notasPrivadas": "campo ad-hoc de la UI",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, "GET", "/api/data", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	doc := decodificar[map[string]any](t, resp)
	assert.Len(t, doc["ventas"], 1)
	assert.Equal(t, "campo ad-hoc de la UI", doc["notasPrivadas"])
	// Normalizar repone los arrays conocidos ausentes como vacíos.
	gastos, ok := doc["gastos"].([]any)
	require.True(t, ok)
	assert.Empty(t, gastos)
}
