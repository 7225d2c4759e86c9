package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Distribuidores-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidores-api/internal/application/audit"
	"github.com/jhoicas/Distribuidores-api/internal/application/auth"
	"github.com/jhoicas/Distribuidores-api/internal/application/distribution"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/application/gamification"
	"github.com/jhoicas/Distribuidores-api/internal/application/profits"
	"github.com/jhoicas/Distribuidores-api/internal/application/sales"
	"github.com/jhoicas/Distribuidores-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Distribuidores-api/internal/interfaces/http"
	"github.com/jhoicas/Distribuidores-api/internal/testutil"
	pkgjwt "github.com/jhoicas/Distribuidores-api/pkg/jwt"
)

type apiEnv struct {
	*testutil.Fixture
	app  *fiber.App
	prom *metrics.Prometheus
}

// newAPI arma la aplicación completa sobre el store en memoria, como en cmd/api.
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	f := testutil.New(t)
	log := zerolog.Nop()
	s := f.Store
	rec := audit.NewRecorder(s.Audit(), log)
	prom := metrics.New()

	gam := gamification.NewUseCase(gamification.Deps{
		Tx: s, Repo: s.Gamification(), Users: s.Users(), Sales: s.Sales(),
		Recorder: rec, Metrics: prom, Log: log,
	})
	authUC := auth.NewAuthUseCase(s.Users(), s.Companies(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	deps := apphttp.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     usecase.NewCompanyUseCase(s.Companies()),
		ModuleService: usecase.NewModuleService(s.Companies()),
		CategoryUC:    usecase.NewCategoryUseCase(s.Categories(), rec),
		ProductUC:     usecase.NewProductUseCase(s.Products(), s.Categories(), s, rec),
		DistributorUC: usecase.NewDistributorUseCase(s.Users(), rec),
		Distribution:  distribution.NewUseCase(s, s.Products(), s.Stock(), s.Movements(), gam, rec, prom),
		Sales: sales.NewUseCase(sales.Deps{
			Tx: s, Sales: s.Sales(), Zones: gam, Recorder: rec, Metrics: prom, Log: log,
		}),
		Gamification: gam,
		Profits:      profits.NewUseCase(s, s.Ledger(), s.Users(), gam, rec, prom),
		Audit:        audit.NewUseCase(s.Audit()),
		Analytics: appanalytics.NewService(appanalytics.Deps{
			Analytics: s.Analytics(), Products: s.Products(), Users: s.Users(), Stock: s.Stock(),
			Sales: s.Sales(), Ledger: s.Ledger(), Rankings: gam, Metrics: prom, Log: log,
		}),
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	}

	app := fiber.New()
	app.Use(apphttp.Metrics(prom))
	app.Get("/metrics", adaptor.HTTPHandler(prom.Handler()))
	apphttp.Router(app, deps)
	return &apiEnv{Fixture: f, app: app, prom: prom}
}

func (e *apiEnv) token(t *testing.T, a dto.Actor) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, a.UserID, a.CompanyID, a.Role, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

// call ejecuta la petición; body nil no envía cuerpo. Devuelve estado y cuerpo.
func (e *apiEnv) call(t *testing.T, method, path string, actor *dto.Actor, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, *actor))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er), string(body))
	return er.Code
}

func TestRouter_VentaDeDistribuidorConfirmadaPorAdmin(t *testing.T) {
	e := newAPI(t)
	p := e.Product("CAF-1", 10, 14, 20, 0)
	ana := e.Distributor("ana", 10)
	e.Give(ana.UserID, p.ID, 5)

	status, body := e.call(t, http.MethodPost, "/api/sales", &ana, fiber.Map{"product_id": p.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, status, string(body))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.Equal(t, entity.SaleStatusPending, sale.Status)
	assert.Equal(t, ana.UserID, sale.DistributorID)

	// el distribuidor no puede confirmar
	status, _ = e.call(t, http.MethodPost, "/api/sales/"+sale.ID+"/confirm", &ana, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = e.call(t, http.MethodPost, "/api/sales/"+sale.ID+"/confirm", &e.Admin, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var confirmed dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &confirmed))
	assert.Equal(t, entity.SaleStatusConfirmed, confirmed.Status)
	assert.True(t, confirmed.DistributorProfit.IsPositive())

	status, body = e.call(t, http.MethodGet, "/api/profits/balance", &ana, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var bal dto.BalanceResponse
	require.NoError(t, json.Unmarshal(body, &bal))
	assert.Equal(t, entity.AccountDistributor, bal.AccountType)
	assert.True(t, bal.Balance.Equal(confirmed.DistributorProfit), "saldo %s, utilidad %s", bal.Balance, confirmed.DistributorProfit)

	status, _ = e.call(t, http.MethodPost, "/api/sales/"+sale.ID+"/confirm", &e.Admin, nil)
	assert.Equal(t, http.StatusConflict, status, "una venta confirmada no se confirma dos veces")
}

func TestRouter_StockInsuficienteRetorna409(t *testing.T) {
	e := newAPI(t)
	p := e.Product("CAF-1", 10, 14, 20, 3)
	ana := e.Distributor("ana", 10)

	status, body := e.call(t, http.MethodPost, "/api/stock/assign", &e.Admin,
		fiber.Map{"product_id": p.ID, "distributor_id": ana.UserID, "quantity": 4})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))

	status, body = e.call(t, http.MethodPost, "/api/stock/assign", &e.Admin,
		fiber.Map{"product_id": p.ID, "distributor_id": ana.UserID, "quantity": 3})
	require.Equal(t, http.StatusOK, status, string(body))
	var op dto.StockOperationResponse
	require.NoError(t, json.Unmarshal(body, &op))
	assert.Equal(t, 0, op.CentralStock)
}

func TestRouter_CuerpoInvalidoRetornaValidation(t *testing.T) {
	e := newAPI(t)
	ana := e.Distributor("ana", 10)

	status, body := e.call(t, http.MethodPost, "/api/sales", &ana, fiber.Map{"product_id": "no-es-uuid", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
	assert.Contains(t, string(body), "product_id")
	assert.Contains(t, string(body), "quantity")
}

func TestRouter_QueryConUUIDInvalidoRetorna400(t *testing.T) {
	e := newAPI(t)

	status, body := e.call(t, http.MethodGet, "/api/sales?distributor_id=xyz", &e.Admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestRouter_IDMalFormadoEnRutaRetorna404(t *testing.T) {
	e := newAPI(t)

	status, body := e.call(t, http.MethodGet, "/api/sales/123", &e.Admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	status, _ = e.call(t, http.MethodGet, "/api/sales/"+uuid.NewString(), &e.Admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_ModuloDesactivadoBloqueaRutas(t *testing.T) {
	e := newAPI(t)

	status, _ := e.call(t, http.MethodGet, "/api/gamification/config", &e.Admin, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := e.call(t, http.MethodPut, "/api/modules/"+entity.ModuleGamification, &e.Admin, fiber.Map{"is_active": false})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = e.call(t, http.MethodGet, "/api/gamification/config", &e.Admin, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "MODULE_DISABLED", errorCode(t, body))

	// las ventas no dependen de ese módulo
	status, _ = e.call(t, http.MethodGet, "/api/sales", &e.Admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_RutasDeAdminRechazanDistribuidor(t *testing.T) {
	e := newAPI(t)
	ana := e.Distributor("ana", 10)

	for _, path := range []string{"/api/audit", "/api/distributors", "/api/dashboard/admin", "/api/analytics/products"} {
		status, _ := e.call(t, http.MethodGet, path, &ana, nil)
		assert.Equal(t, http.StatusForbidden, status, path)
	}
	status, _ := e.call(t, http.MethodGet, "/api/dashboard/distributor", &ana, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_SinTokenRetorna401(t *testing.T) {
	e := newAPI(t)

	status, body := e.call(t, http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, body))
}

func TestRouter_RegistroPublicoQuedaInactivo(t *testing.T) {
	e := newAPI(t)
	creds := fiber.Map{"email": "nuevo@demo.co", "password": "secreto123", "company_id": e.Company.ID}

	status, body := e.call(t, http.MethodPost, "/api/auth/register", nil, creds)
	require.Equal(t, http.StatusCreated, status, string(body))
	var u dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &u))
	assert.Equal(t, entity.RoleDistribuidor, u.Role)
	assert.Equal(t, entity.UserStatusInactive, u.Status)

	status, _ = e.call(t, http.MethodPost, "/api/auth/register", nil, creds)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = e.call(t, http.MethodPost, "/api/auth/login", nil, fiber.Map{"email": "nuevo@demo.co", "password": "secreto123"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.call(t, http.MethodPost, "/api/auth/login", nil, fiber.Map{"email": "nuevo@demo.co", "password": "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_RegistroEnEmpresaInexistente(t *testing.T) {
	e := newAPI(t)

	status, body := e.call(t, http.MethodPost, "/api/auth/register", nil,
		fiber.Map{"email": "x@demo.co", "password": "secreto123", "company_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "COMPANY_NOT_FOUND", errorCode(t, body))
}

func TestRouter_MetricasUsanLaPlantillaDeRuta(t *testing.T) {
	e := newAPI(t)
	_ = e.Product("CAF-1", 10, 14, 20, 0)
	id := uuid.NewString()

	status, _ := e.call(t, http.MethodGet, "/api/products/"+id, &e.Admin, nil)
	require.Equal(t, http.StatusNotFound, status)

	status, body := e.call(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, status)
	text := string(body)
	assert.Contains(t, text, `distribuidores_http_requests_total{method="GET",route="/api/products/:id",status="404"} 1`)
	assert.NotContains(t, text, id)
}

func TestRouter_AuditoriaRegistraOperaciones(t *testing.T) {
	e := newAPI(t)
	ana := e.Distributor("ana", 10)

	status, body := e.call(t, http.MethodPut, "/api/distributors/"+ana.UserID+"/status", &e.Admin, fiber.Map{"status": "suspended"})
	require.Equal(t, http.StatusOK, status, string(body))

	logs, err := e.Store.Audit().List(context.Background(), repository.AuditFilter{CompanyID: e.Company.ID, Action: entity.AuditDistributorStatus, Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, e.Admin.UserID, logs[0].ActorID)

	status, body = e.call(t, http.MethodGet, "/api/audit", &e.Admin, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), entity.AuditDistributorStatus)
}
