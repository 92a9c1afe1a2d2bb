package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafeteria-pos/internal/application/analytics"
	"github.com/jhoicas/cafeteria-pos/internal/application/auth"
	"github.com/jhoicas/cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/application/usecase"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/memory"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/cafeteria-pos/internal/interfaces/http"
)

const (
	baristaID = "barista-1"
	otherID   = "barista-2"
	adminID   = "admin-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type testAPI struct {
	app    *fiber.App
	store  *memory.Store
	authUC *auth.AuthUseCase
}

// newTestAPI levanta el router completo sobre el almacenamiento en memoria con
// leche 0.30 l (umbral 0.05), café 1 kg, vasos 10; latte, agua (sin receta) y un producto inactivo.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	s := memory.New()
	s.SeedIngredient(&entity.Ingredient{ID: "milk", Name: "Milk", Unit: "l", CurrentStock: dec("0.30"), WarningThreshold: dec("0.05"), UnitCost: dec("40")})
	s.SeedIngredient(&entity.Ingredient{ID: "beans", Name: "Coffee beans", Unit: "kg", CurrentStock: dec("1"), WarningThreshold: dec("0.1")})
	s.SeedIngredient(&entity.Ingredient{ID: "cup", Name: "Cup", Unit: "pcs", CurrentStock: dec("10"), WarningThreshold: dec("2")})
	s.SeedProduct(&entity.Product{ID: "latte", Name: "Latte", Price: dec("65"), IsActive: true},
		entity.RecipeLine{IngredientID: "milk", QuantityRequired: dec("0.25")},
		entity.RecipeLine{IngredientID: "beans", QuantityRequired: dec("0.018")},
		entity.RecipeLine{IngredientID: "cup", QuantityRequired: dec("1")},
	)
	s.SeedProduct(&entity.Product{ID: "water", Name: "Water", Price: dec("25"), IsActive: true})
	s.SeedProduct(&entity.Product{ID: "old-muffin", Name: "Muffin", Price: dec("30"), IsActive: false})

	repos := s.Repositories()
	authUC := auth.NewAuthUseCase(repos.Employees, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	status := order.NewStatusUseCase(s, repos, nil, nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     usecase.NewProductUseCase(repos.Products, repos.Categories),
		Settlement:    order.NewSettlementUseCase(s, repos, nil, nil),
		OrderStatus:   status,
		Receipts:      order.NewReceiptUseCase(status, repos, pdf.NewMarotoReceiptRenderer(), "Cafetería"),
		Feasibility:   inventory.NewFeasibilityChecker(repos),
		Stock:         inventory.NewStockUseCase(s, repos, nil, nil),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Ingredients),
		Recipes:       inventory.NewRecipeUseCase(s, repos, nil),
		Menu:          inventory.NewMenuUseCase(repos),
		Reports:       analytics.NewSalesReportUseCase(repos.Sales),
		JWTSecret:     testJWTSecret,
	})
	return &testAPI{app: app, store: s, authUC: authUC}
}

func (a *testAPI) do(t *testing.T, method, path, authHeader string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := a.doRaw(t, method, path, authHeader, body)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

func (a *testAPI) doRaw(t *testing.T, method, path, authHeader string, body any) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func (a *testAPI) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	ing, err := a.store.Repositories().Ingredients.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, ing)
	return ing.CurrentStock
}

func latteOrder(qty int) dto.PlaceOrderRequest {
	return dto.PlaceOrderRequest{Items: []dto.OrderLineRequest{{ProductID: "latte", Quantity: qty}}, PaymentMethod: "Cash"}
}

func TestPlaceOrder_LiquidaYAvisaStockBajo(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, http.MethodPost, "/api/orders", bearer(t, baristaID, "Barista"), latteOrder(1))
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Paid", body["status"])
	assert.Equal(t, "65", body["total_amount"])
	require.NotEmpty(t, body["order_id"])

	low, ok := body["low_stock"].([]any)
	require.True(t, ok, "la leche queda en su umbral")
	require.Len(t, low, 1)
	assert.Equal(t, "milk", low[0].(map[string]any)["ingredient_id"])

	assert.True(t, api.stock(t, "milk").Equal(dec("0.05")))
	assert.True(t, api.stock(t, "cup").Equal(dec("9")))
}

func TestPlaceOrder_StockInsuficiente409ConIngrediente(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, http.MethodPost, "/api/orders", bearer(t, baristaID, "Barista"), latteOrder(2))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "milk", body["entity_id"])
	assert.True(t, api.stock(t, "milk").Equal(dec("0.30")), "sin descuento parcial")
	assert.True(t, api.stock(t, "beans").Equal(dec("1")))
}

func TestPlaceOrder_Validaciones(t *testing.T) {
	api := newTestAPI(t)
	token := bearer(t, baristaID, "Barista")

	status, body := api.do(t, http.MethodPost, "/api/orders", token, dto.PlaceOrderRequest{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, body = api.do(t, http.MethodPost, "/api/orders", token,
		dto.PlaceOrderRequest{Items: []dto.OrderLineRequest{{ProductID: "old-muffin", Quantity: 1}}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNKNOWN_PRODUCT", body["code"])
	assert.Equal(t, "old-muffin", body["entity_id"])

	status, _ = api.do(t, http.MethodPost, "/api/orders", "", latteOrder(1))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCheckOrder_InformaIngredienteFaltante(t *testing.T) {
	api := newTestAPI(t)
	token := bearer(t, baristaID, "Barista")

	status, body := api.do(t, http.MethodPost, "/api/orders/check", token, latteOrder(1))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["feasible"])

	status, body = api.do(t, http.MethodPost, "/api/orders/check", token, latteOrder(2))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["feasible"])
	assert.Equal(t, "milk", body["missing_ingredient_id"])
	assert.True(t, api.stock(t, "milk").Equal(dec("0.30")), "la verificación no modifica stock")
}

func TestCheckOrder_RechazaProductoDesconocidoYCantidadExcesiva(t *testing.T) {
	api := newTestAPI(t)
	token := bearer(t, baristaID, "Barista")

	status, body := api.do(t, http.MethodPost, "/api/orders/check", token,
		dto.PlaceOrderRequest{Items: []dto.OrderLineRequest{{ProductID: "no-such-product", Quantity: 3}}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNKNOWN_PRODUCT", body["code"])
	assert.Equal(t, "no-such-product", body["entity_id"])

	status, body = api.do(t, http.MethodPost, "/api/orders/check", token,
		dto.PlaceOrderRequest{Items: []dto.OrderLineRequest{{ProductID: "old-muffin", Quantity: 1}}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNKNOWN_PRODUCT", body["code"])

	huge := dto.PlaceOrderRequest{Items: []dto.OrderLineRequest{{ProductID: "water", Quantity: 1 << 40}}, PaymentMethod: "Cash"}
	status, body = api.do(t, http.MethodPost, "/api/orders/check", token, huge)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, body = api.do(t, http.MethodPost, "/api/orders", token, huge)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestTransitionStatus_PermisosYEstadoTerminal(t *testing.T) {
	api := newTestAPI(t)
	_, placed := api.do(t, http.MethodPost, "/api/orders", bearer(t, baristaID, "Barista"), latteOrder(1))
	orderID, _ := placed["order_id"].(string)
	require.NotEmpty(t, orderID)
	path := "/api/orders/" + orderID + "/status"

	status, body := api.do(t, http.MethodPatch, path, bearer(t, otherID, "Barista"), dto.TransitionStatusRequest{Status: "Completed"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, body = api.do(t, http.MethodPatch, path, bearer(t, adminID, "Admin"), dto.TransitionStatusRequest{Status: "Completed"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Completed", body["status"])
	assert.NotEmpty(t, body["completed_at"])

	status, body = api.do(t, http.MethodPatch, path, bearer(t, baristaID, "Barista"), dto.TransitionStatusRequest{Status: "Cancelled"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", body["code"])

	status, body = api.do(t, http.MethodGet, "/api/orders/"+orderID, bearer(t, baristaID, "Barista"), nil)
	require.Equal(t, http.StatusOK, status)
	lines, _ := body["lines"].([]any)
	assert.Len(t, lines, 1)

	status, _ = api.do(t, http.MethodGet, "/api/orders/no-existe", bearer(t, adminID, "Admin"), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestInventory_RutasAdminYMovimientos(t *testing.T) {
	api := newTestAPI(t)
	barista := bearer(t, baristaID, "Barista")
	admin := bearer(t, adminID, "Admin")

	status, _ := api.do(t, http.MethodPost, "/api/ingredients/milk/inventory", barista, dto.CorrectInventoryRequest{ActualQuantity: dec("2")})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := api.do(t, http.MethodPost, "/api/ingredients/milk/inventory", admin, dto.CorrectInventoryRequest{ActualQuantity: dec("2")})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "2", body["current_stock"])
	assert.Equal(t, false, body["low"])

	status, body = api.do(t, http.MethodPost, "/api/ingredients/milk/write-offs", barista, dto.WriteOffRequest{Quantity: dec("5"), Reason: "derrame"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	status, _ = api.do(t, http.MethodPost, "/api/ingredients/milk/write-offs", barista, dto.WriteOffRequest{Quantity: dec("0.5"), Reason: "vencida"})
	require.Equal(t, http.StatusOK, status)

	status, body = api.do(t, http.MethodGet, "/api/ingredients/milk/movements?limit=10", barista, nil)
	require.Equal(t, http.StatusOK, status)
	items, _ := body["items"].([]any)
	require.Len(t, items, 3, "saldo inicial, corrección y merma")
	assert.Equal(t, "write_off", items[0].(map[string]any)["kind"])

	status, body = api.do(t, http.MethodGet, "/api/ingredients/milk/reconciliation", barista, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["balanced"])
	assert.Equal(t, "1.5", body["on_hand"])

	status, _ = api.do(t, http.MethodGet, "/api/ingredients/milk/movements?from=ayer", barista, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(t, http.MethodGet, "/api/ingredients/no-existe", barista, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestInventory_AltaYReposicion(t *testing.T) {
	api := newTestAPI(t)
	admin := bearer(t, adminID, "Admin")

	status, body := api.do(t, http.MethodPost, "/api/ingredients", admin, dto.CreateIngredientRequest{
		Name: "Syrup", Unit: "l", InitialStock: dec("0.2"), WarningThreshold: dec("0.5"), UnitCost: dec("120"),
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["low"])

	status, body = api.do(t, http.MethodGet, "/api/ingredients/replenishment", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	status, _ = api.do(t, http.MethodGet, "/api/ingredients/replenishment", bearer(t, baristaID, "Barista"), nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRecipes_ValidacionYMenu(t *testing.T) {
	api := newTestAPI(t)
	admin := bearer(t, adminID, "Admin")

	status, body := api.do(t, http.MethodPut, "/api/products/water/recipe", admin, dto.SetRecipeRequest{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, body = api.do(t, http.MethodPut, "/api/products/latte/recipe", admin, dto.SetRecipeRequest{
		Lines: []dto.RecipeLineRequest{{IngredientID: "ghost", QuantityRequired: dec("1")}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNKNOWN_INGREDIENT", body["code"])
	assert.Equal(t, "ghost", body["entity_id"])

	status, body = api.do(t, http.MethodGet, "/api/products/latte/recipe", admin, nil)
	require.Equal(t, http.StatusOK, status)
	lines, _ := body["lines"].([]any)
	assert.Len(t, lines, 3, "la receta anterior queda intacta")

	status, raw := api.doRaw(t, http.MethodGet, "/api/menu", bearer(t, baristaID, "Barista"), nil)
	require.Equal(t, http.StatusOK, status)
	var menu []dto.MenuItemResponse
	require.NoError(t, json.Unmarshal(raw, &menu))
	require.Len(t, menu, 2, "el producto inactivo no aparece")
	byID := map[string]dto.MenuItemResponse{}
	for _, m := range menu {
		byID[m.ProductID] = m
	}
	require.NotNil(t, byID["latte"].Portions)
	assert.EqualValues(t, 1, *byID["latte"].Portions)
	assert.Nil(t, byID["water"].Portions)
	assert.True(t, byID["water"].Available)
}

func TestAuth_LoginYMe(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.authUC.CreateEmployee(context.Background(), dto.CreateEmployeeRequest{
		Name: "Ana", Phone: "555-0101", Password: "secreto1", Role: "Admin",
	})
	require.NoError(t, err)

	status, body := api.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Phone: "555-0101", Password: "malo"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = api.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Phone: "555-0101", Password: "secreto1"})
	require.Equal(t, http.StatusOK, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = api.do(t, http.MethodGet, "/api/me", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ana", body["name"])
	assert.Equal(t, "Admin", body["role"])

	status, body = api.do(t, http.MethodPost, "/api/employees", "Bearer "+token, dto.CreateEmployeeRequest{
		Name: "Luis", Phone: "555-0102", Password: "secreto2",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Barista", body["role"])

	status, _ = api.do(t, http.MethodPost, "/api/employees", "Bearer "+token, dto.CreateEmployeeRequest{
		Name: "Otro", Phone: "555-0102", Password: "secreto3",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestProducts_AltaAdmin(t *testing.T) {
	api := newTestAPI(t)

	status, _ := api.do(t, http.MethodPost, "/api/products", bearer(t, baristaID, "Barista"),
		dto.CreateProductRequest{Name: "Mocha", Price: dec("70")})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := api.do(t, http.MethodPost, "/api/products", bearer(t, adminID, "Admin"),
		dto.CreateProductRequest{Name: "Mocha", Price: dec("70")})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Mocha", body["name"])
}

func TestReports_VentasAdmin(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, http.MethodPost, "/api/orders", bearer(t, baristaID, "Barista"), latteOrder(1))
	require.Equal(t, http.StatusCreated, status, body)

	status, _ = api.do(t, http.MethodGet, "/api/reports/sales", bearer(t, baristaID, "Barista"), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = api.do(t, http.MethodGet, "/api/reports/sales?period=week", bearer(t, adminID, "Admin"), nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "week", body["period"])
	assert.EqualValues(t, 1, body["orders"])
	assert.Equal(t, "65", body["revenue"])
	top, _ := body["top_products"].([]any)
	require.Len(t, top, 1)

	status, body = api.do(t, http.MethodGet, "/api/reports/sales?period=year", bearer(t, adminID, "Admin"), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestOrders_TicketPDF(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, http.MethodPost, "/api/orders", bearer(t, baristaID, "Barista"), latteOrder(1))
	require.Equal(t, http.StatusCreated, status, body)
	id, _ := body["order_id"].(string)
	require.NotEmpty(t, id)

	status, raw := api.doRaw(t, http.MethodGet, "/api/orders/"+id+"/receipt", bearer(t, baristaID, "Barista"), nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	status, _ = api.doRaw(t, http.MethodGet, "/api/orders/"+id+"/receipt", bearer(t, otherID, "Barista"), nil)
	assert.Equal(t, http.StatusForbidden, status)
}
