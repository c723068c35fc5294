package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend-service/internal/api"
	"shop-backend-service/internal/entity"
	"shop-backend-service/internal/repository/memory"
	"shop-backend-service/internal/service"
)

const testBaseURL = "http://shop.test"

type fixture struct {
	e        *echo.Echo
	products *memory.ProductStore
	carts    *memory.CartStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	products := memory.NewProductStore()
	carts := memory.NewCartStore()

	productService := service.NewProductService(products, carts, nil, 0)
	cartService := service.NewCartService(carts, products)

	productHandler := api.NewProductHandler(productService, testBaseURL)
	cartHandler := api.NewCartHandler(cartService)

	e := echo.New()
	e.GET("/api/products", productHandler.List)
	e.GET("/api/products/:pid", productHandler.Get)
	e.POST("/api/products", productHandler.Create)
	e.PUT("/api/products/:pid", productHandler.Update)
	e.DELETE("/api/products/:pid", productHandler.Delete)

	e.POST("/api/carts", cartHandler.Create)
	e.GET("/api/carts/:cid", cartHandler.Get)
	e.POST("/api/carts/:cid/product/:pid", cartHandler.AddProduct)
	e.DELETE("/api/carts/:cid/products/:pid", cartHandler.RemoveProduct)
	e.PUT("/api/carts/:cid", cartHandler.Replace)
	e.PUT("/api/carts/:cid/products/:pid", cartHandler.SetQuantity)
	e.DELETE("/api/carts/:cid", cartHandler.Clear)

	return &fixture{e: e, products: products, carts: carts}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type productEnvelope struct {
	Status  string         `json:"status"`
	Payload entity.Product `json:"payload"`
	Error   string         `json:"error"`
}

type listEnvelope struct {
	Status      string           `json:"status"`
	Payload     []entity.Product `json:"payload"`
	TotalPages  int              `json:"totalPages"`
	PrevPage    *int             `json:"prevPage"`
	NextPage    *int             `json:"nextPage"`
	Page        int              `json:"page"`
	HasPrevPage bool             `json:"hasPrevPage"`
	HasNextPage bool             `json:"hasNextPage"`
	PrevLink    *string          `json:"prevLink"`
	NextLink    *string          `json:"nextLink"`
}

func seedCatalog(t *testing.T, f *fixture, n int, category string) {
	t.Helper()
	for i := 0; i < n; i++ {
		p := entity.Product{
			Title:    "Product " + string(rune('A'+i)),
			Code:     category + "-" + string(rune('A'+i)),
			Price:    float64(10 * (i + 1)),
			Category: category,
			Status:   true,
		}
		require.NoError(t, f.products.Create(context.Background(), &p))
	}
}

func TestProductAPI_CreateThenGetRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/products", `{"title":"Keyboard","code":"KB-1","price":49.9}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[productEnvelope](t, rec)
	assert.Equal(t, "success", created.Status)

	rec = f.do(http.MethodGet, "/api/products/"+created.Payload.ID.Hex(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[productEnvelope](t, rec)
	assert.Equal(t, "Keyboard", got.Payload.Title)
	assert.Equal(t, "KB-1", got.Payload.Code)
	assert.Equal(t, 49.9, got.Payload.Price)
}

func TestProductAPI_CreateValidationAndConflict(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/products", `{"code":"KB-1","price":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decode[productEnvelope](t, rec).Status)

	rec = f.do(http.MethodPost, "/api/products", `{"title":"Keyboard","code":"KB-1","price":49.9}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/api/products", `{"title":"Other","code":"KB-1","price":9.9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[productEnvelope](t, rec)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Error, "KB-1")
}

func TestProductAPI_GetErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/products/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/products/64b0c0ffee0000000000cafe", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductAPI_ListPaginationLinks(t *testing.T) {
	f := newFixture(t)
	seedCatalog(t, f, 7, "Electronics")

	rec := f.do(http.MethodGet, "/api/products?limit=3&page=2&sort=asc&query=category%3AElectronics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[listEnvelope](t, rec)

	assert.Equal(t, "success", env.Status)
	assert.Len(t, env.Payload, 3)
	assert.Equal(t, 3, env.TotalPages)
	assert.Equal(t, 2, env.Page)
	assert.True(t, env.HasPrevPage)
	assert.True(t, env.HasNextPage)

	require.NotNil(t, env.PrevLink)
	assert.Equal(t, testBaseURL+"/api/products?limit=3&page=1&query=category%3AElectronics&sort=asc", *env.PrevLink)
	require.NotNil(t, env.NextLink)
	assert.Equal(t, testBaseURL+"/api/products?limit=3&page=3&query=category%3AElectronics&sort=asc", *env.NextLink)

	// ascending price within the page
	for i := 1; i < len(env.Payload); i++ {
		assert.LessOrEqual(t, env.Payload[i-1].Price, env.Payload[i].Price)
	}
}

func TestProductAPI_ListDefaults(t *testing.T) {
	f := newFixture(t)
	seedCatalog(t, f, 4, "Furniture")

	rec := f.do(http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[listEnvelope](t, rec)

	assert.Len(t, env.Payload, 4)
	assert.Equal(t, 1, env.TotalPages)
	assert.Nil(t, env.PrevLink)
	assert.Nil(t, env.NextLink)
	assert.False(t, env.HasPrevPage)
	assert.False(t, env.HasNextPage)
}

func TestProductAPI_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/products", `{"title":"Keyboard","code":"KB-1","price":49.9}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[productEnvelope](t, rec).Payload.ID.Hex()

	rec = f.do(http.MethodPut, "/api/products/"+id, `{"price":39.9,"stock":12}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[productEnvelope](t, rec)
	assert.Equal(t, 39.9, updated.Payload.Price)
	assert.Equal(t, 12, updated.Payload.Stock)
	assert.Equal(t, "Keyboard", updated.Payload.Title)

	rec = f.do(http.MethodDelete, "/api/products/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/products/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
