package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend-service/internal/entity"
)

type cartEnvelope struct {
	Status  string `json:"status"`
	Payload struct {
		ID       string `json:"id"`
		Products []struct {
			Product  entity.Product `json:"product"`
			Quantity int            `json:"quantity"`
		} `json:"products"`
	} `json:"payload"`
	Error string `json:"error"`
}

func createCart(t *testing.T, f *fixture) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/api/carts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decode[cartEnvelope](t, rec)
	require.NotEmpty(t, env.Payload.ID)
	return env.Payload.ID
}

func createProduct(t *testing.T, f *fixture, body string) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[productEnvelope](t, rec).Payload.ID.Hex()
}

// Walks the whole cart lifecycle: add, add again, set quantity, remove.
func TestCartAPI_Scenario(t *testing.T) {
	f := newFixture(t)

	cid := createCart(t, f)
	pid := createProduct(t, f, `{"title":"Keyboard","code":"KB-1","price":49.9}`)

	rec := f.do(http.MethodPost, "/api/carts/"+cid+"/product/"+pid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[cartEnvelope](t, rec)
	require.Len(t, env.Payload.Products, 1)
	assert.Equal(t, 1, env.Payload.Products[0].Quantity)

	rec = f.do(http.MethodPost, "/api/carts/"+cid+"/product/"+pid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decode[cartEnvelope](t, rec)
	require.Len(t, env.Payload.Products, 1)
	assert.Equal(t, 2, env.Payload.Products[0].Quantity)

	rec = f.do(http.MethodPut, "/api/carts/"+cid+"/products/"+pid, `{"quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decode[cartEnvelope](t, rec)
	assert.Equal(t, 5, env.Payload.Products[0].Quantity)
	assert.Equal(t, "Keyboard", env.Payload.Products[0].Product.Title)

	rec = f.do(http.MethodDelete, "/api/carts/"+cid+"/products/"+pid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decode[cartEnvelope](t, rec)
	assert.Empty(t, env.Payload.Products)
}

func TestCartAPI_NotFoundAndValidation(t *testing.T) {
	f := newFixture(t)
	cid := createCart(t, f)
	pid := createProduct(t, f, `{"title":"Keyboard","code":"KB-1","price":49.9}`)

	t.Run("missing cart", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/carts/64b0c0ffee0000000000cafe", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing product on add", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/carts/"+cid+"/product/64b0c0ffee0000000000cafe", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed cart id", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/carts/xyz", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("quantity below 1", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/carts/"+cid+"/product/"+pid, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(http.MethodPut, "/api/carts/"+cid+"/products/"+pid, `{"quantity":0}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode[cartEnvelope](t, rec)
		assert.Equal(t, "error", env.Status)
	})

	t.Run("replace with non-array payload", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/api/carts/"+cid, `{"products":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(http.MethodPut, "/api/carts/"+cid, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("replace with malformed product id", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/api/carts/"+cid, `{"products":[{"product":"bad","quantity":1}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCartAPI_ReplaceAndClear(t *testing.T) {
	f := newFixture(t)
	cid := createCart(t, f)
	pidA := createProduct(t, f, `{"title":"Keyboard","code":"KB-1","price":49.9}`)
	pidB := createProduct(t, f, `{"title":"Mouse","code":"MS-1","price":19.9}`)

	rec := f.do(http.MethodPut, "/api/carts/"+cid,
		`{"products":[{"product":"`+pidA+`","quantity":2},{"product":"`+pidB+`","quantity":3}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[cartEnvelope](t, rec)
	require.Len(t, env.Payload.Products, 2)

	rec = f.do(http.MethodDelete, "/api/carts/"+cid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decode[cartEnvelope](t, rec)
	assert.Empty(t, env.Payload.Products)

	rec = f.do(http.MethodGet, "/api/carts/"+cid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decode[cartEnvelope](t, rec)
	assert.Empty(t, env.Payload.Products)
}
