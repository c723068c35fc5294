package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"shop-backend-service/internal/entity"
	"shop-backend-service/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	baseURL        string
}

// NewProductHandler creates a new instance of ProductHandler. baseURL is
// the absolute prefix for pagination links, e.g. "http://localhost:8080".
func NewProductHandler(productService *service.ProductService, baseURL string) *ProductHandler {
	return &ProductHandler{productService: productService, baseURL: baseURL}
}

// listResponse is the listing envelope with the pagination fields at the
// top level, next to the payload.
type listResponse struct {
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

// List handles the paginated listing --> GET /api/products
func (h *ProductHandler) List(c echo.Context) error {
	params := service.ParseListParams(c.QueryParams())

	listing, err := h.productService.List(c.Request().Context(), params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, listResponse{
		Status:      "success",
		Payload:     listing.Products,
		TotalPages:  listing.TotalPages,
		PrevPage:    listing.PrevPage,
		NextPage:    listing.NextPage,
		Page:        listing.Page,
		HasPrevPage: listing.HasPrevPage,
		HasNextPage: listing.HasNextPage,
		PrevLink:    h.pageLink(c, listing.PrevPage, listing.Limit),
		NextLink:    h.pageLink(c, listing.NextPage, listing.Limit),
	})
}

// pageLink rebuilds the request URL for the target page, preserving every
// other query parameter. Nil when there is no such page.
func (h *ProductHandler) pageLink(c echo.Context, page *int, limit int) *string {
	if page == nil {
		return nil
	}

	values := url.Values{}
	for k, vs := range c.QueryParams() {
		values[k] = append([]string(nil), vs...)
	}
	values.Set("page", strconv.Itoa(*page))
	values.Set("limit", strconv.Itoa(limit))

	link := h.baseURL + c.Request().URL.Path + "?" + values.Encode()
	return &link
}

// Get returns one product --> GET /api/products/:pid
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.productService.Get(c.Request().Context(), c.Param("pid"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, product)
}

// Create adds a product to the catalog --> POST /api/products
func (h *ProductHandler) Create(c echo.Context) error {
	var input entity.ProductInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, entity.Validationf("Invalid request payload"))
	}

	product, err := h.productService.Create(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, product)
}

// Update modifies a product --> PUT /api/products/:pid
func (h *ProductHandler) Update(c echo.Context) error {
	var upd entity.ProductUpdate
	if err := c.Bind(&upd); err != nil {
		return respondError(c, entity.Validationf("Invalid request payload"))
	}

	product, err := h.productService.Update(c.Request().Context(), c.Param("pid"), upd)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, product)
}

// Delete removes a product --> DELETE /api/products/:pid
func (h *ProductHandler) Delete(c echo.Context) error {
	product, err := h.productService.Delete(c.Request().Context(), c.Param("pid"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, product)
}
