package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shop-backend-service/internal/entity"
	"shop-backend-service/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new instance of CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Create makes a new empty cart --> POST /api/carts
func (h *CartHandler) Create(c echo.Context) error {
	cart, err := h.cartService.Create(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, cart)
}

// Get returns a cart with expanded products --> GET /api/carts/:cid
func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.cartService.Get(c.Request().Context(), c.Param("cid"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, cart)
}

// AddProduct adds one unit of the product --> POST /api/carts/:cid/product/:pid
func (h *CartHandler) AddProduct(c echo.Context) error {
	cart, err := h.cartService.AddProduct(c.Request().Context(), c.Param("cid"), c.Param("pid"), 1)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, cart)
}

// RemoveProduct removes the product's line --> DELETE /api/carts/:cid/products/:pid
func (h *CartHandler) RemoveProduct(c echo.Context) error {
	cart, err := h.cartService.RemoveProduct(c.Request().Context(), c.Param("cid"), c.Param("pid"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, cart)
}

// Replace swaps the whole line list --> PUT /api/carts/:cid
func (h *CartHandler) Replace(c echo.Context) error {
	var body struct {
		Products *[]entity.CartLineInput `json:"products"`
	}
	if err := c.Bind(&body); err != nil || body.Products == nil {
		return respondError(c, entity.Validationf("Products must be an array"))
	}

	cart, err := h.cartService.ReplaceProducts(c.Request().Context(), c.Param("cid"), *body.Products)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, cart)
}

// SetQuantity updates one line's quantity --> PUT /api/carts/:cid/products/:pid
func (h *CartHandler) SetQuantity(c echo.Context) error {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return respondError(c, entity.Validationf("Invalid request payload"))
	}

	cart, err := h.cartService.SetQuantity(c.Request().Context(), c.Param("cid"), c.Param("pid"), body.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, cart)
}

// Clear empties the cart --> DELETE /api/carts/:cid
func (h *CartHandler) Clear(c echo.Context) error {
	cart, err := h.cartService.Clear(c.Request().Context(), c.Param("cid"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, cart)
}
