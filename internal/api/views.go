package api

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"shop-backend-service/internal/entity"
	"shop-backend-service/internal/service"
	"shop-backend-service/web"
)

// Renderer plugs html/template into echo.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// ViewHandler serves the server-rendered browse pages. They are thin
// wrappers over the same services the JSON API uses.
type ViewHandler struct {
	productService *service.ProductService
	cartService    *service.CartService
}

func NewViewHandler(productService *service.ProductService, cartService *service.CartService) *ViewHandler {
	return &ViewHandler{productService: productService, cartService: cartService}
}

type productsPage struct {
	Title       string
	Products    []entity.Product
	TotalPages  int
	Page        int
	HasPrevPage bool
	HasNextPage bool
	PrevLink    string
	NextLink    string
	Query       string
	Sort        string
	Limit       int
}

// ProductsPage renders the listing --> GET /products
func (h *ViewHandler) ProductsPage(c echo.Context) error {
	params := service.ParseListParams(c.QueryParams())

	listing, err := h.productService.List(c.Request().Context(), params)
	if err != nil {
		return c.String(http.StatusInternalServerError, "Error rendering products")
	}

	return c.Render(http.StatusOK, "products.html", productsPage{
		Title:       "Products",
		Products:    listing.Products,
		TotalPages:  listing.TotalPages,
		Page:        listing.Page,
		HasPrevPage: listing.HasPrevPage,
		HasNextPage: listing.HasNextPage,
		PrevLink:    relativeLink(c, listing.PrevPage, listing.Limit),
		NextLink:    relativeLink(c, listing.NextPage, listing.Limit),
		Query:       params.Query,
		Sort:        params.Sort,
		Limit:       listing.Limit,
	})
}

func relativeLink(c echo.Context, page *int, limit int) string {
	if page == nil {
		return ""
	}
	values := url.Values{}
	for k, vs := range c.QueryParams() {
		values[k] = append([]string(nil), vs...)
	}
	values.Set("page", strconv.Itoa(*page))
	values.Set("limit", strconv.Itoa(limit))
	return "/products?" + values.Encode()
}

// ProductDetailPage renders one product --> GET /products/:pid
func (h *ViewHandler) ProductDetailPage(c echo.Context) error {
	product, err := h.productService.Get(c.Request().Context(), c.Param("pid"))
	if err != nil {
		return viewError(c, err, "Product not found")
	}
	return c.Render(http.StatusOK, "product_detail.html", map[string]any{
		"Title":   product.Title,
		"Product": product,
	})
}

// CartPage renders a cart with expanded lines --> GET /carts/:cid
func (h *ViewHandler) CartPage(c echo.Context) error {
	cart, err := h.cartService.Get(c.Request().Context(), c.Param("cid"))
	if err != nil {
		return viewError(c, err, "Cart not found")
	}
	return c.Render(http.StatusOK, "cart.html", map[string]any{
		"Title": "Cart",
		"Cart":  cart,
	})
}

func viewError(c echo.Context, err error, notFoundMsg string) error {
	var domainErr *entity.Error
	if errors.As(err, &domainErr) && domainErr.Kind != entity.KindInternal {
		return c.String(http.StatusNotFound, notFoundMsg)
	}
	return c.String(http.StatusInternalServerError, "Internal server error")
}
