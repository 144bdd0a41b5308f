package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelios/catalog-api/internal/middleware"
	"github.com/avelios/catalog-api/internal/model"
	"github.com/avelios/catalog-api/internal/repository"
)

// ProductHandler implements the catalog CRUD.  Write operations read the
// audit username from the request identity the gate established.
type ProductHandler struct {
	Products *repository.ProductRepo
}

func NewProductHandler(p *repository.ProductRepo) *ProductHandler {
	return &ProductHandler{Products: p}
}

// ----- DTOs -----

type itemReq struct {
	Quantity int `json:"quantity"`
}
type productReq struct {
	ProductName string    `json:"productName"`
	Items       []itemReq `json:"items"`
}

type itemResp struct {
	ID       uint64 `json:"id"`
	Quantity int    `json:"quantity"`
}
type productResp struct {
	ID          uint64     `json:"id"`
	ProductName string     `json:"productName"`
	CreatedBy   string     `json:"createdBy"`
	ModifiedBy  string     `json:"modifiedBy,omitempty"`
	Items       []itemResp `json:"items"`
}

func toProductResp(p model.Product) productResp {
	items := make([]itemResp, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, itemResp{ID: it.ID, Quantity: it.Quantity})
	}
	resp := productResp{
		ID:          p.ID,
		ProductName: p.Name,
		CreatedBy:   p.CreatedBy,
		Items:       items,
	}
	if p.ModifiedBy.Valid {
		resp.ModifiedBy = p.ModifiedBy.String
	}
	return resp
}

func (r productReq) validate() (string, []int, error) {
	name := strings.TrimSpace(r.ProductName)
	if name == "" {
		return "", nil, errors.New("productName cannot be blank")
	}
	quantities := make([]int, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Quantity < 1 {
			return "", nil, errors.New("item quantity must be at least 1")
		}
		quantities = append(quantities, it.Quantity)
	}
	return name, quantities, nil
}

// List handles GET /api/v1/products with zero-based page/size paging.
func (h *ProductHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size < 1 {
		size = 10
	}
	if page < 0 {
		page = 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, total, err := h.Products.List(ctx, page, size)
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "listing products failed")
	}
	items := make([]productResp, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return middleware.ErrorJSON(c, http.StatusNotFound, "product not found")
		}
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "loading product failed")
	}
	return c.JSON(http.StatusOK, toProductResp(p))
}

// Items handles GET /api/v1/products/:id/items.
func (h *ProductHandler) Items(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return middleware.ErrorJSON(c, http.StatusNotFound, "product not found")
		}
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "loading product failed")
	}
	return c.JSON(http.StatusOK, toProductResp(p).Items)
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	name, quantities, err := req.validate()
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Products.Create(ctx, name, middleware.CurrentUsername(c), quantities)
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "creating product failed")
	}
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "loading product failed")
	}
	return c.JSON(http.StatusCreated, toProductResp(p))
}

// Update handles PUT /api/v1/products/:id.  Items are replaced wholesale.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "invalid product id")
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	name, quantities, err := req.validate()
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Update(ctx, id, name, middleware.CurrentUsername(c), quantities); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return middleware.ErrorJSON(c, http.StatusNotFound, "product not found")
		}
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "updating product failed")
	}
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "loading product failed")
	}
	return c.JSON(http.StatusOK, toProductResp(p))
}

// Delete handles DELETE /api/v1/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return middleware.ErrorJSON(c, http.StatusBadRequest, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return middleware.ErrorJSON(c, http.StatusNotFound, "product not found")
		}
		return middleware.ErrorJSON(c, http.StatusServiceUnavailable, "deleting product failed")
	}
	return c.NoContent(http.StatusNoContent)
}
