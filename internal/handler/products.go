package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/autopro/internal/apperr"
	"github.com/iliyamo/autopro/internal/config"
	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/repository"
)

const (
	MsgProductNotFound = "Product not found"
	MsgProductRemoved  = "Product removed"
)

// Defaults of a freshly created catalog entry.  Admins create the sample
// and then edit it in place.
var sampleProduct = model.Product{
	Name:         "Sample Name",
	Price:        0,
	Image:        "/images/sample.jpg",
	Category:     model.CategorySparePart,
	CountInStock: 0,
	Description:  "Sample description for a new product",
	Specs:        []model.Spec{},
}

// ProductHandler serves /api/products.
type ProductHandler struct {
	Cfg      config.Config
	Products repository.ProductStore
}

func NewProductHandler(cfg config.Config, products repository.ProductStore) *ProductHandler {
	return &ProductHandler{Cfg: cfg, Products: products}
}

// List returns all products, optionally narrowed by ?keyword= (a literal,
// case-insensitive substring of the name).
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	items, err := h.Products.List(ctx, repository.ProductFilter{Keyword: strings.TrimSpace(c.QueryParam("keyword"))})
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, items)
}

// ByCategory lists one category; an empty result is a 404.
func (h *ProductHandler) ByCategory(c echo.Context) error {
	category := c.Param("category")
	if v, err := url.PathUnescape(category); err == nil {
		category = v
	}

	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	items, err := h.Products.List(ctx, repository.ProductFilter{Category: model.Category(category)})
	if err != nil {
		return apperr.Internal(err)
	}
	if len(items) == 0 {
		return apperr.NotFound(fmt.Sprintf("No products found in category: %s", category))
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	p, err := h.Products.FindByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(err, MsgProductNotFound)
	}
	return c.JSON(http.StatusOK, p)
}

// Create stores a sample product owned by the calling admin.
func (h *ProductHandler) Create(c echo.Context) error {
	admin, err := sessionUser(c)
	if err != nil {
		return err
	}

	p := sampleProduct
	p.Specs = []model.Spec{}
	p.UserID = admin.ID

	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()
	if err := h.Products.Create(ctx, &p); err != nil {
		return apperr.Internal(err)
	}
	zap.L().Info("product created", zap.String("product_id", p.ID), zap.String("admin_id", admin.ID))
	return c.JSON(http.StatusCreated, &p)
}

// updateProductReq distinguishes absent fields (nil) from zero values so an
// update can set price or stock to 0.
type updateProductReq struct {
	Name         string        `json:"name"`
	Image        string        `json:"image"`
	Category     string        `json:"category"`
	Description  string        `json:"description"`
	Price        *float64      `json:"price"`
	CountInStock *int          `json:"countInStock"`
	Specs        *[]model.Spec `json:"specs"`
}

// apply merges the request into p.  Empty strings keep the old text.
func (r updateProductReq) apply(p *model.Product) {
	if r.Name != "" {
		p.Name = r.Name
	}
	if r.Image != "" {
		p.Image = r.Image
	}
	if r.Category != "" {
		p.Category = model.Category(r.Category)
	}
	if r.Description != "" {
		p.Description = r.Description
	}
	if r.Price != nil {
		p.Price = model.RoundPrice(*r.Price)
	}
	if r.CountInStock != nil {
		p.CountInStock = *r.CountInStock
	}
	if r.Specs != nil {
		p.Specs = *r.Specs
	}
}

func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	p, err := h.Products.FindByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(err, MsgProductNotFound)
	}
	req.apply(p)
	if err := p.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := h.Products.Update(ctx, p); err != nil {
		return storeError(err, MsgProductNotFound)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	if err := h.Products.Delete(ctx, c.Param("id")); err != nil {
		return storeError(err, MsgProductNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": MsgProductRemoved})
}
