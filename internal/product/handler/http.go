package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/fekuna/omnipos-wms-service/internal/product"
	"github.com/fekuna/omnipos-wms-service/internal/product/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductHTTPHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHTTPHandler(uc product.UseCase, log logger.ZapLogger) *ProductHTTPHandler {
	return &ProductHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

type createProductRequest struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	CategoryID     string          `json:"category_id"`
	RackLocationID string          `json:"rack_location_id"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	MinStock       int             `json:"min_stock"`
	ImageURL       string          `json:"image_url"`
}

type updateProductRequest struct {
	SKU            *string          `json:"sku"`
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	CategoryID     *string          `json:"category_id"`
	RackLocationID *string          `json:"rack_location_id"`
	Price          *decimal.Decimal `json:"price"`
	MinStock       *int             `json:"min_stock"`
	ImageURL       *string          `json:"image_url"`
	IsActive       *bool            `json:"is_active"`
}

func (h *ProductHTTPHandler) Create(c *gin.Context) {
	var req createProductRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	u, _ := auth.GetUser(c.Request.Context())

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		SKU:            req.SKU,
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		RackLocationID: req.RackLocationID,
		Price:          req.Price,
		Stock:          req.Stock,
		MinStock:       req.MinStock,
		ImageURL:       req.ImageURL,
		UserID:         u.UserID,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusCreated, p)
}

func (h *ProductHTTPHandler) Get(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, p)
}

func (h *ProductHTTPHandler) List(c *gin.Context) {
	page, limit := httpx.PageParams(c, 10)
	archived, _ := strconv.ParseBool(c.Query("include_archived"))

	items, total, err := h.uc.ListProducts(c.Request.Context(), &dto.ProductFilters{
		Search:          c.Query("search"),
		CategoryID:      c.Query("category_id"),
		RackLocationID:  c.Query("rack_location_id"),
		IncludeArchived: archived,
		SortBy:          c.Query("sort_by"),
		SortOrder:       c.Query("sort_order"),
		Page:            page,
		PageSize:        limit,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Paginated(c, items, httpx.NewPagination(page, limit, total))
}

func (h *ProductHTTPHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if !httpx.BindJSON(c, &req) {
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:             c.Param("id"),
		SKU:            req.SKU,
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		RackLocationID: req.RackLocationID,
		Price:          req.Price,
		MinStock:       req.MinStock,
		ImageURL:       req.ImageURL,
		IsActive:       req.IsActive,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, p)
}

// Delete archives the product; its ledger history is kept.
func (h *ProductHTTPHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"id": c.Param("id")})
}
