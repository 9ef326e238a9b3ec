package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-wms-service/internal/category"
	"github.com/fekuna/omnipos-wms-service/internal/category/dto"
	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CategoryHTTPHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHTTPHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHTTPHandler {
	return &CategoryHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *CategoryHTTPHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if !httpx.BindJSON(c, &req) {
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusCreated, cat)
}

func (h *CategoryHTTPHandler) Get(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, cat)
}

func (h *CategoryHTTPHandler) List(c *gin.Context) {
	page, limit := httpx.PageParams(c, 10)
	items, total, err := h.uc.ListCategories(c.Request.Context(), &dto.CategoryFilters{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Paginated(c, items, httpx.NewPagination(page, limit, total))
}

func (h *CategoryHTTPHandler) Update(c *gin.Context) {
	var req updateCategoryRequest
	if !httpx.BindJSON(c, &req) {
		return
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, cat)
}

func (h *CategoryHTTPHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"id": c.Param("id")})
}
