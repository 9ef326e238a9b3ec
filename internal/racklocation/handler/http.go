package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/fekuna/omnipos-wms-service/internal/racklocation"
	"github.com/fekuna/omnipos-wms-service/internal/racklocation/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type RackLocationHTTPHandler struct {
	uc     racklocation.UseCase
	logger logger.ZapLogger
}

func NewRackLocationHTTPHandler(uc racklocation.UseCase, log logger.ZapLogger) *RackLocationHTTPHandler {
	return &RackLocationHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

type createRackLocationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateRackLocationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *RackLocationHTTPHandler) Create(c *gin.Context) {
	var req createRackLocationRequest
	if !httpx.BindJSON(c, &req) {
		return
	}

	loc, err := h.uc.CreateRackLocation(c.Request.Context(), &dto.CreateRackLocationInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusCreated, loc)
}

func (h *RackLocationHTTPHandler) Get(c *gin.Context) {
	loc, err := h.uc.GetRackLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, loc)
}

func (h *RackLocationHTTPHandler) List(c *gin.Context) {
	page, limit := httpx.PageParams(c, 10)
	items, total, err := h.uc.ListRackLocations(c.Request.Context(), &dto.RackLocationFilters{
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

func (h *RackLocationHTTPHandler) Update(c *gin.Context) {
	var req updateRackLocationRequest
	if !httpx.BindJSON(c, &req) {
		return
	}

	loc, err := h.uc.UpdateRackLocation(c.Request.Context(), &dto.UpdateRackLocationInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, loc)
}

func (h *RackLocationHTTPHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteRackLocation(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"id": c.Param("id")})
}
