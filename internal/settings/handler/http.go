package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/fekuna/omnipos-wms-service/internal/settings"
	"github.com/fekuna/omnipos-wms-service/internal/settings/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type SettingsHTTPHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHTTPHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHTTPHandler {
	return &SettingsHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SettingsHTTPHandler) Get(c *gin.Context) {
	doc, err := h.uc.GetSettings(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, doc)
}

func (h *SettingsHTTPHandler) GetPublic(c *gin.Context) {
	doc, err := h.uc.GetSettings(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, dto.ToPublic(*doc))
}

// Update lays the submitted sections over the current document and saves the result.
func (h *SettingsHTTPHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsInput
	if !httpx.BindJSON(c, &req) {
		return
	}

	current, err := h.uc.GetSettings(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}

	next := req.Apply(*current)
	doc, err := h.uc.UpdateSettings(c.Request.Context(), &next)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, doc)
}
