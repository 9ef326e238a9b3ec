package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/fekuna/omnipos-wms-service/internal/report"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ReportHTTPHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

func NewReportHTTPHandler(uc report.UseCase, log logger.ZapLogger) *ReportHTTPHandler {
	return &ReportHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReportHTTPHandler) Summary(c *gin.Context) {
	s, err := h.uc.Summary(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, s)
}

func (h *ReportHTTPHandler) LowStock(c *gin.Context) {
	items, err := h.uc.LowStock(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, items)
}

func (h *ReportHTTPHandler) BestSellers(c *gin.Context) {
	items, err := h.uc.BestSellers(c.Request.Context(), httpx.QueryInt(c, "months", 0), httpx.QueryInt(c, "limit", 0))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, items)
}

func (h *ReportHTTPHandler) MonthlySales(c *gin.Context) {
	items, err := h.uc.MonthlySales(c.Request.Context(), httpx.QueryInt(c, "months", 0))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, items)
}
