package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/fekuna/omnipos-wms-service/internal/inventory"
	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type InventoryHTTPHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHTTPHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

type applyMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

func (h *InventoryHTTPHandler) ApplyMovement(c *gin.Context) {
	var req applyMovementRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	u, _ := auth.GetUser(c.Request.Context())

	m, err := h.uc.ApplyMovement(c.Request.Context(), &dto.ApplyMovementInput{
		ProductID: req.ProductID,
		Type:      model.MovementType(strings.ToUpper(req.Type)),
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		UserID:    u.UserID,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusCreated, m)
}

func (h *InventoryHTTPHandler) ListMovements(c *gin.Context) {
	page, limit := httpx.PageParams(c, 10)
	items, total, err := h.uc.ListMovements(c.Request.Context(), &dto.MovementFilters{
		ProductID:    c.Query("productId"),
		MovementType: strings.ToUpper(c.Query("type")),
		Page:         page,
		PageSize:     limit,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Paginated(c, items, httpx.NewPagination(page, limit, total))
}
