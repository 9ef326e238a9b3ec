package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order"
	"github.com/fekuna/omnipos-wms-service/internal/order/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const IdempotencyHeader = "Idempotency-Key"

type OrderHTTPHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHTTPHandler(uc order.UseCase, log logger.ZapLogger) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

type orderItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

type createOrderRequest struct {
	Items  []orderItemRequest `json:"items"`
	Status string             `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHTTPHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	u, _ := auth.GetUser(c.Request.Context())

	items := make([]dto.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = dto.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		}
	}

	o, err := h.uc.CreateOrder(c.Request.Context(), &dto.CreateOrderInput{
		UserID:         u.UserID,
		Items:          items,
		Status:         model.OrderStatus(req.Status),
		IdempotencyKey: c.GetHeader(IdempotencyHeader),
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusCreated, o)
}

func (h *OrderHTTPHandler) Get(c *gin.Context) {
	u, _ := auth.GetUser(c.Request.Context())
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("id"), u.UserID, u.IsAdmin())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, o)
}

func (h *OrderHTTPHandler) List(c *gin.Context) {
	u, _ := auth.GetUser(c.Request.Context())
	page, limit := httpx.PageParams(c, 10)

	filters := &dto.OrderFilters{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: limit,
	}
	if !u.IsAdmin() {
		filters.UserID = u.UserID
	}

	items, total, err := h.uc.ListOrders(c.Request.Context(), filters)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Paginated(c, items, httpx.NewPagination(page, limit, total))
}

func (h *OrderHTTPHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	u, _ := auth.GetUser(c.Request.Context())

	o, err := h.uc.UpdateOrderStatus(c.Request.Context(), &dto.UpdateOrderStatusInput{
		OrderID: c.Param("id"),
		Status:  model.OrderStatus(req.Status),
		UserID:  u.UserID,
		IsAdmin: u.IsAdmin(),
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	httpx.Success(c, http.StatusOK, o)
}
