package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/fekuna/omnipos-wms-service/internal/notification"
	"github.com/fekuna/omnipos-wms-service/internal/notification/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type NotificationHTTPHandler struct {
	dispatcher notification.Dispatcher
	logger     logger.ZapLogger
}

func NewNotificationHTTPHandler(dispatcher notification.Dispatcher, log logger.ZapLogger) *NotificationHTTPHandler {
	return &NotificationHTTPHandler{
		dispatcher: dispatcher,
		logger:     log,
	}
}

// TestLogin queues a login notification for the caller without waiting for delivery.
func (h *NotificationHTTPHandler) TestLogin(c *gin.Context) {
	u, _ := auth.GetUser(c.Request.Context())

	h.dispatcher.NotifyLogin(c.Request.Context(), dto.LoginPayload{
		UserID:    u.UserID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "Test login notification dispatched",
	})
}

func (h *NotificationHTTPHandler) TestWebhook(c *gin.Context) {
	var req dto.TestWebhookInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, err)
			return
		}
	}
	u, _ := auth.GetUser(c.Request.Context())
	req.UserID = u.UserID
	req.Username = u.Username

	res, err := h.dispatcher.TestWebhook(c.Request.Context(), &req)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.ClientIP()
}
