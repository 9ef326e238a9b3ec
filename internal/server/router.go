package server

import (
	"net/http"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	catH "github.com/fekuna/omnipos-wms-service/internal/category/handler"
	invH "github.com/fekuna/omnipos-wms-service/internal/inventory/handler"
	"github.com/fekuna/omnipos-wms-service/internal/middleware"
	notifH "github.com/fekuna/omnipos-wms-service/internal/notification/handler"
	orderH "github.com/fekuna/omnipos-wms-service/internal/order/handler"
	prodH "github.com/fekuna/omnipos-wms-service/internal/product/handler"
	rackH "github.com/fekuna/omnipos-wms-service/internal/racklocation/handler"
	reportH "github.com/fekuna/omnipos-wms-service/internal/report/handler"
	settingsH "github.com/fekuna/omnipos-wms-service/internal/settings/handler"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Category     *catH.CategoryHTTPHandler
	RackLocation *rackH.RackLocationHTTPHandler
	Product      *prodH.ProductHTTPHandler
	Inventory    *invH.InventoryHTTPHandler
	Order        *orderH.OrderHTTPHandler
	Report       *reportH.ReportHTTPHandler
	Settings     *settingsH.SettingsHTTPHandler
	Notification *notifH.NotificationHTTPHandler
}

type RouterConfig struct {
	Tokens *auth.TokenManager
	// NotificationRate limits the notification and webhook test endpoints, e.g. "10-M".
	NotificationRate string
	Logger           logger.ZapLogger
}

func NewRouter(cfg RouterConfig, h Handlers) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	notifyLimit, err := middleware.RateLimit(cfg.NotificationRate)
	if err != nil {
		return nil, err
	}

	// --- Public API Group ---
	public := r.Group("/api")
	{
		public.GET("/settings/public", h.Settings.GetPublic)
	}

	// --- Protected API Group ---
	api := r.Group("/api")
	api.Use(middleware.JWTAuth(cfg.Tokens))

	adminOnly := middleware.RequireRoles(auth.RoleAdmin)
	operators := middleware.RequireRoles(auth.RoleAdmin, auth.RoleStaff)

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", operators, h.Category.Create)
		categories.PUT("/:id", operators, h.Category.Update)
		categories.DELETE("/:id", adminOnly, h.Category.Delete)
	}

	racks := api.Group("/rack-locations")
	{
		racks.GET("", h.RackLocation.List)
		racks.GET("/:id", h.RackLocation.Get)
		racks.POST("", operators, h.RackLocation.Create)
		racks.PUT("/:id", operators, h.RackLocation.Update)
		racks.DELETE("/:id", adminOnly, h.RackLocation.Delete)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", operators, h.Product.Create)
		products.PUT("/:id", operators, h.Product.Update)
		products.DELETE("/:id", adminOnly, h.Product.Delete)
	}

	logs := api.Group("/inventory-logs")
	{
		logs.GET("", h.Inventory.ListMovements)
		logs.POST("", operators, h.Inventory.ApplyMovement)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.POST("", operators, h.Order.Create)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/low-stock", h.Report.LowStock)
		reports.GET("/best-sellers", h.Report.BestSellers)
		reports.GET("/monthly-sales", h.Report.MonthlySales)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", h.Settings.Get)
		settings.PUT("", adminOnly, h.Settings.Update)
	}

	api.POST("/notifications/test-login", notifyLimit, h.Notification.TestLogin)
	api.POST("/integrations/test-webhook", adminOnly, notifyLimit, h.Notification.TestWebhook)

	return r, nil
}
