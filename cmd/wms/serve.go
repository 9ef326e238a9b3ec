package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	catH "github.com/fekuna/omnipos-wms-service/internal/category/handler"
	catUCPkg "github.com/fekuna/omnipos-wms-service/internal/category/usecase"
	invH "github.com/fekuna/omnipos-wms-service/internal/inventory/handler"
	invUCPkg "github.com/fekuna/omnipos-wms-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-wms-service/internal/middleware"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	notifH "github.com/fekuna/omnipos-wms-service/internal/notification/handler"
	notifListenerPkg "github.com/fekuna/omnipos-wms-service/internal/notification/listener"
	notifUCPkg "github.com/fekuna/omnipos-wms-service/internal/notification/usecase"
	"github.com/fekuna/omnipos-wms-service/internal/notification/webhook"
	"github.com/fekuna/omnipos-wms-service/internal/order"
	orderH "github.com/fekuna/omnipos-wms-service/internal/order/handler"
	orderPublisherPkg "github.com/fekuna/omnipos-wms-service/internal/order/publisher"
	orderRepoPkg "github.com/fekuna/omnipos-wms-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-wms-service/internal/order/usecase"
	prodH "github.com/fekuna/omnipos-wms-service/internal/product/handler"
	prodUCPkg "github.com/fekuna/omnipos-wms-service/internal/product/usecase"
	rackH "github.com/fekuna/omnipos-wms-service/internal/racklocation/handler"
	rackUCPkg "github.com/fekuna/omnipos-wms-service/internal/racklocation/usecase"
	reportH "github.com/fekuna/omnipos-wms-service/internal/report/handler"
	reportUCPkg "github.com/fekuna/omnipos-wms-service/internal/report/usecase"
	"github.com/fekuna/omnipos-wms-service/internal/rpc/wmsv1"
	"github.com/fekuna/omnipos-wms-service/internal/server"
	"github.com/fekuna/omnipos-wms-service/internal/settings"
	settingsH "github.com/fekuna/omnipos-wms-service/internal/settings/handler"
	settingsRepoPkg "github.com/fekuna/omnipos-wms-service/internal/settings/repository"
	settingsUCPkg "github.com/fekuna/omnipos-wms-service/internal/settings/usecase"
	"github.com/fekuna/omnipos-wms-service/pkg/broker"
	"github.com/fekuna/omnipos-wms-service/pkg/cache"
	"github.com/fekuna/omnipos-wms-service/pkg/i18n"
	"github.com/fekuna/omnipos-wms-service/pkg/search"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	// 1. Initialize Logger
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	// 2. Initialize i18n
	i18n.Init()
	for _, path := range cfg.I18n.MessageFiles {
		if path == "" {
			continue
		}
		if err := i18n.Load(path); err != nil {
			appLogger.Error("Could not load message file", zap.String("path", path), zap.Error(err))
			return err
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Open the Ledger Store
	repos, err := openRepositories(cfg, appLogger)
	if err != nil {
		appLogger.Error("Could not open store", zap.Error(err))
		return err
	}
	defer repos.Close()

	// 4. Initialize Redis
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis (caching and idempotency disabled)", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5. Initialize Kafka
	var (
		kafkaConsumer *broker.KafkaConsumer
		kafkaProducer *broker.KafkaProducer
	)
	if cfg.Kafka.Enabled {
		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.AuthTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()

		kafkaProducer = broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrdersTopic,
		})
		defer kafkaProducer.Close()
		appLogger.Info("Kafka configured",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("auth_topic", cfg.Kafka.AuthTopic),
			zap.String("orders_topic", cfg.Kafka.OrdersTopic),
		)
	}

	// 6. Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (Search features might be limited)", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Settings and notifications
	var sharedSettings settings.SharedCache
	if redisClient != nil {
		sharedSettings = settingsRepoPkg.NewRedisCache(redisClient, time.Duration(cfg.Settings.CacheTTL)*time.Second)
	}
	settingsUC := settingsUCPkg.NewSettingsUseCase(
		settingsRepoPkg.NewFileRepository(cfg.Settings.Path),
		sharedSettings,
		time.Duration(cfg.Settings.CacheTTL)*time.Second,
		appLogger,
	)
	settingsUC.OnUpdate(func(doc model.Settings) {
		appLogger.Info("Settings reloaded",
			zap.Bool("login_alert", doc.Security.LoginAlert),
			zap.Bool("webhook_configured", doc.Integration.Webhooks != ""),
		)
	})

	dispatcher := notifUCPkg.NewDispatcher(
		settingsUC,
		notifUCPkg.SimulatedChannels(appLogger),
		webhook.NewHTTPSender(time.Duration(cfg.Notification.WebhookTimeout)*time.Second),
		notifUCPkg.Options{
			QueueSize:      cfg.Notification.QueueSize,
			Workers:        cfg.Notification.Workers,
			WebhookTimeout: time.Duration(cfg.Notification.WebhookTimeout) * time.Second,
		},
		appLogger,
	)
	dispatcher.Start()
	defer dispatcher.Close()

	// 8. Initialize UseCases
	listCache := prodUCPkg.NewListCacheInvalidator(redisClient, appLogger)

	catUC := catUCPkg.NewCategoryUseCase(repos.Category, appLogger)
	rackUC := rackUCPkg.NewRackLocationUseCase(repos.RackLocation, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(repos.Product, repos.Category, repos.RackLocation, redisClient, esClient, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(repos.Inventory, appLogger, listCache)
	reportUC := reportUCPkg.NewReportUseCase(repos.Report, appLogger)

	orderOpts := orderUCPkg.Options{
		CancellationRestocks: cfg.Ledger.CancellationRestocks,
		Notifier:             dispatcher,
		StockListeners:       []order.StockListener{listCache},
	}
	if redisClient != nil {
		orderOpts.Idempotency = orderRepoPkg.NewRedisIdempotency(redisClient, appLogger)
	}
	if kafkaProducer != nil {
		orderOpts.Publisher = orderPublisherPkg.NewKafkaOrderPublisher(kafkaProducer)
	}
	orderUC := orderUCPkg.NewOrderUseCase(repos.Order, repos.Product, orderOpts, appLogger)
	// Runs before the deferred producer close above.
	defer orderUC.Close()

	// 9. Start Listeners
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if kafkaConsumer != nil {
		authListener := notifListenerPkg.NewAuthListener(kafkaConsumer, dispatcher, appLogger)
		go authListener.Start(ctx)
	}

	// 10. HTTP Server
	router, err := server.NewRouter(server.RouterConfig{
		Tokens:           auth.NewTokenManager(cfg.JWT.SecretKey, time.Duration(cfg.JWT.TTLMinutes)*time.Minute),
		NotificationRate: cfg.RateLimit.Notifications,
		Logger:           appLogger,
	}, server.Handlers{
		Category:     catH.NewCategoryHTTPHandler(catUC, appLogger),
		RackLocation: rackH.NewRackLocationHTTPHandler(rackUC, appLogger),
		Product:      prodH.NewProductHTTPHandler(prodUC, appLogger),
		Inventory:    invH.NewInventoryHTTPHandler(invUC, appLogger),
		Order:        orderH.NewOrderHTTPHandler(orderUC, appLogger),
		Report:       reportH.NewReportHTTPHandler(reportUC, appLogger),
		Settings:     settingsH.NewSettingsHTTPHandler(settingsUC, appLogger),
		Notification: notifH.NewNotificationHTTPHandler(dispatcher, appLogger),
	})
	if err != nil {
		appLogger.Error("Could not build router", zap.Error(err))
		return err
	}

	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 11. gRPC Server
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Error("failed to listen", zap.Error(err))
		return err
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.ContextInterceptor()),
	)
	wmsv1.RegisterInventoryServiceServer(grpcServer, invH.NewInventoryHandler(invUC, appLogger))
	wmsv1.RegisterOrderServiceServer(grpcServer, orderH.NewOrderHandler(orderUC, appLogger))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 2)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	// Graceful Shutdown
	select {
	case <-ctx.Done():
	case err = <-errCh:
		appLogger.Error("Server failed", zap.Error(err))
	}

	appLogger.Info("Shutting down server...")
	stop()
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(shutdownErr))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
	return err
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
