package main

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-wms-service/config"
	"github.com/fekuna/omnipos-wms-service/internal/category"
	catRepoPkg "github.com/fekuna/omnipos-wms-service/internal/category/repository"
	"github.com/fekuna/omnipos-wms-service/internal/inventory"
	invRepoPkg "github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-wms-service/internal/order"
	orderRepoPkg "github.com/fekuna/omnipos-wms-service/internal/order/repository"
	"github.com/fekuna/omnipos-wms-service/internal/product"
	prodRepoPkg "github.com/fekuna/omnipos-wms-service/internal/product/repository"
	"github.com/fekuna/omnipos-wms-service/internal/racklocation"
	rackRepoPkg "github.com/fekuna/omnipos-wms-service/internal/racklocation/repository"
	"github.com/fekuna/omnipos-wms-service/internal/report"
	reportRepoPkg "github.com/fekuna/omnipos-wms-service/internal/report/repository"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
	"github.com/fekuna/omnipos-wms-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	return logger.NewZapLogger(logConfig)
}

func openPostgres(cfg *config.Config) (*sqlx.DB, error) {
	return postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
}

type repositories struct {
	Category     category.Repository
	RackLocation racklocation.Repository
	Product      product.Repository
	Inventory    inventory.Repository
	Order        order.Repository
	Report       report.Repository
	Close        func() error
}

// openRepositories builds every repository on the configured store driver.
func openRepositories(cfg *config.Config, log logger.ZapLogger) (*repositories, error) {
	switch cfg.Store.Driver {
	case "memory":
		store := memory.New()
		log.Warn("Using in-memory store, data is lost on restart")
		return &repositories{
			Category:     catRepoPkg.NewMemoryRepository(store),
			RackLocation: rackRepoPkg.NewMemoryRepository(store),
			Product:      prodRepoPkg.NewMemoryRepository(store),
			Inventory:    invRepoPkg.NewMemoryRepository(store),
			Order:        orderRepoPkg.NewMemoryRepository(store),
			Report:       reportRepoPkg.NewMemoryRepository(store),
			Close:        func() error { return nil },
		}, nil

	case "postgres":
		db, err := openPostgres(cfg)
		if err != nil {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
		log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
		return &repositories{
			Category:     catRepoPkg.NewPGRepository(db),
			RackLocation: rackRepoPkg.NewPGRepository(db),
			Product:      prodRepoPkg.NewPGRepository(db),
			Inventory:    invRepoPkg.NewPGRepository(db),
			Order:        orderRepoPkg.NewPGRepository(db),
			Report:       reportRepoPkg.NewPGRepository(db),
			Close:        db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
