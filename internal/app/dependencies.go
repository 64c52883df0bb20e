package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
	"github.com/halil-bekli/northwind-orders-webapi/internal/metrics"
	"github.com/halil-bekli/northwind-orders-webapi/internal/storage/instrumented"
	"github.com/halil-bekli/northwind-orders-webapi/internal/storage/memory"
	"github.com/halil-bekli/northwind-orders-webapi/internal/storage/postgres"
)

// Dependencies содержит зависимости приложения.
type Dependencies struct {
	// Repo — инструментированный репозиторий заказов.
	Repo domain.OrderRepository
	// Store — PostgreSQL-хранилище; nil при работе на in-memory.
	Store *postgres.Store
	// Logger — базовый логгер приложения.
	Logger *log.Entry
}

// NewDependencies собирает зависимости приложения: выбирает хранилище
// (PostgreSQL при заданном DSN, иначе in-memory), применяет миграции и
// оборачивает репозиторий метриками. Возвращаемый cleanup закрывает хранилище.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, func(), error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}
	cleanup := func() {}

	if cfg.PostgresDSN == "" {
		logger.Warn("NORTHWIND_POSTGRES_DSN не задан, используем in-memory хранилище")
		deps.Repo = memory.NewOrderRepository()
	} else {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		logger.Info("подключились к PostgreSQL, миграции применены")

		deps.Store = store
		deps.Repo = postgres.NewOrderRepository(store)
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres store")
			}
		}
	}

	deps.Repo = instrumented.NewOrderRepository(deps.Repo, metrics.NewRepositoryMetrics())
	return deps, cleanup, nil
}
