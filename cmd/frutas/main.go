package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"frutas/config"
	"frutas/internal/delivery"
	"frutas/internal/delivery/api"
	apimiddleware "frutas/internal/delivery/api/middleware"
	"frutas/internal/delivery/api/router/handler"
	"frutas/internal/domain/repository"
	"frutas/internal/domain/service"
	"frutas/internal/infra/artifact"
	"frutas/internal/infra/auth"
	logs "frutas/internal/infra/log"
	"frutas/internal/infra/metrics"
	"frutas/internal/infra/persistence/postgres"
	"frutas/internal/infra/pubsub"
	"frutas/internal/infra/qrcode"
	"frutas/internal/infra/receiptcode"
	"frutas/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			registerDBStats,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		newMetrics,
		newLoyaltyMetrics,
		newHTTPObserver,
		newPoolObserver,
		fx.Annotate(
			newMetricsHandler,
			fx.ResultTags(`name:"metrics"`),
		),
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewMenuItemRepository,
			postgres.NewReceiptRepository,
			postgres.NewRewardRepository,
			postgres.NewLedgerRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			pubsub.NewEventPublisher,
			artifact.NewArtifactStore,
			newQRCodeService,
			newReceiptCodeGenerator,
		),
	)
}

func newMetrics(cfg *config.Config) *metrics.Metrics {
	if cfg.Metrics == nil || !cfg.Metrics.Enabled {
		return nil
	}

	return metrics.New(cfg)
}

// registerDBStats exports the primary pool gauges when metrics are enabled.
func registerDBStats(m *metrics.Metrics, db *gorm.DB) error {
	if m == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB for metrics")
	}
	m.RegisterDB(sqlDB, "primary")

	return nil
}

func newPoolObserver(m *metrics.Metrics) postgres.PoolObserver {
	if m == nil {
		return nil
	}

	return m
}

func newLoyaltyMetrics(m *metrics.Metrics) service.LoyaltyMetrics {
	if m == nil {
		return metrics.Noop{}
	}

	return m
}

func newHTTPObserver(m *metrics.Metrics) apimiddleware.HTTPObserver {
	if m == nil {
		return nil
	}

	return m
}

func newMetricsHandler(m *metrics.Metrics) http.Handler {
	if m == nil {
		return nil
	}

	return m.Handler()
}

func newQRCodeService(cfg *config.Config) service.QRCodeService {
	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.Receipt.ClaimBaseURL)
}

// newReceiptCodeGenerator counts every pre-insert collision.
func newReceiptCodeGenerator(receipts repository.ReceiptRepository, m service.LoyaltyMetrics, logger *slog.Logger) service.ReceiptCodeGenerator {
	return receiptcode.NewGenerator(receipts, logger, receiptcode.WithCollisionHook(m.CodeCollision))
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewMenuService,
			impl.NewReceiptService,
			impl.NewRewardService,
			impl.NewUserService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			apimiddleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewMenuHandler,
			handler.NewReceiptHandler,
			handler.NewRewardHandler,
			handler.NewMeHandler,
			handler.NewUserHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
