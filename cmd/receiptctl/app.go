package main

import (
	"context"
	"log/slog"

	"frutas/config"
	"frutas/internal/domain/repository"
	"frutas/internal/domain/service"
	"frutas/internal/infra/artifact"
	logs "frutas/internal/infra/log"
	"frutas/internal/infra/metrics"
	"frutas/internal/infra/persistence/postgres"
	"frutas/internal/infra/pubsub"
	"frutas/internal/infra/qrcode"
	"frutas/internal/infra/receiptcode"
	"frutas/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// withApp starts a short-lived container, populates targets and stops it when run returns.
func withApp(ctx context.Context, run func() error, targets ...any) error {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			func() context.Context { return ctx },
			postgres.New,
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewMenuItemRepository,
			postgres.NewReceiptRepository,
			postgres.NewRewardRepository,
			postgres.NewLedgerRepository,
			pubsub.NewEventPublisher,
			artifact.NewArtifactStore,
			func() service.LoyaltyMetrics { return metrics.Noop{} },
			func(cfg *config.Config) service.QRCodeService {
				return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.Receipt.ClaimBaseURL)
			},
			func(receipts repository.ReceiptRepository, logger *slog.Logger) service.ReceiptCodeGenerator {
				return receiptcode.NewGenerator(receipts, logger)
			},
			impl.NewMenuService,
			impl.NewReceiptService,
			impl.NewUserService,
		),
		fx.Populate(targets...),
	)

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start")
	}

	runErr := run()

	if err := app.Stop(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("Failed to stop cleanly", slog.Any("error", err))
	}

	return runErr
}
