package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"frutas/config"
	"frutas/internal/domain/constants"
	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/domain/service"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// receiptService implements the ReceiptUsecase interface.
type receiptService struct {
	txManager        repository.TransactionManager
	menuItemRepo     repository.MenuItemRepository
	receiptRepo      repository.ReceiptRepository
	codeGenerator    service.ReceiptCodeGenerator
	qrCodeService    service.QRCodeService
	artifacts        service.ArtifactStore
	publisher        service.EventPublisher
	metrics          service.LoyaltyMetrics
	codeAttempts     int
	finalizeAttempts int
	now              func() time.Time
	logger           *slog.Logger
}

// ReceiptServiceParams holds dependencies for ReceiptService, injected by Fx.
type ReceiptServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	MenuItemRepo  repository.MenuItemRepository
	ReceiptRepo   repository.ReceiptRepository
	CodeGenerator service.ReceiptCodeGenerator
	QRCodeService service.QRCodeService
	Artifacts     service.ArtifactStore
	Publisher     service.EventPublisher
	Metrics       service.LoyaltyMetrics
	Config        *config.Config
	Logger        *slog.Logger
}

// NewReceiptService is the constructor for receiptService.
func NewReceiptService(params ReceiptServiceParams) usecase.ReceiptUsecase {
	codeAttempts, finalizeAttempts := 3, 3
	if params.Config != nil && params.Config.Receipt != nil {
		if params.Config.Receipt.CodeAttempts > 0 {
			codeAttempts = params.Config.Receipt.CodeAttempts
		}
		if params.Config.Receipt.FinalizeAttempts > 0 {
			finalizeAttempts = params.Config.Receipt.FinalizeAttempts
		}
	}

	return &receiptService{
		txManager:        params.TxManager,
		menuItemRepo:     params.MenuItemRepo,
		receiptRepo:      params.ReceiptRepo,
		codeGenerator:    params.CodeGenerator,
		qrCodeService:    params.QRCodeService,
		artifacts:        params.Artifacts,
		publisher:        params.Publisher,
		metrics:          params.Metrics,
		codeAttempts:     codeAttempts,
		finalizeAttempts: finalizeAttempts,
		now:              func() time.Time { return time.Now().UTC() },
		logger:           params.Logger,
	}
}

// FinalizeReceipt validates the cart, snapshots the catalog and stores the receipt under a fresh code.
func (srv *receiptService) FinalizeReceipt(ctx context.Context, lines []usecase.ReceiptLineInput) (*entity.Receipt, error) {
	logger := contextLogger(ctx, srv.logger)

	if err := validateCart(lines); err != nil {
		return nil, err
	}

	items, err := srv.lookupMenuItems(ctx, lines)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= srv.finalizeAttempts; attempt++ {
		code, err := srv.codeGenerator.GenerateBounded(ctx, srv.codeAttempts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to allocate receipt code")
		}

		receipt := buildReceipt(code, lines, items)

		err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return repoFactory.NewReceiptRepository().Create(ctx, receipt)
		})
		if errors.Is(err, repository.ErrDuplicateReceiptCode) {
			srv.metrics.CodeCollision()
			logger.WarnContext(ctx, "Receipt code taken at insert, retrying finalize",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", srv.finalizeAttempts),
			)

			continue
		}
		if err != nil {
			return nil, persistenceError(err, "failed to persist receipt")
		}

		logger.InfoContext(ctx, "Receipt finalized",
			slog.String("receipt_id", receipt.ID.String()),
			slog.String("code", receipt.Code),
			slog.Int("points_earned", receipt.PointsEarned),
			slog.Int("lines", len(receipt.Lines)),
		)
		srv.metrics.ReceiptFinalized(receipt.PointsEarned)
		srv.archiveQR(ctx, receipt.Code)

		return receipt, nil
	}

	return nil, domainerrors.ErrCodeGenerationFailed.WrapMessage("receipt code kept colliding at insert")
}

// validateCart runs every check that needs no database access.
func validateCart(lines []usecase.ReceiptLineInput) error {
	if len(lines) == 0 {
		return validationError([]string{"cart must contain at least one item"})
	}

	var problems []string
	seen := make(map[int64]bool, len(lines))

	for i, line := range lines {
		if line.Quantity < entity.MinLineQuantity || line.Quantity > entity.MaxLineQuantity {
			problems = append(problems, fmt.Sprintf("items[%d].quantity must be between %d and %d",
				i, entity.MinLineQuantity, entity.MaxLineQuantity))
		}
		if seen[line.MenuItemID] {
			problems = append(problems, fmt.Sprintf("items[%d].menu_item_id %d is duplicated", i, line.MenuItemID))
		}
		seen[line.MenuItemID] = true
	}

	if len(problems) > 0 {
		return validationError(problems)
	}

	return nil
}

// lookupMenuItems fetches every referenced item and reports all unknown ids at once.
func (srv *receiptService) lookupMenuItems(ctx context.Context, lines []usecase.ReceiptLineInput) (map[int64]*entity.MenuItem, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuItemID)
	}

	found, err := srv.menuItemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, persistenceError(err, "failed to look up menu items")
	}

	items := make(map[int64]*entity.MenuItem, len(found))
	for _, item := range found {
		items[item.ID] = item
	}

	var missing []string
	for _, id := range ids {
		if _, ok := items[id]; !ok {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	if len(missing) > 0 {
		return nil, validationError([]string{"unknown menu_item_id: " + strings.Join(missing, ", ")})
	}

	return items, nil
}

func buildReceipt(code string, lines []usecase.ReceiptLineInput, items map[int64]*entity.MenuItem) *entity.Receipt {
	receiptLines := make([]*entity.ReceiptLine, 0, len(lines))
	for i, line := range lines {
		item := items[line.MenuItemID]
		receiptLines = append(receiptLines, &entity.ReceiptLine{
			Position:     i,
			MenuItemID:   item.ID,
			MenuItemName: item.Name,
			Quantity:     line.Quantity,
			CO2Saved:     item.CO2Saved,
			WaterSaved:   item.WaterSaved,
			LandSaved:    item.LandSaved,
		})
	}

	impact := entity.CalculateImpact(receiptLines)

	return &entity.Receipt{
		Code:            code,
		TotalCO2Saved:   impact.CO2Saved,
		TotalWaterSaved: impact.WaterSaved,
		TotalLandSaved:  impact.LandSaved,
		PointsEarned:    impact.Points(),
		Lines:           receiptLines,
	}
}

// archiveQR never fails the finalize; the image can be rendered again from the code.
func (srv *receiptService) archiveQR(ctx context.Context, code string) {
	png, err := srv.qrCodeService.GenerateReceiptQR(code)
	if err == nil {
		err = srv.artifacts.Put(ctx, service.ReceiptQRKey(code), png, "image/png")
	}
	if err != nil {
		contextLogger(ctx, srv.logger).WarnContext(ctx, "Failed to archive receipt QR",
			slog.String("code", code),
			slog.Any("error", err),
		)
	}
}

// ClaimReceipt credits the receipt's frozen points to the user exactly once.
func (srv *receiptService) ClaimReceipt(ctx context.Context, code string, userID uuid.UUID) (*usecase.ClaimResult, error) {
	logger := contextLogger(ctx, srv.logger)

	code = strings.ToUpper(strings.TrimSpace(code))
	if !entity.IsValidReceiptCode(code) {
		return nil, domainerrors.ErrReceiptNotClaimable.WrapMessage("malformed receipt code")
	}

	var result *usecase.ClaimResult

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		receiptRepo := repoFactory.NewReceiptRepository()
		userRepo := repoFactory.NewUserRepository()

		// 1. Find the receipt while it is still unclaimed
		receipt, err := receiptRepo.FindUnclaimedByCode(ctx, code)
		if errors.Is(err, repository.ErrReceiptNotFound) {
			return errors.WithStack(domainerrors.ErrReceiptNotClaimable)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find receipt")
		}

		// 2. Bind it; a concurrent claim that got here first leaves zero rows to update
		claimedAt := srv.now()
		if err := receiptRepo.SetUserIDIfNull(ctx, receipt.ID, userID, claimedAt); err != nil {
			if errors.Is(err, repository.ErrReceiptAlreadyClaimed) {
				return errors.WithStack(domainerrors.ErrReceiptNotClaimable)
			}

			return errors.Wrap(err, "failed to bind receipt")
		}

		// 3. Credit the frozen points
		if err := userRepo.IncrementPoints(ctx, userID, receipt.PointsEarned); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.WithStack(domainerrors.ErrUserNotFound)
			}

			return errors.Wrap(err, "failed to credit points")
		}

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to read balance")
		}

		// 4. Record the change
		if err := repoFactory.NewLedgerRepository().Append(ctx, &entity.LedgerEntry{
			UserID:       userID,
			Delta:        receipt.PointsEarned,
			BalanceAfter: user.Points,
			Reason:       entity.LedgerReasonReceiptClaim,
			ReferenceID:  &receipt.ID,
			CreatedAt:    claimedAt,
		}); err != nil {
			return errors.Wrap(err, "failed to append ledger entry")
		}

		receipt.UserID = &userID
		receipt.ClaimedAt = &claimedAt
		result = &usecase.ClaimResult{Receipt: receipt, NewBalance: user.Points}

		return nil
	})
	if err != nil {
		return nil, persistenceError(err, "failed to claim receipt")
	}

	logger.InfoContext(ctx, "Receipt claimed",
		slog.String("receipt_id", result.Receipt.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("points", result.Receipt.PointsEarned),
		slog.Int("balance", result.NewBalance),
	)
	srv.metrics.ReceiptClaimed(result.Receipt.PointsEarned)
	publishEvent(ctx, srv.publisher, logger, &service.LoyaltyEvent{
		EventType:  constants.EventReceiptClaimed,
		UserID:     userID.String(),
		ReceiptID:  result.Receipt.ID.String(),
		Code:       result.Receipt.Code,
		Delta:      result.Receipt.PointsEarned,
		Balance:    result.NewBalance,
		OccurredAt: *result.Receipt.ClaimedAt,
	})

	return result, nil
}

func (srv *receiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := srv.receiptRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrReceiptNotFound) {
		return nil, errors.WithStack(domainerrors.ErrReceiptNotFound)
	}
	if err != nil {
		return nil, persistenceError(err, "failed to get receipt")
	}

	return receipt, nil
}

func (srv *receiptService) ListReceipts(ctx context.Context, opts repository.ListOptions) ([]*entity.Receipt, error) {
	receipts, err := srv.receiptRepo.List(ctx, opts)
	if err != nil {
		return nil, persistenceError(err, "failed to list receipts")
	}

	return receipts, nil
}

func (srv *receiptService) ListUserReceipts(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.Receipt, error) {
	receipts, err := srv.receiptRepo.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, persistenceError(err, "failed to list user receipts")
	}

	return receipts, nil
}

// ReceiptQR serves the archived image when there is one and renders it otherwise.
func (srv *receiptService) ReceiptQR(ctx context.Context, code string) ([]byte, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !entity.IsValidReceiptCode(code) {
		return nil, errors.WithStack(domainerrors.ErrReceiptNotFound)
	}

	if _, err := srv.receiptRepo.FindByCode(ctx, code); err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			return nil, errors.WithStack(domainerrors.ErrReceiptNotFound)
		}

		return nil, persistenceError(err, "failed to find receipt")
	}

	if png, err := srv.artifacts.Get(ctx, service.ReceiptQRKey(code)); err == nil && len(png) > 0 {
		return png, nil
	}

	png, err := srv.qrCodeService.GenerateReceiptQR(code)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	return png, nil
}
