package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxSetPointsAttempts bounds the compare-and-swap loop of SetPoints.
const maxSetPointsAttempts = 5

// userService implements the UserUsecase interface.
type userService struct {
	txManager  repository.TransactionManager
	userRepo   repository.UserRepository
	ledgerRepo repository.LedgerRepository
	validate   *validator.Validate
	now        func() time.Time
	logger     *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	UserRepo   repository.UserRepository
	LedgerRepo repository.LedgerRepository
	Logger     *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:  params.TxManager,
		userRepo:   params.UserRepo,
		ledgerRepo: params.LedgerRepo,
		validate:   validator.New(),
		now:        func() time.Time { return time.Now().UTC() },
		logger:     params.Logger,
	}
}

// EnsureUser inserts the profile row on first sight and returns the stored user.
func (srv *userService) EnsureUser(ctx context.Context, principal *entity.Principal) (*entity.User, error) {
	user := &entity.User{
		ID:     principal.UserID,
		Email:  principal.Email,
		Name:   principal.Name,
		Role:   principal.HighestRole(),
		Points: 0,
	}

	if err := srv.userRepo.CreateIfNotExists(ctx, user); err != nil {
		return nil, persistenceError(err, "failed to mirror user")
	}

	return srv.GetUser(ctx, principal.UserID)
}

func (srv *userService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrUserNotFound)
	}
	if err != nil {
		return nil, persistenceError(err, "failed to get user")
	}

	return user, nil
}

func (srv *userService) ListUsers(ctx context.Context, opts repository.ListOptions) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx, opts)
	if err != nil {
		return nil, persistenceError(err, "failed to list users")
	}

	return users, nil
}

// UpdateProfile requires a non-empty name and a valid email.
func (srv *userService) UpdateProfile(ctx context.Context, id uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	var problems []string
	if name == "" {
		problems = append(problems, "name is required")
	}
	if err := srv.validate.Var(email, "required,email"); err != nil {
		problems = append(problems, "email must be a valid address")
	}
	if len(problems) > 0 {
		return nil, validationError(problems)
	}

	if err := srv.userRepo.UpdateProfile(ctx, id, name, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrUserNotFound)
		}

		return nil, persistenceError(err, "failed to update profile")
	}

	return srv.GetUser(ctx, id)
}

// SetPoints overwrites the balance with compare-and-swap, retrying when a claim or redemption slips in between.
func (srv *userService) SetPoints(ctx context.Context, id uuid.UUID, points int) (*entity.User, error) {
	logger := contextLogger(ctx, srv.logger)

	if points < 0 {
		return nil, validationError([]string{"points must be zero or greater"})
	}

	for attempt := 1; attempt <= maxSetPointsAttempts; attempt++ {
		var updated *entity.User

		err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			userRepo := repoFactory.NewUserRepository()

			user, err := userRepo.FindByID(ctx, id)
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.WithStack(domainerrors.ErrUserNotFound)
			}
			if err != nil {
				return errors.Wrap(err, "failed to find user")
			}

			delta := points - user.Points
			if delta == 0 {
				updated = user

				return nil
			}

			if err := userRepo.CompareAndSetPoints(ctx, id, user.Points, points); err != nil {
				return err
			}

			if err := repoFactory.NewLedgerRepository().Append(ctx, &entity.LedgerEntry{
				UserID:       id,
				Delta:        delta,
				BalanceAfter: points,
				Reason:       entity.LedgerReasonAdminAdjustment,
				CreatedAt:    srv.now(),
			}); err != nil {
				return errors.Wrap(err, "failed to append ledger entry")
			}

			user.Points = points
			updated = user

			return nil
		})
		if errors.Is(err, repository.ErrPointsConflict) {
			logger.WarnContext(ctx, "Balance changed during admin override, retrying",
				slog.String("user_id", id.String()),
				slog.Int("attempt", attempt),
			)

			continue
		}
		if err != nil {
			return nil, persistenceError(err, "failed to set points")
		}

		logger.InfoContext(ctx, "Points set by administrator",
			slog.String("user_id", id.String()),
			slog.Int("points", points),
		)

		return updated, nil
	}

	return nil, domainerrors.ErrTransactionFailed.WrapMessage("balance kept changing during admin override")
}

func (srv *userService) ListLedger(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.LedgerEntry, error) {
	entries, err := srv.ledgerRepo.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, persistenceError(err, "failed to list ledger")
	}

	return entries, nil
}
