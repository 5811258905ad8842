// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "frutas/internal/delivery/context"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/service"

	"github.com/pkg/errors"
)

// contextLogger returns a request-scoped logger if available, otherwise the fallback.
func contextLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, fallback)
}

// persistenceError keeps AppErrors as they are and turns anything else into a database error.
func persistenceError(err error, message string) error {
	if _, ok := domainerrors.AsAppError(err); ok {
		return errors.Wrap(err, message)
	}

	return domainerrors.NewDatabaseExecuteError(err, message)
}

// validationError joins the individual problems into the details of VALIDATION_FAILED.
func validationError(problems []string) error {
	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
}

// publishEvent is best effort: the transaction it reports on has already committed.
func publishEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.LoyaltyEvent) {
	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)

	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish loyalty event",
			slog.String("event_type", event.EventType),
			slog.String("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}
