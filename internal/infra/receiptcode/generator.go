// Package receiptcode allocates the short codes printed on receipts.
package receiptcode

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"

	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	letters     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits      = "0123456789"
	letterCount = entity.ReceiptCodeLetters
	digitCount  = entity.ReceiptCodeDigits
)

// IsValidCode reports whether s has the printed receipt code format.
func IsValidCode(s string) bool {
	return entity.IsValidReceiptCode(s)
}

// CodeChecker is the read-only view of receipts the generator needs.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type generator struct {
	receipts CodeChecker
	logger   *slog.Logger
	draw     func() (string, error)
	onRetry  func()
}

// Option customizes a generator.
type Option func(*generator)

// WithDraw replaces the random source, mostly for tests.
func WithDraw(draw func() (string, error)) Option {
	return func(g *generator) {
		g.draw = draw
	}
}

// WithCollisionHook is called every time a drawn code is already taken.
func WithCollisionHook(fn func()) Option {
	return func(g *generator) {
		g.onRetry = fn
	}
}

// NewGenerator returns a generator that checks candidates against receipts.
func NewGenerator(receipts CodeChecker, logger *slog.Logger, opts ...Option) service.ReceiptCodeGenerator {
	g := &generator{
		receipts: receipts,
		logger:   logger,
		draw:     drawCode,
		onRetry:  func() {},
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *generator) Generate(ctx context.Context) (string, error) {
	for {
		code, taken, err := g.try(ctx)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

func (g *generator) GenerateBounded(ctx context.Context, attempts int) (string, error) {
	for attempt := 1; attempt <= attempts; attempt++ {
		code, taken, err := g.try(ctx)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}

		g.logger.WarnContext(ctx, "Receipt code collision",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
		)
	}

	return "", domainerrors.ErrCodeGenerationFailed.WrapMessage("receipt code attempts exhausted")
}

func (g *generator) try(ctx context.Context) (code string, taken bool, err error) {
	if err := ctx.Err(); err != nil {
		return "", false, errors.WithStack(err)
	}

	code, err = g.draw()
	if err != nil {
		return "", false, err
	}

	taken, err = g.receipts.CodeExists(ctx, code)
	if err != nil {
		return "", false, errors.Wrap(err, "failed to check receipt code")
	}
	if taken {
		g.onRetry()
	}

	return code, taken, nil
}

func drawCode() (string, error) {
	buf := make([]byte, 0, letterCount+digitCount)
	for range letterCount {
		c, err := pick(letters)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for range digitCount {
		c, err := pick(digits)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	return string(buf), nil
}

// pick draws one byte uniformly; rand.Int rejects biased samples.
func pick(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, errors.Wrap(err, "failed to read random source")
	}

	return alphabet[n.Int64()], nil
}
