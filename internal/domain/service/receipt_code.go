package service

import "context"

// ReceiptCodeGenerator allocates printed receipt codes of the form AA000000.
type ReceiptCodeGenerator interface {
	// Generate retries until it finds a code no receipt uses or ctx is done.
	Generate(ctx context.Context) (string, error)

	// GenerateBounded gives up after attempts collisions.
	GenerateBounded(ctx context.Context, attempts int) (string, error)
}
