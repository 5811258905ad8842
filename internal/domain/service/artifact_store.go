package service

import "context"

// ArtifactStore archives generated files such as receipt QR images.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// ReceiptQRKey is the object key of a receipt's QR image.
func ReceiptQRKey(code string) string {
	return "receipts/" + code + ".png"
}
