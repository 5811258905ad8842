package service

// QRCodeService renders the printed receipt QR codes
type QRCodeService interface {
	// ClaimURL returns the URL a customer opens to claim the receipt
	ClaimURL(code string) string

	// GenerateReceiptQR returns a PNG encoding the claim URL of the receipt code
	GenerateReceiptQR(code string) ([]byte, error)
}
