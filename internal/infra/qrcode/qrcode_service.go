package qrcode

import (
	"net/url"
	"strings"

	"frutas/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const defaultClaimBaseURL = "https://frutasprohibidas.app/claim"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	claimBaseURL         string
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel, claimBaseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if claimBaseURL == "" {
		claimBaseURL = defaultClaimBaseURL
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		claimBaseURL:         strings.TrimRight(claimBaseURL, "/"),
	}
}

// ClaimURL builds <base>?code=<code>
func (s *qrcodeService) ClaimURL(code string) string {
	return s.claimBaseURL + "?code=" + url.QueryEscape(code)
}

// GenerateReceiptQR renders the claim URL as a PNG
func (s *qrcodeService) GenerateReceiptQR(code string) ([]byte, error) {
	qrCode, err := qrcode.New(s.ClaimURL(code), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}
