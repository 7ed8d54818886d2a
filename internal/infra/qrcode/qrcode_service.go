// Package qrcode renders storefront share codes.
package qrcode

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"market/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	defaultSize    = 256
	defaultBaseURL = "https://market.example.com/stores"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              *url.URL
}

// NewQRCodeService creates a service encoding storefront links under baseURL,
// e.g. https://market.example.com/stores/42.
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) (service.QRCodeService, error) {
	var level qrcode.RecoveryLevel
	switch strings.ToUpper(errorCorrectionLevel) {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = defaultSize
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Errorf("invalid storefront base URL: %q", baseURL)
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              parsed,
	}, nil
}

// GenerateStoreQR renders the storefront link of the store as a PNG
func (s *qrcodeService) GenerateStoreQR(storeID int64) ([]byte, error) {
	if storeID <= 0 {
		return nil, errors.Errorf("invalid store ID: %d", storeID)
	}

	link := s.baseURL.JoinPath(strconv.FormatInt(storeID, 10))

	qrCode, err := qrcode.New(link.String(), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseStoreQR extracts the store ID from scanned storefront link content
func (s *qrcodeService) ParseStoreQR(qrData string) (int64, error) {
	link, err := url.Parse(strings.TrimSpace(qrData))
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse QR code content")
	}

	if link.Host != s.baseURL.Host || path.Dir(link.Path) != path.Clean(s.baseURL.Path) {
		return 0, errors.Errorf("not a storefront link: %s", qrData)
	}

	storeID, err := strconv.ParseInt(path.Base(link.Path), 10, 64)
	if err != nil || storeID <= 0 {
		return 0, errors.Errorf("invalid store ID in link: %s", qrData)
	}

	return storeID, nil
}
