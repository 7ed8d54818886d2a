package service

// QRCodeService defines the interface for storefront QR code generation and parsing
type QRCodeService interface {
	// GenerateStoreQR renders a PNG QR code that links to the store's storefront
	GenerateStoreQR(storeID int64) ([]byte, error)

	// ParseStoreQR parses scanned QR code content and returns the store ID
	ParseStoreQR(qrData string) (int64, error)
}
