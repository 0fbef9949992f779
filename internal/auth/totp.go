package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// TOTPIssuer is the issuer name shown in authenticator apps.
const TOTPIssuer = "Inkpress"

// TOTPSetup holds everything a client needs to enroll an authenticator:
// the raw secret for manual entry and a base64 PNG QR code.
type TOTPSetup struct {
	Secret  string `json:"secret"`
	QRCode  string `json:"qr_code"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

// GenerateTOTP creates a fresh TOTP secret for the account and renders
// the provisioning URL as a QR code.
func GenerateTOTP(accountName string) (*TOTPSetup, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode totp qr code: %w", err)
	}

	return &TOTPSetup{
		Secret:  key.Secret(),
		QRCode:  base64.StdEncoding.EncodeToString(qrPNG),
		Issuer:  TOTPIssuer,
		Account: accountName,
	}, nil
}

// ValidTOTP checks a 6-digit code against the stored secret.
func ValidTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
