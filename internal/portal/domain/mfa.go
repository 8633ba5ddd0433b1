package domain

// TOTPEnrollment is a pending TOTP secret returned to the user for scanning.
type TOTPEnrollment struct {
	Secret     string // base32
	OTPAuthURL string // otpauth://totp/...
	QRCode     string // PNG data URL of OTPAuthURL
}
