package portalsdk

import "time"

// ============================================================================
// Error envelopes
// ============================================================================

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned with 400 when input is rejected.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Residents
// ============================================================================

// Resident is the public view of a resident record. The QR artifact is only
// available from the qrcode endpoint.
type Resident struct {
	ResidentID       string    `json:"residentId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Gender           string    `json:"gender"`
	BirthDate        string    `json:"birthDate"`
	Address          string    `json:"address"`
	ContactNumber    string    `json:"contactNumber,omitempty"`
	FamilyHeadID     string    `json:"familyHeadId,omitempty"`
	RegistrationDate time.Time `json:"registrationDate"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ResidentRequest is the body of create and update. BirthDate accepts
// YYYY-MM-DD or RFC3339. When FamilyHeadID is set the address is replaced by
// the head's address.
type ResidentRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Gender        string `json:"gender"`
	BirthDate     string `json:"birthDate"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber,omitempty"`
	FamilyHeadID  string `json:"familyHeadId,omitempty"`
}

type QRCodeResponse struct {
	QRCode string `json:"qrCode"`
}

// ============================================================================
// Family heads
// ============================================================================

type FamilyHead struct {
	HeadID           string    `json:"headId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Address          string    `json:"address"`
	ContactNumber    string    `json:"contactNumber,omitempty"`
	RegistrationDate time.Time `json:"registrationDate"`
}

type FamilyHeadRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber,omitempty"`
}

// ============================================================================
// Accounts
// ============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code,omitempty"`
}

// LoginResponse carries a bearer access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// User is an account. ResidentID is set only for the resident role.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	ResidentID string    `json:"resident_id,omitempty"`
	MFAEnabled bool      `json:"mfa_enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateUserRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	ResidentID string `json:"resident_id,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// TOTPEnrollResponse holds a pending secret. It is not active until verified.
type TOTPEnrollResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
	QRCode     string `json:"qr_code"`
}

type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Bootstrap
// ============================================================================

// BootstrapRequest creates the first admin account.
type BootstrapRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type BootstrapResponse struct {
	UserID string `json:"user_id"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Checks is only set on
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Store  string `json:"store"`
	Signer string `json:"signer"`
}
