package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is used when the caller does not configure one.
const DefaultAccessTokenTTL = time.Hour

// Claims are the portal access token claims. Role and ResidentID are what the
// resident authorization checks run on, so they must round trip unchanged.
type Claims struct {
	jwt.RegisteredClaims

	// Role is "admin", "resident" or "staff".
	Role string `json:"role"`

	// ResidentID links a resident account to its resident record ("R-2024001").
	// Empty for non-resident roles.
	ResidentID string `json:"resident_id,omitempty"`

	Username string `json:"username,omitempty"`

	// Authentication methods: "pwd", plus "otp" when a TOTP code was checked.
	AMR []string `json:"amr,omitempty"`
}

// AccessParams describes the token being minted.
type AccessParams struct {
	Subject    string
	Username   string
	Role       string
	ResidentID string
	AMR        []string

	Issuer   string
	Audience []string
	TTL      time.Duration
}

// NewAccessClaims builds claims valid from now for p.TTL.
func NewAccessClaims(p AccessParams, now time.Time) Claims {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:       p.Role,
		ResidentID: p.ResidentID,
		Username:   p.Username,
		AMR:        p.AMR,
	}
}

// NewJTI returns a random URL-safe token id.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience passes when any expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry checks exp and nbf against now, allowing leeway either side.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
