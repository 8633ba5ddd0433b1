package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/barangay/pkg/cryptox"
	"github.com/aussiebroadwan/barangay/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "barangay-portal"

func newManager(t *testing.T) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer})
	require.NoError(t, err)
	return km
}

func residentClaims(now time.Time, ttl time.Duration) jwtx.Claims {
	return jwtx.NewAccessClaims(jwtx.AccessParams{
		Subject:    "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
		Username:   "juan",
		Role:       "resident",
		ResidentID: "R-2024001",
		AMR:        []string{"pwd"},
		Issuer:     testIssuer,
		TTL:        ttl,
	}, now)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	km := newManager(t)
	require.True(t, km.IsReady())
	require.Equal(t, "EdDSA", km.Signer.Alg())

	claims := residentClaims(time.Now().UTC(), 5*time.Minute)
	token, err := km.Signer.Sign(claims)
	require.NoError(t, err)

	got, err := km.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, got.Subject)
	require.Equal(t, "resident", got.Role)
	require.Equal(t, "R-2024001", got.ResidentID)
	require.Equal(t, "juan", got.Username)
	require.Equal(t, []string{"pwd"}, got.AMR)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejects(t *testing.T) {
	km := newManager(t)

	t.Run("expired token", func(t *testing.T) {
		token, err := km.Signer.Sign(residentClaims(time.Now().Add(-2*time.Hour), time.Minute))
		require.NoError(t, err)

		_, err = km.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := residentClaims(time.Now(), time.Minute)
		c.Issuer = "someone-else"
		token, err := km.Signer.Sign(c)
		require.NoError(t, err)

		_, err = km.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("token from another key", func(t *testing.T) {
		other := newManager(t)
		token, err := other.Signer.Sign(residentClaims(time.Now(), time.Minute))
		require.NoError(t, err)

		_, err = km.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := km.Signer.Sign(residentClaims(time.Now(), time.Minute))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		forged := jwtx.NewAccessClaims(jwtx.AccessParams{Subject: "x", Role: "admin", Issuer: testIssuer}, time.Now())
		forgedToken, err := foreignSigner(t).Sign(forged)
		require.NoError(t, err)
		payload := strings.Split(forgedToken, ".")[1]

		_, err = km.Verifier.Verify(parts[0] + "." + payload + "." + parts[2])
		require.Error(t, err)
	})

	t.Run("HS256 is not accepted", func(t *testing.T) {
		c := residentClaims(time.Now(), time.Minute)
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
		tok.Header["kid"] = km.Signer.KID()
		signed, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = km.Verifier.Verify(signed)
		require.Error(t, err)
	})
}

func foreignSigner(t *testing.T) jwtx.Signer {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	s, err := jwtx.NewSignerEdDSA("", pemKey)
	require.NoError(t, err)
	return s
}

func TestPersistentKeyKeepsKID(t *testing.T) {
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	a, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer, PrivateKeyPEM: pemKey})
	require.NoError(t, err)
	b, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer, PrivateKeyPEM: pemKey})
	require.NoError(t, err)

	// Same key on disk means tokens from before a restart still verify
	require.Equal(t, a.Signer.KID(), b.Signer.KID())
	token, err := a.Signer.Sign(residentClaims(time.Now(), time.Minute))
	require.NoError(t, err)
	_, err = b.Verifier.Verify(token)
	require.NoError(t, err)
}

func TestJWKSPublishesOKPKey(t *testing.T) {
	km := newManager(t)

	jwks := km.KeySet.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)
	require.Equal(t, km.Signer.KID(), jwks.Keys[0].Kid)

	// Re-adding the same signer does not duplicate the JWK
	require.NoError(t, km.KeySet.AddSigner(km.Signer))
	require.Len(t, km.KeySet.PublicJWKS().Keys, 1)

	require.Error(t, km.KeySet.AddJWK(jwtx.JWK{Kty: "RSA"}))
}

func TestClaimValidation(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:   "portal",
		Audience: []string{"spa", "kiosk"},
	}}

	require.NoError(t, c.ValidateIssuer(""))
	require.NoError(t, c.ValidateIssuer("portal"))
	require.ErrorIs(t, c.ValidateIssuer("other"), jwtx.ErrIssuer)

	require.NoError(t, c.ValidateAudience(nil))
	require.NoError(t, c.ValidateAudience([]string{"nope", "kiosk"}))
	require.ErrorIs(t, c.ValidateAudience([]string{"admin"}), jwtx.ErrAudience)

	now := time.Now()
	c.NotBefore = jwt.NewNumericDate(now.Add(time.Minute))
	require.ErrorIs(t, c.ValidateExpiry(now, 0), jwtx.ErrNotYetValid)
	require.NoError(t, c.ValidateExpiry(now, 2*time.Minute))
}
