package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	portalhttp "github.com/aussiebroadwan/barangay/internal/portal/http"
	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/barangay/pkg/cryptox"
	"github.com/aussiebroadwan/barangay/pkg/jwtx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
	"github.com/aussiebroadwan/barangay/pkg/qrx"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

const bootstrapToken = "let-me-in"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "portal-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type harness struct {
	srv   *httptest.Server
	store store.Store
	anon  *portalsdk.Client
	admin *portalsdk.Client
}

// newHarness serves a full router over an in-memory store with an admin
// account already bootstrapped and logged in.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: "barangay-test"})
	require.NoError(t, err)

	m := metrics.New()
	enc := qrx.NewEncoder(qrx.DefaultSize)
	ids := &service.IDAllocator{Store: st, Metrics: m}
	accounts := &service.AccountService{Store: st, Signer: km.Signer, Issuer: "barangay-test", Metrics: m}

	router := portalhttp.NewRouter(km.KeySet, km.Verifier, "test", st, m, slogx.Discard())
	router.ResidentService = &service.ResidentService{
		Store:   st,
		Gate:    &service.Gate{Metrics: m},
		IDs:     ids,
		QR:      &service.QRGenerator{Store: st, Encoder: enc, Metrics: m},
		Metrics: m,
	}
	router.FamilyHeadService = &service.FamilyHeadService{Store: st, IDs: ids}
	router.AccountService = accounts
	router.MFAService = &service.MFAService{Accounts: accounts, Issuer: "Barangay", Encoder: enc}
	router.BootstrapService = &service.BootstrapService{Accounts: accounts, Token: bootstrapToken}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	anon := portalsdk.NewClient(srv.URL)
	_, err = anon.Bootstrap(ctx, bootstrapToken, portalsdk.BootstrapRequest{Username: "kapitan", Password: "correct-horse"})
	require.NoError(t, err)

	return &harness{
		srv:   srv,
		store: st,
		anon:  anon,
		admin: login(t, anon, "kapitan", "correct-horse"),
	}
}

func login(t *testing.T, c *portalsdk.Client, username, password string) *portalsdk.Client {
	t.Helper()
	res, err := c.Login(context.Background(), portalsdk.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	require.Equal(t, "Bearer", res.TokenType)
	return c.WithToken(res.AccessToken)
}

func residentRequest() portalsdk.ResidentRequest {
	return portalsdk.ResidentRequest{
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Gender:    "Male",
		BirthDate: "1990-05-17",
		Address:   "Purok 3, Poblacion",
	}
}

// residentClient creates a resident account for residentID and logs it in.
func (h *harness) residentClient(t *testing.T, username, residentID string) *portalsdk.Client {
	t.Helper()
	_, err := h.admin.CreateUser(context.Background(), portalsdk.CreateUserRequest{
		Username:   username,
		Password:   "resident-pass",
		Role:       "resident",
		ResidentID: residentID,
	})
	require.NoError(t, err)
	return login(t, h.anon, username, "resident-pass")
}

func TestResidentLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	head, err := h.admin.CreateFamilyHead(ctx, portalsdk.FamilyHeadRequest{
		FirstName: "Maria",
		LastName:  "Santos",
		Address:   "123 Elm St",
	})
	require.NoError(t, err)
	require.Equal(t, "F-"+yearStr()+"001", head.HeadID)

	req := residentRequest()
	req.FamilyHeadID = head.HeadID
	req.Address = "999 Fake St"
	created, err := h.admin.CreateResident(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "R-"+yearStr()+"001", created.ResidentID)
	require.Equal(t, "123 Elm St", created.Address)
	require.Equal(t, "1990-05-17", created.BirthDate)

	list, err := h.admin.ListResidents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	req = residentRequest()
	req.ContactNumber = "09171234567"
	updated, err := h.admin.UpdateResident(ctx, created.ResidentID, req)
	require.NoError(t, err)
	require.Equal(t, "09171234567", updated.ContactNumber)
	require.Equal(t, created.RegistrationDate.Unix(), updated.RegistrationDate.Unix())

	require.NoError(t, h.admin.DeleteFamilyHead(ctx, head.HeadID), "head unlinked by the update")

	msg, err := h.admin.DeleteResident(ctx, created.ResidentID)
	require.NoError(t, err)
	require.Equal(t, "Resident deleted successfully", msg.Message)

	_, err = h.admin.GetResident(ctx, created.ResidentID)
	require.ErrorIs(t, err, portalsdk.ErrNotFound)
}

func TestResidentResponsesOmitQRCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.admin.CreateResident(ctx, residentRequest())
	require.NoError(t, err)

	for _, path := range []string{"/v1/residents", "/v1/residents/" + created.ResidentID} {
		body := rawGet(t, h.admin, h.srv.URL+path)
		require.NotContains(t, body, "qrCode", path)
		require.NotContains(t, body, "data:image/png", path)
	}
}

func TestUnknownFamilyHeadRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req := residentRequest()
	req.FamilyHeadID = "F-2024999"
	_, err := h.admin.CreateResident(ctx, req)

	var apiErr *portalsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, portalsdk.ErrorCodeValidation, apiErr.Code)
	require.Equal(t, "Family head does not exist", apiErr.Details["familyHeadId"])

	list, err := h.admin.ListResidents(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestResidentCannotReadOthers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for range 8 {
		_, err := h.admin.CreateResident(ctx, residentRequest())
		require.NoError(t, err)
	}
	self := "R-" + yearStr() + "007"
	other := "R-" + yearStr() + "008"
	c := h.residentClient(t, "juan", self)

	_, err := c.GetResident(ctx, other)
	require.ErrorIs(t, err, portalsdk.ErrForbidden)

	_, err = c.GetResident(ctx, "R-1999999")
	require.ErrorIs(t, err, portalsdk.ErrForbidden, "existence is not disclosed")

	_, err = c.GetResidentQRCode(ctx, other)
	require.ErrorIs(t, err, portalsdk.ErrForbidden)

	_, err = c.ListResidents(ctx)
	require.ErrorIs(t, err, portalsdk.ErrForbidden)

	_, err = c.CreateResident(ctx, residentRequest())
	require.ErrorIs(t, err, portalsdk.ErrForbidden)

	_, err = c.DeleteResident(ctx, self)
	require.ErrorIs(t, err, portalsdk.ErrForbidden)

	own, err := c.GetResident(ctx, self)
	require.NoError(t, err)
	require.Equal(t, self, own.ResidentID)

	req := residentRequest()
	req.ContactNumber = "09998887777"
	_, err = c.UpdateResident(ctx, self, req)
	require.NoError(t, err)

	_, err = c.ListFamilyHeads(ctx)
	require.ErrorIs(t, err, portalsdk.ErrForbidden)
	_, err = c.ListUsers(ctx)
	require.ErrorIs(t, err, portalsdk.ErrForbidden)

	_, err = h.admin.GetResident(ctx, "R-1999999")
	require.ErrorIs(t, err, portalsdk.ErrNotFound)
}

func TestResidentQRCodeIsCached(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for range 7 {
		_, err := h.admin.CreateResident(ctx, residentRequest())
		require.NoError(t, err)
	}
	id := "R-" + yearStr() + "007"

	// Drop the artifact rendered at create time.
	require.NoError(t, h.store.Residents().SetQRCode(ctx, id, ""))

	c := h.residentClient(t, "juan", id)

	first, err := c.GetResidentQRCode(ctx, id)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first, "data:image/png;base64,"))

	stored, err := h.store.Residents().GetResident(ctx, id)
	require.NoError(t, err)
	require.Equal(t, first, stored.QRCode)

	second, err := c.GetResidentQRCode(ctx, id)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestUnauthenticated(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.srv.URL + "/v1/residents")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("WWW-Authenticate"), "Bearer"))
}

func TestValidationEnvelope(t *testing.T) {
	h := newHarness(t)

	resp := rawDo(t, h.admin, http.MethodPost, h.srv.URL+"/v1/residents", `{"firstName":"Juan"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body portalsdk.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "validation_error", body.Code)
	require.Equal(t, "Last name is required", body.Details["lastName"])
	require.Equal(t, "Address is required", body.Details["address"])

	resp = rawDo(t, h.admin, http.MethodPost, h.srv.URL+"/v1/residents", `{not json`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAccountsAndMFA(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	me, err := h.admin.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "kapitan", me.Username)
	require.Equal(t, "admin", me.Role)

	staff, err := h.admin.CreateUser(ctx, portalsdk.CreateUserRequest{Username: "kagawad", Password: "staff-pass", Role: "staff"})
	require.NoError(t, err)

	_, err = h.admin.CreateUser(ctx, portalsdk.CreateUserRequest{Username: "KAGAWAD", Password: "staff-pass", Role: "staff"})
	require.ErrorIs(t, err, portalsdk.ErrConflict)

	users, err := h.admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.ErrorIs(t, h.admin.DeleteUser(ctx, me.ID), portalsdk.ErrConflict)
	require.NoError(t, h.admin.DeleteUser(ctx, staff.ID))

	enr, err := h.admin.EnrollTOTP(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, enr.Secret)
	require.True(t, strings.HasPrefix(enr.QRCode, "data:image/png;base64,"))

	require.ErrorIs(t, h.admin.VerifyTOTP(ctx, "000000"), portalsdk.ErrInvalidOTP)
	require.NoError(t, h.admin.VerifyTOTP(ctx, totpCode(t, enr.Secret)))

	_, err = h.anon.Login(ctx, portalsdk.LoginRequest{Username: "kapitan", Password: "correct-horse"})
	require.ErrorIs(t, err, portalsdk.ErrMFARequired)

	res, err := h.anon.Login(ctx, portalsdk.LoginRequest{Username: "kapitan", Password: "correct-horse", OTPCode: totpCode(t, enr.Secret)})
	require.NoError(t, err)
	require.True(t, res.User.MFAEnabled)

	require.NoError(t, h.admin.ChangePassword(ctx, portalsdk.ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "even-better-horse",
	}))
	require.ErrorIs(t, h.admin.ChangePassword(ctx, portalsdk.ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "another-horse",
	}), portalsdk.ErrInvalidCredentials)
}

func TestBootstrapOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.anon.Bootstrap(ctx, "wrong", portalsdk.BootstrapRequest{Username: "x-admin", Password: "correct-horse"})
	require.ErrorIs(t, err, portalsdk.ErrInvalidToken)

	_, err = h.anon.Bootstrap(ctx, bootstrapToken, portalsdk.BootstrapRequest{Username: "x-admin", Password: "correct-horse"})
	require.ErrorIs(t, err, portalsdk.ErrConflict)
}

func TestLoginRateLimited(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// newHarness spent one login; the strict profile allows five per minute.
	var err error
	for range 10 {
		_, err = h.anon.Login(ctx, portalsdk.LoginRequest{Username: "kapitan", Password: "wrong"})
		var apiErr *portalsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		if apiErr.StatusCode == http.StatusTooManyRequests {
			break
		}
		require.ErrorIs(t, err, portalsdk.ErrInvalidCredentials)
	}

	var apiErr *portalsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	require.Equal(t, portalsdk.ErrorCodeRateLimited, apiErr.Code)
}

func TestSystemEndpoints(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	live, err := h.anon.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := h.anon.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Checks.Store)
	require.Equal(t, "ok", ready.Checks.Signer)

	jwks, err := h.anon.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)

	resp, err := http.Get(h.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), `barangay_portal_http_requests_total{code="200",route="GET /readyz"}`)

	t.Run("readiness follows the store", func(t *testing.T) {
		require.NoError(t, h.store.Close())
		_, err := h.anon.GetReadiness(ctx)

		var apiErr *portalsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	})
}

func totpCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

func yearStr() string {
	return time.Now().Format("2006")
}

func rawDo(t *testing.T, c *portalsdk.Client, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func rawGet(t *testing.T, c *portalsdk.Client, url string) string {
	t.Helper()
	resp := rawDo(t, c, http.MethodGet, url, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
