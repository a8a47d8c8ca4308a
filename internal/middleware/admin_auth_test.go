package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/pkg/auth"
	"storefront/pkg/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testAdmin  = "admin@loja.com"
)

func newTestApp(t *testing.T, signer *auth.Signer) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/admin/ping", NewAdminAuthMiddleware(signer), func(c *fiber.Ctx) error {
		claims, ok := auth.ClaimsFrom(c.UserContext())
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(claims.Email)
	})
	return app
}

func request(t *testing.T, app *fiber.App, authorization string) (int, map[string]any, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return res.StatusCode, body, string(raw)
}

func TestAdminAuthAcceptsValidToken(t *testing.T) {
	signer, err := auth.NewSigner(testSecret, testAdmin)
	require.NoError(t, err)

	token, err := signer.Issue(testAdmin)
	require.NoError(t, err)

	status, _, raw := request(t, newTestApp(t, signer), "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, testAdmin, raw)
}

func TestAdminAuthRejects(t *testing.T) {
	fake := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	signer, err := auth.NewSigner(testSecret, testAdmin, auth.WithClock(fake))
	require.NoError(t, err)

	valid, err := signer.Issue(testAdmin)
	require.NoError(t, err)

	other, err := auth.NewSigner("ffffffffffffffffffffffffffffffff", testAdmin)
	require.NoError(t, err)
	forged, err := other.Issue(testAdmin)
	require.NoError(t, err)

	stranger, err := signer.Issue("intruder@loja.com")
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		advance       time.Duration
		code          string
	}{
		{name: "missing header", code: "admin.auth.missing_token"},
		{name: "wrong scheme", authorization: "Basic " + valid, code: "admin.auth.missing_token"},
		{name: "empty bearer", authorization: "Bearer ", code: "admin.auth.missing_token"},
		{name: "garbage", authorization: "Bearer not-a-token", code: "admin.auth.invalid_token"},
		{name: "forged signature", authorization: "Bearer " + forged, code: "admin.auth.invalid_token"},
		{name: "other subject", authorization: "Bearer " + stranger, code: "admin.auth.invalid_token"},
		{name: "expired", authorization: "Bearer " + valid, advance: 24 * time.Hour, code: "admin.auth.token_expired"},
	}

	app := newTestApp(t, signer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake.Set(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(tt.advance))

			status, body, _ := request(t, app, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Unauthorized", body["error"])
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("  bearer abc.def ")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = bearerToken("Bearer")
	assert.False(t, ok)
}
