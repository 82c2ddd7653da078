package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lodgekit/auth"
	"github.com/stretchr/testify/assert"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := testConfig()
	auther, err := auth.NewAuthenticator(auth.NewMemoryUserStore(), cfg)
	assert.NoError(t, err)

	app := fiber.New()
	auth.RegisterAuthRoutes(app, auth.NewAuthController(auther, cfg))

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	res, err := app.Test(req, -1)
	assert.NoError(t, err)

	return res
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	res.Body.Close()

	return string(raw)
}

func signupPayload() map[string]string {
	return map[string]string{
		"email":     "guest@example.com",
		"firstname": "Jerry",
		"lastname":  "Lee",
		"password":  "Passw0rd!",
		"birthday":  "1990-05-12",
	}
}

func TestSignupEndpoint(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/auth/signup", signupPayload())
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var cookie string
	for _, c := range res.Cookies() {
		if c.Name == auth.DefaultCookieName {
			cookie = c.Value
			assert.True(t, c.HttpOnly)
			assert.Equal(t, "/", c.Path)
		}
	}
	assert.NotEmpty(t, cookie, "session cookie must be set")

	body := readBody(t, res)
	assert.Contains(t, body, `"id":1`)
	assert.Contains(t, body, "guest@example.com")
	// The password hash never crosses the wire.
	assert.NotContains(t, body, "$2a$")
	assert.NotContains(t, body, "Passw0rd!")
}

func TestSignupEndpointDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/auth/signup", signupPayload())
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	readBody(t, res)

	res = postJSON(t, app, "/api/auth/signup", signupPayload())
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)

	body := readBody(t, res)
	assert.Contains(t, body, auth.TextCodeEmailTaken)
}

func TestSignupEndpointRejectsBadPayloads(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing email", func(p map[string]string) { delete(p, "email") }},
		{"malformed email", func(p map[string]string) { p["email"] = "not-an-email" }},
		{"missing password", func(p map[string]string) { delete(p, "password") }},
		{"missing birthday", func(p map[string]string) { delete(p, "birthday") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := signupPayload()
			tt.mutate(payload)

			res := postJSON(t, app, "/api/auth/signup", payload)
			assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
			readBody(t, res)
		})
	}
}

func TestSignupEndpointWeakPassword(t *testing.T) {
	app := newTestApp(t)

	payload := signupPayload()
	payload["password"] = "short"

	res := postJSON(t, app, "/api/auth/signup", payload)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	body := readBody(t, res)
	assert.Contains(t, body, auth.TextCodeWeakPassword)
	// Per-rule hints travel back so the client can render them.
	assert.Contains(t, body, "hints")
}

func TestSignupEndpointMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/auth/signup", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	res, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	readBody(t, res)
}

func TestLoginEndpoint(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/auth/signup", signupPayload())
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	readBody(t, res)

	res = postJSON(t, app, "/api/auth/login", map[string]string{
		"email":    "guest@example.com",
		"password": "Passw0rd!",
	})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var cookie string
	for _, c := range res.Cookies() {
		if c.Name == auth.DefaultCookieName {
			cookie = c.Value
		}
	}
	assert.NotEmpty(t, cookie)

	body := readBody(t, res)
	assert.Contains(t, body, `"id":1`)
	assert.NotContains(t, body, "$2a$")
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/auth/signup", signupPayload())
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	readBody(t, res)

	res = postJSON(t, app, "/api/auth/login", map[string]string{
		"email":    "guest@example.com",
		"password": "WrongPass1!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	body := readBody(t, res)
	assert.Contains(t, body, auth.TextCodeInvalidCreds)
	assert.Empty(t, res.Cookies())
}

func TestLoginEndpointUnknownEmailMatchesWrongPassword(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Passw0rd!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	body := readBody(t, res)
	assert.Contains(t, body, auth.TextCodeInvalidCreds)
}

func TestLoginEndpointMissingFields(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "guest@example.com",
	})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	readBody(t, res)
}

func TestAuthRoutesRejectNonPost(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/auth/signup", "/api/auth/login"} {
		req := httptest.NewRequest(fiber.MethodGet, path, nil)

		res, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusMethodNotAllowed, res.StatusCode, path)
	}
}
