package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/mlefevre/Laiterie-api/internal/interfaces/http"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
	pkgjwt "github.com/mlefevre/Laiterie-api/pkg/jwt"
)

const (
	testJWTSecret = "secret-de-test-pour-les-tests-unitaires"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "laiterie-api-test"
	testExpMin    = 60
)

// buildTestApp application Fiber minimale : AuthMiddleware + un handler qui
// renvoie 200 avec le rôle lu dans les Locals.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protegee",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id": apphttp.GetUserID(c),
				"role":    string(apphttp.GetRole(c)),
			})
		},
	)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protegee", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_TokenValide(t *testing.T) {
	app := buildTestApp()
	token, err := pkgjwt.Generate(testJWTSecret, testUserID, string(workflow.RoleAppro), testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+token)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_SansHeader(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(t, app, "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatInvalide(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(t, app, "Basic abc123")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MauvaiseSignature(t *testing.T) {
	app := buildTestApp()
	token, err := pkgjwt.Generate("un-autre-secret-complet", testUserID, string(workflow.RoleAppro), testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpire(t *testing.T) {
	app := buildTestApp()
	token, err := pkgjwt.Generate(testJWTSecret, testUserID, string(workflow.RoleAppro), testIssuer, -1)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
