package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/repository"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Message)
		},
	})
}

func doRequest(t *testing.T, app *fiber.App, method, target, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	m := NewAuthMiddleware(tm)
	token, _, err := tm.GenerateToken(domain.Identity{Email: "a@x.com"})
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{name: "Should reject a missing header", header: "", message: MsgMissingHeader},
		{name: "Should reject a header without a token", header: "Bearer", message: MsgMissingToken},
		{name: "Should reject a blank header", header: "   ", message: MsgMissingToken},
		{name: "Should reject an invalid token", header: "Bearer abc.def.ghi", message: MsgInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Authenticate(tc.header)
			de := apperrors.ToDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
			assert.Equal(t, tc.message, de.Message)
		})
	}

	t.Run("Should accept a bearer token", func(t *testing.T) {
		claims, err := m.Authenticate("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Email)
	})

	t.Run("Should take the second segment whatever the scheme word", func(t *testing.T) {
		claims, err := m.Authenticate("token  " + token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Email)
	})
}

func TestAuthMiddleware_Handle(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	m := NewAuthMiddleware(tm)
	app := newTestApp()
	app.Get("/me", m.Handle, func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(claims.Email)
	})

	t.Run("Should return 401 without a header", func(t *testing.T) {
		status, body := doRequest(t, app, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, MsgMissingHeader, body)
	})

	t.Run("Should attach claims for a valid token", func(t *testing.T) {
		token, _, err := tm.GenerateToken(domain.Identity{Email: "a@x.com"})
		require.NoError(t, err)
		status, body := doRequest(t, app, http.MethodGet, "/me", "Bearer "+token)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "a@x.com", body)
	})
}

type fakeUsers map[string]*domain.User

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type failingUsers struct{}

func (failingUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestAuthorizeAdmin(t *testing.T) {
	users := fakeUsers{
		"admin@x.com": {Email: "admin@x.com", Role: domain.RoleAdmin},
		"diner@x.com": {Email: "diner@x.com"},
	}
	ctx := context.Background()

	t.Run("Should permit admins", func(t *testing.T) {
		assert.NoError(t, AuthorizeAdmin(ctx, users, &Claims{Email: "admin@x.com"}))
	})

	t.Run("Should forbid non-admins and unknown users alike", func(t *testing.T) {
		nonAdmin := apperrors.ToDomainError(AuthorizeAdmin(ctx, users, &Claims{Email: "diner@x.com"}))
		missing := apperrors.ToDomainError(AuthorizeAdmin(ctx, users, &Claims{Email: "ghost@x.com"}))
		assert.Equal(t, http.StatusForbidden, nonAdmin.HTTPStatus)
		assert.Equal(t, nonAdmin.HTTPStatus, missing.HTTPStatus)
		assert.Equal(t, nonAdmin.Message, missing.Message)
	})

	t.Run("Should forbid when no claims are attached", func(t *testing.T) {
		de := apperrors.ToDomainError(AuthorizeAdmin(ctx, users, nil))
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("Should surface store failures as internal errors", func(t *testing.T) {
		de := apperrors.ToDomainError(AuthorizeAdmin(ctx, failingUsers{}, &Claims{Email: "admin@x.com"}))
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})
}

func TestRequireAdmin(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	users := fakeUsers{"admin@x.com": {Email: "admin@x.com", Role: domain.RoleAdmin}}
	app := newTestApp()
	app.Get("/admin", NewAuthMiddleware(tm).Handle, RequireAdmin(users), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	issue := func(email string) string {
		token, _, err := tm.GenerateToken(domain.Identity{Email: email})
		require.NoError(t, err)
		return "Bearer " + token
	}

	t.Run("Should authenticate before authorizing", func(t *testing.T) {
		status, _ := doRequest(t, app, http.MethodGet, "/admin", "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("Should return 403 for non-admins", func(t *testing.T) {
		status, body := doRequest(t, app, http.MethodGet, "/admin", issue("diner@x.com"))
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, MsgForbidden, body)
	})

	t.Run("Should pass admins through", func(t *testing.T) {
		status, body := doRequest(t, app, http.MethodGet, "/admin", issue("admin@x.com"))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", body)
	})

	t.Run("Should see promotions immediately", func(t *testing.T) {
		users["late@x.com"] = &domain.User{Email: "late@x.com"}
		status, _ := doRequest(t, app, http.MethodGet, "/admin", issue("late@x.com"))
		assert.Equal(t, http.StatusForbidden, status)

		users["late@x.com"].Role = domain.RoleAdmin
		status, _ = doRequest(t, app, http.MethodGet, "/admin", issue("late@x.com"))
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestRequireSelf(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	app := newTestApp()
	app.Get("/users/admin/:email", NewAuthMiddleware(tm).Handle, RequireSelf("email", "Unauthorized access"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	token, _, err := tm.GenerateToken(domain.Identity{Email: "a@x.com"})
	require.NoError(t, err)

	t.Run("Should allow the caller's own email", func(t *testing.T) {
		status, _ := doRequest(t, app, http.MethodGet, "/users/admin/a@x.com", "Bearer "+token)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("Should accept an escaped email", func(t *testing.T) {
		status, _ := doRequest(t, app, http.MethodGet, "/users/admin/a%40x.com", "Bearer "+token)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("Should forbid other emails", func(t *testing.T) {
		status, body := doRequest(t, app, http.MethodGet, "/users/admin/b@x.com", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Unauthorized access", body)
	})
}
