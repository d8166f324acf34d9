package auth

import (
	"context"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/repository"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

// MsgForbidden is returned for every failed admin check, whether the user
// record is missing or simply not an admin.
const MsgForbidden = "Forbidden access"

// UserFinder looks up user records by email.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuthorizeAdmin permits claims whose email belongs to an admin record.
// The lookup is repeated on every call.
func AuthorizeAdmin(ctx context.Context, users UserFinder, claims *Claims) error {
	if claims == nil {
		return apperrors.NewForbidden(MsgForbidden)
	}
	user, err := users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewForbidden(MsgForbidden)
		}
		return apperrors.NewInternalError(err)
	}
	if !user.IsAdmin() {
		return apperrors.NewForbidden(MsgForbidden)
	}
	return nil
}

// RequireAdmin must run after AuthMiddleware.Handle.
func RequireAdmin(users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		if err := AuthorizeAdmin(c.UserContext(), users, claims); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireSelf ensures the caller's email equals the named route parameter.
func RequireSelf(param, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		want, err := url.PathUnescape(c.Params(param))
		if !ok || err != nil || claims.Email != want {
			return apperrors.NewForbidden(message)
		}
		return c.Next()
	}
}
