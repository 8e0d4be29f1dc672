// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	helper "studiofit_backend/internals/helpers"
	helpersAuth "studiofit_backend/internals/helpers/auth"
)

// SessionStore is the DB side of session checks.
type SessionStore interface {
	IsBlacklisted(ctx context.Context, key string) (bool, error)
	IsUserActive(ctx context.Context, userID uuid.UUID) (bool, error)
	ResolveRole(ctx context.Context, userID, studioID uuid.UUID) (string, error)
}

type Options struct {
	Secret string
	Store  SessionStore
	Log    *zap.Logger
}

// Authenticate resolves the caller from a bearer token or the access_token cookie.
// It never rejects: an absent or invalid session just leaves the locals empty,
// and RequireAuth / the access table decide what that means for the route.
func Authenticate(opts Options) fiber.Handler {
	log := opts.Log
	if log == nil {
		log = zap.L()
	}
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return c.Next()
		}

		claims, err := helpersAuth.ParseAccess(opts.Secret, raw)
		if err != nil {
			log.Debug("access token rejected", zap.Error(err))
			return c.Next()
		}
		userID, err := claims.UserID()
		if err != nil {
			return c.Next()
		}

		ctx := c.UserContext()
		blacklisted, err := opts.Store.IsBlacklisted(ctx, helpersAuth.BlacklistKey(raw, opts.Secret))
		if err != nil {
			log.Error("blacklist lookup failed", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, helper.MsgInternal)
		}
		if blacklisted {
			return c.Next()
		}

		active, err := opts.Store.IsUserActive(ctx, userID)
		if err != nil {
			log.Error("user lookup failed", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, helper.MsgInternal)
		}
		if !active {
			return c.Next()
		}

		role := ""
		if studioID := claims.Studio(); studioID != uuid.Nil {
			role, err = opts.Store.ResolveRole(ctx, userID, studioID)
			if err != nil {
				log.Error("role lookup failed", zap.Error(err))
				return helper.JsonError(c, fiber.StatusInternalServerError, helper.MsgInternal)
			}
			if role != "" {
				c.Locals(helper.LocStudioID, studioID.String())
			}
		}

		c.Locals(helper.LocRawToken, raw)
		c.Locals(helper.LocUserID, userID.String())
		c.Locals(helper.LocEmail, claims.Email)
		c.Locals(helper.LocRole, role)
		return c.Next()
	}
}

// RequireAuth rejects callers without a resolved session.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helper.IsAuthenticated(c) {
			return helper.JsonError(c, fiber.StatusUnauthorized, helper.MsgNotAuthenticated)
		}
		return c.Next()
	}
}
