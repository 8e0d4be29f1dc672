package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"studiofit_backend/internals/features/users/auth/dto"
	"studiofit_backend/internals/features/users/auth/service"
	helper "studiofit_backend/internals/helpers"
)

type AuthController struct {
	svc          *service.Service
	cookieSecure bool
	log          *zap.Logger
}

func NewAuthController(svc *service.Service, cookieSecure bool, log *zap.Logger) *AuthController {
	return &AuthController{svc: svc, cookieSecure: cookieSecure, log: log}
}

func meta(c *fiber.Ctx) service.Meta {
	return service.Meta{UserAgent: c.Get(fiber.HeaderUserAgent), IP: c.IP()}
}

func (ac *AuthController) setAuthCookies(c *fiber.Ctx, s *service.Session) {
	sameSite := fiber.CookieSameSiteLaxMode
	if ac.cookieSecure {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     helper.CookieAccessToken,
		Value:    s.AccessToken,
		HTTPOnly: true,
		Secure:   ac.cookieSecure,
		SameSite: sameSite,
		Path:     "/",
		Expires:  s.AccessExpiresAt,
	})
	c.Cookie(&fiber.Cookie{
		Name:     helper.CookieRefreshToken,
		Value:    s.RefreshToken,
		HTTPOnly: true,
		Secure:   ac.cookieSecure,
		SameSite: sameSite,
		Path:     "/api/auth",
		Expires:  s.RefreshExpiresAt,
	})
}

func (ac *AuthController) clearAuthCookies(c *fiber.Ctx) {
	past := time.Unix(0, 0)
	for name, path := range map[string]string{helper.CookieAccessToken: "/", helper.CookieRefreshToken: "/api/auth"} {
		c.Cookie(&fiber.Cookie{Name: name, Value: "", Path: path, Expires: past, HTTPOnly: true, Secure: ac.cookieSecure})
	}
}

func (ac *AuthController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidRefresh), errors.Is(err, service.ErrInvalidGoogleToken):
		return helper.JsonError(c, fiber.StatusUnauthorized, helper.MsgNotAuthenticated)
	case errors.Is(err, service.ErrEmailTaken):
		return helper.JsonError(c, fiber.StatusConflict, "Email is already registered")
	case errors.Is(err, service.ErrAccountDisabled):
		return helper.JsonError(c, fiber.StatusForbidden, "Account is disabled")
	case errors.Is(err, service.ErrNotMember):
		return helper.JsonError(c, fiber.StatusForbidden, helper.MsgAccessDenied)
	case errors.Is(err, service.ErrStudioNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Studio not found")
	case errors.Is(err, service.ErrGoogleUnverified):
		return helper.JsonError(c, fiber.StatusForbidden, "Google account email is not verified")
	case errors.Is(err, service.ErrGoogleDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Google sign-in is not configured")
	}
	ac.log.Error("auth request failed", zap.String("path", c.Path()), zap.Error(err))
	return helper.FromError(c, err)
}

// 🟢 POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	sess, err := ac.svc.Register(c.UserContext(), req, meta(c))
	if err != nil {
		return ac.fail(c, err)
	}
	ac.setAuthCookies(c, sess)
	return helper.JsonCreated(c, "Registered", sess.Response())
}

// 🟢 POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	sess, err := ac.svc.Login(c.UserContext(), req, meta(c))
	if err != nil {
		return ac.fail(c, err)
	}
	ac.setAuthCookies(c, sess)
	return helper.JsonOK(c, "Logged in", sess.Response())
}

// 🟢 POST /api/auth/google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	sess, err := ac.svc.LoginGoogle(c.UserContext(), req, meta(c))
	if err != nil {
		return ac.fail(c, err)
	}
	ac.setAuthCookies(c, sess)
	return helper.JsonOK(c, "Logged in", sess.Response())
}

// 🟢 POST /api/auth/refresh (cookie, or body.refresh_token)
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var req dto.RefreshRequest
		_ = c.BodyParser(&req)
		raw = req.RefreshToken
	}
	sess, err := ac.svc.Refresh(c.UserContext(), raw, meta(c))
	if err != nil {
		return ac.fail(c, err)
	}
	ac.setAuthCookies(c, sess)
	return helper.JsonOK(c, "Token refreshed", sess.Response())
}

// 🟢 POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.svc.Logout(c.UserContext(), helper.GetRawAccessToken(c)); err != nil {
		return ac.fail(c, err)
	}
	ac.clearAuthCookies(c)
	return helper.JsonOK(c, "Logged out", nil)
}

// 🟢 GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	studioID, _ := helper.GetStudioID(c)
	me, err := ac.svc.Me(c.UserContext(), userID, studioID, helper.GetRole(c))
	if err != nil {
		return ac.fail(c, err)
	}
	return helper.JsonOK(c, "ok", me)
}

// 🟢 POST /api/auth/switch-studio
func (ac *AuthController) SwitchStudio(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SwitchStudioRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	sess, err := ac.svc.SwitchStudio(c.UserContext(), userID, uuid.MustParse(req.StudioID), meta(c))
	if err != nil {
		return ac.fail(c, err)
	}
	ac.setAuthCookies(c, sess)
	return helper.JsonOK(c, "Studio switched", sess.Response())
}
