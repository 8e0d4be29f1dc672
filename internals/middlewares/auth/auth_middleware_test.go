package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiofit_backend/internals/constants"
	helper "studiofit_backend/internals/helpers"
	helpersAuth "studiofit_backend/internals/helpers/auth"
)

const secret = "test-secret"

type stubStore struct {
	blacklisted map[string]bool
	inactive    map[uuid.UUID]bool
	roles       map[uuid.UUID]string
}

func (s stubStore) IsBlacklisted(_ context.Context, key string) (bool, error) {
	return s.blacklisted[key], nil
}

func (s stubStore) IsUserActive(_ context.Context, id uuid.UUID) (bool, error) {
	return !s.inactive[id], nil
}

func (s stubStore) ResolveRole(_ context.Context, userID, _ uuid.UUID) (string, error) {
	return s.roles[userID], nil
}

func newApp(store SessionStore) *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(Options{Secret: secret, Store: store}))
	app.Get("/whoami", RequireAuth(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"role": helper.GetRole(c), "studio": c.Locals(helper.LocStudioID)})
	})
	return app
}

func sign(t *testing.T, userID, studioID uuid.UUID, ttl time.Duration) string {
	t.Helper()
	tok, _, err := helpersAuth.SignAccess(secret, userID, "u@example.com", studioID, time.Now(), ttl)
	require.NoError(t, err)
	return tok
}

func TestAuthenticate(t *testing.T) {
	user, studio := uuid.New(), uuid.New()
	good := sign(t, user, studio, time.Minute)

	tests := []struct {
		name   string
		store  stubStore
		token  string
		cookie bool
		want   int
	}{
		{"no token", stubStore{}, "", false, fiber.StatusUnauthorized},
		{"garbage", stubStore{}, "not-a-jwt", false, fiber.StatusUnauthorized},
		{"expired", stubStore{}, sign(t, user, studio, -time.Minute), false, fiber.StatusUnauthorized},
		{"blacklisted", stubStore{blacklisted: map[string]bool{helpersAuth.BlacklistKey(good, secret): true}}, good, false, fiber.StatusUnauthorized},
		{"inactive user", stubStore{inactive: map[uuid.UUID]bool{user: true}}, good, false, fiber.StatusUnauthorized},
		{"bearer ok", stubStore{roles: map[uuid.UUID]string{user: constants.RoleTrainer}}, good, false, fiber.StatusOK},
		{"cookie ok", stubStore{roles: map[uuid.UUID]string{user: constants.RoleTrainer}}, good, true, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
			if tt.token != "" {
				if tt.cookie {
					req.Header.Set("Cookie", "access_token="+tt.token)
				} else {
					req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tt.token)
				}
			}
			resp, err := newApp(tt.store).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthenticateWithoutRoleLeavesStudioUnset(t *testing.T) {
	user := uuid.New()
	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+sign(t, user, uuid.New(), time.Minute))

	resp, err := newApp(stubStore{}).Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "", got["role"])
	assert.Nil(t, got["studio"])
}

func TestOnlyRoles(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, uuid.NewString())
		c.Locals(helper.LocRole, c.Get("X-Role"))
		return c.Next()
	})
	app.Get("/staff", OnlyRoles(constants.RoleErrorStaff("classes"), constants.StaffRoles...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for role, want := range map[string]int{
		constants.RoleAdmin:   fiber.StatusOK,
		constants.RoleTrainer: fiber.StatusOK,
		constants.RoleClient:  fiber.StatusForbidden,
	} {
		req := httptest.NewRequest(fiber.MethodGet, "/staff", nil)
		req.Header.Set("X-Role", role)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}
