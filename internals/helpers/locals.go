package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by the auth middleware.
const (
	LocUserID   = "user_id"
	LocEmail    = "email"
	LocStudioID = "studio_id"
	LocRole     = "user_role"
	LocRawToken = "raw_token"
)

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocUserID)
}

func GetStudioID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocStudioID)
}

func GetRole(c *fiber.Ctx) string {
	r, _ := c.Locals(LocRole).(string)
	return r
}

func GetEmail(c *fiber.Ctx) string {
	e, _ := c.Locals(LocEmail).(string)
	return e
}

func IsAuthenticated(c *fiber.Ctx) bool {
	id, err := GetUserID(c)
	return err == nil && id != uuid.Nil
}

func uuidLocal(c *fiber.Ctx, key string) (uuid.UUID, error) {
	switch t := c.Locals(key).(type) {
	case uuid.UUID:
		if t != uuid.Nil {
			return t, nil
		}
	case string:
		if id, err := uuid.Parse(strings.TrimSpace(t)); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, MsgNotAuthenticated)
}

// ParseUUIDParam reads a path param as uuid or returns a 400 fiber error.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// ParseUUIDQuery reads an optional uuid query param; empty returns nil.
func ParseUUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return &id, nil
}

// Caller is the resolved identity of a tenant-scoped request.
type Caller struct {
	UserID   uuid.UUID
	StudioID uuid.UUID
	Role     string
}

func (c Caller) IsAdmin() bool   { return c.Role == "admin" }
func (c Caller) IsTrainer() bool { return c.Role == "trainer" }
func (c Caller) IsClient() bool  { return c.Role == "client" }

// GetCaller requires a session with an active studio: 401 without a session, 403 without a studio role.
func GetCaller(c *fiber.Ctx) (Caller, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return Caller{}, err
	}
	studioID, err := GetStudioID(c)
	if err != nil {
		return Caller{}, fiber.NewError(fiber.StatusForbidden, MsgAccessDenied)
	}
	return Caller{UserID: userID, StudioID: studioID, Role: GetRole(c)}, nil
}
