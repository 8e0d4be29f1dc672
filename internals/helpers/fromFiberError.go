package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the handlers care about.
const (
	PgUniqueViolation = "23505"
	PgRaiseException  = "P0001"
	PgUndefinedTable  = "42P01"
	PgCheckViolation  = "23514"
	PgFKViolation     = "23503"
)

// PgErrorCode returns the SQLSTATE of a wrapped *pgconn.PgError, or "".
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// PgErrorMessage returns the server message of a wrapped *pgconn.PgError, or "".
func PgErrorMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return ""
}

func IsUniqueViolation(err error) bool { return PgErrorCode(err) == PgUniqueViolation }

// FromError maps an error to the flat HTTP taxonomy.
func FromError(c *fiber.Ctx, err error) error {
	var (
		fe  *fiber.Error
		ve  validator.ValidationErrors
		fes FieldErrorSet
	)
	switch {
	case errors.As(err, &fe):
		return JsonError(c, fe.Code, fe.Message)
	case errors.As(err, &ve):
		return ValidationError(c, ve)
	case errors.As(err, &fes):
		return JsonValidationError(c, fes)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonError(c, fiber.StatusNotFound, MsgNotFound)
	}
	switch PgErrorCode(err) {
	case PgUniqueViolation:
		return JsonError(c, fiber.StatusConflict, "Resource already exists")
	case PgRaiseException:
		return JsonError(c, fiber.StatusBadRequest, PgErrorMessage(err))
	case PgCheckViolation, PgFKViolation:
		return JsonError(c, fiber.StatusBadRequest, MsgValidationFailed)
	}
	return JsonError(c, fiber.StatusInternalServerError, MsgInternal)
}
