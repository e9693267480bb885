package Controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"Exchange/Engine"
)

var validate = validator.New()

func newID() string {
	return uuid.NewString()
}

// actorFrom returns the caller identity the auth middleware stored. Routes
// behind middleware.Verify always have one.
func actorFrom(ctx *fiber.Ctx) Engine.Actor {
	actor, _ := ctx.Locals("actor").(Engine.Actor)
	return actor
}

// httpError maps engine failure kinds to HTTP responses in one place.
func httpError(ctx *fiber.Ctx, err error) error {
	kind := Engine.KindOf(err)

	var status int
	switch kind {
	case Engine.KindNotFound:
		status = fiber.StatusNotFound
	case Engine.KindForbidden:
		status = fiber.StatusForbidden
	case Engine.KindUnauthorized:
		status = fiber.StatusUnauthorized
	case Engine.KindInvalidState:
		status = fiber.StatusConflict
	case Engine.KindInvalidArgument, Engine.KindInvalidQuantity, Engine.KindInvalidTimeRange:
		status = fiber.StatusBadRequest
	case Engine.KindInsufficientFunds, Engine.KindInsufficientStock,
		Engine.KindProofRequired, Engine.KindDeadlinePassed, Engine.KindNotStarted:
		status = fiber.StatusUnprocessableEntity
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"kind":    kind,
		"message": err.Error(),
	})
}
