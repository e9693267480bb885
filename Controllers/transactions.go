package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Exchange/Engine"
	"Exchange/Models"
)

// TransactionController exposes the purchase ledger. Transactions are written
// by the engine; the only mutation here is the admin status correction.
type TransactionController struct {
	DB     *gorm.DB
	Engine *Engine.Engine
}

func NewTransactionController(db *gorm.DB, engine *Engine.Engine) *TransactionController {
	return &TransactionController{DB: db, Engine: engine}
}

// GetTransactions lists all transactions, admin only. An optional status query
// parameter narrows the listing.
func (c *TransactionController) GetTransactions(ctx *fiber.Ctx) error {
	query := c.DB.Order("id ASC")
	if status := ctx.Query("status"); status != "" {
		if !Models.TransactionStatus(status).Valid() {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Unknown transaction status"})
		}
		query = query.Where("status = ?", status)
	}

	var transactions []Models.Transaction
	if result := query.Find(&transactions); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve transactions"})
	}
	return ctx.JSON(fiber.Map{"transactions": transactions})
}

// GetTransaction retrieves one transaction. Users may only read their own.
func (c *TransactionController) GetTransaction(ctx *fiber.Ctx) error {
	var record Models.Transaction
	if result := c.DB.First(&record, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Transaction not found"})
	}

	actor := actorFrom(ctx)
	if !actor.IsAdmin() && actor.UID != record.UID {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You can only view your own transactions"})
	}
	return ctx.JSON(fiber.Map{"transaction": record})
}

// GetUserTransactions lists one user's transactions; self or admin.
func (c *TransactionController) GetUserTransactions(ctx *fiber.Ctx) error {
	uid := ctx.Params("uid")
	actor := actorFrom(ctx)
	if !actor.IsAdmin() && actor.UID != uid {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You can only view your own transactions"})
	}

	var transactions []Models.Transaction
	if result := c.DB.Where("uid = ?", uid).Find(&transactions); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve transactions"})
	}
	return ctx.JSON(fiber.Map{"transactions": transactions})
}

type CorrectTransactionInput struct {
	Status Models.TransactionStatus `json:"status" validate:"required"`
}

// CorrectTransaction fixes a transaction's status, admin only.
func (c *TransactionController) CorrectTransaction(ctx *fiber.Ctx) error {
	var input CorrectTransactionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	if err := c.Engine.CorrectTransaction(actorFrom(ctx), ctx.Params("id"), input.Status); err != nil {
		return httpError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Transaction updated"})
}
