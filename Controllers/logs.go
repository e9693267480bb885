package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Exchange/Models"
)

// LogController exposes the append-only audit trail, admin only. There is no
// write endpoint; entries come from the engine and controllers.
type LogController struct {
	DB *gorm.DB
}

func NewLogController(db *gorm.DB) *LogController {
	return &LogController{DB: db}
}

// GetLogs lists audit entries, newest first. Optional query parameters filter
// by category and actor uid.
func (c *LogController) GetLogs(ctx *fiber.Ctx) error {
	query := c.DB.Order("timestamp DESC")
	if category := ctx.Query("category"); category != "" {
		query = query.Where("cat = ?", category)
	}
	if uid := ctx.Query("uid"); uid != "" {
		query = query.Where("uid = ?", uid)
	}

	var logs []Models.Log
	if result := query.Find(&logs); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve logs"})
	}
	return ctx.JSON(fiber.Map{"logs": logs})
}
