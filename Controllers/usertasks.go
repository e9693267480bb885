package Controllers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Exchange/Engine"
	"Exchange/Models"
)

// UserTaskController handles assigned task instances: listing, submission,
// review, and cancellation.
type UserTaskController struct {
	DB     *gorm.DB
	Engine *Engine.Engine
}

func NewUserTaskController(db *gorm.DB, engine *Engine.Engine) *UserTaskController {
	return &UserTaskController{DB: db, Engine: engine}
}

// GetMyUserTasks lists the caller's own instances, soonest deadline first.
func (c *UserTaskController) GetMyUserTasks(ctx *fiber.Ctx) error {
	var userTasks []Models.UserTask
	if result := c.DB.Where("uid = ?", actorFrom(ctx).UID).Order("end_time ASC").Find(&userTasks); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve tasks"})
	}
	return ctx.JSON(fiber.Map{"usertasks": userTasks})
}

// GetUserTasks lists all instances, admin only. An optional status query
// parameter narrows the listing, e.g. UNDER_REVIEW for the review queue.
func (c *UserTaskController) GetUserTasks(ctx *fiber.Ctx) error {
	query := c.DB.Order("end_time ASC")
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var userTasks []Models.UserTask
	if result := query.Find(&userTasks); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve tasks"})
	}
	return ctx.JSON(fiber.Map{"usertasks": userTasks})
}

// GetUserTask retrieves one instance; owner or admin.
func (c *UserTaskController) GetUserTask(ctx *fiber.Ctx) error {
	var userTask Models.UserTask
	if result := c.DB.First(&userTask, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "UserTask not found"})
	}

	actor := actorFrom(ctx)
	if !actor.IsAdmin() && actor.UID != userTask.UID {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You can only view your own tasks"})
	}
	return ctx.JSON(fiber.Map{"usertask": userTask})
}

// SubmitUserTask hands in an instance. Proof, when the task demands one,
// arrives as a multipart file under the "proof" field.
func (c *UserTaskController) SubmitUserTask(ctx *fiber.Ctx) error {
	var proof []byte
	if header, err := ctx.FormFile("proof"); err == nil {
		opened, err := header.Open()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Could not read proof file"})
		}
		defer opened.Close()
		proof, err = io.ReadAll(opened)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Could not read proof file"})
		}
	}

	if err := c.Engine.Submit(actorFrom(ctx), ctx.Params("id"), proof); err != nil {
		return httpError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "UserTask submitted"})
}

type ReviewUserTaskInput struct {
	Action  Engine.ReviewAction `json:"action" validate:"required,oneof=APPROVE REQUEST_CHANGES REJECT"`
	Comment string              `json:"comment"`
}

// ReviewUserTask settles an UNDER_REVIEW submission, admin only.
func (c *UserTaskController) ReviewUserTask(ctx *fiber.Ctx) error {
	var input ReviewUserTaskInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	if err := c.Engine.Review(actorFrom(ctx), ctx.Params("id"), input.Action, input.Comment); err != nil {
		return httpError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "UserTask reviewed"})
}

// CancelUserTask removes an APPLIED or ONGOING instance; owner or admin.
func (c *UserTaskController) CancelUserTask(ctx *fiber.Ctx) error {
	if err := c.Engine.Cancel(actorFrom(ctx), ctx.Params("id")); err != nil {
		return httpError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "UserTask cancelled"})
}
