package Controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"Exchange/Engine"
	"Exchange/Models"
)

// TaskController handles task administration plus the user-facing task
// request flow.
type TaskController struct {
	DB     *gorm.DB
	Engine *Engine.Engine
}

func NewTaskController(db *gorm.DB, engine *Engine.Engine) *TaskController {
	return &TaskController{DB: db, Engine: engine}
}

// GetTasks lists all task definitions.
func (c *TaskController) GetTasks(ctx *fiber.Ctx) error {
	var tasks []Models.Task
	if result := c.DB.Order("start_time ASC").Find(&tasks); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve tasks"})
	}
	return ctx.JSON(fiber.Map{"tasks": tasks})
}

// GetTask retrieves one task definition.
func (c *TaskController) GetTask(ctx *fiber.Ctx) error {
	var task Models.Task
	if result := c.DB.First(&task, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Task not found"})
	}
	return ctx.JSON(fiber.Map{"task": task})
}

type TaskInput struct {
	Name               string          `json:"name" validate:"required"`
	Description        string          `json:"description"`
	Reward             decimal.Decimal `json:"reward"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time" validate:"required"`
	RecurrenceInterval *int            `json:"recurrence_interval" validate:"omitempty,gt=0"`
	RequireReview      bool            `json:"require_review"`
	RequireProof       bool            `json:"require_proof"`
}

// CreateTask defines a task directly, admin only. No instances are created
// until the task is assigned or a posting application is approved.
func (c *TaskController) CreateTask(ctx *fiber.Ctx) error {
	var input TaskInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if input.Reward.IsNegative() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Reward cannot be negative"})
	}
	if !input.EndTime.After(input.StartTime) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "End time must be after start time"})
	}

	actor := actorFrom(ctx)
	task := Models.Task{
		ID:                 newID(),
		Name:               input.Name,
		CreatedBy:          actor.UID,
		Reward:             input.Reward,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		RecurrenceInterval: input.RecurrenceInterval,
		Description:        input.Description,
		RequireReview:      input.RequireReview,
		RequireProof:       input.RequireProof,
	}
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryTask, actor,
			fmt.Sprintf("Task %q created with reward %s", task.Name, task.Reward), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create task"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": task.ID, "message": "Task created"})
}

type UpdateTaskInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Reward      *decimal.Decimal `json:"reward"`
	EndTime     *time.Time       `json:"end_time"`
}

// UpdateTask patches a task definition, admin only. Window and reward edits
// apply to future fan-outs; existing instances keep their windows.
func (c *TaskController) UpdateTask(ctx *fiber.Ctx) error {
	var task Models.Task
	if result := c.DB.First(&task, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Task not found"})
	}

	var input UpdateTaskInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Reward != nil {
		if input.Reward.IsNegative() {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Reward cannot be negative"})
		}
		updates["reward"] = *input.Reward
	}
	if input.EndTime != nil {
		if !input.EndTime.After(task.StartTime) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "End time must be after start time"})
		}
		updates["end_time"] = *input.EndTime
	}
	if len(updates) == 0 {
		return ctx.JSON(fiber.Map{"success": true, "message": "Nothing to update"})
	}

	actor := actorFrom(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryTask, actor,
			fmt.Sprintf("Task %s updated", task.ID), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update task"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Task updated"})
}

// DeleteTask removes a task definition, admin only.
func (c *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	var task Models.Task
	if result := c.DB.First(&task, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Task not found"})
	}

	actor := actorFrom(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&task).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryTask, actor,
			fmt.Sprintf("Task %s deleted", task.ID), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete task"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Task deleted"})
}

type AssignInput struct {
	UID string `json:"uid" validate:"required"`
}

// AssignTask assigns a task directly to a user, admin only.
func (c *TaskController) AssignTask(ctx *fiber.Ctx) error {
	var input AssignInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	instances, err := c.Engine.Assign(actorFrom(ctx), ctx.Params("id"), input.UID)
	if err != nil {
		return httpError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "count": len(instances), "message": "Task assigned"})
}

// GetTaskRequests lists task requests. Admins see everything; users see only
// their own.
func (c *TaskController) GetTaskRequests(ctx *fiber.Ctx) error {
	actor := actorFrom(ctx)
	query := c.DB.Order("start_time ASC")
	if !actor.IsAdmin() {
		query = query.Where("created_by = ?", actor.UID)
	}

	var requests []Models.TaskRequest
	if result := query.Find(&requests); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve task requests"})
	}
	return ctx.JSON(fiber.Map{"taskrequests": requests})
}

type TaskRequestInput struct {
	Name               string          `json:"name" validate:"required"`
	Description        string          `json:"description"`
	Reward             decimal.Decimal `json:"reward"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time" validate:"required"`
	RecurrenceInterval *int            `json:"recurrence_interval"`
}

// CreateTaskRequest files a user's proposal for a new task.
func (c *TaskController) CreateTaskRequest(ctx *fiber.Ctx) error {
	var input TaskRequestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	request, err := c.Engine.CreateTaskRequest(actorFrom(ctx), Engine.TaskProposal{
		Name:               input.Name,
		Description:        input.Description,
		Reward:             input.Reward,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		RecurrenceInterval: input.RecurrenceInterval,
	})
	if err != nil {
		return httpError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": request.ID, "message": "TaskRequest created"})
}

type ReviewRequestInput struct {
	Approve       bool   `json:"approve"`
	Comment       string `json:"comment"`
	RequireReview bool   `json:"require_review"`
	RequireProof  bool   `json:"require_proof"`
}

// ReviewTaskRequest settles a pending task request, admin only. Approval
// creates the task and the requester's instances.
func (c *TaskController) ReviewTaskRequest(ctx *fiber.Ctx) error {
	var input ReviewRequestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	task, err := c.Engine.ReviewTaskRequest(actorFrom(ctx), ctx.Params("id"),
		input.Approve, input.Comment, input.RequireReview, input.RequireProof)
	if err != nil {
		return httpError(ctx, err)
	}
	if task == nil {
		return ctx.JSON(fiber.Map{"success": true, "message": "TaskRequest rejected"})
	}
	return ctx.JSON(fiber.Map{"success": true, "task_id": task.ID, "message": "TaskRequest approved"})
}
