package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Exchange/Engine"
	"Exchange/Models"
)

// PostingController handles open task postings and their applications.
type PostingController struct {
	DB     *gorm.DB
	Engine *Engine.Engine
}

func NewPostingController(db *gorm.DB, engine *Engine.Engine) *PostingController {
	return &PostingController{DB: db, Engine: engine}
}

// GetPostings lists postings. Plain users see open ones only.
func (c *PostingController) GetPostings(ctx *fiber.Ctx) error {
	query := c.DB.Order("id ASC")
	if !actorFrom(ctx).IsAdmin() {
		query = query.Where("is_open = ?", true)
	}

	var postings []Models.TaskPosting
	if result := query.Find(&postings); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve postings"})
	}
	return ctx.JSON(fiber.Map{"postings": postings})
}

// GetPosting retrieves one posting together with its applications for admins.
func (c *PostingController) GetPosting(ctx *fiber.Ctx) error {
	var posting Models.TaskPosting
	if result := c.DB.First(&posting, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Posting not found"})
	}

	response := fiber.Map{"posting": posting}
	if actorFrom(ctx).IsAdmin() {
		applications := []Models.TaskApplication{}
		c.DB.Where("posting = ?", posting.ID).Find(&applications)
		response["applications"] = applications
	}
	return ctx.JSON(response)
}

type CreatePostingInput struct {
	TaskID    string `json:"task_id" validate:"required"`
	UserLimit int    `json:"user_limit" validate:"gte=0"`
}

// CreatePosting opens a call for applicants against a task, admin only.
func (c *PostingController) CreatePosting(ctx *fiber.Ctx) error {
	var input CreatePostingInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	posting, err := c.Engine.CreatePosting(actorFrom(ctx), input.TaskID, input.UserLimit)
	if err != nil {
		return httpError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": posting.ID, "message": "Posting created"})
}

// ClosePosting stops further applications, admin only.
func (c *PostingController) ClosePosting(ctx *fiber.Ctx) error {
	if err := c.Engine.ClosePosting(actorFrom(ctx), ctx.Params("id")); err != nil {
		return httpError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Posting closed"})
}

// Apply files the caller's application against a posting.
func (c *PostingController) Apply(ctx *fiber.Ctx) error {
	application, err := c.Engine.Apply(actorFrom(ctx), ctx.Params("id"))
	if err != nil {
		return httpError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": application.ID, "message": "Application filed"})
}

// GetApplications lists applications. Admins see everything; users see only
// their own.
func (c *PostingController) GetApplications(ctx *fiber.Ctx) error {
	actor := actorFrom(ctx)
	query := c.DB.Order("id ASC")
	if !actor.IsAdmin() {
		query = query.Where("applicant = ?", actor.UID)
	}

	var applications []Models.TaskApplication
	if result := query.Find(&applications); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve applications"})
	}
	return ctx.JSON(fiber.Map{"applications": applications})
}

type ReviewApplicationInput struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}

// ReviewApplication settles a pending application, admin only.
func (c *PostingController) ReviewApplication(ctx *fiber.Ctx) error {
	var input ReviewApplicationInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	if err := c.Engine.ReviewApplication(actorFrom(ctx), ctx.Params("id"), input.Approve, input.Comment); err != nil {
		return httpError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Application reviewed"})
}

// CancelApplication withdraws a pending application; applicant or admin.
func (c *PostingController) CancelApplication(ctx *fiber.Ctx) error {
	if err := c.Engine.CancelApplication(actorFrom(ctx), ctx.Params("id")); err != nil {
		return httpError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Application cancelled"})
}
