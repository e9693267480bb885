package Controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Exchange/Engine"
	"Exchange/Models"
)

// UserController handles user administration endpoints.
type UserController struct {
	DB     *gorm.DB
	Engine *Engine.Engine
}

func NewUserController(db *gorm.DB, engine *Engine.Engine) *UserController {
	return &UserController{DB: db, Engine: engine}
}

// GetUser returns a user's profile plus, for plain users, their task
// assignments and transactions. Admin profiles return empty slices for both.
func (c *UserController) GetUser(ctx *fiber.Ctx) error {
	uid := ctx.Params("uid")
	actor := actorFrom(ctx)
	if !actor.IsAdmin() && actor.UID != uid {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You can only view your own profile"})
	}

	var user Models.User
	if result := c.DB.First(&user, "uid = ?", uid); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	userTasks := []Models.UserTask{}
	transactions := []Models.Transaction{}
	if !user.IsAdmin() {
		c.DB.Where("uid = ?", user.UID).Find(&userTasks)
		c.DB.Where("uid = ?", user.UID).Find(&transactions)
	}

	return ctx.JSON(fiber.Map{
		"user":         user,
		"usertasks":    userTasks,
		"transactions": transactions,
	})
}

// GetUsers lists all users, admin only.
func (c *UserController) GetUsers(ctx *fiber.Ctx) error {
	var users []Models.User
	if result := c.DB.Order("name ASC").Find(&users); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve users"})
	}
	return ctx.JSON(fiber.Map{"users": users})
}

type CreateUserInput struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     Models.Role     `json:"role" validate:"omitempty,oneof=USER ADMIN"`
	Credit   decimal.Decimal `json:"credit"`
}

// CreateUser registers a new account, admin only.
func (c *UserController) CreateUser(ctx *fiber.Ctx) error {
	var input CreateUserInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if input.Credit.IsNegative() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Credit cannot be negative"})
	}

	var existing Models.User
	if result := c.DB.Where("email = ?", input.Email).First(&existing); result.Error == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "User already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Could not hash password"})
	}

	role := input.Role
	if role == "" {
		role = Models.RoleUser
	}
	user := Models.User{
		UID:      newID(),
		Name:     input.Name,
		Role:     role,
		Email:    input.Email,
		Password: string(hash),
		Credit:   input.Credit,
		IsActive: true,
	}

	actor := actorFrom(ctx)
	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryUser, actor,
			fmt.Sprintf("User %s (%s) created", user.UID, user.Email), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create user"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "uid": user.UID, "message": "User added successfully"})
}

type UpdateUserInput struct {
	Name   *string          `json:"name"`
	Email  *string          `json:"email" validate:"omitempty,email"`
	Role   *Models.Role     `json:"role" validate:"omitempty,oneof=USER ADMIN"`
	Credit *decimal.Decimal `json:"credit"`
}

// UpdateUser patches profile fields, admin only. Credit adjustments here are
// administrative corrections; purchases and payouts go through the engine.
func (c *UserController) UpdateUser(ctx *fiber.Ctx) error {
	uid := ctx.Params("uid")

	var user Models.User
	if result := c.DB.First(&user, "uid = ?", uid); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	var input UpdateUserInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Role != nil {
		updates["role"] = *input.Role
	}
	if input.Credit != nil {
		if input.Credit.IsNegative() {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Credit cannot be negative"})
		}
		updates["credit"] = *input.Credit
	}
	if len(updates) == 0 {
		return ctx.JSON(fiber.Map{"success": true, "message": "Nothing to update"})
	}

	actor := actorFrom(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryUser, actor,
			fmt.Sprintf("User %s updated by admin", user.UID), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update user"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "User updated"})
}

// SuspendUser deactivates an account; the auth middleware rejects suspended
// accounts before any engine operation runs.
func (c *UserController) SuspendUser(ctx *fiber.Ctx) error {
	uid := ctx.Params("uid")

	var user Models.User
	if result := c.DB.First(&user, "uid = ?", uid); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	actor := actorFrom(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryUser, actor,
			fmt.Sprintf("User %s suspended", user.UID), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to suspend user"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": fmt.Sprintf("User %s suspended", uid)})
}

// DeleteUser removes an account entirely, admin only.
func (c *UserController) DeleteUser(ctx *fiber.Ctx) error {
	uid := ctx.Params("uid")

	var user Models.User
	if result := c.DB.First(&user, "uid = ?", uid); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	actor := actorFrom(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryUser, actor,
			fmt.Sprintf("User %s deleted", user.UID), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete user"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": fmt.Sprintf("User %s deleted", uid)})
}
