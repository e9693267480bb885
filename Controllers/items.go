package Controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Exchange/Engine"
	"Exchange/Models"
)

// ItemController handles the item catalogue plus the buy/preorder endpoints
// backed by the purchase engine.
type ItemController struct {
	DB     *gorm.DB
	Engine *Engine.Engine
}

func NewItemController(db *gorm.DB, engine *Engine.Engine) *ItemController {
	return &ItemController{DB: db, Engine: engine}
}

// GetItems lists the catalogue.
func (c *ItemController) GetItems(ctx *fiber.Ctx) error {
	var items []Models.Item
	if result := c.DB.Order("name ASC").Find(&items); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve items"})
	}
	return ctx.JSON(fiber.Map{"items": items})
}

// GetItem retrieves a single item by ID.
func (c *ItemController) GetItem(ctx *fiber.Ctx) error {
	var item Models.Item
	if result := c.DB.First(&item, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Item not found"})
	}
	return ctx.JSON(fiber.Map{"item": item})
}

type ItemInput struct {
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Price       int    `json:"price" validate:"gte=0"`
	Description string `json:"description"`
}

// CreateItem adds a catalogue entry, admin only.
func (c *ItemController) CreateItem(ctx *fiber.Ctx) error {
	var input ItemInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	item := Models.Item{
		ID:          newID(),
		Name:        input.Name,
		Image:       input.Image,
		Stock:       input.Stock,
		Price:       input.Price,
		Description: input.Description,
	}

	actor := actorFrom(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryItem, actor,
			fmt.Sprintf("Item %q created with stock %d at price %d", item.Name, item.Stock, item.Price), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create item"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": item.ID, "message": "Item created"})
}

type UpdateItemInput struct {
	Name        *string `json:"name"`
	Image       *string `json:"image"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	Price       *int    `json:"price" validate:"omitempty,gte=0"`
	Description *string `json:"description"`
}

// UpdateItem patches catalogue fields, admin only.
func (c *ItemController) UpdateItem(ctx *fiber.Ctx) error {
	var item Models.Item
	if result := c.DB.First(&item, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Item not found"})
	}

	var input UpdateItemInput
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
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		return ctx.JSON(fiber.Map{"success": true, "message": "Nothing to update"})
	}

	actor := actorFrom(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryItem, actor,
			fmt.Sprintf("Item %s updated", item.ID), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update item"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Item updated"})
}

// DeleteItem removes a catalogue entry, admin only.
func (c *ItemController) DeleteItem(ctx *fiber.Ctx) error {
	var item Models.Item
	if result := c.DB.First(&item, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Item not found"})
	}

	actor := actorFrom(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryItem, actor,
			fmt.Sprintf("Item %s deleted", item.ID), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete item"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Item deleted"})
}

type PurchaseInput struct {
	Quantity int `json:"quantity" validate:"required"`
}

// BuyItem purchases stock for the calling user.
func (c *ItemController) BuyItem(ctx *fiber.Ctx) error {
	var input PurchaseInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	record, err := c.Engine.Buy(actorFrom(ctx), ctx.Params("id"), input.Quantity)
	if err != nil {
		return httpError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "transaction": record})
}

// PreorderItem takes payment in advance for stock not yet available.
func (c *ItemController) PreorderItem(ctx *fiber.Ctx) error {
	var input PurchaseInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	record, err := c.Engine.Preorder(actorFrom(ctx), ctx.Params("id"), input.Quantity)
	if err != nil {
		return httpError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "transaction": record})
}

// GetItemRequests lists user suggestions for new items, admin only.
func (c *ItemController) GetItemRequests(ctx *fiber.Ctx) error {
	var requests []Models.ItemRequest
	if result := c.DB.Find(&requests); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve item requests"})
	}
	return ctx.JSON(fiber.Map{"itemrequests": requests})
}

type ItemRequestInput struct {
	Description string `json:"description" validate:"required"`
}

// CreateItemRequest files a suggestion for a new catalogue item.
func (c *ItemController) CreateItemRequest(ctx *fiber.Ctx) error {
	var input ItemRequestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Description is required"})
	}

	actor := actorFrom(ctx)
	request := Models.ItemRequest{
		ID:          newID(),
		RequestedBy: actor.UID,
		Description: input.Description,
	}
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return Engine.Emit(tx, Engine.CategoryItem, actor,
			fmt.Sprintf("User %s requested a new item", actor.UID), nil)
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create item request"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": request.ID, "message": "ItemRequest created"})
}

// DeleteItemRequest removes a suggestion, admin only.
func (c *ItemController) DeleteItemRequest(ctx *fiber.Ctx) error {
	var request Models.ItemRequest
	if result := c.DB.First(&request, "id = ?", ctx.Params("id")); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "ItemRequest not found"})
	}
	if err := c.DB.Delete(&request).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete item request"})
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "ItemRequest deleted"})
}
