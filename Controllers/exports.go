package Controllers

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Exchange/Models"
)

// ExportController produces spreadsheet reports for admins.
type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

// ExportTransactions writes every transaction to an xlsx workbook and sends
// it as a download, admin only.
func (c *ExportController) ExportTransactions(ctx *fiber.Ctx) error {
	var transactions []Models.Transaction
	if result := c.DB.Order("id ASC").Find(&transactions); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve transactions"})
	}

	items := map[string]Models.Item{}
	users := map[string]Models.User{}
	var allItems []Models.Item
	var allUsers []Models.User
	c.DB.Find(&allItems)
	c.DB.Find(&allUsers)
	for _, item := range allItems {
		items[item.ID] = item
	}
	for _, user := range allUsers {
		users[user.UID] = user
	}

	file := excelize.NewFile()
	sheet := "Transactions"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to build report"})
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headers := map[string]string{
		"A1": "Transaction ID", "B1": "User", "C1": "Email", "D1": "Item",
		"E1": "Quantity", "F1": "Unit Price", "G1": "Total", "H1": "Status",
	}
	for cell, value := range headers {
		file.SetCellValue(sheet, cell, value)
	}

	for i, record := range transactions {
		row := i + 2
		user := users[record.UID]
		item := items[record.ItemID]
		file.SetCellValue(sheet, fmt.Sprintf("A%v", row), record.ID)
		file.SetCellValue(sheet, fmt.Sprintf("B%v", row), user.Name)
		file.SetCellValue(sheet, fmt.Sprintf("C%v", row), user.Email)
		file.SetCellValue(sheet, fmt.Sprintf("D%v", row), item.Name)
		file.SetCellValue(sheet, fmt.Sprintf("E%v", row), record.Quantity)
		file.SetCellValue(sheet, fmt.Sprintf("F%v", row), item.Price)
		file.SetCellValue(sheet, fmt.Sprintf("G%v", row), record.Quantity*item.Price)
		file.SetCellValue(sheet, fmt.Sprintf("H%v", row), string(record.Status))
	}

	if err := os.MkdirAll("./Exports", 0o755); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to build report"})
	}
	filename := fmt.Sprintf("./Exports/Transactions %s.xlsx", time.Now().Format("2006-01-02"))
	if err := file.SaveAs(filename); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save report"})
	}
	return ctx.SendFile(filename, true)
}
