package Engine

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"Exchange/Models"
)

// Ledger primitives. Each one is a locked read-modify-write on a single row
// and must run inside the caller's transaction so coupled steps (reserve +
// debit, status change + payout) commit or roll back together.

// debit decreases a user's credit, failing with InsufficientFunds if the
// balance does not cover the amount. Credit never goes negative.
func debit(tx *gorm.DB, uid string, amount decimal.Decimal) error {
	var user Models.User
	if err := forUpdate(tx).First(&user, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errf(KindNotFound, "user %s not found", uid)
		}
		return err
	}
	if user.Credit.LessThan(amount) {
		return errf(KindInsufficientFunds, "credit %s does not cover %s", user.Credit, amount)
	}
	return tx.Model(&user).Update("credit", user.Credit.Sub(amount)).Error
}

// credit increases a user's credit unconditionally; this is the payout path.
func credit(tx *gorm.DB, uid string, amount decimal.Decimal) error {
	var user Models.User
	if err := forUpdate(tx).First(&user, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errf(KindNotFound, "user %s not found", uid)
		}
		return err
	}
	return tx.Model(&user).Update("credit", user.Credit.Add(amount)).Error
}

// reserveStock decreases an item's stock by qty, failing with
// InsufficientStock when the item cannot cover the quantity.
func reserveStock(tx *gorm.DB, itemID string, qty int) error {
	if qty <= 0 {
		return errf(KindInvalidQuantity, "quantity must be positive, got %d", qty)
	}
	var item Models.Item
	if err := forUpdate(tx).First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errf(KindNotFound, "item %s not found", itemID)
		}
		return err
	}
	if qty > item.Stock {
		return errf(KindInsufficientStock, "requested %d of %d in stock", qty, item.Stock)
	}
	return tx.Model(&item).Update("stock", item.Stock-qty).Error
}
