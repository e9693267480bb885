package Engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"Exchange/Models"
)

// Buy purchases qty of an item: reserves stock, debits the buyer, and records
// an AWAITING_CONF transaction. The three steps share one database
// transaction, so a failed debit releases the stock reservation.
func (e *Engine) Buy(actor Actor, itemID string, qty int) (*Models.Transaction, error) {
	return e.purchase(actor, itemID, qty, true)
}

// Preorder is Buy without the stock reservation: payment in advance for stock
// not yet available. Same credit precondition, same rollback discipline.
func (e *Engine) Preorder(actor Actor, itemID string, qty int) (*Models.Transaction, error) {
	return e.purchase(actor, itemID, qty, false)
}

func (e *Engine) purchase(actor Actor, itemID string, qty int, reserve bool) (*Models.Transaction, error) {
	var record Models.Transaction
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var item Models.Item
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "item %s not found", itemID)
			}
			return err
		}
		var user Models.User
		if err := tx.First(&user, "uid = ?", actor.UID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "user %s not found", actor.UID)
			}
			return err
		}
		if qty <= 0 {
			return errf(KindInvalidQuantity, "quantity must be positive, got %d", qty)
		}

		if reserve {
			if err := reserveStock(tx, item.ID, qty); err != nil {
				return err
			}
		}

		total := decimal.NewFromInt(int64(qty) * int64(item.Price))
		if err := debit(tx, user.UID, total); err != nil {
			return err
		}

		status := Models.TransactionAwaitingConf
		if !reserve {
			status = Models.TransactionPreorder
		}
		record = Models.Transaction{
			ID:       uuid.NewString(),
			ItemID:   item.ID,
			UID:      user.UID,
			Quantity: qty,
			Status:   status,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		verb := "bought"
		if !reserve {
			verb = "preordered"
		}
		return Emit(tx, CategoryTransaction, actor,
			fmt.Sprintf("User %s %s %d x %s for %s credits", user.UID, verb, qty, item.Name, total),
			map[string]interface{}{"transaction": record.ID, "item": item.ID, "total": total.String()})
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CorrectTransaction lets an admin fix a transaction's status, e.g. flipping
// a fulfilled preorder to AWAITING_CONF. The only mutation transactions allow.
func (e *Engine) CorrectTransaction(actor Actor, txID string, status Models.TransactionStatus) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !status.Valid() {
		return errf(KindInvalidArgument, "unknown transaction status %q", status)
	}
	return e.DB.Transaction(func(tx *gorm.DB) error {
		var record Models.Transaction
		if err := forUpdate(tx).First(&record, "id = ?", txID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "transaction %s not found", txID)
			}
			return err
		}
		if err := tx.Model(&record).Update("status", status).Error; err != nil {
			return err
		}
		return Emit(tx, CategoryTransaction, actor,
			fmt.Sprintf("Admin corrected transaction %s to %s", txID, status), nil)
	})
}
