package Engine

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Exchange/Models"
)

// Audit categories, one per mutated entity family.
const (
	CategoryUser        = "USER"
	CategoryItem        = "ITEM"
	CategoryTransaction = "TRANSACTION"
	CategoryTask        = "TASK"
	CategoryTaskRequest = "TASKREQUEST"
	CategoryPosting     = "POSTING"
	CategoryApplication = "APPLICATION"
	CategoryUserTask    = "USERTASK"
)

// Emit appends one audit entry inside the caller's transaction. A rolled-back
// mutation therefore leaves no orphan log row. details may be nil.
func Emit(tx *gorm.DB, category string, actor Actor, description string, details map[string]interface{}) error {
	entry := Models.Log{
		ID:          uuid.NewString(),
		Category:    category,
		Timestamp:   time.Now(),
		Description: description,
	}
	if actor.UID != "" {
		uid := actor.UID
		entry.UID = &uid
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = raw
	}
	return tx.Create(&entry).Error
}
