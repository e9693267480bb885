package Models

import (
	"time"

	"gorm.io/datatypes"
)

// Log is one append-only audit entry. The engine writes exactly one row per
// state-changing operation, inside the same transaction as the mutation, so a
// rolled-back operation leaves no orphan entry. Nothing ever updates or
// deletes these rows.
type Log struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Category    string         `json:"cat" gorm:"column:cat;type:varchar(50);not null;index"`
	UID         *string        `json:"uid" gorm:"type:varchar(36)"`
	Timestamp   time.Time      `json:"timestamp" gorm:"autoCreateTime"`
	Description string         `json:"description" gorm:"type:text"`
	Details     datatypes.JSON `json:"details"`
}

func (Log) TableName() string {
	return "logs"
}
