package Engine

import (
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRecurrenceHorizon caps how many UserTask instances a recurring task
// fans out to. One year's worth of daily instances; override with the
// RECURRENCE_HORIZON env var or directly on the Engine.
const DefaultRecurrenceHorizon = 365

// Engine runs the marketplace state machines. Every exported operation is one
// database transaction: all row reads of contended state take update locks,
// and any failing step rolls the whole operation back.
type Engine struct {
	DB *gorm.DB

	// RecurrenceHorizon is the number of UserTask instances created when a
	// recurring task is approved or assigned.
	RecurrenceHorizon int

	// Now is the clock used for window checks; tests pin it.
	Now func() time.Time
}

func New(db *gorm.DB) *Engine {
	horizon := DefaultRecurrenceHorizon
	if v := os.Getenv("RECURRENCE_HORIZON"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			horizon = n
		}
	}
	return &Engine{
		DB:                db,
		RecurrenceHorizon: horizon,
		Now:               time.Now,
	}
}

// forUpdate applies a row-level update lock. SQLite serializes writers at the
// database level and rejects FOR UPDATE syntax, so the clause is skipped there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
