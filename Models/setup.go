package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("EXCHANGE_DB")
	if dsn == "" {
		dsn = "exchange.db"
	}

	connection, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	DB = connection

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

// Migrate runs AutoMigrate in dependency order so foreign keys resolve.
func Migrate(db *gorm.DB) error {
	// 1. Entities with no dependencies
	if err := db.AutoMigrate(
		&User{},
		&Item{},
		&Log{},
	); err != nil {
		return err
	}

	// 2. Entities referencing users and items
	if err := db.AutoMigrate(
		&Task{},
		&TaskRequest{},
		&ItemRequest{},
		&Transaction{},
	); err != nil {
		return err
	}

	// 3. Entities referencing tasks
	return db.AutoMigrate(
		&TaskPosting{},
		&TaskApplication{},
		&UserTask{},
	)
}
