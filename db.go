package main

import (
	"log"
	"os"
	"strings"

	"fintrack/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		migrateModels()
	}
}

// migrateModels runs AutoMigrate for every model individually so a failure on
// one doesn't block the others. Users first so FKs can be applied safely.
func migrateModels() {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Printf("migration warning (users): %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}); err != nil {
		log.Printf("migration warning (categories): %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		log.Printf("migration warning (accounts): %v", err)
	}
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		log.Printf("migration warning (transactions): %v", err)
	}
	if err := db.AutoMigrate(&models.Budget{}); err != nil {
		log.Printf("migration warning (budgets): %v", err)
	}
	if err := db.AutoMigrate(&models.Goal{}); err != nil {
		log.Printf("migration warning (goals): %v", err)
	}
	if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
		log.Printf("migration warning (refresh_tokens): %v", err)
	}
}
