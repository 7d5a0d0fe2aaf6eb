package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"dally/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_user <email> <password> <business name>")
		os.Exit(2)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	password := os.Args[2]
	businessName := os.Args[3]
	if len(password) < 8 {
		log.Fatal("password too short (min 8)")
	}

	_ = godotenv.Load()
	db, err := openDB()
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%s)\n", email, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{Email: email, HashedPassword: hpw}
	business := models.Business{Name: businessName}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		business.UserID = user.ID
		return tx.Create(&business).Error
	})
	if err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%s business=%s\n", email, user.ID, business.ID)
}

func openDB() (*gorm.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("DB_DSN not set in environment")
	}
	if os.Getenv("DB_DRIVER") == "sqlite" {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
