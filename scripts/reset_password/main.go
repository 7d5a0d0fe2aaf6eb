package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Standalone admin tool: force-set a user's password from the shell.

type User struct {
	ID             string
	Email          string
	HashedPassword []byte
}

func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new plaintext password (min 8 chars)")
	flag.Parse()
	if *email == "" || *password == "" {
		log.Fatal("--email and --password are required")
	}
	if len(*password) < 8 {
		log.Fatal("password too short (min 8)")
	}
	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	var (
		db  *gorm.DB
		err error
	)
	if os.Getenv("DB_DRIVER") == "sqlite" {
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	} else {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	var user User
	if err := db.Table("users").Where("email = ?", strings.ToLower(strings.TrimSpace(*email))).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	if err := db.Table("users").Where("id = ?", user.ID).Update("hashed_password", hash).Error; err != nil {
		log.Fatalf("update failed: %v", err)
	}
	fmt.Printf("Password reset for %s\n", user.Email)
}
