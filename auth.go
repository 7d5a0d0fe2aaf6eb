package main

import (
	"errors"
	"fmt"
	"strings"

	"dally/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrEmailTaken is returned when a registration collides with an existing
// account.
var ErrEmailTaken = errors.New("email already registered")

// RegisterUser creates a user and their business in one database
// transaction so a partial failure never leaves an account without a
// business attached.
func RegisterUser(email, password, firstName, lastName, businessName, businessDesc string) (models.User, models.Business, error) {
	email = normalizeEmail(email)
	if email == "" {
		return models.User{}, models.Business{}, fmt.Errorf("email required")
	}
	if len(password) < 8 {
		return models.User{}, models.Business{}, fmt.Errorf("password too short (min 8)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return models.User{}, models.Business{}, ErrEmailTaken
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, models.Business{}, err
	}
	user := models.User{Email: email, FirstName: firstName, LastName: lastName, HashedPassword: hashedPassword}
	business := models.Business{Name: businessName, Description: businessDesc}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueConstraintError(err) { // race after the initial check
				return ErrEmailTaken
			}
			return err
		}
		business.UserID = user.ID
		return tx.Create(&business).Error
	})
	if err != nil {
		return models.User{}, models.Business{}, err
	}
	return user, business, nil
}

// Authenticate checks credentials and returns the matching user. The error
// is deliberately identical for unknown email and wrong password.
func Authenticate(email, password string) (models.User, error) {
	email = normalizeEmail(email)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "already exists")
}
