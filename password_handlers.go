package main

import (
	"net/http"
	"time"

	"dally/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// The reset flow never reveals whether an email is registered: the request
// endpoint answers the same way either way, and invalid tokens get one
// generic rejection.

const resetRequestedMsg = "If an account exists with this email, a password reset link has been sent."

func passwordResetRequestHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var user models.User
	if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"message": resetRequestedMsg})
		return
	}
	raw, hash, err := newOpaqueToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reset token"})
		return
	}
	// one outstanding token per user
	db.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{})
	prt := models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(cfg.ResetTokenTTL),
	}
	if err := db.Create(&prt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reset token"})
		return
	}
	resetURL := cfg.ResetURLBase + "?uid=" + user.ID.String() + "&token=" + raw
	sendPasswordResetEmail(user, resetURL)
	if cfg.Debug {
		// development convenience mirroring the email contents
		c.JSON(http.StatusOK, gin.H{
			"message":   resetRequestedMsg,
			"uid":       user.ID.String(),
			"token":     raw,
			"reset_url": resetURL,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMsg})
}

// findResetToken resolves uid+token to a stored reset token. Any mismatch
// is reported identically.
func findResetToken(uid, token string) (*models.PasswordResetToken, bool) {
	userID, err := uuid.Parse(uid)
	if err != nil {
		return nil, false
	}
	var prt models.PasswordResetToken
	if err := db.Where("user_id = ? AND token_hash = ?", userID, hashToken(token)).First(&prt).Error; err != nil {
		return nil, false
	}
	return &prt, true
}

func passwordResetVerifyHandler(c *gin.Context) {
	prt, ok := findResetToken(c.Param("uid"), c.Param("token"))
	if !ok || !prt.Usable(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "Token is invalid or expired."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "message": "Token is valid."})
}

func passwordResetConfirmHandler(c *gin.Context) {
	var req struct {
		UID                string `json:"uid" binding:"required"`
		Token              string `json:"token" binding:"required"`
		NewPassword        string `json:"new_password" binding:"required"`
		NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NewPassword != req.NewPasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"new_password": "passwords do not match"}})
		return
	}
	if len(req.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"new_password": "password too short (min 8)"}})
		return
	}
	prt, ok := findResetToken(req.UID, req.Token)
	if !ok || !prt.Usable(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset link"})
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set password"})
		return
	}
	// the new password and the token burn land together or not at all
	err = db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Model(&models.User{}).Where("id = ?", prt.UserID).
			Update("hashed_password", hashed).Error; err != nil {
			return err
		}
		return dtx.Model(prt).Update("used", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set password"})
		return
	}
	invalidateUserCache(prt.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "password has been reset successfully"})
}

func changePasswordHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var req struct {
		OldPassword        string `json:"old_password" binding:"required"`
		NewPassword        string `json:"new_password" binding:"required"`
		NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"old_password": "old password is incorrect"}})
		return
	}
	if req.NewPassword != req.NewPasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"new_password": "passwords do not match"}})
		return
	}
	if len(req.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"new_password": "password too short (min 8)"}})
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set password"})
		return
	}
	if err := db.Model(&user).Update("hashed_password", hashed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set password"})
		return
	}
	invalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}
