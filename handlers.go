package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"dally/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	r.POST("/password-reset", passwordResetRequestHandler)
	r.POST("/password-reset/confirm", passwordResetConfirmHandler)
	r.GET("/password-reset/verify/:uid/:token", passwordResetVerifyHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/change-password", changePasswordHandler)

	authGroup.POST("/businesses", createBusinessHandler)
	authGroup.GET("/businesses", listBusinessesHandler)
	authGroup.GET("/businesses/:id", getBusinessHandler)
	authGroup.PUT("/businesses/:id", updateBusinessHandler)
	authGroup.DELETE("/businesses/:id", deleteBusinessHandler)

	authGroup.POST("/transactions", createTransactionHandler)
	authGroup.GET("/transactions", listTransactionsHandler)
	authGroup.GET("/transactions/summary", transactionSummaryHandler)
	authGroup.GET("/transactions/deleted", listDeletedTransactionsHandler)
	authGroup.GET("/transactions/export", exportTransactionsHandler)
	authGroup.GET("/transactions/:id", getTransactionHandler)
	authGroup.PUT("/transactions/:id", updateTransactionHandler)
	authGroup.DELETE("/transactions/:id", deleteTransactionHandler)
	authGroup.POST("/transactions/:id/restore", restoreTransactionHandler)
	authGroup.POST("/transactions/:id/receipts", uploadReceiptHandler)

	authGroup.GET("/items", listItemsHandler)
	authGroup.GET("/items/:id", getItemHandler)

	authGroup.GET("/receipts", listReceiptsHandler)
	authGroup.GET("/receipts/:id", getReceiptHandler)

	authGroup.GET("/summary/daily", dailySummaryHandler)
	authGroup.GET("/summary/range", rangeSummaryHandler)
	authGroup.GET("/summary/profit-loss", profitLossHandler)
	authGroup.GET("/tax/summary", taxSummaryHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		user, ok := lookupUser(userID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// currentUser fetches the authenticated user placed in the context by
// jwtAuthMiddleware.
func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func meHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func registerHandler(c *gin.Context) {
	var req struct {
		Email               string `json:"email" binding:"required,email"`
		Password            string `json:"password" binding:"required"`
		PasswordConfirm     string `json:"password_confirm" binding:"required"`
		FirstName           string `json:"first_name"`
		LastName            string `json:"last_name"`
		BusinessName        string `json:"business_name" binding:"required"`
		BusinessDescription string `json:"business_description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password != req.PasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"password": "passwords do not match"}})
		return
	}
	user, business, err := RegisterUser(req.Email, req.Password, req.FirstName, req.LastName, req.BusinessName, req.BusinessDescription)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrEmailTaken) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	access, refresh, err := issueTokenPair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate tokens"})
		return
	}
	sendWelcomeEmail(user, business)
	c.JSON(http.StatusCreated, gin.H{
		"message":  "user registered successfully",
		"user":     user,
		"business": business,
		"tokens":   gin.H{"access": access, "refresh": refresh},
	})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	access, refresh, err := issueTokenPair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": access, "refresh_token": refresh})
}

// refreshHandler exchanges a refresh token for a new access token and
// rotates the refresh token.
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, "id = ?", rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	access, err := issueAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate: the old token is revoked only if the replacement lands
	var newRT string
	err = db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true).Error; err != nil {
			return err
		}
		newRT, err = createAndStoreRefreshToken(dtx, user.ID)
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": access, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout).
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

func issueTokenPair(user models.User) (access, refresh string, err error) {
	if access, err = issueAccessToken(user); err != nil {
		return "", "", err
	}
	if refresh, err = createAndStoreRefreshToken(db, user.ID); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func issueAccessToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   time.Now().Add(cfg.AccessTokenTTL).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// newOpaqueToken generates a random 32-byte token (hex) and its sha256 hex
// digest for storage.
func newOpaqueToken() (raw, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}

// createAndStoreRefreshToken stores the hash of a fresh refresh token with
// expiry and returns the raw token string.
func createAndStoreRefreshToken(gdb *gorm.DB, userID uuid.UUID) (string, error) {
	raw, hash, err := newOpaqueToken()
	if err != nil {
		return "", err
	}
	rt := models.RefreshToken{UserID: userID, TokenHash: hash, ExpiresAt: time.Now().Add(cfg.RefreshTokenTTL)}
	if err := gdb.Create(&rt).Error; err != nil {
		return "", err
	}
	return raw, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", hashToken(token)).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}
