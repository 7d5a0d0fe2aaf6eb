package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"dally/models"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxReceiptSize = 5 * 1024 * 1024 // 5MB

// uploadReceiptHandler attaches a multipart file to one of the caller's
// transactions. Files are stored under a per-user directory with a random
// name; a thumbnail is generated when the file decodes as an image.
func uploadReceiptHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var tx models.Transaction
	if err := db.Scopes(activeTransactions(user.ID)).
		First(&tx, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxReceiptSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}

	userDir := filepath.Join(cfg.UploadBase, user.ID.String())
	if err := os.MkdirAll(userDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	storeName := uuid.New().String() + ext
	fullPath := filepath.Join(userDir, storeName)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	thumbPath := ""
	if img, err := imaging.Open(fullPath); err == nil {
		thumb := imaging.Fit(img, 320, 320, imaging.Lanczos)
		p := filepath.Join(userDir, strings.TrimSuffix(storeName, ext)+"_thumb.jpg")
		if err := imaging.Save(thumb, p); err == nil {
			thumbPath = p
		} else {
			slog.Warn("thumbnail generation failed", "file", fullPath, "error", err)
		}
	}

	receipt := models.Receipt{
		UserID:        user.ID,
		TransactionID: tx.ID,
		FileName:      file.Filename,
		StorePath:     fullPath,
		ThumbPath:     thumbPath,
		ContentType:   file.Header.Get("Content-Type"),
		Size:          file.Size,
	}
	if err := db.Create(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func listReceiptsHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var total int64
	if err := db.Model(&models.Receipt{}).Scopes(ownedBy(user.ID)).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var receipts []models.Receipt
	if err := db.Scopes(ownedBy(user.ID), paginate(c)).
		Order("created_at DESC").Find(&receipts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(c, receipts, total))
}

func getReceiptHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var receipt models.Receipt
	if err := db.Scopes(ownedBy(user.ID)).First(&receipt, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, receipt)
}
