package main

import (
	"net/http"

	"dally/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Items are managed through the transaction write path; these endpoints are
// read-only views over the user's own line items.

func userItems(userID any) *gorm.DB {
	return db.Model(&models.TransactionItem{}).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transactions.user_id = ?", userID)
}

func listItemsHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var total int64
	if err := userItems(user.ID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var items []models.TransactionItem
	if err := userItems(user.ID).Scopes(paginate(c)).
		Order("transaction_items.created_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(c, items, total))
}

func getItemHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var item models.TransactionItem
	if err := userItems(user.ID).
		Where("transaction_items.id = ?", c.Param("id")).
		First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}
