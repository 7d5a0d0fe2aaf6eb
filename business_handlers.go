package main

import (
	"net/http"

	"dally/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type businessRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func createBusinessHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var req businessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var existing models.Business
	if err := db.Scopes(ownedBy(user.ID)).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "business already exists for this user"})
		return
	}
	business := models.Business{UserID: user.ID, Name: req.Name, Description: req.Description}
	if err := db.Create(&business).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, business)
}

func listBusinessesHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var businesses []models.Business
	if err := db.Scopes(ownedBy(user.ID)).Find(&businesses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, businesses)
}

func getBusinessHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var business models.Business
	if err := db.Scopes(ownedBy(user.ID)).First(&business, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, business)
}

func updateBusinessHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var business models.Business
	if err := db.Scopes(ownedBy(user.ID)).First(&business, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req businessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Model(&business).Updates(map[string]any{
		"name":        req.Name,
		"description": req.Description,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, business)
}

// deleteBusinessHandler removes a business and everything recorded under
// it. Transactions, their items and receipts go with the business in one
// DB transaction, so no row is ever left pointing at a missing business.
func deleteBusinessHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var business models.Business
	if err := db.Scopes(ownedBy(user.ID)).First(&business, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	err := db.Transaction(func(dtx *gorm.DB) error {
		txIDs := dtx.Model(&models.Transaction{}).Select("id").Where("business_id = ?", business.ID)
		if err := dtx.Where("transaction_id IN (?)", txIDs).Delete(&models.TransactionItem{}).Error; err != nil {
			return err
		}
		if err := dtx.Where("transaction_id IN (?)", txIDs).Delete(&models.Receipt{}).Error; err != nil {
			return err
		}
		if err := dtx.Where("business_id = ?", business.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return dtx.Delete(&business).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
