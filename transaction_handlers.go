package main

import (
	"fmt"
	"net/http"
	"time"

	"dally/models"
	"dally/pkg/books"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionItemInput struct {
	ID          *uuid.UUID      `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
}

type transactionRequest struct {
	ID          *uuid.UUID             `json:"id"`
	Type        models.TransactionType `json:"transaction_type"`
	Date        string                 `json:"date"`
	Description string                 `json:"description"`
	BusinessID  *uuid.UUID             `json:"business_id"`
	Items       []transactionItemInput `json:"items"`
}

// validate checks the full write payload and returns the parsed date plus
// field-level errors. The same rules apply to create and update: the items
// list replaces whatever was there before.
func (r *transactionRequest) validate() (time.Time, map[string]string) {
	errs := map[string]string{}
	if !r.Type.Valid() {
		errs["transaction_type"] = "transaction type must be 'income' or 'expense'"
	}
	date, err := parseDate(r.Date)
	if err != nil {
		errs["date"] = "date is required (YYYY-MM-DD)"
	}
	if len(r.Items) == 0 {
		errs["items"] = "at least one transaction item is required"
	}
	for i, item := range r.Items {
		if item.Description == "" {
			errs[fmt.Sprintf("items[%d].description", i)] = "description is required"
		}
		if !item.Amount.IsPositive() {
			errs[fmt.Sprintf("items[%d].amount", i)] = "amount must be greater than zero"
		}
	}
	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return date, nil
}

func (r *transactionRequest) total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Amount)
	}
	return total
}

func (r *transactionRequest) buildItems() []models.TransactionItem {
	items := make([]models.TransactionItem, 0, len(r.Items))
	for i, in := range r.Items {
		item := models.TransactionItem{
			Description: in.Description,
			Amount:      in.Amount,
			Category:    in.Category,
			Position:    i,
		}
		if in.ID != nil {
			item.ID = *in.ID
		}
		items = append(items, item)
	}
	return items
}

// parseDate accepts YYYY-MM-DD or a full timestamp; only the calendar
// date survives, so same-day equality in the summaries always holds.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, day := d.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), nil
}

// resolveBusiness maps an optional business_id to the user's business. An
// id pointing at someone else's business is a validation error, worded so
// existence is not leaked.
func resolveBusiness(user models.User, id *uuid.UUID) (*uuid.UUID, error) {
	if id != nil {
		var b models.Business
		if err := db.Scopes(ownedBy(user.ID)).First(&b, "id = ?", *id).Error; err != nil {
			return nil, fmt.Errorf("business not found or does not belong to you")
		}
		return &b.ID, nil
	}
	var b models.Business
	if err := db.Scopes(ownedBy(user.ID)).First(&b).Error; err != nil {
		return nil, nil // no default business; transactions may float free
	}
	return &b.ID, nil
}

func preloadItems(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", func(q *gorm.DB) *gorm.DB {
		return q.Order("position")
	})
}

func createTransactionHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, errs := req.validate()
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}
	businessID, err := resolveBusiness(user, req.BusinessID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"business_id": err.Error()}})
		return
	}
	tx := models.Transaction{
		UserID:      user.ID,
		BusinessID:  businessID,
		Type:        req.Type,
		Date:        date,
		Description: req.Description,
		TotalAmount: req.total(),
		Items:       req.buildItems(),
	}
	if req.ID != nil {
		tx.ID = *req.ID
	}
	// Create inserts the transaction and its items in one database
	// transaction; a failure on any item rolls back the whole thing.
	if err := db.Create(&tx).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "transaction already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func listTransactionsHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var total int64
	if err := db.Model(&models.Transaction{}).
		Scopes(activeTransactions(user.ID), transactionFilters(c)).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var txs []models.Transaction
	if err := preloadItems(db.Scopes(activeTransactions(user.ID), transactionFilters(c))).
		Scopes(paginate(c)).
		Order("date DESC, created_at DESC").Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(c, txs, total))
}

func getTransactionHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var tx models.Transaction
	if err := preloadItems(db.Scopes(activeTransactions(user.ID))).
		First(&tx, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func updateTransactionHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var tx models.Transaction
	if err := db.Scopes(activeTransactions(user.ID)).
		First(&tx, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, errs := req.validate()
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}
	businessID := tx.BusinessID
	if req.BusinessID != nil {
		var err error
		if businessID, err = resolveBusiness(user, req.BusinessID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"business_id": err.Error()}})
			return
		}
	}
	items := req.buildItems()
	for i := range items {
		items[i].TransactionID = tx.ID
	}
	// Replace items and rewrite the parent atomically so the transaction
	// never exists with zero or mismatched items.
	err := db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Where("transaction_id = ?", tx.ID).Delete(&models.TransactionItem{}).Error; err != nil {
			return err
		}
		if err := dtx.Create(&items).Error; err != nil {
			return err
		}
		return dtx.Model(&tx).Updates(map[string]any{
			"type":         req.Type,
			"date":         date,
			"description":  req.Description,
			"business_id":  businessID,
			"total_amount": req.total(),
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	var updated models.Transaction
	if err := preloadItems(db).First(&updated, "id = ?", tx.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// deleteTransactionHandler soft-deletes: the row stays, items stay, only
// the flag flips.
func deleteTransactionHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var tx models.Transaction
	if err := db.Scopes(activeTransactions(user.ID)).
		First(&tx, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := db.Model(&tx).Update("is_deleted", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func listDeletedTransactionsHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var total int64
	if err := db.Model(&models.Transaction{}).
		Scopes(deletedTransactions(user.ID)).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var txs []models.Transaction
	if err := preloadItems(db.Scopes(deletedTransactions(user.ID))).
		Scopes(paginate(c)).
		Order("date DESC, created_at DESC").Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(c, txs, total))
}

func restoreTransactionHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var tx models.Transaction
	if err := db.Scopes(ownedBy(user.ID)).
		First(&tx, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !tx.IsDeleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction is not deleted"})
		return
	}
	if err := db.Model(&tx).Update("is_deleted", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "restore failed"})
		return
	}
	var restored models.Transaction
	if err := preloadItems(db).First(&restored, "id = ?", tx.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusOK, restored)
}

// transactionSummaryHandler aggregates over exactly the rows the list
// endpoint would return for the same filters.
func transactionSummaryHandler(c *gin.Context) {
	user, _ := currentUser(c)
	q := db.Model(&models.Transaction{}).
		Scopes(activeTransactions(user.ID), transactionFilters(c))
	totals, err := books.TotalsFor(q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"income":             gin.H{"total": totals.Income, "count": totals.IncomeCount},
		"expense":            gin.H{"total": totals.Expense, "count": totals.ExpenseCount},
		"net":                totals.Net(),
		"total_transactions": totals.Count(),
	})
}
