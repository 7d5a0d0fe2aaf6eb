package main

import (
	"net/http"
	"time"

	"dally/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// exportTransactionsHandler streams the filtered transaction list as an
// XLSX workbook. The same scope and filters as the list endpoint apply, so
// an export can never contain another user's rows.
func exportTransactionsHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var txs []models.Transaction
	if err := preloadItems(db.Scopes(activeTransactions(user.ID), transactionFilters(c))).
		Order("date ASC, created_at ASC").Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Date", "Type", "Description", "Total Amount (NGN)", "Items"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, tx := range txs {
		values := []any{
			tx.ID.String(),
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			tx.Description,
			tx.TotalAmount.String(),
			len(tx.Items),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}
