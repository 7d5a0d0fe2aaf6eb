package main

import (
	"net/http"
	"time"

	"dally/models"
	"dally/pkg/books"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report currency. Amounts are stored and served in naira.
const currency = "NGN"

// summaryQuery scopes a date-bounded aggregation to the user and,
// optionally, one of their businesses. The bounds are inclusive.
func summaryQuery(userID uuid.UUID, businessID string, from, to time.Time) *gorm.DB {
	q := db.Model(&models.Transaction{}).
		Scopes(activeTransactions(userID)).
		Where("date >= ? AND date <= ?", from, to)
	if businessID != "" {
		q = q.Where("business_id = ?", businessID)
	}
	return q
}

// dailySummaryHandler returns income, expense and net cash for one date.
func dailySummaryHandler(c *gin.Context) {
	user, _ := currentUser(c)
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required (YYYY-MM-DD)"})
		return
	}
	day, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}
	totals, err := books.TotalsFor(summaryQuery(user.ID, c.Query("business_id"), day, day))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":          dateStr,
		"currency":      currency,
		"total_income":  totals.Income,
		"total_expense": totals.Expense,
		"net_cash":      totals.Net(),
	})
}

func parseRange(c *gin.Context) (start, end time.Time, ok bool) {
	startStr, endStr := c.Query("start_date"), c.Query("end_date")
	if startStr == "" || endStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date parameters are required (YYYY-MM-DD)"})
		return
	}
	var err error
	if start, err = time.Parse(time.DateOnly, startStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}
	if end, err = time.Parse(time.DateOnly, endStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be before or equal to end_date"})
		return
	}
	return start, end, true
}

// rangeSummaryHandler returns income, expense and net profit over a range.
func rangeSummaryHandler(c *gin.Context) {
	user, _ := currentUser(c)
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	totals, err := books.TotalsFor(summaryQuery(user.ID, c.Query("business_id"), start, end))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start_date":    c.Query("start_date"),
		"end_date":      c.Query("end_date"),
		"currency":      currency,
		"total_income":  totals.Income,
		"total_expense": totals.Expense,
		"net_profit":    totals.Net(),
	})
}

// profitLossHandler frames the same aggregation as a P&L statement.
func profitLossHandler(c *gin.Context) {
	user, _ := currentUser(c)
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	totals, err := books.TotalsFor(summaryQuery(user.ID, c.Query("business_id"), start, end))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start_date":      c.Query("start_date"),
		"end_date":        c.Query("end_date"),
		"currency":        currency,
		"total_sales":     totals.Income,
		"total_purchases": totals.Expense,
		"gross_profit":    totals.Net(),
	})
}

// taxSummaryHandler estimates Nigerian PIT (and optional VAT) for a year
// (?year=YYYY) or a single month (?month=YYYY-MM).
func taxSummaryHandler(c *gin.Context) {
	user, _ := currentUser(c)
	yearStr, monthStr := c.Query("year"), c.Query("month")
	var start, end time.Time
	switch {
	case monthStr != "":
		m, err := time.Parse("2006-01", monthStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month format, use YYYY-MM"})
			return
		}
		start = m
		end = m.AddDate(0, 1, -1)
	case yearStr != "":
		y, err := time.Parse("2006", yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year format, use YYYY"})
			return
		}
		start = y
		end = y.AddDate(1, 0, -1)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either year (YYYY) or month (YYYY-MM) parameter is required"})
		return
	}
	totals, err := books.TotalsFor(summaryQuery(user.ID, c.Query("business_id"), start, end))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	calc := books.TaxCalculator{VATEnabled: c.Query("vat_enabled") == "true"}
	summary := calc.Summary(totals.Income, totals.Expense)
	c.JSON(http.StatusOK, gin.H{
		"period_start": start.Format(time.DateOnly),
		"period_end":   end.Format(time.DateOnly),
		"currency":     currency,
		"summary":      summary,
	})
}
