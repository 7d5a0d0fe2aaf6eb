package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ownership is enforced through these scopes, applied before any other
// condition on every query that touches user data. A row outside the
// caller's scope simply does not exist, so cross-user access surfaces as
// not-found rather than forbidden.

// ownedBy restricts a query to rows belonging to the given user.
func ownedBy(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	}
}

// activeTransactions is the default transaction scope: owned and not
// soft-deleted.
func activeTransactions(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ? AND is_deleted = ?", userID, false)
	}
}

// deletedTransactions selects the soft-deleted side of a user's ledger.
func deletedTransactions(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ? AND is_deleted = ?", userID, true)
	}
}

// transactionFilters applies the optional type and date-range filters shared
// by the list, summary, and export endpoints. Dates are YYYY-MM-DD and the
// end date is inclusive.
func transactionFilters(c *gin.Context) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if t := c.Query("type"); t == "income" || t == "expense" {
			q = q.Where("type = ?", t)
		}
		if s := c.Query("start_date"); s != "" {
			if d, err := time.Parse(time.DateOnly, s); err == nil {
				q = q.Where("date >= ?", d)
			}
		}
		if e := c.Query("end_date"); e != "" {
			if d, err := time.Parse(time.DateOnly, e); err == nil {
				q = q.Where("date <= ?", d)
			}
		}
		return q
	}
}
