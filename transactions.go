package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// balanceEffect is the signed change a transaction applies to its account:
// positive for income, negative for expense. The reverse of an effect is
// always its negation since amounts are never negative.
func balanceEffect(ttype string, amount decimal.Decimal) decimal.Decimal {
	if ttype == models.TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

// adjustBudgetSpent adds delta to the spent accumulator of the single active
// budget whose category matches and whose window contains date. No matching
// budget is not an error; the accrual simply has nowhere to land.
func adjustBudgetSpent(tx *gorm.DB, userID, categoryID uint, date time.Time, delta decimal.Decimal) error {
	var budget models.Budget
	err := tx.Where("user_id = ? AND category_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
		userID, categoryID, true, date, date).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	budget.Spent = budget.Spent.Add(delta)
	return tx.Save(&budget).Error
}

func listTransactionsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	// fresh query per finisher; gorm statements are not reusable across Count+Find
	filtered := func() *gorm.DB {
		q := db.Model(&models.Transaction{}).Where("user_id = ?", user.ID)
		if v := c.Query("type"); v != "" {
			q = q.Where("type = ?", v)
		}
		if v := c.Query("category"); v != "" {
			q = q.Where("category_id = ?", v)
		}
		if v := c.Query("account"); v != "" {
			q = q.Where("account_id = ?", v)
		}
		if v := c.Query("startDate"); v != "" {
			if t, err := parseDateQuery(v); err == nil {
				q = q.Where("date >= ?", t)
			}
		}
		if v := c.Query("endDate"); v != "" {
			if t, err := parseDateQuery(v); err == nil {
				q = q.Where("date <= ?", t)
			}
		}
		return q
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 {
		limit = 50
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var transactions []models.Transaction
	err := filtered().Preload("Category").Preload("Account").
		Order("date desc").Limit(limit).Offset((page - 1) * limit).
		Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"page":         page,
		"pages":        pages,
		"total":        total,
	})
}

func loadTransaction(c *gin.Context, userID, id uint) (*models.Transaction, bool) {
	var txn models.Transaction
	if err := db.First(&txn, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return nil, false
	}
	if txn.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
		return nil, false
	}
	return &txn, true
}

func getTransactionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, ok := loadTransaction(c, user.ID, id); !ok {
		return
	}
	var txn models.Transaction
	if err := db.Preload("Category").Preload("Account").First(&txn, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, txn)
}

// createTransactionHandler writes the transaction, the compensating account
// balance adjustment, and any budget accrual as one database transaction.
func createTransactionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Type               string          `json:"type" binding:"required"`
		CategoryID         uint            `json:"categoryId" binding:"required"`
		AccountID          uint            `json:"accountId" binding:"required"`
		Amount             decimal.Decimal `json:"amount" binding:"required"`
		Description        string          `json:"description"`
		Date               *time.Time      `json:"date"`
		Tags               []string        `json:"tags"`
		IsRecurring        bool            `json:"isRecurring"`
		RecurringFrequency string          `json:"recurringFrequency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCategoryType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount cannot be negative"})
		return
	}
	if req.IsRecurring && !models.ValidFrequency(req.RecurringFrequency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurring frequency"})
		return
	}
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	txn := models.Transaction{
		UserID:             user.ID,
		Type:               req.Type,
		CategoryID:         req.CategoryID,
		AccountID:          req.AccountID,
		Amount:             req.Amount,
		Description:        req.Description,
		Date:               date,
		Tags:               req.Tags,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: req.RecurringFrequency,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", req.CategoryID, user.ID).First(&category).Error; err != nil {
			return apiErrorf(http.StatusNotFound, "category not found")
		}
		var account models.Account
		if err := tx.Where("id = ? AND user_id = ?", req.AccountID, user.ID).First(&account).Error; err != nil {
			return apiErrorf(http.StatusNotFound, "account not found")
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		account.Balance = account.Balance.Add(balanceEffect(txn.Type, txn.Amount))
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		if txn.Type == models.TransactionTypeExpense {
			return adjustBudgetSpent(tx, user.ID, txn.CategoryID, txn.Date, txn.Amount)
		}
		return nil
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	var out models.Transaction
	if err := db.Preload("Category").Preload("Account").First(&out, txn.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusCreated, out)
}

// updateTransactionHandler merges the requested fields, then settles the
// ledger: reverse the old balance effect and apply the new one (netted into a
// single save when the account is unchanged), and reconcile budget accrual
// against both the old and the new (category, date) windows.
func updateTransactionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	txn, ok := loadTransaction(c, user.ID, id)
	if !ok {
		return
	}
	var req struct {
		Type               *string          `json:"type"`
		CategoryID         *uint            `json:"categoryId"`
		AccountID          *uint            `json:"accountId"`
		Amount             *decimal.Decimal `json:"amount"`
		Description        *string          `json:"description"`
		Date               *time.Time       `json:"date"`
		Tags               []string         `json:"tags"`
		IsRecurring        *bool            `json:"isRecurring"`
		RecurringFrequency *string          `json:"recurringFrequency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type != nil && !models.ValidCategoryType(*req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
		return
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount cannot be negative"})
		return
	}

	oldAmount := txn.Amount
	oldType := txn.Type
	oldAccountID := txn.AccountID
	oldCategoryID := txn.CategoryID
	oldDate := txn.Date

	if req.Type != nil {
		txn.Type = *req.Type
	}
	if req.CategoryID != nil {
		txn.CategoryID = *req.CategoryID
	}
	if req.AccountID != nil {
		txn.AccountID = *req.AccountID
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}
	if req.Tags != nil {
		txn.Tags = req.Tags
	}
	if req.IsRecurring != nil {
		txn.IsRecurring = *req.IsRecurring
	}
	if req.RecurringFrequency != nil {
		txn.RecurringFrequency = *req.RecurringFrequency
	}
	if txn.IsRecurring && !models.ValidFrequency(txn.RecurringFrequency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurring frequency"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if txn.CategoryID != oldCategoryID {
			var category models.Category
			if err := tx.Where("id = ? AND user_id = ?", txn.CategoryID, user.ID).First(&category).Error; err != nil {
				return apiErrorf(http.StatusNotFound, "category not found")
			}
		}
		if txn.AccountID != oldAccountID {
			var account models.Account
			if err := tx.Where("id = ? AND user_id = ?", txn.AccountID, user.ID).First(&account).Error; err != nil {
				return apiErrorf(http.StatusNotFound, "account not found")
			}
		}
		if err := tx.Save(txn).Error; err != nil {
			return err
		}
		if txn.AccountID == oldAccountID {
			var account models.Account
			if err := tx.First(&account, oldAccountID).Error; err != nil {
				return err
			}
			account.Balance = account.Balance.
				Sub(balanceEffect(oldType, oldAmount)).
				Add(balanceEffect(txn.Type, txn.Amount))
			if err := tx.Save(&account).Error; err != nil {
				return err
			}
		} else {
			var oldAccount models.Account
			if err := tx.First(&oldAccount, oldAccountID).Error; err != nil {
				return err
			}
			oldAccount.Balance = oldAccount.Balance.Sub(balanceEffect(oldType, oldAmount))
			if err := tx.Save(&oldAccount).Error; err != nil {
				return err
			}
			var newAccount models.Account
			if err := tx.First(&newAccount, txn.AccountID).Error; err != nil {
				return err
			}
			newAccount.Balance = newAccount.Balance.Add(balanceEffect(txn.Type, txn.Amount))
			if err := tx.Save(&newAccount).Error; err != nil {
				return err
			}
		}
		if oldType == models.TransactionTypeExpense {
			if err := adjustBudgetSpent(tx, user.ID, oldCategoryID, oldDate, oldAmount.Neg()); err != nil {
				return err
			}
		}
		if txn.Type == models.TransactionTypeExpense {
			if err := adjustBudgetSpent(tx, user.ID, txn.CategoryID, txn.Date, txn.Amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	var out models.Transaction
	if err := db.Preload("Category").Preload("Account").First(&out, txn.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// deleteTransactionHandler reverses the balance effect and any budget accrual,
// then removes the row, all in one database transaction.
func deleteTransactionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	txn, ok := loadTransaction(c, user.ID, id)
	if !ok {
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, txn.AccountID).Error; err != nil {
			return err
		}
		account.Balance = account.Balance.Sub(balanceEffect(txn.Type, txn.Amount))
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		if txn.Type == models.TransactionTypeExpense {
			// keyed off the transaction's original category/date
			if err := adjustBudgetSpent(tx, user.ID, txn.CategoryID, txn.Date, txn.Amount.Neg()); err != nil {
				return err
			}
		}
		return tx.Delete(txn).Error
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted successfully"})
}

func transactionStatsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := db.Model(&models.Transaction{}).Where("user_id = ?", user.ID)
	if v := c.Query("startDate"); v != "" {
		if t, err := parseDateQuery(v); err == nil {
			q = q.Where("date >= ?", t)
		}
	}
	if v := c.Query("endDate"); v != "" {
		if t, err := parseDateQuery(v); err == nil {
			q = q.Where("date <= ?", t)
		}
	}
	type statRow struct {
		Type  string
		Total decimal.Decimal
		Cnt   int64
	}
	var rows []statRow
	if err := q.Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS cnt").Group("type").Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	income, expense := decimal.Zero, decimal.Zero
	var incomeCount, expenseCount int64
	for _, r := range rows {
		if r.Type == models.TransactionTypeIncome {
			income, incomeCount = r.Total, r.Cnt
		} else {
			expense, expenseCount = r.Total, r.Cnt
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"income":       income,
		"expense":      expense,
		"incomeCount":  incomeCount,
		"expenseCount": expenseCount,
		"balance":      income.Sub(expense),
	})
}
