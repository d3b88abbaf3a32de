package main

import (
	"net/http"

	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// listAccountsHandler returns the owner's accounts plus their combined balance.
func listAccountsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := db.Where("user_id = ?", user.ID)
	if v := c.Query("isActive"); v != "" {
		q = q.Where("is_active = ?", v == "true")
	}
	var accounts []models.Account
	if err := q.Order("created_at desc").Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "totalBalance": total})
}

// loadAccount fetches an account by id, distinguishing absent (404) from
// owned-by-someone-else (401).
func loadAccount(c *gin.Context, userID, id uint) (*models.Account, bool) {
	var account models.Account
	if err := db.First(&account, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return nil, false
	}
	if account.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
		return nil, false
	}
	return &account, true
}

func getAccountHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, ok := loadAccount(c, user.ID, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, account)
}

func createAccountHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Name        string          `json:"name" binding:"required"`
		Type        string          `json:"type" binding:"required"`
		Balance     decimal.Decimal `json:"balance"`
		Currency    string          `json:"currency"`
		Color       string          `json:"color"`
		Icon        string          `json:"icon"`
		Description string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidAccountType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account type"})
		return
	}
	account := models.Account{
		UserID:      user.ID,
		Name:        req.Name,
		Type:        req.Type,
		Balance:     req.Balance,
		Currency:    req.Currency,
		Color:       req.Color,
		Icon:        req.Icon,
		Description: req.Description,
		IsActive:    true,
	}
	if account.Currency == "" {
		account.Currency = user.Currency
	}
	if account.Color == "" {
		account.Color = "#3B82F6"
	}
	if account.Icon == "" {
		account.Icon = "wallet"
	}
	if err := db.Create(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, account)
}

func updateAccountHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, ok := loadAccount(c, user.ID, id)
	if !ok {
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Type        *string `json:"type"`
		Currency    *string `json:"currency"`
		Color       *string `json:"color"`
		Icon        *string `json:"icon"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type != nil && !models.ValidAccountType(*req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account type"})
		return
	}
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Type != nil {
		account.Type = *req.Type
	}
	if req.Currency != nil {
		account.Currency = *req.Currency
	}
	if req.Color != nil {
		account.Color = *req.Color
	}
	if req.Icon != nil {
		account.Icon = *req.Icon
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if err := db.Save(account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// deleteAccountHandler refuses to delete an account still referenced by
// transactions so the ledger never dangles.
func deleteAccountHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, ok := loadAccount(c, user.ID, id)
	if !ok {
		return
	}
	var refs int64
	if err := db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&refs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if refs > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete account with existing transactions; delete or reassign transactions first"})
		return
	}
	if err := db.Delete(account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted successfully"})
}

// transferHandler moves a balance amount between two owned accounts inside a
// single database transaction. Transfers are balance-only: no Transaction row
// is written, so they never show up in category or trend reports.
func transferHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		FromAccountID uint            `json:"fromAccountId" binding:"required"`
		ToAccountID   uint            `json:"toAccountId" binding:"required"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		Description   string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FromAccountID == req.ToAccountID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot transfer to the same account"})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than 0"})
		return
	}
	var from, to models.Account
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", req.FromAccountID, user.ID).First(&from).Error; err != nil {
			return apiErrorf(http.StatusNotFound, "source account not found")
		}
		if err := tx.Where("id = ? AND user_id = ?", req.ToAccountID, user.ID).First(&to).Error; err != nil {
			return apiErrorf(http.StatusNotFound, "destination account not found")
		}
		if from.Balance.LessThan(req.Amount) {
			return apiErrorf(http.StatusBadRequest, "insufficient balance in source account")
		}
		from.Balance = from.Balance.Sub(req.Amount)
		to.Balance = to.Balance.Add(req.Amount)
		if err := tx.Save(&from).Error; err != nil {
			return err
		}
		return tx.Save(&to).Error
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "transfer successful",
		"fromAccount": gin.H{"id": from.ID, "name": from.Name, "balance": from.Balance},
		"toAccount":   gin.H{"id": to.ID, "name": to.Name, "balance": to.Balance},
		"amount":      req.Amount,
		"description": req.Description,
	})
}
