package main

import (
	"net/http"
	"time"

	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// budgetView is the API shape of a budget: the stored row plus the derived
// values, recomputed on every read.
type budgetView struct {
	models.Budget
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed float64         `json:"percentageUsed"`
}

func newBudgetView(b models.Budget) budgetView {
	return budgetView{Budget: b, Remaining: b.Remaining(), PercentageUsed: b.PercentageUsed()}
}

func budgetViews(budgets []models.Budget) []budgetView {
	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, newBudgetView(b))
	}
	return views
}

func listBudgetsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := db.Where("user_id = ?", user.ID)
	if v := c.Query("isActive"); v != "" {
		q = q.Where("is_active = ?", v == "true")
	}
	if v := c.Query("period"); v != "" {
		q = q.Where("period = ?", v)
	}
	var budgets []models.Budget
	if err := q.Preload("Category").Order("created_at desc").Find(&budgets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, budgetViews(budgets))
}

func loadBudget(c *gin.Context, userID, id uint) (*models.Budget, bool) {
	var budget models.Budget
	if err := db.Preload("Category").First(&budget, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "budget not found"})
		return nil, false
	}
	if budget.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
		return nil, false
	}
	return &budget, true
}

func getBudgetHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	budget, ok := loadBudget(c, user.ID, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newBudgetView(*budget))
}

// createBudgetHandler rejects a new budget whose window overlaps an existing
// active budget for the same category. The rule holds at creation time only.
func createBudgetHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		CategoryID     uint            `json:"categoryId" binding:"required"`
		Amount         decimal.Decimal `json:"amount" binding:"required"`
		Period         string          `json:"period"`
		StartDate      *time.Time      `json:"startDate" binding:"required"`
		EndDate        *time.Time      `json:"endDate" binding:"required"`
		AlertThreshold *float64        `json:"alertThreshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget amount cannot be negative"})
		return
	}
	period := req.Period
	if period == "" {
		period = models.PeriodMonthly
	}
	if !models.ValidPeriod(period) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget period"})
		return
	}
	threshold := 80.0
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}
	if threshold < 0 || threshold > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "alert threshold must be between 0 and 100"})
		return
	}
	if req.EndDate.Before(*req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date must not be before start date"})
		return
	}
	var category models.Category
	if err := db.Where("id = ? AND user_id = ?", req.CategoryID, user.ID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	var overlapping int64
	err := db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
			user.ID, req.CategoryID, true, req.EndDate, req.StartDate).
		Count(&overlapping).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if overlapping > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a budget already exists for this category in the specified period"})
		return
	}
	budget := models.Budget{
		UserID:         user.ID,
		CategoryID:     req.CategoryID,
		Amount:         req.Amount,
		Spent:          decimal.Zero,
		Period:         period,
		StartDate:      *req.StartDate,
		EndDate:        *req.EndDate,
		AlertThreshold: threshold,
		IsActive:       true,
	}
	if err := db.Create(&budget).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	budget.Category = &category
	c.JSON(http.StatusCreated, newBudgetView(budget))
}

func updateBudgetHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	budget, ok := loadBudget(c, user.ID, id)
	if !ok {
		return
	}
	var req struct {
		CategoryID     *uint            `json:"categoryId"`
		Amount         *decimal.Decimal `json:"amount"`
		Period         *string          `json:"period"`
		StartDate      *time.Time       `json:"startDate"`
		EndDate        *time.Time       `json:"endDate"`
		AlertThreshold *float64         `json:"alertThreshold"`
		IsActive       *bool            `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget amount cannot be negative"})
		return
	}
	if req.Period != nil && !models.ValidPeriod(*req.Period) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget period"})
		return
	}
	if req.AlertThreshold != nil && (*req.AlertThreshold < 0 || *req.AlertThreshold > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "alert threshold must be between 0 and 100"})
		return
	}
	if req.CategoryID != nil && *req.CategoryID != budget.CategoryID {
		var category models.Category
		if err := db.Where("id = ? AND user_id = ?", *req.CategoryID, user.ID).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		budget.CategoryID = *req.CategoryID
		budget.Category = &category
	}
	if req.Amount != nil {
		budget.Amount = *req.Amount
	}
	if req.Period != nil {
		budget.Period = *req.Period
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		budget.EndDate = *req.EndDate
	}
	if req.AlertThreshold != nil {
		budget.AlertThreshold = *req.AlertThreshold
	}
	if req.IsActive != nil {
		budget.IsActive = *req.IsActive
	}
	if budget.EndDate.Before(budget.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date must not be before start date"})
		return
	}
	if err := db.Omit("Category").Save(budget).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, newBudgetView(*budget))
}

func deleteBudgetHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	budget, ok := loadBudget(c, user.ID, id)
	if !ok {
		return
	}
	if err := db.Delete(budget).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "budget deleted successfully"})
}
