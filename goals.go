package main

import (
	"net/http"
	"time"

	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// goalView is the API shape of a goal: stored fields plus derived progress.
type goalView struct {
	models.Goal
	Progress      float64         `json:"progress"`
	Remaining     decimal.Decimal `json:"remaining"`
	DaysRemaining int             `json:"daysRemaining"`
}

func newGoalView(g models.Goal) goalView {
	return goalView{
		Goal:          g,
		Progress:      g.Progress(),
		Remaining:     g.Remaining(),
		DaysRemaining: g.DaysRemaining(time.Now()),
	}
}

func listGoalsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := db.Where("user_id = ?", user.ID)
	switch c.Query("status") {
	case "active":
		q = q.Where("is_completed = ?", false)
	case "completed":
		q = q.Where("is_completed = ?", true)
	}
	var goals []models.Goal
	if err := q.Order("deadline asc").Find(&goals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	views := make([]goalView, 0, len(goals))
	totalTarget, totalSaved := decimal.Zero, decimal.Zero
	for _, g := range goals {
		views = append(views, newGoalView(g))
		totalTarget = totalTarget.Add(g.TargetAmount)
		totalSaved = totalSaved.Add(g.CurrentAmount)
	}
	overallProgress := 0.0
	if totalTarget.IsPositive() {
		overallProgress, _ = totalSaved.Div(totalTarget).Mul(decimal.NewFromInt(100)).Float64()
	}
	c.JSON(http.StatusOK, gin.H{
		"goals":           views,
		"totalTarget":     totalTarget,
		"totalSaved":      totalSaved,
		"overallProgress": overallProgress,
	})
}

// loadGoal is owner-scoped: a goal that exists but belongs to someone else is
// indistinguishable from a missing one.
func loadGoal(c *gin.Context, userID, id uint) (*models.Goal, bool) {
	var goal models.Goal
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return nil, false
	}
	return &goal, true
}

func getGoalHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	goal, ok := loadGoal(c, user.ID, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newGoalView(*goal))
}

func createGoalHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Name          string          `json:"name" binding:"required"`
		TargetAmount  decimal.Decimal `json:"targetAmount" binding:"required"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
		Deadline      *time.Time      `json:"deadline" binding:"required"`
		Category      string          `json:"category"`
		Color         string          `json:"color"`
		Icon          string          `json:"icon"`
		Notes         string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.TargetAmount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target amount must be at least 1"})
		return
	}
	if req.CurrentAmount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current amount cannot be negative"})
		return
	}
	category := req.Category
	if category == "" {
		category = "savings"
	}
	if !models.ValidGoalCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal category"})
		return
	}
	goal := models.Goal{
		UserID:        user.ID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      *req.Deadline,
		Category:      category,
		Color:         req.Color,
		Icon:          req.Icon,
		Notes:         req.Notes,
	}
	if goal.Color == "" {
		goal.Color = "#2F6F6D"
	}
	if goal.Icon == "" {
		goal.Icon = "target"
	}
	if err := db.Create(&goal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, newGoalView(goal))
}

// updateGoalHandler merges fields then applies the completion check, so
// lowering targetAmount below currentAmount also completes the goal.
func updateGoalHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	goal, ok := loadGoal(c, user.ID, id)
	if !ok {
		return
	}
	var req struct {
		Name          *string          `json:"name"`
		TargetAmount  *decimal.Decimal `json:"targetAmount"`
		CurrentAmount *decimal.Decimal `json:"currentAmount"`
		Deadline      *time.Time       `json:"deadline"`
		Category      *string          `json:"category"`
		Color         *string          `json:"color"`
		Icon          *string          `json:"icon"`
		Notes         *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetAmount != nil && !req.TargetAmount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target amount must be at least 1"})
		return
	}
	if req.CurrentAmount != nil && req.CurrentAmount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current amount cannot be negative"})
		return
	}
	if req.Category != nil && !models.ValidGoalCategory(*req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal category"})
		return
	}
	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.Deadline != nil {
		goal.Deadline = *req.Deadline
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}
	if req.Color != nil {
		goal.Color = *req.Color
	}
	if req.Icon != nil {
		goal.Icon = *req.Icon
	}
	if req.Notes != nil {
		goal.Notes = *req.Notes
	}
	goal.Complete(time.Now())
	if err := db.Save(goal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, newGoalView(*goal))
}

// contributeGoalHandler adds to currentAmount; there is no withdraw. The
// stored amount may exceed the target, only the derived progress is clamped.
func contributeGoalHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide a valid amount"})
		return
	}
	goal, ok := loadGoal(c, user.ID, id)
	if !ok {
		return
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(req.Amount)
	goal.Complete(time.Now())
	if err := db.Save(goal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, newGoalView(*goal))
}

func deleteGoalHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	goal, ok := loadGoal(c, user.ID, id)
	if !ok {
		return
	}
	if err := db.Delete(goal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal deleted successfully"})
}
