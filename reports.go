package main

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// typeTotals sums transaction amounts per type over an optional date range.
func typeTotals(userID uint, from, to *time.Time) (income, expense decimal.Decimal, err error) {
	q := db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", *to)
	}
	type row struct {
		Type  string
		Total decimal.Decimal
	}
	var rows []row
	if err = q.Select("type, COALESCE(SUM(amount), 0) AS total").Group("type").Scan(&rows).Error; err != nil {
		return
	}
	income, expense = decimal.Zero, decimal.Zero
	for _, r := range rows {
		if r.Type == models.TransactionTypeIncome {
			income = r.Total
		} else {
			expense = r.Total
		}
	}
	return
}

// dashboardHandler assembles the overview snapshot: total balance over active
// accounts, this month's income/expense, five most recent transactions, and
// the active in-window budgets.
func dashboardHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfNextMonth := startOfMonth.AddDate(0, 1, 0)

	var accounts []models.Account
	if err := db.Where("user_id = ? AND is_active = ?", user.ID, true).Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	totalBalance := decimal.Zero
	for _, a := range accounts {
		totalBalance = totalBalance.Add(a.Balance)
	}

	monthIncome, monthExpense, err := typeTotals(user.ID, &startOfMonth, &startOfNextMonth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var recent []models.Transaction
	err = db.Where("user_id = ?", user.ID).
		Preload("Category").Preload("Account").
		Order("date desc").Limit(5).Find(&recent).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var budgets []models.Budget
	err = db.Where("user_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?", user.ID, true, now, now).
		Preload("Category").Find(&budgets).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalBalance":       totalBalance,
		"monthIncome":        monthIncome,
		"monthExpense":       monthExpense,
		"monthSavings":       monthIncome.Sub(monthExpense),
		"recentTransactions": recent,
		"budgets":            budgetViews(budgets),
		"accounts":           accounts,
	})
}

// spendingByCategoryHandler groups transactions of one type by category and
// reports each category's share of the grand total, largest first.
func spendingByCategoryHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	ttype := c.DefaultQuery("type", models.TransactionTypeExpense)
	q := db.Model(&models.Transaction{}).Where("user_id = ? AND type = ?", user.ID, ttype)
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
	type catRow struct {
		CategoryID uint
		Total      decimal.Decimal
		Cnt        int64
	}
	var rows []catRow
	err := q.Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS cnt").
		Group("category_id").Order("total DESC").Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	total := decimal.Zero
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		total = total.Add(r.Total)
		ids = append(ids, r.CategoryID)
	}
	catByID := map[uint]models.Category{}
	if len(ids) > 0 {
		var cats []models.Category
		if err := db.Where("id IN ?", ids).Find(&cats).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		for _, cat := range cats {
			catByID[cat.ID] = cat
		}
	}

	categories := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		pct := 0.0
		if total.IsPositive() {
			pct, _ = r.Total.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		}
		cat := catByID[r.CategoryID]
		categories = append(categories, gin.H{
			"categoryId": r.CategoryID,
			"name":       cat.Name,
			"icon":       cat.Icon,
			"color":      cat.Color,
			"total":      r.Total,
			"count":      r.Cnt,
			"percentage": pct,
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "total": total})
}

// monthlyTrendHandler buckets the trailing N months of transactions by
// calendar month and reports income, expense and the derived savings per row.
func monthlyTrendHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))
	if months <= 0 {
		months = 6
	}
	start := time.Now().AddDate(0, -months, 0)

	var txns []models.Transaction
	err := db.Select("type", "amount", "date").
		Where("user_id = ? AND date >= ?", user.ID, start).
		Order("date asc").Find(&txns).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	type trendRow struct {
		Month   string          `json:"month"`
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
		Savings decimal.Decimal `json:"savings"`
	}
	byMonth := map[string]*trendRow{}
	order := []string{}
	for _, t := range txns {
		key := t.Date.Format("2006-01")
		row, found := byMonth[key]
		if !found {
			row = &trendRow{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[key] = row
			order = append(order, key)
		}
		if t.Type == models.TransactionTypeIncome {
			row.Income = row.Income.Add(t.Amount)
		} else {
			row.Expense = row.Expense.Add(t.Amount)
		}
	}
	result := make([]trendRow, 0, len(order))
	for _, key := range order {
		row := byMonth[key]
		row.Savings = row.Income.Sub(row.Expense)
		result = append(result, *row)
	}
	c.JSON(http.StatusOK, result)
}

// accountBalancesHandler replays each active account's transactions in
// chronological order, emitting a running balance per transaction. The replay
// starts from zero and ignores transfers, so it can drift from the stored
// balance; that is the point of the report.
func accountBalancesHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var accounts []models.Account
	if err := db.Where("user_id = ? AND is_active = ?", user.ID, true).Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	result := make([]gin.H, 0, len(accounts))
	for _, account := range accounts {
		var txns []models.Transaction
		err := db.Where("user_id = ? AND account_id = ?", user.ID, account.ID).
			Order("date asc, id asc").Find(&txns).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		running := decimal.Zero
		history := make([]gin.H, 0, len(txns))
		for _, t := range txns {
			running = running.Add(balanceEffect(t.Type, t.Amount))
			history = append(history, gin.H{"date": t.Date, "balance": running})
		}
		result = append(result, gin.H{
			"id":             account.ID,
			"name":           account.Name,
			"type":           account.Type,
			"currentBalance": account.Balance,
			"color":          account.Color,
			"balanceHistory": history,
		})
	}
	c.JSON(http.StatusOK, result)
}

// budgetPerformanceHandler reports every active in-window budget with its
// derived figures and the over-budget / near-limit flags.
func budgetPerformanceHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	now := time.Now()
	var budgets []models.Budget
	err := db.Where("user_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?", user.ID, true, now, now).
		Preload("Category").Find(&budgets).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	result := make([]gin.H, 0, len(budgets))
	for _, b := range budgets {
		pct := b.PercentageUsed()
		result = append(result, gin.H{
			"id":             b.ID,
			"category":       b.Category,
			"amount":         b.Amount,
			"spent":          b.Spent,
			"remaining":      b.Remaining(),
			"percentageUsed": pct,
			"period":         b.Period,
			"startDate":      b.StartDate,
			"endDate":        b.EndDate,
			"alertThreshold": b.AlertThreshold,
			"isOverBudget":   b.Spent.GreaterThan(b.Amount),
			"isNearLimit":    pct >= b.AlertThreshold,
		})
	}
	c.JSON(http.StatusOK, result)
}
