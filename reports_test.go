package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpendingByCategoryReport(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Spend", "spend@example.com")
	acct := createTestAccount(t, r, token, "Main", 1000)
	groceries := seededCategoryID(t, r, token, "expense", "Groceries")
	rent := seededCategoryID(t, r, token, "expense", "Rent")

	now := time.Now().UTC()
	createTestTransaction(t, r, token, "expense", groceries, acct, 100, now)
	createTestTransaction(t, r, token, "expense", groceries, acct, 50, now)
	createTestTransaction(t, r, token, "expense", rent, acct, 350, now)

	rec := performRequest(r, http.MethodGet, "/reports/spending-by-category", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeObject(t, rec)
	require.Equal(t, 500.0, resp["total"].(float64))

	categories := resp["categories"].([]any)
	require.Len(t, categories, 2)

	first := categories[0].(map[string]any)
	require.Equal(t, "Rent", first["name"].(string))
	require.Equal(t, 350.0, first["total"].(float64))
	require.InDelta(t, 70.0, first["percentage"].(float64), 1e-9)

	second := categories[1].(map[string]any)
	require.Equal(t, "Groceries", second["name"].(string))
	require.Equal(t, 2.0, second["count"].(float64))
	require.InDelta(t, 30.0, second["percentage"].(float64), 1e-9)
}

func TestSpendingByCategoryEmpty(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Empty", "empty@example.com")

	rec := performRequest(r, http.MethodGet, "/reports/spending-by-category", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeObject(t, rec)
	require.Equal(t, 0.0, resp["total"].(float64))
	require.Empty(t, resp["categories"].([]any))
}

func TestMonthlyTrendReport(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Trend", "trend@example.com")
	acct := createTestAccount(t, r, token, "Main", 0)
	income := seededCategoryID(t, r, token, "income", "Salary")
	expense := seededCategoryID(t, r, token, "expense", "Rent")

	now := time.Now().UTC()
	// a flat 31 days back always lands in an earlier month, unlike AddDate
	// with months which can normalize Mar 31 into Mar 3
	lastMonth := now.AddDate(0, 0, -31)
	createTestTransaction(t, r, token, "income", income, acct, 3000, lastMonth)
	createTestTransaction(t, r, token, "expense", expense, acct, 1200, lastMonth)
	createTestTransaction(t, r, token, "income", income, acct, 3000, now)

	rec := performRequest(r, http.MethodGet, "/reports/monthly-trend", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows := decodeList(t, rec)
	require.Len(t, rows, 2)

	require.Equal(t, lastMonth.Format("2006-01"), rows[0]["month"].(string))
	require.Equal(t, 3000.0, rows[0]["income"].(float64))
	require.Equal(t, 1200.0, rows[0]["expense"].(float64))
	require.Equal(t, 1800.0, rows[0]["savings"].(float64))

	require.Equal(t, now.Format("2006-01"), rows[1]["month"].(string))
	require.Equal(t, 3000.0, rows[1]["savings"].(float64))
}

func TestDashboardReport(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Dash", "dash@example.com")
	checking := createTestAccount(t, r, token, "Checking", 1000)
	savings := createTestAccount(t, r, token, "Savings", 5000)
	income := seededCategoryID(t, r, token, "income", "Salary")
	expense := seededCategoryID(t, r, token, "expense", "Groceries")

	// an inactive account must not count toward the total
	rec := performRequest(r, http.MethodPut, fmt.Sprintf("/accounts/%d", savings),
		map[string]any{"isActive": false}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the budget must exist before the expenses so they accrue into it
	now := time.Now().UTC()
	budgetID := createTestBudget(t, r, token, expense, 1000, now.AddDate(0, 0, -1), now.AddDate(0, 0, 30))

	createTestTransaction(t, r, token, "income", income, checking, 2000, now)
	for i := 0; i < 6; i++ {
		createTestTransaction(t, r, token, "expense", expense, checking, 50, now)
	}

	rec = performRequest(r, http.MethodGet, "/reports/dashboard", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeObject(t, rec)

	// 1000 + 2000 - 300, savings account excluded
	require.Equal(t, 2700.0, resp["totalBalance"].(float64))
	require.Equal(t, 2000.0, resp["monthIncome"].(float64))
	require.Equal(t, 300.0, resp["monthExpense"].(float64))
	require.Equal(t, 1700.0, resp["monthSavings"].(float64))
	require.Len(t, resp["recentTransactions"].([]any), 5)

	budgets := resp["budgets"].([]any)
	require.Len(t, budgets, 1)
	row := budgets[0].(map[string]any)
	require.Equal(t, float64(budgetID), row["id"].(float64))
	require.Equal(t, 300.0, row["spent"].(float64))
	require.InDelta(t, 30.0, row["percentageUsed"].(float64), 1e-9)
}

func TestAccountBalancesReport(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Hist", "hist@example.com")
	acct := createTestAccount(t, r, token, "Main", 0)
	other := createTestAccount(t, r, token, "Other", 500)
	income := seededCategoryID(t, r, token, "income", "Salary")
	expense := seededCategoryID(t, r, token, "expense", "Rent")

	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	createTestTransaction(t, r, token, "income", income, acct, 1000, base)
	createTestTransaction(t, r, token, "expense", expense, acct, 400, base.AddDate(0, 0, 1))

	// transfers bypass the ledger, so the replayed history drifts from the
	// stored balance afterwards
	rec := performRequest(r, http.MethodPost, "/accounts/transfer", map[string]any{
		"fromAccountId": other, "toAccountId": acct, "amount": 200,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = performRequest(r, http.MethodGet, "/reports/account-balances", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows := decodeList(t, rec)
	require.Len(t, rows, 2)

	var main map[string]any
	for _, row := range rows {
		if row["name"].(string) == "Main" {
			main = row
		}
	}
	require.NotNil(t, main)
	require.Equal(t, 800.0, main["currentBalance"].(float64))

	history := main["balanceHistory"].([]any)
	require.Len(t, history, 2)
	require.Equal(t, 1000.0, history[0].(map[string]any)["balance"].(float64))
	require.Equal(t, 600.0, history[1].(map[string]any)["balance"].(float64))
}
