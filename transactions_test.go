package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBalanceRoundTrip(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Round", "round@example.com")
	acct := createTestAccount(t, r, token, "Main", 500)
	income := seededCategoryID(t, r, token, "income", "Salary")
	expense := seededCategoryID(t, r, token, "expense", "Groceries")

	now := time.Now().UTC()
	createTestTransaction(t, r, token, "income", income, acct, 123.45, now)
	require.Equal(t, 623.45, accountBalance(t, r, token, acct))

	createTestTransaction(t, r, token, "expense", expense, acct, 123.45, now)
	require.Equal(t, 500.0, accountBalance(t, r, token, acct))
}

func TestDeleteRestoresBalance(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Rest", "rest@example.com")
	acct := createTestAccount(t, r, token, "Main", 1000)
	cat := seededCategoryID(t, r, token, "expense", "Shopping")

	id := createTestTransaction(t, r, token, "expense", cat, acct, 250, time.Now().UTC())
	require.Equal(t, 750.0, accountBalance(t, r, token, acct))

	rec := performRequest(r, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1000.0, accountBalance(t, r, token, acct))
}

func TestUpdateSameAccountNetsEffect(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Net", "net@example.com")
	acct := createTestAccount(t, r, token, "Main", 1000)
	income := seededCategoryID(t, r, token, "income", "Salary")

	id := createTestTransaction(t, r, token, "income", income, acct, 100, time.Now().UTC())
	require.Equal(t, 1100.0, accountBalance(t, r, token, acct))

	// shrink the amount: old effect reversed, new applied, one account save
	rec := performRequest(r, http.MethodPut, fmt.Sprintf("/transactions/%d", id),
		map[string]any{"amount": 40}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1040.0, accountBalance(t, r, token, acct))

	// flip the type: +40 becomes -40
	expense := seededCategoryID(t, r, token, "expense", "Groceries")
	rec = performRequest(r, http.MethodPut, fmt.Sprintf("/transactions/%d", id),
		map[string]any{"type": "expense", "categoryId": expense}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 960.0, accountBalance(t, r, token, acct))
}

func TestUpdateMovesBetweenAccounts(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Move", "move@example.com")
	first := createTestAccount(t, r, token, "First", 1000)
	second := createTestAccount(t, r, token, "Second", 1000)
	cat := seededCategoryID(t, r, token, "expense", "Rent")

	id := createTestTransaction(t, r, token, "expense", cat, first, 300, time.Now().UTC())
	require.Equal(t, 700.0, accountBalance(t, r, token, first))

	rec := performRequest(r, http.MethodPut, fmt.Sprintf("/transactions/%d", id),
		map[string]any{"accountId": second}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1000.0, accountBalance(t, r, token, first))
	require.Equal(t, 700.0, accountBalance(t, r, token, second))
}

func TestCreateTransactionValidation(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Val", "val@example.com")
	acct := createTestAccount(t, r, token, "Main", 100)
	cat := seededCategoryID(t, r, token, "expense", "Groceries")

	// missing required fields
	rec := performRequest(r, http.MethodPost, "/transactions",
		map[string]any{"type": "expense", "amount": 10}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// negative amount
	rec = performRequest(r, http.MethodPost, "/transactions",
		map[string]any{"type": "expense", "categoryId": cat, "accountId": acct, "amount": -10}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown type
	rec = performRequest(r, http.MethodPost, "/transactions",
		map[string]any{"type": "loan", "categoryId": cat, "accountId": acct, "amount": 10}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// nonexistent category
	rec = performRequest(r, http.MethodPost, "/transactions",
		map[string]any{"type": "expense", "categoryId": 9999, "accountId": acct, "amount": 10}, token)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// recurring requires a valid frequency
	rec = performRequest(r, http.MethodPost, "/transactions",
		map[string]any{"type": "expense", "categoryId": cat, "accountId": acct, "amount": 10, "isRecurring": true}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// nothing was written by the failed attempts
	require.Equal(t, 100.0, accountBalance(t, r, token, acct))
}

func TestTransactionResponseInlinesRelations(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Inline", "inline@example.com")
	acct := createTestAccount(t, r, token, "Main", 100)
	cat := seededCategoryID(t, r, token, "expense", "Healthcare")

	rec := performRequest(r, http.MethodPost, "/transactions", map[string]any{
		"type": "expense", "categoryId": cat, "accountId": acct, "amount": 42,
		"tags": []string{"doctor", "cash"},
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeObject(t, rec)
	require.Equal(t, "Healthcare", resp["category"].(map[string]any)["name"])
	require.Equal(t, "Main", resp["account"].(map[string]any)["name"])
	require.ElementsMatch(t, []any{"doctor", "cash"}, resp["tags"].([]any))
}

func TestTransactionOwnerScoping(t *testing.T) {
	r := setupTestServer(t)
	tokenA := registerUser(t, r, "OwnerA", "oa@example.com")
	tokenB := registerUser(t, r, "OwnerB", "ob@example.com")
	acct := createTestAccount(t, r, tokenA, "Main", 100)
	cat := seededCategoryID(t, r, tokenA, "expense", "Groceries")
	id := createTestTransaction(t, r, tokenA, "expense", cat, acct, 10, time.Now().UTC())

	rec := performRequest(r, http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil, tokenB)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(r, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, tokenB)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(r, http.MethodGet, "/transactions/424242", nil, tokenB)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactionListFiltersAndPagination(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "List", "list@example.com")
	acct := createTestAccount(t, r, token, "Main", 0)
	expense := seededCategoryID(t, r, token, "expense", "Groceries")
	income := seededCategoryID(t, r, token, "income", "Salary")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createTestTransaction(t, r, token, "expense", expense, acct, 10, base.AddDate(0, 0, i))
	}
	createTestTransaction(t, r, token, "income", income, acct, 100, base)

	rec := performRequest(r, http.MethodGet, "/transactions?type=expense", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeObject(t, rec)
	require.Equal(t, 5.0, resp["total"].(float64))

	rec = performRequest(r, http.MethodGet, "/transactions?type=expense&limit=2&page=2", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeObject(t, rec)
	require.Len(t, resp["transactions"].([]any), 2)
	require.Equal(t, 3.0, resp["pages"].(float64))

	rec = performRequest(r, http.MethodGet,
		"/transactions?startDate=2026-03-03&endDate=2026-03-04", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2.0, decodeObject(t, rec)["total"].(float64))
}

func TestTransactionStats(t *testing.T) {
	r := setupTestServer(t)
	token := registerUser(t, r, "Stats", "stats@example.com")
	acct := createTestAccount(t, r, token, "Main", 0)
	expense := seededCategoryID(t, r, token, "expense", "Groceries")
	income := seededCategoryID(t, r, token, "income", "Salary")

	now := time.Now().UTC()
	createTestTransaction(t, r, token, "income", income, acct, 1000, now)
	createTestTransaction(t, r, token, "expense", expense, acct, 300, now)
	createTestTransaction(t, r, token, "expense", expense, acct, 200, now)

	rec := performRequest(r, http.MethodGet, "/transactions/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeObject(t, rec)
	require.Equal(t, 1000.0, resp["income"].(float64))
	require.Equal(t, 500.0, resp["expense"].(float64))
	require.Equal(t, 1.0, resp["incomeCount"].(float64))
	require.Equal(t, 2.0, resp["expenseCount"].(float64))
	require.Equal(t, 500.0, resp["balance"].(float64))
}
