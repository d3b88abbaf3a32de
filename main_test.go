package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer wires the full router against a fresh in-memory database so
// every test exercises the real handler stack.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	decimal.MarshalJSONWithoutQuotes = true

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	var err error
	db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so the shared in-memory database survives the whole test
	sqlDB.SetMaxOpenConns(1)
	migrateModels()

	r := gin.New()
	setupRoutes(r)
	return r
}

// performRequest sends body (marshalled to JSON when non-nil) with an optional
// bearer token.
func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// registerUser registers a fresh user and returns its bearer token.
func registerUser(t *testing.T, r http.Handler, name, email string) string {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/auth/register",
		map[string]string{"name": name, "email": email, "password": "secret123"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())
	token, _ := decodeObject(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createTestAccount(t *testing.T, r http.Handler, token, name string, balance float64) uint {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/accounts",
		map[string]any{"name": name, "type": "bank", "balance": balance}, token)
	require.Equal(t, http.StatusCreated, rec.Code, "create account failed: %s", rec.Body.String())
	return uint(decodeObject(t, rec)["id"].(float64))
}

// seededCategoryID looks up one of the categories created at registration.
func seededCategoryID(t *testing.T, r http.Handler, token, ctype, name string) uint {
	t.Helper()
	rec := performRequest(r, http.MethodGet, "/categories?type="+ctype, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, cat := range decodeList(t, rec) {
		if cat["name"] == name {
			return uint(cat["id"].(float64))
		}
	}
	t.Fatalf("seeded category %q (%s) not found", name, ctype)
	return 0
}

func createTestTransaction(t *testing.T, r http.Handler, token, ttype string, categoryID, accountID uint, amount float64, date time.Time) uint {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/transactions", map[string]any{
		"type":       ttype,
		"categoryId": categoryID,
		"accountId":  accountID,
		"amount":     amount,
		"date":       date.Format(time.RFC3339),
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, "create transaction failed: %s", rec.Body.String())
	return uint(decodeObject(t, rec)["id"].(float64))
}

func accountBalance(t *testing.T, r http.Handler, token string, id uint) float64 {
	t.Helper()
	rec := performRequest(r, http.MethodGet, fmt.Sprintf("/accounts/%d", id), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeObject(t, rec)["balance"].(float64)
}
