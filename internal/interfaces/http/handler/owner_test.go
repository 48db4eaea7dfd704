package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	portfolioapp "github.com/pms/backend/internal/application/portfolio"
	"github.com/pms/backend/internal/infrastructure/persistence"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"github.com/pms/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOwnerRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.OwnerModel{},
		&models.OwnerWalletModel{},
		&models.WalletTransactionModel{},
	))

	ownerService := portfolioapp.NewOwnerService(
		persistence.NewGormOwnerRepository(db),
		persistence.NewGormWalletRepository(db),
	)
	h := NewOwnerHandler(ownerService)

	router := gin.New()
	router.POST("/owners", h.Create)
	router.GET("/owners", h.List)
	router.GET("/owners/:id", h.GetByID)
	router.DELETE("/owners/:id", h.Delete)
	return router
}

func TestOwnerHandlerCreateAndGet(t *testing.T) {
	router := setupOwnerRouter(t)

	body := `{"code":"OWN-001","name":"Kwame Asante","email":"kwame@example.com","preferred_currency":"GHS"}`
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/owners", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	resp := decodeResponse(t, recorder)
	assert.True(t, resp.Success)

	created, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/owners/"+id, nil)
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Kwame Asante")
	assert.Contains(t, recorder.Body.String(), "GHS")
}

func TestOwnerHandlerCreateRejectsBadPayload(t *testing.T) {
	router := setupOwnerRouter(t)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/owners", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
}

func TestOwnerHandlerDuplicateCodeConflicts(t *testing.T) {
	router := setupOwnerRouter(t)

	body := `{"code":"OWN-001","name":"Kwame Asante"}`
	for _, expected := range []int{http.StatusCreated, http.StatusConflict} {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/owners", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(recorder, req)
		assert.Equal(t, expected, recorder.Code)
	}
}

func TestOwnerHandlerGetUnknownID(t *testing.T) {
	router := setupOwnerRouter(t)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/owners/0d2f7f6e-6b67-4f2c-9f44-1df9a13c1f10", nil)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestOwnerHandlerListScopedToOwnRecord(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.OwnerModel{},
		&models.OwnerWalletModel{},
		&models.WalletTransactionModel{},
	))

	ownerService := portfolioapp.NewOwnerService(
		persistence.NewGormOwnerRepository(db),
		persistence.NewGormWalletRepository(db),
	)
	h := NewOwnerHandler(ownerService)

	ctx := context.Background()
	own, err := ownerService.Create(ctx, portfolioapp.CreateOwnerRequest{Code: "OWN-001", Name: "Kwame Asante"})
	require.NoError(t, err)
	other, err := ownerService.Create(ctx, portfolioapp.CreateOwnerRequest{Code: "OWN-002", Name: "Abena Osei"})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/owners", func(c *gin.Context) {
		c.Set(middleware.JWTRoleKey, "OWNER")
		c.Set(middleware.JWTOwnerIDKey, own.ID.String())
	}, h.List)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/owners", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeResponse(t, recorder)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Contains(t, recorder.Body.String(), own.ID.String())
	assert.NotContains(t, recorder.Body.String(), other.ID.String())
}

func TestOwnerHandlerListPaginates(t *testing.T) {
	router := setupOwnerRouter(t)

	for _, code := range []string{"OWN-001", "OWN-002", "OWN-003"} {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/owners",
			strings.NewReader(`{"code":"`+code+`","name":"Owner `+code+`"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(recorder, req)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/owners?page=1&page_size=2", nil)
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeResponse(t, recorder)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}
