package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/interfaces/http/dto"
	"github.com/pms/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestHandleErrorDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            shared.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "conflict",
			err:            shared.NewDomainError("ALREADY_EXISTS", "Owner code already taken"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "ALREADY_EXISTS",
		},
		{
			name:           "validation",
			err:            shared.NewDomainError("INVALID_DATE_RANGE", "check-out must be after check-in"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_DATE_RANGE",
		},
		{
			name:           "business rule",
			err:            shared.NewDomainError("STATEMENT_IMMUTABLE", "sent statements cannot change"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "STATEMENT_IMMUTABLE",
		},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext()
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			resp := decodeResponse(t, recorder)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestHandleErrorUnknownErrorIsOpaque(t *testing.T) {
	h := &BaseHandler{}
	c, recorder := newTestContext()

	h.HandleError(c, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	resp := decodeResponse(t, recorder)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, recorder.Body.String(), assert.AnError.Error())
}

func TestHandleErrorIncludesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, recorder := newTestContext()
	c.Set(middleware.RequestIDKey, "req-42")

	h.HandleError(c, shared.ErrNotFound)

	resp := decodeResponse(t, recorder)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestGetOwnerScope(t *testing.T) {
	c, _ := newTestContext()
	c.Set(middleware.JWTRoleKey, "MANAGER")
	assert.Nil(t, getOwnerScope(c))

	c.Set(middleware.JWTRoleKey, "OWNER")
	c.Set(middleware.JWTOwnerIDKey, "7b7e27b2-13db-4a70-b3e1-0a1f79af0b6d")
	scope := getOwnerScope(c)
	require.NotNil(t, scope)
	assert.Equal(t, "7b7e27b2-13db-4a70-b3e1-0a1f79af0b6d", scope.String())
}
