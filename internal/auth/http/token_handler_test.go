package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	authService "github.com/queryware/sqlgate/internal/auth/service"
)

func newTokenRouter(t *testing.T) (*gin.Engine, authService.TokenService) {
	t.Helper()
	tokenService := authService.NewTokenService("test-signing-secret", 30*time.Minute)
	handler := NewTokenHandler(tokenService, createTestLogger())

	router := gin.New()
	router.POST("/v1/token", handler.IssueTokenHandler)
	return router, tokenService
}

func TestIssueTokenHandler_Success(t *testing.T) {
	router, tokenService := newTokenRouter(t)

	body := `{"subject": "analyst_7", "capabilities": ["read", "query"]}`
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/v1/token", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.True(t, response.ExpiresAt.After(time.Now()))

	// The issued token verifies back to the requested principal.
	principal, err := tokenService.Verify(response.Token)
	require.NoError(t, err)
	assert.Equal(t, "analyst_7", principal.Identity)
	assert.True(t, principal.HasCapability(authDomain.ReadCapability))
	assert.True(t, principal.HasCapability(authDomain.QueryCapability))
	assert.False(t, principal.HasCapability(authDomain.AdminCapability))
}

func TestIssueTokenHandler_RejectsBadRequests(t *testing.T) {
	router, _ := newTokenRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"subject": `},
		{"blank subject", `{"subject": " ", "capabilities": ["query"]}`},
		{"no capabilities", `{"subject": "analyst_7", "capabilities": []}`},
		{"unknown capability", `{"subject": "analyst_7", "capabilities": ["superuser"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/v1/token", strings.NewReader(tt.body))
			request.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		})
	}
}

func TestWhoamiHandler(t *testing.T) {
	tokenService := authService.NewTokenService("test-signing-secret", 30*time.Minute)
	handler := NewTokenHandler(tokenService, createTestLogger())

	authenticator := &mockAuthenticator{}
	authenticator.On("Authenticate", "demo-key-123").Return(queryPrincipal(), nil).Once()

	router := gin.New()
	router.GET("/v1/whoami",
		AuthenticationMiddleware(authenticator, createTestLogger()),
		handler.WhoamiHandler)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	request.Header.Set("Authorization", "Bearer demo-key-123")
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Identity       string   `json:"identity"`
		Capabilities   []string `json:"capabilities"`
		CredentialKind string   `json:"credential_kind"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "demo_user", response.Identity)
	assert.Equal(t, []string{"read", "query"}, response.Capabilities)
	assert.Equal(t, "static-key", response.CredentialKind)
}
