package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authService "github.com/queryware/sqlgate/internal/auth/service"
	"github.com/queryware/sqlgate/internal/ratelimit"
)

const adminTestKeys = `[
	{"key": "demo-key-123", "identity": "demo_user", "capabilities": ["read", "query"]},
	{"key": "admin-key-456", "identity": "admin_user", "capabilities": ["read", "query", "admin"]}
]`

func newAdminRouter(t *testing.T, governor *ratelimit.Governor) *gin.Engine {
	t.Helper()
	store, err := authService.NewCredentialStore(adminTestKeys)
	require.NoError(t, err)

	handler := NewAdminHandler(governor, store, createTestLogger())

	router := gin.New()
	router.GET("/v1/admin/rate-limits", handler.ListRateLimitsHandler)
	router.DELETE("/v1/admin/rate-limits/:identity", handler.ClearRateLimitHandler)
	router.GET("/v1/admin/stats", handler.StatsHandler)
	router.GET("/v1/admin/keys", handler.ListKeysHandler)
	return router
}

func TestAdminHandler_ListRateLimits(t *testing.T) {
	governor := ratelimit.NewGovernor(5, time.Minute)
	governor.Allow("demo_user", time.Now())

	router := newAdminRouter(t, governor)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/admin/rate-limits", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Limit   int    `json:"limit"`
		Window  string `json:"window"`
		Windows []struct {
			Identity string `json:"identity"`
			Count    int    `json:"count"`
		} `json:"windows"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 5, response.Limit)
	assert.Equal(t, "1m0s", response.Window)
	require.Len(t, response.Windows, 1)
	assert.Equal(t, "demo_user", response.Windows[0].Identity)
	assert.Equal(t, 1, response.Windows[0].Count)
}

func TestAdminHandler_ClearRateLimit(t *testing.T) {
	governor := ratelimit.NewGovernor(1, time.Minute)
	governor.Allow("demo_user", time.Now())

	router := newAdminRouter(t, governor)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/v1/admin/rate-limits/demo_user", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"cleared":true`)

	// Clearing an unknown identity reports cleared=false.
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/v1/admin/rate-limits/ghost", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"cleared":false`)
}

func TestAdminHandler_Stats(t *testing.T) {
	governor := ratelimit.NewGovernor(100, time.Minute)
	router := newAdminRouter(t, governor)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["registered_keys"])
	assert.Equal(t, float64(100), response["rate_limit"])
}

func TestAdminHandler_ListKeysNeverExposesKeyValues(t *testing.T) {
	router := newAdminRouter(t, ratelimit.NewGovernor(1, time.Minute))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/admin/keys", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "demo_user")
	assert.NotContains(t, recorder.Body.String(), "demo-key-123")
	assert.NotContains(t, recorder.Body.String(), "admin-key-456")
}
