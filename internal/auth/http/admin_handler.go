package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/queryware/sqlgate/internal/auth/http/dto"
	authService "github.com/queryware/sqlgate/internal/auth/service"
	"github.com/queryware/sqlgate/internal/ratelimit"
)

// AdminHandler handles administrative HTTP requests: rate window inspection
// and gateway statistics. All routes require the admin capability.
type AdminHandler struct {
	governor  *ratelimit.Governor
	store     authService.CredentialStore
	startedAt time.Time
	logger    *slog.Logger
}

// NewAdminHandler creates a new admin handler with required dependencies.
func NewAdminHandler(
	governor *ratelimit.Governor,
	store authService.CredentialStore,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		governor:  governor,
		store:     store,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// ListRateLimitsHandler returns the governor's active windows.
// GET /v1/admin/rate-limits - requires admin capability.
func (h *AdminHandler) ListRateLimitsHandler(c *gin.Context) {
	snapshot := h.governor.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"limit":   h.governor.Limit(),
		"window":  h.governor.Window().String(),
		"windows": snapshot,
	})
}

// ClearRateLimitHandler clears one identity's window, giving it fresh quota.
// DELETE /v1/admin/rate-limits/:identity - requires admin capability.
func (h *AdminHandler) ClearRateLimitHandler(c *gin.Context) {
	identity := c.Param("identity")

	cleared := h.governor.Clear(identity)
	h.logger.Info("rate limit window cleared",
		slog.String("identity", identity),
		slog.Bool("had_window", cleared))

	c.JSON(http.StatusOK, gin.H{
		"identity": identity,
		"cleared":  cleared,
	})
}

// StatsHandler returns gateway statistics.
// GET /v1/admin/stats - requires admin capability.
func (h *AdminHandler) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"uptime":          time.Since(h.startedAt).String(),
		"registered_keys": len(h.store.Keys()),
		"active_windows":  len(h.governor.Snapshot()),
		"rate_limit":      h.governor.Limit(),
		"rate_window":     h.governor.Window().String(),
	})
}

// ListKeysHandler returns the registered static keys without key values.
// GET /v1/admin/keys - requires admin capability.
func (h *AdminHandler) ListKeysHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": dto.MapKeysToListResponse(h.store.Keys()),
	})
}
