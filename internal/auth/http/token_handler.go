package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	"github.com/queryware/sqlgate/internal/auth/http/dto"
	authService "github.com/queryware/sqlgate/internal/auth/service"
	"github.com/queryware/sqlgate/internal/httputil"
	customValidation "github.com/queryware/sqlgate/internal/validation"
)

// TokenHandler handles HTTP requests for token operations.
type TokenHandler struct {
	tokenService authService.TokenService
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokenService authService.TokenService,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
		logger:       logger,
	}
}

// IssueTokenHandler issues a signed token for a subject and capability set.
// POST /v1/token - unauthenticated in development mode; production
// deployments should front this with their identity provider. Per-IP rate
// limiting applies.
// Returns 201 Created with the token and its expiration time.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Request validation already rejected unknown names.
	capabilities, err := authDomain.ParseCapabilities(req.Capabilities)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	token, expiresAt, err := h.tokenService.Issue(req.Subject, capabilities)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("token issued",
		slog.String("subject", req.Subject),
		slog.Time("expires_at", expiresAt))

	response := dto.IssueTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}

	c.JSON(http.StatusCreated, response)
}

// WhoamiHandler returns the principal resolved for the presented credential.
// GET /v1/whoami - requires any valid credential, no specific capability.
func (h *TokenHandler) WhoamiHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, authDomain.ErrInvalidCredentials, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPrincipalToWhoamiResponse(principal))
}
