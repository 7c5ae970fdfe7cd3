package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	authUseCase "github.com/queryware/sqlgate/internal/auth/usecase"
	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/httputil"
)

// AuthenticationMiddleware resolves the Authorization header to a principal.
//
// The middleware:
// 1. Extracts the Bearer credential from the Authorization header (case-insensitive)
// 2. Resolves it via Authenticator.Authenticate (static key first, then signed token)
// 3. Stores the resolved principal in the request context
// 4. Allows downstream handlers to access the principal via GetPrincipal()
//
// Error handling:
//   - Missing or empty Authorization header → 401 with a no-credential code,
//     distinct from an invalid credential
//   - Malformed header, unknown key, bad signature, expired token → 401
//
// Authentication failures are never counted against the caller's rate window;
// the governor middleware runs after this one.
func AuthenticationMiddleware(
	authenticator authUseCase.Authenticator,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrNoCredential, logger)
			c.Abort()
			return
		}

		// Parse Bearer credential (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		credential := authHeader[len(bearerPrefix):]
		principal, err := authenticator.Authenticate(credential)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("identity", principal.Identity),
			slog.String("credential_kind", string(principal.Kind)))

		c.Next()
	}
}

// AuthorizationMiddleware enforces capability-based authorization for
// authenticated principals.
//
// This middleware MUST be used after AuthenticationMiddleware, as it requires
// a principal in the request context. Capabilities are checked by exact
// membership: holding "query" never implies "admin".
//
// Error handling:
//   - No principal in context → 401 (AuthenticationMiddleware not run)
//   - Principal lacks capability → 403 Forbidden
func AuthorizationMiddleware(
	capability authDomain.Capability,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		if !principal.HasCapability(capability) {
			logger.Debug("authorization failed: missing capability",
				slog.String("identity", principal.Identity),
				slog.String("capability", string(capability)))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		logger.Debug("authorization successful",
			slog.String("identity", principal.Identity),
			slog.String("capability", string(capability)))

		c.Next()
	}
}
