package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	apperrors "github.com/queryware/sqlgate/internal/errors"
)

// tokenClaims carries the capability set alongside the registered JWT claims.
type tokenClaims struct {
	Capabilities []string `json:"capabilities"`
	jwt.RegisteredClaims
}

// tokenService implements TokenService using HMAC-SHA256 signed JWTs.
type tokenService struct {
	secret     []byte
	expiration time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
// Tokens expire after the configured duration.
func NewTokenService(secret string, expiration time.Duration) TokenService {
	return &tokenService{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Issue creates a signed token asserting the subject and capability set.
func (t *tokenService) Issue(
	subject string,
	capabilities []authDomain.Capability,
) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(t.expiration)

	names := make([]string, len(capabilities))
	for i, capability := range capabilities {
		names[i] = string(capability)
	}

	claims := tokenClaims{
		Capabilities: names,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign token")
	}

	return signed, expiresAt, nil
}

// Verify checks signature and expiry and decodes the asserted principal.
// Capability names inside the token are re-validated against the closed set so
// a token minted with a now-removed capability name cannot smuggle it in.
func (t *tokenService) Verify(token string) (*authDomain.Principal, error) {
	claims := &tokenClaims{}

	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(tok *jwt.Token) (any, error) {
			// Restrict to the single signing method in use.
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperrors.New("unexpected signing method")
			}
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return nil, authDomain.ErrTokenExpired
		}
		return nil, authDomain.ErrInvalidCredentials
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, authDomain.ErrInvalidCredentials
	}

	capabilities, err := authDomain.ParseCapabilities(claims.Capabilities)
	if err != nil {
		return nil, authDomain.ErrInvalidCredentials
	}

	expiresAt := claims.ExpiresAt.Time

	return &authDomain.Principal{
		Identity:     claims.Subject,
		Capabilities: capabilities,
		Kind:         authDomain.TokenCredential,
		ExpiresAt:    &expiresAt,
	}, nil
}
