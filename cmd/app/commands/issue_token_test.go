package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	authService "github.com/queryware/sqlgate/internal/auth/service"
)

func testTokenService() authService.TokenService {
	return authService.NewTokenService("test-signing-secret", time.Hour)
}

func TestRunIssueToken_TextFormat(t *testing.T) {
	var out bytes.Buffer
	io := IOTuple{Reader: strings.NewReader(""), Writer: &out}

	err := RunIssueToken(testTokenService(), io, "reporting_service", "read,query", "text")
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Token:")
	assert.Contains(t, output, "reporting_service")
	assert.Contains(t, output, "read, query")
}

func TestRunIssueToken_JSONFormatRoundTrips(t *testing.T) {
	var out bytes.Buffer
	io := IOTuple{Reader: strings.NewReader(""), Writer: &out}

	tokenService := testTokenService()
	err := RunIssueToken(tokenService, io, "reporting_service", "query", "json")
	require.NoError(t, err)

	var output issueTokenOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &output))
	assert.Equal(t, "reporting_service", output.Subject)
	assert.Equal(t, []string{"query"}, output.Scope)

	// The printed token must verify against the same service.
	principal, err := tokenService.Verify(output.Token)
	require.NoError(t, err)
	assert.Equal(t, "reporting_service", principal.Identity)
	assert.True(t, principal.HasCapability(authDomain.QueryCapability))
}

func TestRunIssueToken_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name         string
		subject      string
		capabilities string
		format       string
	}{
		{"blank subject", "  ", "query", "text"},
		{"no capabilities", "svc", " , ", "text"},
		{"unknown capability", "svc", "superuser", "text"},
		{"bad format", "svc", "query", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			io := IOTuple{Reader: strings.NewReader(""), Writer: &out}

			err := RunIssueToken(testTokenService(), io, tt.subject, tt.capabilities, tt.format)
			assert.Error(t, err)
		})
	}
}
