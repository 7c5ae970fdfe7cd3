package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	authService "github.com/queryware/sqlgate/internal/auth/service"
)

// issueTokenOutput is the JSON shape printed by RunIssueToken.
type issueTokenOutput struct {
	Token     string   `json:"token"`
	Subject   string   `json:"subject"`
	Scope     []string `json:"capabilities"`
	ExpiresAt string   `json:"expires_at"`
}

// RunIssueToken issues a signed token for a subject and capability set and
// prints it. Intended for operators bootstrapping callers without going
// through the HTTP token endpoint.
func RunIssueToken(
	tokenService authService.TokenService,
	io IOTuple,
	subject string,
	capabilitiesStr string,
	format string,
) error {
	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("subject must not be blank")
	}

	names := parseCapabilityNames(capabilitiesStr)
	if len(names) == 0 {
		return fmt.Errorf("at least one capability is required")
	}

	capabilities, err := authDomain.ParseCapabilities(names)
	if err != nil {
		return err
	}

	token, expiresAt, err := tokenService.Issue(subject, capabilities)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	switch format {
	case "json":
		output := issueTokenOutput{
			Token:     token,
			Subject:   subject,
			Scope:     names,
			ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	case "text":
		fmt.Fprintf(io.Writer, "Token:      %s\n", token)
		fmt.Fprintf(io.Writer, "Subject:    %s\n", subject)
		fmt.Fprintf(io.Writer, "Scope:      %s\n", strings.Join(names, ", "))
		fmt.Fprintf(io.Writer, "Expires at: %s\n", expiresAt.Format("2006-01-02T15:04:05Z07:00"))
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}

// parseCapabilityNames splits a comma-separated capability list and trims
// whitespace.
func parseCapabilityNames(capabilitiesStr string) []string {
	parts := strings.Split(capabilitiesStr, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
