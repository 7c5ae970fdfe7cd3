// Package validator implements the deny-by-default SQL gate for free-text
// queries. It accepts only single SELECT statements and rejects anything
// matching the keyword denylist or a known injection signature. The validator
// never rewrites the query; parametrized execution provides the actual
// injection safety on the accepted path.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/queryware/sqlgate/internal/query/domain"
)

// dangerousKeywords are rejected when found outside string literals at word
// boundaries. Comment openers and procedure prefixes are matched as plain
// substrings since they are not words.
var dangerousKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "CREATE", "TRUNCATE",
	"REPLACE", "MERGE", "EXEC", "EXECUTE", "CALL", "DECLARE", "SET",
	"GRANT", "REVOKE", "COMMIT", "ROLLBACK", "SAVEPOINT", "LOAD",
}

var dangerousTokens = []string{"--", "/*", "*/", "xp_", "sp_"}

var keywordPatterns = buildKeywordPatterns()

func buildKeywordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(dangerousKeywords))
	for _, keyword := range dangerousKeywords {
		patterns[keyword] = regexp.MustCompile(`(?i)\b` + keyword + `\b`)
	}
	return patterns
}

// Signature is one entry in the injection signature table.
type Signature struct {
	// Name identifies the attack shape; safe to surface to callers.
	Name string
	// Pattern matches the attack shape in raw query text.
	Pattern *regexp.Regexp
}

// injectionSignatures is the versioned signature table. Patterns run against
// the raw text, so attack shapes hidden inside string literals still match.
// The set is a starting contract, not a complete model of unsafe SQL.
var injectionSignatures = []Signature{
	{"stacked statement", regexp.MustCompile(`(?i);\s*(drop|delete|update|insert|alter|create|truncate)\b`)},
	{"union-based injection", regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`)},
	{"line comment", regexp.MustCompile(`--\s`)},
	{"block comment", regexp.MustCompile(`/\*.*\*/`)},
	{"extended procedure", regexp.MustCompile(`(?i)\bxp_\w+`)},
	{"system procedure", regexp.MustCompile(`(?i)\bsp_\w+`)},
	{"server variable access", regexp.MustCompile(`@@\w+`)},
	{"quoted tautology", regexp.MustCompile(`(?i)\bor\b\s*'[^']*'\s*=\s*'[^']*'`)},
	{"char() obfuscation", regexp.MustCompile(`(?i)\bchar\s*\(\s*\d+`)},
	{"hex literal obfuscation", regexp.MustCompile(`(?i)\b0x[0-9a-f]+`)},
	{"benchmark() probe", regexp.MustCompile(`(?i)\bbenchmark\s*\(`)},
	{"sleep() probe", regexp.MustCompile(`(?i)\bsleep\s*\(`)},
	{"waitfor delay probe", regexp.MustCompile(`(?i)\bwaitfor\s+delay\b`)},
}

// Signatures returns a copy of the injection signature table.
func Signatures() []Signature {
	out := make([]Signature, len(injectionSignatures))
	copy(out, injectionSignatures)
	return out
}

// Validator gates free-text SQL. It holds no mutable state and is safe for
// concurrent use.
type Validator struct {
	maxLength int
}

// NewValidator creates a validator. maxLength bounds accepted query text;
// zero disables the length check.
func NewValidator(maxLength int) *Validator {
	return &Validator{maxLength: maxLength}
}

// Validate runs the full pipeline and short-circuits on the first failure.
// It is deterministic and side-effect-free.
func (v *Validator) Validate(sql string) domain.Verdict {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return domain.Reject("query cannot be empty")
	}
	if v.maxLength > 0 && len(sql) > v.maxLength {
		return domain.Reject(fmt.Sprintf("query exceeds maximum length of %d characters", v.maxLength))
	}

	if verdict := checkBalance(trimmed); !verdict.Accepted {
		return verdict
	}
	if verdict := checkSingleStatement(trimmed); !verdict.Accepted {
		return verdict
	}
	if verdict := checkStatementKind(trimmed); !verdict.Accepted {
		return verdict
	}
	if verdict := checkDangerousKeywords(trimmed); !verdict.Accepted {
		return verdict
	}
	if verdict := checkInjectionSignatures(trimmed); !verdict.Accepted {
		return verdict
	}
	return domain.Accept()
}

// checkBalance rejects text with unbalanced parentheses or an odd number of
// unescaped quote characters of either kind.
func checkBalance(sql string) domain.Verdict {
	depth := 0
	singles, doubles := 0, 0
	escaped := false
	for _, r := range sql {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return domain.Reject("unbalanced parentheses in query")
			}
		case '\'':
			singles++
		case '"':
			doubles++
		}
	}
	if depth != 0 {
		return domain.Reject("unbalanced parentheses in query")
	}
	if singles%2 != 0 {
		return domain.Reject("unbalanced single quotes in query")
	}
	if doubles%2 != 0 {
		return domain.Reject("unbalanced double quotes in query")
	}
	return domain.Accept()
}

// checkSingleStatement rejects text containing a semicolon outside string
// literals, after stripping one trailing semicolon.
func checkSingleStatement(sql string) domain.Verdict {
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
	if strings.ContainsRune(stripLiterals(body), ';') {
		return domain.Reject("multiple SQL statements are not allowed")
	}
	return domain.Accept()
}

// checkStatementKind rejects any statement that does not begin with SELECT
// once leading whitespace and comments are stripped.
func checkStatementKind(sql string) domain.Verdict {
	body := stripLeadingComments(sql)
	first := body
	if idx := strings.IndexFunc(body, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '('
	}); idx >= 0 {
		first = body[:idx]
	}
	if !strings.EqualFold(first, "SELECT") {
		return domain.Reject("only SELECT queries are allowed")
	}
	return domain.Accept()
}

// checkDangerousKeywords scans text outside string literals against the
// denylist and names the offending token.
func checkDangerousKeywords(sql string) domain.Verdict {
	stripped := stripLiterals(sql)
	for _, keyword := range dangerousKeywords {
		if keywordPatterns[keyword].MatchString(stripped) {
			return domain.RejectFragment(
				fmt.Sprintf("dangerous keyword %q is not allowed", keyword), keyword)
		}
	}
	upper := strings.ToUpper(stripped)
	for _, token := range dangerousTokens {
		if strings.Contains(upper, strings.ToUpper(token)) {
			return domain.RejectFragment(
				fmt.Sprintf("dangerous token %q is not allowed", token), token)
		}
	}
	return domain.Accept()
}

// checkInjectionSignatures applies the signature table to the raw text.
func checkInjectionSignatures(sql string) domain.Verdict {
	for _, sig := range injectionSignatures {
		if sig.Pattern.MatchString(sql) {
			return domain.RejectFragment("query contains potentially dangerous patterns", sig.Name)
		}
	}
	return domain.Accept()
}

// Inspect extracts structural metadata from a query. It assumes the text has
// already passed validation.
func Inspect(sql string) domain.QueryInfo {
	info := domain.QueryInfo{Type: "SELECT", Complexity: "low"}

	if joinPattern.MatchString(sql) {
		info.ContainsJoins = true
		info.Complexity = "medium"
	}
	if subqueryPattern.MatchString(sql) {
		info.ContainsSubqueries = true
		info.Complexity = "high"
	}
	if aggregationPattern.MatchString(sql) {
		info.ContainsAggregation = true
	}
	return info
}

var (
	joinPattern        = regexp.MustCompile(`(?i)\bjoin\b`)
	subqueryPattern    = regexp.MustCompile(`(?i)\(\s*select\b`)
	aggregationPattern = regexp.MustCompile(`(?i)\b(count|sum|avg|min|max)\s*\(|\bgroup\s+by\b`)
)

// stripLiterals blanks the contents of single- and double-quoted string
// literals, preserving length, so token scans cannot match inside them.
// Doubled quotes and backslash escapes stay inside the literal.
func stripLiterals(sql string) string {
	out := []rune(sql)
	const (
		stateNone = iota
		stateSingle
		stateDouble
	)
	state := stateNone
	escaped := false
	for i := 0; i < len(out); i++ {
		r := out[i]
		switch state {
		case stateNone:
			if r == '\'' {
				state = stateSingle
			} else if r == '"' {
				state = stateDouble
			}
		case stateSingle:
			if escaped {
				escaped = false
				out[i] = ' '
				continue
			}
			switch r {
			case '\\':
				escaped = true
				out[i] = ' '
			case '\'':
				// A doubled quote is an escaped quote, not a terminator.
				if i+1 < len(out) && out[i+1] == '\'' {
					out[i] = ' '
					out[i+1] = ' '
					i++
					continue
				}
				state = stateNone
			default:
				out[i] = ' '
			}
		case stateDouble:
			if escaped {
				escaped = false
				out[i] = ' '
				continue
			}
			switch r {
			case '\\':
				escaped = true
				out[i] = ' '
			case '"':
				state = stateNone
			default:
				out[i] = ' '
			}
		}
	}
	return string(out)
}

// stripLeadingComments removes leading whitespace, line comments and block
// comments so the statement verb can be identified.
func stripLeadingComments(sql string) string {
	s := strings.TrimSpace(sql)
	for {
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = strings.TrimSpace(s[idx+1:])
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx < 0 {
				return ""
			}
			s = strings.TrimSpace(s[idx+2:])
		default:
			return s
		}
	}
}
