package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/queryware/sqlgate/internal/query/validator"
)

// validateQueryOutput is the JSON shape printed by RunValidateQuery.
type validateQueryOutput struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Fragment string `json:"fragment,omitempty"`
}

// RunValidateQuery runs a SQL statement through the validation pipeline and
// prints the verdict without touching any database. Useful for checking
// whether a query would be admitted before wiring it into a caller.
func RunValidateQuery(io IOTuple, maxLength int, sqlText string, format string) error {
	if strings.TrimSpace(sqlText) == "" {
		return fmt.Errorf("sql text must not be blank")
	}

	verdict := validator.NewValidator(maxLength).Validate(sqlText)

	switch format {
	case "json":
		output := validateQueryOutput{
			Accepted: verdict.Accepted,
			Reason:   verdict.Reason,
			Fragment: verdict.Fragment,
		}
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return err
		}
	case "text":
		if verdict.Accepted {
			fmt.Fprintln(io.Writer, "accepted")
		} else {
			fmt.Fprintf(io.Writer, "rejected: %s\n", verdict.Reason)
			if verdict.Fragment != "" {
				fmt.Fprintf(io.Writer, "fragment: %s\n", verdict.Fragment)
			}
		}
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	if !verdict.Accepted {
		return fmt.Errorf("query rejected")
	}

	return nil
}
