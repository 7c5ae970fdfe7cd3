// Package service implements the query template registry. Templates are
// pre-approved SELECT statements loaded once at startup and read-only for the
// process lifetime, so lookups need no synchronization.
package service

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/query/domain"
)

// TemplateStore holds the registered query templates indexed by ID.
type TemplateStore struct {
	templates map[string]*domain.Template
}

type templateFile struct {
	Templates []domain.Template `yaml:"templates"`
}

// NewTemplateStore loads templates from a YAML file. An empty path yields an
// empty store. Malformed templates fail here, at startup, not at request time.
func NewTemplateStore(path string) (*TemplateStore, error) {
	store := &TemplateStore{templates: make(map[string]*domain.Template)}
	if path == "" {
		return store, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse templates file: %w", err)
	}

	for i := range file.Templates {
		template := file.Templates[i]
		if err := validateTemplate(&template); err != nil {
			return nil, err
		}
		if _, exists := store.templates[template.ID]; exists {
			return nil, fmt.Errorf("duplicate template ID %q", template.ID)
		}
		store.templates[template.ID] = &template
	}

	return store, nil
}

// Get returns the template registered under the given ID.
func (s *TemplateStore) Get(id string) (*domain.Template, error) {
	template, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return template, nil
}

// List returns all registered templates ordered by ID.
func (s *TemplateStore) List() []*domain.Template {
	out := make([]*domain.Template, 0, len(s.templates))
	for _, template := range s.templates {
		out = append(out, template)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func validateTemplate(template *domain.Template) error {
	if strings.TrimSpace(template.ID) == "" {
		return fmt.Errorf("template ID cannot be blank")
	}
	if strings.TrimSpace(template.SQL) == "" {
		return fmt.Errorf("template %q has no SQL body", template.ID)
	}
	if !strings.EqualFold(firstWord(template.SQL), "SELECT") {
		return fmt.Errorf("template %q must be a SELECT statement", template.ID)
	}

	specs := make(map[string]bool, len(template.Params))
	for _, param := range template.Params {
		if strings.TrimSpace(param.Name) == "" {
			return fmt.Errorf("template %q has a parameter with no name", template.ID)
		}
		if _, err := domain.ParseParamType(string(param.Type)); err != nil {
			return fmt.Errorf("template %q parameter %q: %w", template.ID, param.Name, err)
		}
		if specs[param.Name] {
			return fmt.Errorf("template %q declares parameter %q twice", template.ID, param.Name)
		}
		specs[param.Name] = true
	}

	// Placeholders and declared parameters must match exactly.
	placeholders := placeholderNames(template.SQL)
	for name := range placeholders {
		if !specs[name] {
			return fmt.Errorf("template %q references undeclared parameter %q", template.ID, name)
		}
	}
	for name := range specs {
		if !placeholders[name] {
			return fmt.Errorf("template %q declares unused parameter %q", template.ID, name)
		}
	}

	return nil
}

// placeholderNames collects :name placeholders outside string literals.
func placeholderNames(sqlText string) map[string]bool {
	names := make(map[string]bool)
	inSingle, inDouble := false, false
	for i := 0; i < len(sqlText); i++ {
		c := sqlText[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == ':':
			if i+1 < len(sqlText) && sqlText[i+1] == ':' {
				i++
				continue
			}
			j := i + 1
			for j < len(sqlText) && isIdentByte(sqlText[j]) {
				j++
			}
			if j > i+1 {
				names[sqlText[i+1:j]] = true
			}
			i = j - 1
		}
	}
	return names
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func firstWord(sqlText string) string {
	fields := strings.Fields(sqlText)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// BindValues checks supplied values against a template's parameter specs and
// returns the typed map handed to the executor. Unknown names, missing
// required parameters and out-of-range values are invalid input.
func BindValues(template *domain.Template, values map[string]any) (map[string]any, error) {
	specs := make(map[string]domain.ParamSpec, len(template.Params))
	for _, param := range template.Params {
		specs[param.Name] = param
	}

	for name := range values {
		if _, ok := specs[name]; !ok {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput,
				fmt.Sprintf("unknown parameter %q", name))
		}
	}

	bound := make(map[string]any, len(template.Params))
	for _, param := range template.Params {
		value, supplied := values[param.Name]
		if !supplied {
			if param.Required {
				return nil, apperrors.Wrap(apperrors.ErrInvalidInput,
					fmt.Sprintf("missing required parameter %q", param.Name))
			}
			bound[param.Name] = nil
			continue
		}
		typed, err := param.Coerce(value)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
		}
		bound[param.Name] = typed
	}

	return bound, nil
}
