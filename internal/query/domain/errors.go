package domain

import (
	"github.com/queryware/sqlgate/internal/errors"
)

// Query-specific error definitions.
var (
	// ErrTemplateNotFound indicates no template is registered under the given ID.
	ErrTemplateNotFound = errors.Wrap(errors.ErrNotFound, "query template not found")
	// ErrDatasetNotFound indicates the requested table does not exist.
	ErrDatasetNotFound = errors.Wrap(errors.ErrNotFound, "dataset not found")
)
