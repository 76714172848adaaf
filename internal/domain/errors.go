package domain

import (
	"errors"
	"fmt"

	apperrors "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/errors"
)

// ErrProductNotFound is returned when the detail join yields no rows.
var ErrProductNotFound = fmt.Errorf("product: %w", apperrors.ErrNotFound)

// StoreErrorKind distinguishes catalog store failures.
type StoreErrorKind string

const (
	StoreErrorConnection StoreErrorKind = "connection"
	StoreErrorQuery      StoreErrorKind = "query"
)

// StoreError reports that the catalog store could not be reached or rejected a query.
type StoreError struct {
	Op   string
	Kind StoreErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("catalog store %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IndexError reports that a request to the search index could not be completed
// as a whole. Per-document rejections are never IndexErrors.
type IndexError struct {
	Op  string
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("search index %s: %v", e.Op, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// QueryErrorKind distinguishes suggestion request failures.
type QueryErrorKind string

const (
	QueryErrorMissingParameter  QueryErrorKind = "missing_parameter"
	QueryErrorEngineUnavailable QueryErrorKind = "engine_unavailable"
)

// QueryError reports a failed suggestion query.
type QueryError struct {
	Kind QueryErrorKind
	Err  error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("suggestion query (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("suggestion query (%s)", e.Kind)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsQueryError reports whether err is a QueryError of the given kind.
func IsQueryError(err error, kind QueryErrorKind) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == kind
}

// IsStoreError reports whether err is a StoreError of the given kind.
func IsStoreError(err error, kind StoreErrorKind) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == kind
}
