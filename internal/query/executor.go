// Package query executes layer SQL against the injected Postgres pool.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ekomapa/geolayers/internal/geojson"
)

// QueryError reports a failed SQL execution, carrying the query text.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v (query: %s)", e.Err, e.Query)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Unavailable reports whether err stems from a connection-class failure
// rather than a bad statement, so the boundary can answer 503 instead of 500.
func Unavailable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return true
		}
	}
	return false
}

type Interface interface {
	Execute(ctx context.Context, sqlText string) ([]geojson.Row, error)
}

type Executor struct {
	db      *sql.DB
	timeout time.Duration
}

var _ Interface = (*Executor)(nil)

func New(db *sql.DB, timeout time.Duration) *Executor {
	return &Executor{db: db, timeout: timeout}
}

// Execute runs a complete, parameterless SQL statement and materializes the
// full result set in row order. Column names come from the statement
// descriptor. The caller owns the safety of the SQL text.
func (e *Executor) Execute(ctx context.Context, sqlText string) ([]geojson.Row, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, &QueryError{Query: sqlText, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Query: sqlText, Err: err}
	}

	out := make([]geojson.Row, 0, 64)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{Query: sqlText, Err: err}
		}

		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[col] = v
		}
		out = append(out, geojson.NewRow(columns, rec))
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Query: sqlText, Err: err}
	}

	return out, nil
}
