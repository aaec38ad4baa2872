package executor

import (
	"github.com/jmoiron/sqlx"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/router/merger"
)

// rowsQueryResult reads a unit's rows one at a time.
type rowsQueryResult struct {
	rows    *sqlx.Rows
	labels  []string
	current []any
}

var _ merger.QueryResult = &rowsQueryResult{}

func newRowsQueryResult(rows *sqlx.Rows, labels []string) *rowsQueryResult {
	return &rowsQueryResult{rows: rows, labels: labels}
}

func (r *rowsQueryResult) Next() (bool, error) {
	if !r.rows.Next() {
		r.current = nil
		return false, r.rows.Err()
	}
	cur, err := r.rows.SliceScan()
	if err != nil {
		return false, err
	}
	r.current = cur
	return true, nil
}

func (r *rowsQueryResult) Value(i int) (any, error) {
	if r.current == nil {
		return nil, proxyerror.New(proxyerror.ER_STD_UNKNOWN_EXCEPTION, "no current row")
	}
	if i < 0 || i >= len(r.current) {
		return nil, proxyerror.Newf(proxyerror.ER_STD_UNKNOWN_EXCEPTION, "column index %d out of range", i)
	}
	return r.current[i], nil
}

func (r *rowsQueryResult) ColumnCount() int {
	return len(r.labels)
}

func (r *rowsQueryResult) ColumnLabel(i int) string {
	if i < 0 || i >= len(r.labels) {
		return ""
	}
	return r.labels[i]
}

func (r *rowsQueryResult) Close() error {
	return r.rows.Close()
}
