package route

import (
	"context"

	"github.com/pg-sharding/shardproxy/router/parser"
)

// SQLUnit is one physical statement with its bound parameters.
type SQLUnit struct {
	SQL        string
	Parameters []any
}

type ExecutionUnit struct {
	DataSource string
	SQLUnit    SQLUnit
}

// Limit is the LIMIT clause of the logical statement. It is set only when
// the statement was fanned out and every unit was asked for Offset+RowCount
// rows, so the merged rows must be cut again.
type Limit struct {
	Offset   int64
	RowCount int64
}

type RouteResult struct {
	Statement      *parser.Statement
	ExecutionUnits []ExecutionUnit
	Limit          *Limit
	// HiddenColumns trailing columns were appended to the select list of
	// every unit so their rows can be ordered; they are not sent back.
	HiddenColumns int
}

func (rr *RouteResult) IsEmpty() bool {
	return len(rr.ExecutionUnits) == 0
}

// DataSources returns the targets of the route in unit order.
func (rr *RouteResult) DataSources() []string {
	ret := make([]string, 0, len(rr.ExecutionUnits))
	for _, u := range rr.ExecutionUnits {
		ret = append(ret, u.DataSource)
	}
	return ret
}

// ColumnSource reports the column names of a logic table in declaration
// order. ok is false when the table is not known.
type ColumnSource interface {
	ColumnNames(table string) ([]string, bool)
}

// Computer computes the route result of one SQL statement.
type Computer interface {
	Route(ctx context.Context, sql string) (*RouteResult, error)
}

// unitsOf sends sql unchanged to every listed data source.
func unitsOf(sql string, dataSources ...string) []ExecutionUnit {
	units := make([]ExecutionUnit, 0, len(dataSources))
	for _, ds := range dataSources {
		units = append(units, ExecutionUnit{
			DataSource: ds,
			SQLUnit: SQLUnit{
				SQL:        sql,
				Parameters: []any{},
			},
		})
	}
	return units
}
