package merger

import (
	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/pg-sharding/shardproxy/router/route"
)

// QueryResult is the row cursor of one execution unit. Column indexes are
// zero based.
type QueryResult interface {
	Next() (bool, error)
	Value(i int) (any, error)
	ColumnCount() int
	ColumnLabel(i int) string
	Close() error
}

// MergedResult is the single logical cursor over every unit of a query.
type MergedResult interface {
	Next() (bool, error)
	Value(i int) (any, error)
}

type Engine interface {
	Merge() (MergedResult, error)
}

// NewMergeEngine selects the merge algorithm for a read statement.
func NewMergeEngine(rule *config.ShardingRule, results []QueryResult, stmt *parser.Statement, limit *route.Limit) (Engine, error) {
	switch stmt.Type {
	case parser.DQL:
		return &DQLMergeEngine{results: results, stmt: stmt, limit: limit}, nil
	case parser.DAL:
		return &DALMergeEngine{rule: rule, results: results, stmt: stmt}, nil
	}
	return nil, errNotMergeable(stmt)
}
