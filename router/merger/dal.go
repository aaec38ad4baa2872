package merger

import (
	"fmt"
	"strings"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/router/parser"
	"golang.org/x/exp/slices"
)

type DALMergeEngine struct {
	rule    *config.ShardingRule
	results []QueryResult
	stmt    *parser.Statement
}

func (e *DALMergeEngine) Merge() (MergedResult, error) {
	if e.stmt.IsShowTables() {
		return NewShowTablesMergedResult(e.rule, e.results)
	}
	return NewTransparentMergedResult(e.results), nil
}

// ShowTablesMergedResult reports logic table names instead of the actual
// tables found on each data source, every name once.
type ShowTablesMergedResult struct {
	*MemoryMergedResult
}

func NewShowTablesMergedResult(rule *config.ShardingRule, results []QueryResult) (*ShowTablesMergedResult, error) {
	var (
		rows  [][]any
		names []string
	)
	for _, r := range results {
		for {
			ok, err := r.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			row := make([]any, r.ColumnCount())
			for i := range row {
				if row[i], err = r.Value(i); err != nil {
					return nil, err
				}
			}
			if len(row) == 0 {
				continue
			}

			name := tableName(row[0])
			if tr, ok := rule.FindTableRuleByActualTable(name); ok {
				name = tr.LogicTable
				row[0] = name
			}
			if slices.IndexFunc(names, func(n string) bool { return strings.EqualFold(n, name) }) >= 0 {
				continue
			}
			names = append(names, name)
			rows = append(rows, row)
		}
	}
	return &ShowTablesMergedResult{MemoryMergedResult: NewMemoryMergedResult(rows)}, nil
}

func tableName(v any) string {
	switch s := v.(type) {
	case []byte:
		return string(s)
	case string:
		return s
	}
	return fmt.Sprint(v)
}

// TransparentMergedResult passes the first unit's rows through.
type TransparentMergedResult struct {
	result QueryResult
}

func NewTransparentMergedResult(results []QueryResult) *TransparentMergedResult {
	t := &TransparentMergedResult{}
	if len(results) > 0 {
		t.result = results[0]
	}
	return t
}

func (t *TransparentMergedResult) Next() (bool, error) {
	if t.result == nil {
		return false, nil
	}
	return t.result.Next()
}

func (t *TransparentMergedResult) Value(i int) (any, error) {
	if t.result == nil {
		return nil, errNoCurrentRow
	}
	return t.result.Value(i)
}
