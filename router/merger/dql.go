package merger

import (
	"strconv"
	"strings"

	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/pg-sharding/shardproxy/router/route"
	"vitess.io/vitess/go/vt/sqlparser"
)

type DQLMergeEngine struct {
	results []QueryResult
	stmt    *parser.Statement
	limit   *route.Limit
}

func (e *DQLMergeEngine) Merge() (MergedResult, error) {
	if len(e.results) > 1 && e.stmt.NeedsAggregation() {
		return nil, proxyerror.Newf(proxyerror.ER_NOT_SUPPORTED_YET, "aggregating rows of %d data nodes", len(e.results))
	}

	items, err := e.orderByItems()
	if err != nil {
		return nil, err
	}

	var mr MergedResult
	if items != nil {
		mr, err = NewOrderByStreamMergedResult(e.results, items)
		if err != nil {
			return nil, err
		}
	} else {
		mr = NewIteratorMergedResult(e.results)
	}

	if e.limit != nil {
		return NewLimitDecoratorMergedResult(mr, e.limit)
	}
	return mr, nil
}

// orderByItems resolves ORDER BY items against the result labels. It
// returns nil when rows need no ordering across units.
func (e *DQLMergeEngine) orderByItems() ([]OrderByItem, error) {
	sel, isSelect := e.stmt.AST.(*sqlparser.Select)
	if !isSelect || len(sel.OrderBy) == 0 || len(e.results) < 2 {
		return nil, nil
	}

	first := e.results[0]
	items := make([]OrderByItem, 0, len(sel.OrderBy))
	for _, o := range sel.OrderBy {
		idx, err := columnIndex(first, o.Expr)
		if err != nil {
			return nil, err
		}
		items = append(items, OrderByItem{
			Index: idx,
			Desc:  o.Direction == sqlparser.DescScr,
		})
	}
	return items, nil
}

// columnIndex finds the result column an ORDER BY expression refers to,
// either by label or by 1-based position.
func columnIndex(qr QueryResult, expr sqlparser.Expr) (int, error) {
	switch e := expr.(type) {
	case *sqlparser.ColName:
		for i := 0; i < qr.ColumnCount(); i++ {
			if strings.EqualFold(qr.ColumnLabel(i), e.Name.String()) {
				return i, nil
			}
		}
		return 0, proxyerror.Newf(proxyerror.ER_NOT_SUPPORTED_YET, "ORDER BY %s which is not in the result set", sqlparser.String(e))
	case *sqlparser.SQLVal:
		if e.Type != sqlparser.IntVal {
			break
		}
		n, err := strconv.Atoi(string(e.Val))
		if err != nil || n < 1 || n > qr.ColumnCount() {
			return 0, proxyerror.Newf(proxyerror.ER_NOT_SUPPORTED_YET, "ORDER BY position %s out of range [1, %d]", e.Val, qr.ColumnCount())
		}
		return n - 1, nil
	}
	return 0, proxyerror.Newf(proxyerror.ER_NOT_SUPPORTED_YET, "ORDER BY expression %s across data nodes", sqlparser.String(expr))
}
