package route

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/models/hashfunction"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/router/parser"
	"vitess.io/vitess/go/vt/sqlparser"
)

// ShardingComputer routes statements by the table rules of a sharding rule.
type ShardingComputer struct {
	parser  parser.Parser
	rule    *config.ShardingRule
	columns ColumnSource
}

var _ Computer = &ShardingComputer{}

func NewShardingComputer(p parser.Parser, rule *config.ShardingRule) *ShardingComputer {
	return &ShardingComputer{
		parser: p,
		rule:   rule,
	}
}

// WithColumns lets the computer consult cached table columns for INSERT
// statements without a column list and for SELECT * ordering.
func (c *ShardingComputer) WithColumns(src ColumnSource) *ShardingComputer {
	c.columns = src
	return c
}

func (c *ShardingComputer) Route(_ context.Context, sql string) (*RouteResult, error) {
	stmt, err := c.parser.Judge(sql)
	if err != nil {
		return nil, err
	}

	rr, err := c.route(stmt)
	if err != nil {
		return nil, err
	}

	proxylog.Zero.Debug().
		Str("sql", sql).
		Str("statement-type", stmt.Type.String()).
		Strs("data-sources", rr.DataSources()).
		Msg("sharding route")
	return rr, nil
}

func (c *ShardingComputer) route(stmt *parser.Statement) (*RouteResult, error) {
	rr := &RouteResult{Statement: stmt}

	if ds, ok := stmt.Hints[parser.HintDataSource]; ok {
		if !slices.Contains(c.rule.DataSourceNames(), ds) {
			return nil, proxyerror.Newf(proxyerror.ER_PROXY_ROUTING, "hinted data source %q is not configured", ds)
		}
		rr.ExecutionUnits = unitsOf(stmt.SQL, ds)
		return rr, nil
	}

	if stmt.IsShowTables() {
		rr.ExecutionUnits = unitsOf(stmt.SQL, c.rule.DataSourceNames()...)
		return rr, nil
	}

	tr, err := c.shardedTable(stmt)
	if err != nil {
		return nil, err
	}
	if tr == nil || stmt.Type == parser.TCL || stmt.Type == parser.DCL {
		if c.rule.DefaultDataSource != "" {
			rr.ExecutionUnits = unitsOf(stmt.SQL, c.rule.DefaultDataSource)
		}
		return rr, nil
	}

	nodes, err := tr.DataNodes()
	if err != nil {
		return nil, proxyerror.New(proxyerror.ER_PROXY_ROUTING, err.Error())
	}

	if ins, ok := stmt.AST.(*sqlparser.Insert); ok {
		units, err := c.routeInsert(stmt, ins, tr, nodes)
		if err != nil {
			return nil, err
		}
		rr.ExecutionUnits = units
		return rr, nil
	}

	targets := allNodes(len(nodes))
	switch stmt.Type {
	case parser.DQL, parser.DML:
		where := whereOf(stmt.AST)
		if where != nil {
			values, found := shardingValues(where.Expr, newShardingColumn(stmt.AST, tr))
			if found {
				targets, err = nodesByValues(values, tr, len(nodes))
				if err != nil {
					return nil, err
				}
			}
		}
	case parser.DAL:
		// SHOW ... FROM <table> reads the first node only
		targets = targets[:1]
	}

	var hidden []int
	if stmt.Type == parser.DQL && len(targets) > 1 {
		if stmt.NeedsAggregation() {
			return nil, proxyerror.Newf(proxyerror.ER_NOT_SUPPORTED_YET, "aggregation over %d shards of %s", len(targets), tr.LogicTable)
		}
		hidden = c.hiddenOrderBy(stmt.AST, tr)
		rr.HiddenColumns = len(hidden)
	}

	limit := limitOf(stmt.AST)
	if len(targets) > 1 && limit != nil {
		rr.Limit = limit
	}

	for _, i := range targets {
		sql, err := rewrite(stmt.SQL, tr.LogicTable, nodes[i].Table, func(ast sqlparser.Statement) {
			if rr.Limit != nil {
				rewriteLimit(ast, rr.Limit)
			}
			appendOrderByColumns(ast, hidden)
		})
		if err != nil {
			return nil, err
		}
		rr.ExecutionUnits = append(rr.ExecutionUnits, ExecutionUnit{
			DataSource: nodes[i].DataSource,
			SQLUnit:    SQLUnit{SQL: sql, Parameters: []any{}},
		})
	}
	return rr, nil
}

// shardedTable returns the only sharded table rule the statement touches.
func (c *ShardingComputer) shardedTable(stmt *parser.Statement) (*config.TableRule, error) {
	var found *config.TableRule
	for _, t := range stmt.Tables {
		tr, ok := c.rule.FindTableRule(t)
		if !ok {
			continue
		}
		if found != nil && found != tr {
			return nil, proxyerror.New(proxyerror.ER_NOT_SUPPORTED_YET, "statements over several sharded tables")
		}
		found = tr
	}
	return found, nil
}

func (c *ShardingComputer) routeInsert(stmt *parser.Statement, ins *sqlparser.Insert, tr *config.TableRule, nodes []config.DataNode) ([]ExecutionUnit, error) {
	rows, ok := ins.Rows.(sqlparser.Values)
	if !ok {
		return nil, proxyerror.New(proxyerror.ER_NOT_SUPPORTED_YET, "INSERT ... SELECT on sharded table")
	}
	col := c.insertColumn(ins, tr)
	if col < 0 {
		return nil, proxyerror.Newf(proxyerror.ER_PROXY_ROUTING, "insert into %s does not set sharding column %s", tr.LogicTable, tr.ShardingColumn)
	}

	byNode := map[int][]int{}
	for r, row := range rows {
		if col >= len(row) {
			return nil, proxyerror.Newf(proxyerror.ER_PROXY_ROUTING, "row %d has no value for sharding column %s", r, tr.ShardingColumn)
		}
		v, ok := literal(row[col])
		if !ok {
			return nil, proxyerror.Newf(proxyerror.ER_NOT_SUPPORTED_YET, "non-literal sharding value %s", sqlparser.String(row[col]))
		}
		n, err := nodeOf(v, tr, len(nodes))
		if err != nil {
			return nil, err
		}
		byNode[n] = append(byNode[n], r)
	}

	targets := make([]int, 0, len(byNode))
	for n := range byNode {
		targets = append(targets, n)
	}
	sort.Ints(targets)

	units := make([]ExecutionUnit, 0, len(targets))
	for _, n := range targets {
		sql, err := rewrite(stmt.SQL, tr.LogicTable, nodes[n].Table, func(ast sqlparser.Statement) {
			all := ast.(*sqlparser.Insert).Rows.(sqlparser.Values)
			part := make(sqlparser.Values, 0, len(byNode[n]))
			for _, r := range byNode[n] {
				part = append(part, all[r])
			}
			ast.(*sqlparser.Insert).Rows = part
		})
		if err != nil {
			return nil, err
		}
		units = append(units, ExecutionUnit{
			DataSource: nodes[n].DataSource,
			SQLUnit:    SQLUnit{SQL: sql, Parameters: []any{}},
		})
	}
	return units, nil
}

// insertColumn returns the position of the sharding column in the rows
// of ins, -1 when it cannot be told.
func (c *ShardingComputer) insertColumn(ins *sqlparser.Insert, tr *config.TableRule) int {
	if len(ins.Columns) == 0 && c.columns != nil {
		names, _ := c.columns.ColumnNames(tr.LogicTable)
		for i, n := range names {
			if strings.EqualFold(n, tr.ShardingColumn) {
				return i
			}
		}
		return -1
	}
	for i, col := range ins.Columns {
		if col.EqualString(tr.ShardingColumn) {
			return i
		}
	}
	return -1
}

// hiddenOrderBy returns the positions of the ORDER BY columns missing
// from the select list. Their values are needed to merge the units.
func (c *ShardingComputer) hiddenOrderBy(ast sqlparser.Statement, tr *config.TableRule) []int {
	sel, ok := ast.(*sqlparser.Select)
	if !ok {
		return nil
	}
	var ret []int
	for i, o := range sel.OrderBy {
		col, ok := o.Expr.(*sqlparser.ColName)
		if !ok || c.selects(sel.SelectExprs, col, tr) {
			continue
		}
		ret = append(ret, i)
	}
	return ret
}

func (c *ShardingComputer) selects(exprs sqlparser.SelectExprs, col *sqlparser.ColName, tr *config.TableRule) bool {
	for _, se := range exprs {
		switch e := se.(type) {
		case *sqlparser.StarExpr:
			if !e.TableName.IsEmpty() && !col.Qualifier.IsEmpty() &&
				!strings.EqualFold(e.TableName.Name.String(), col.Qualifier.Name.String()) {
				continue
			}
			if c.columns == nil {
				return true
			}
			names, ok := c.columns.ColumnNames(tr.LogicTable)
			if !ok || slices.ContainsFunc(names, func(n string) bool { return col.Name.EqualString(n) }) {
				return true
			}
		case *sqlparser.AliasedExpr:
			if !e.As.IsEmpty() {
				if col.Qualifier.IsEmpty() && e.As.Equal(col.Name) {
					return true
				}
				continue
			}
			if sc, ok := e.Expr.(*sqlparser.ColName); ok && sc.Name.Equal(col.Name) {
				return true
			}
		}
	}
	return false
}

func appendOrderByColumns(ast sqlparser.Statement, items []int) {
	if len(items) == 0 {
		return
	}
	sel := ast.(*sqlparser.Select)
	for _, i := range items {
		sel.SelectExprs = append(sel.SelectExprs, &sqlparser.AliasedExpr{Expr: sel.OrderBy[i].Expr})
	}
}

func allNodes(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = i
	}
	return ret
}

func nodeOf(v any, tr *config.TableRule, n int) (int, error) {
	h, err := hashfunction.ApplyHashFunction(v, tr.HashFunctionType())
	if err != nil {
		return 0, proxyerror.New(proxyerror.ER_PROXY_ROUTING, err.Error())
	}
	return int(h % uint64(n)), nil
}

func nodesByValues(values []any, tr *config.TableRule, n int) ([]int, error) {
	seen := map[int]struct{}{}
	var ret []int
	for _, v := range values {
		idx, err := nodeOf(v, tr, n)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		ret = append(ret, idx)
	}
	sort.Ints(ret)
	return ret, nil
}

func whereOf(ast sqlparser.Statement) *sqlparser.Where {
	switch node := ast.(type) {
	case *sqlparser.Select:
		return node.Where
	case *sqlparser.Update:
		return node.Where
	case *sqlparser.Delete:
		return node.Where
	}
	return nil
}

// shardingValues collects the values the sharding column is compared
// with. found is false when the condition does not restrict the column.
func shardingValues(expr sqlparser.Expr, sc *shardingColumn) ([]any, bool) {
	switch e := expr.(type) {
	case *sqlparser.ParenExpr:
		return shardingValues(e.Expr, sc)
	case *sqlparser.AndExpr:
		if v, ok := shardingValues(e.Left, sc); ok {
			return v, true
		}
		return shardingValues(e.Right, sc)
	case *sqlparser.OrExpr:
		left, ok := shardingValues(e.Left, sc)
		if !ok {
			return nil, false
		}
		right, ok := shardingValues(e.Right, sc)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	case *sqlparser.ComparisonExpr:
		switch e.Operator {
		case sqlparser.EqualStr:
			if sc.matches(e.Left) {
				if v, ok := literal(e.Right); ok {
					return []any{v}, true
				}
			}
			if sc.matches(e.Right) {
				if v, ok := literal(e.Left); ok {
					return []any{v}, true
				}
			}
		case sqlparser.InStr:
			tuple, ok := e.Right.(sqlparser.ValTuple)
			if !ok || !sc.matches(e.Left) {
				return nil, false
			}
			values := make([]any, 0, len(tuple))
			for _, item := range tuple {
				v, ok := literal(item)
				if !ok {
					return nil, false
				}
				values = append(values, v)
			}
			return values, true
		}
	}
	return nil, false
}

type shardingColumn struct {
	name       string
	qualifiers map[string]struct{}
}

// newShardingColumn resolves the names the logic table goes by in ast:
// the table name itself and any alias given to it.
func newShardingColumn(ast sqlparser.Statement, tr *config.TableRule) *shardingColumn {
	sc := &shardingColumn{
		name:       tr.ShardingColumn,
		qualifiers: map[string]struct{}{strings.ToLower(tr.LogicTable): {}},
	}
	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		ate, ok := node.(*sqlparser.AliasedTableExpr)
		if !ok {
			return true, nil
		}
		if tn, ok := ate.Expr.(sqlparser.TableName); ok && strings.EqualFold(tn.Name.String(), tr.LogicTable) && !ate.As.IsEmpty() {
			sc.qualifiers[strings.ToLower(ate.As.String())] = struct{}{}
		}
		return false, nil
	}, ast)
	return sc
}

func (sc *shardingColumn) matches(expr sqlparser.Expr) bool {
	col, ok := expr.(*sqlparser.ColName)
	if !ok || !col.Name.EqualString(sc.name) {
		return false
	}
	if col.Qualifier.IsEmpty() {
		return true
	}
	_, ok = sc.qualifiers[strings.ToLower(col.Qualifier.Name.String())]
	return ok
}

func literal(expr sqlparser.Expr) (any, bool) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok {
		return nil, false
	}
	switch val.Type {
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(val.Val), 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case sqlparser.StrVal:
		return string(val.Val), true
	}
	return nil, false
}

func limitOf(ast sqlparser.Statement) *Limit {
	sel, ok := ast.(*sqlparser.Select)
	if !ok || sel.Limit == nil {
		return nil
	}
	l := &Limit{}
	if sel.Limit.Offset != nil {
		v, ok := literal(sel.Limit.Offset)
		n, isInt := v.(int64)
		if !ok || !isInt {
			return nil
		}
		l.Offset = n
	}
	v, ok := literal(sel.Limit.Rowcount)
	n, isInt := v.(int64)
	if !ok || !isInt {
		return nil
	}
	l.RowCount = n
	return l
}

// rewriteLimit asks every unit for the rows up to the end of the window.
func rewriteLimit(ast sqlparser.Statement, l *Limit) {
	sel, ok := ast.(*sqlparser.Select)
	if !ok {
		return
	}
	sel.Limit = &sqlparser.Limit{
		Offset:   sqlparser.NewIntVal([]byte("0")),
		Rowcount: sqlparser.NewIntVal([]byte(strconv.FormatInt(l.Offset+l.RowCount, 10))),
	}
}

// rewrite parses sql again, renames logic to actual and applies extra
// to the fresh tree. Statements are cached and shared, so their AST is
// never touched.
func rewrite(sql, logic, actual string, extra func(ast sqlparser.Statement)) (string, error) {
	ast, err := sqlparser.Parse(sql)
	if err != nil {
		return "", proxyerror.New(proxyerror.ER_PARSE_ERROR, err.Error())
	}

	rename := func(tn sqlparser.TableName) sqlparser.TableName {
		if strings.EqualFold(tn.Name.String(), logic) {
			tn.Name = sqlparser.NewTableIdent(actual)
		}
		return tn
	}

	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		switch n := node.(type) {
		case *sqlparser.AliasedTableExpr:
			if tn, ok := n.Expr.(sqlparser.TableName); ok {
				n.Expr = rename(tn)
			}
		case *sqlparser.ColName:
			if strings.EqualFold(n.Qualifier.Name.String(), logic) {
				n.Qualifier.Name = sqlparser.NewTableIdent(actual)
			}
		}
		return true, nil
	}, ast)

	switch n := ast.(type) {
	case *sqlparser.Insert:
		n.Table = rename(n.Table)
	case *sqlparser.Delete:
		for i := range n.Targets {
			n.Targets[i] = rename(n.Targets[i])
		}
	case *sqlparser.DDL:
		n.Table = rename(n.Table)
		for i := range n.FromTables {
			n.FromTables[i] = rename(n.FromTables[i])
		}
		for i := range n.ToTables {
			n.ToTables[i] = rename(n.ToTables[i])
		}
	case *sqlparser.Show:
		n.OnTable = rename(n.OnTable)
	}

	if extra != nil {
		extra(ast)
	}
	return sqlparser.String(ast), nil
}
