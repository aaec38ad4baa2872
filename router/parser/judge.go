package parser

import (
	"strings"

	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"vitess.io/vitess/go/vt/sqlparser"
)

type SQLJudge struct{}

var _ Parser = SQLJudge{}

func (SQLJudge) Judge(sql string) (*Statement, error) {
	return Judge(sql)
}

// Judge parses sql and classifies it.
func Judge(sql string) (*Statement, error) {
	ast, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, proxyerror.New(proxyerror.ER_PARSE_ERROR, err.Error())
	}

	stmt := &Statement{
		SQL: sql,
		AST: ast,
	}
	stmt.Hints = extractHints(sql)

	switch node := ast.(type) {
	case *sqlparser.Select, *sqlparser.Union, *sqlparser.ParenSelect:
		stmt.Type = DQL
		stmt.Tables = tablesOf(node)
	case *sqlparser.Insert:
		stmt.Type = DML
		stmt.Tables = appendTable(nil, node.Table)
	case *sqlparser.Update, *sqlparser.Delete:
		stmt.Type = DML
		stmt.Tables = tablesOf(node)
	case *sqlparser.DDL:
		stmt.Type = DDL
		stmt.Tables = tableNamesOf(node)
	case *sqlparser.DBDDL:
		stmt.Type = DDL
	case *sqlparser.Begin, *sqlparser.Commit, *sqlparser.Rollback:
		stmt.Type = TCL
	case *sqlparser.Set:
		stmt.Type = DAL
		if isTransactionSet(node) {
			stmt.Type = TCL
		}
	case *sqlparser.Show:
		stmt.Type = DAL
		stmt.Tables = appendTable(nil, node.OnTable)
	case *sqlparser.Use, *sqlparser.OtherRead:
		stmt.Type = DAL
	case *sqlparser.OtherAdmin:
		stmt.Type = DCL
	default:
		return nil, proxyerror.Newf(proxyerror.ER_NOT_SUPPORTED_YET, "%T", ast)
	}

	return stmt, nil
}

func isTransactionSet(set *sqlparser.Set) bool {
	if strings.EqualFold(set.Scope, "transaction") {
		return true
	}
	for _, e := range set.Exprs {
		for _, name := range transactionVariables {
			if e.Name.EqualString(name) {
				return true
			}
		}
	}
	return false
}

var transactionVariables = []string{
	"autocommit",
	"tx_isolation",
	"tx_read_only",
	"transaction_isolation",
	"transaction_read_only",
}

// tablesOf collects distinct table names of the FROM / JOIN items of a node.
func tablesOf(node sqlparser.SQLNode) []string {
	var tables []string
	_ = sqlparser.Walk(func(n sqlparser.SQLNode) (bool, error) {
		if ate, ok := n.(*sqlparser.AliasedTableExpr); ok {
			if tn, ok := ate.Expr.(sqlparser.TableName); ok {
				tables = appendTable(tables, tn)
			}
		}
		return true, nil
	}, node)
	return tables
}

// tableNamesOf collects every table name referenced by a DDL statement,
// source tables before target tables.
func tableNamesOf(node *sqlparser.DDL) []string {
	var tables []string
	_ = sqlparser.Walk(func(n sqlparser.SQLNode) (bool, error) {
		if tn, ok := n.(sqlparser.TableName); ok {
			tables = appendTable(tables, tn)
		}
		return true, nil
	}, node)
	return tables
}

func appendTable(tables []string, tn sqlparser.TableName) []string {
	if tn.IsEmpty() {
		return tables
	}
	name := tn.Name.String()
	for _, t := range tables {
		if strings.EqualFold(t, name) {
			return tables
		}
	}
	return append(tables, name)
}
