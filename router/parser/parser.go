package parser

import (
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"
)

type SQLType int

const (
	DQL = SQLType(iota)
	DML
	DDL
	TCL
	DAL
	DCL
)

func (t SQLType) String() string {
	switch t {
	case DQL:
		return "DQL"
	case DML:
		return "DML"
	case DDL:
		return "DDL"
	case TCL:
		return "TCL"
	case DAL:
		return "DAL"
	case DCL:
		return "DCL"
	}
	return "UNKNOWN"
}

// Statement is a classified SQL statement. It is shared between
// sessions through SharedParser, so AST must never be mutated.
type Statement struct {
	SQL    string
	Type   SQLType
	Tables []string
	Hints  map[string]string
	AST    sqlparser.Statement
}

type Parser interface {
	Judge(sql string) (*Statement, error)
}

func (s *Statement) IsInsert() bool {
	_, ok := s.AST.(*sqlparser.Insert)
	return ok
}

func (s *Statement) IsSingleTable() bool {
	return len(s.Tables) == 1
}

// SingleTableName returns the only table of the statement, "" otherwise.
func (s *Statement) SingleTableName() string {
	if !s.IsSingleTable() {
		return ""
	}
	return s.Tables[0]
}

// IsShowTables reports whether the statement is SHOW [FULL] TABLES.
func (s *Statement) IsShowTables() bool {
	show, ok := s.AST.(*sqlparser.Show)
	return ok && strings.EqualFold(show.Type, "tables")
}

// NeedsAggregation reports whether the rows of a query must be combined
// rather than concatenated when it runs on several shards: DISTINCT,
// GROUP BY, HAVING or an aggregate function in the select list.
func (s *Statement) NeedsAggregation() bool {
	sel, ok := s.AST.(*sqlparser.Select)
	if !ok {
		return false
	}
	if sel.Distinct != "" || len(sel.GroupBy) > 0 || sel.Having != nil {
		return true
	}
	found := false
	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		switch n := node.(type) {
		case *sqlparser.Subquery:
			return false, nil
		case *sqlparser.GroupConcatExpr:
			found = true
		case *sqlparser.FuncExpr:
			found = found || n.IsAggregate()
		}
		return !found, nil
	}, sel.SelectExprs)
	return found
}
