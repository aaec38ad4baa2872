package merger

import (
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/router/parser"
)

func errNotMergeable(stmt *parser.Statement) error {
	return proxyerror.Newf(proxyerror.ER_NOT_SUPPORTED_YET, "merging %s results", stmt.Type)
}

func errColumnIndex(i, n int) error {
	return proxyerror.Newf(proxyerror.ER_STD_UNKNOWN_EXCEPTION, "column index %d out of range [0, %d)", i, n)
}

var errNoCurrentRow = proxyerror.New(proxyerror.ER_STD_UNKNOWN_EXCEPTION, "merged result has no current row")
