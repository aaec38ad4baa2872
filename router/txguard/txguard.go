package txguard

import (
	"github.com/pg-sharding/shardproxy/pkg/txstatus"
	"github.com/pg-sharding/shardproxy/router/parser"
)

// Guard tells whether a statement may run in the current transaction
// context. It only reads the transaction status and never changes it.
type Guard struct {
	Type    txstatus.TransactionType
	Manager txstatus.Manager
}

func New(tp txstatus.TransactionType, mgr txstatus.Manager) *Guard {
	return &Guard{Type: tp, Manager: mgr}
}

// Unsupported reports DDL issued inside an open XA transaction.
// The status is not queried for other statements.
func (g *Guard) Unsupported(stmt *parser.Statement) (bool, error) {
	if g.Type != txstatus.XA || stmt == nil || stmt.Type != parser.DDL {
		return false, nil
	}
	if g.Manager == nil {
		return false, nil
	}
	st, err := g.Manager.TxStatus()
	if err != nil {
		return false, err
	}
	return st != txstatus.TXNONE, nil
}
