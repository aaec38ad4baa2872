package app

import (
	"context"

	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/pkg/txstatus"
	"github.com/pg-sharding/shardproxy/router/backend"
	"github.com/pg-sharding/shardproxy/router/parser"
	"vitess.io/vitess/go/vt/sqlparser"
)

// session tracks the transaction status of one client connection from
// the transaction control statements it sends.
type session struct {
	parser parser.Parser
	tx     txstatus.TxStatusMgr
}

func newSession(p parser.Parser) *session {
	return &session{
		parser: p,
		tx:     txstatus.NewLocalTxStatusMgr(),
	}
}

// observe moves the session to ACTIVE after a successful BEGIN and back
// to NONE after COMMIT or ROLLBACK, whatever their outcome.
func (s *session) observe(sql string, resp *mysqlproto.CommandResponsePackets) {
	stmt, err := s.parser.Judge(sql)
	if err != nil || stmt.Type != parser.TCL {
		return
	}

	var next txstatus.TXStatus
	switch stmt.AST.(type) {
	case *sqlparser.Begin:
		if _, failed := resp.HeadPacket().(*mysqlproto.ErrPacket); failed {
			return
		}
		next = txstatus.TXACTIVE
	case *sqlparser.Commit, *sqlparser.Rollback:
		next = txstatus.TXNONE
	default:
		return
	}

	proxylog.Zero.Debug().
		Uint("session", proxylog.GetPointer(s)).
		Str("tx-status", next.String()).
		Msg("session transaction status changed")
	s.tx.SetTxStatus(next)
}

// trackedHandler reports the outcome of every statement to its session.
type trackedHandler struct {
	backend.BackendHandler

	sql     string
	session *session
}

func (h *trackedHandler) Execute(ctx context.Context) *mysqlproto.CommandResponsePackets {
	resp := h.BackendHandler.Execute(ctx)
	h.session.observe(h.sql, resp)
	return resp
}
