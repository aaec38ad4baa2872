package app

import (
	"testing"

	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/pkg/txstatus"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionObserve(t *testing.T) {
	ok := mysqlproto.NewCommandResponsePackets(mysqlproto.NewOKPacket(1, 0, 0))
	failed := mysqlproto.NewCommandResponsePackets(mysqlproto.NewErrPacket(1, 3054, "HY000", "boom"))

	for _, tt := range []struct {
		name  string
		steps []string
		resp  *mysqlproto.CommandResponsePackets
		want  txstatus.TXStatus
	}{
		{name: "begin", steps: []string{"BEGIN"}, resp: ok, want: txstatus.TXACTIVE},
		{name: "start transaction", steps: []string{"START TRANSACTION"}, resp: ok, want: txstatus.TXACTIVE},
		{name: "failed begin", steps: []string{"BEGIN"}, resp: failed, want: txstatus.TXNONE},
		{name: "commit", steps: []string{"BEGIN", "COMMIT"}, resp: ok, want: txstatus.TXNONE},
		{name: "rollback", steps: []string{"BEGIN", "ROLLBACK"}, resp: ok, want: txstatus.TXNONE},
		{name: "other statements", steps: []string{"BEGIN", "SELECT 1", "SET NAMES utf8", "SELEC"}, resp: ok, want: txstatus.TXACTIVE},
	} {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(parser.SQLJudge{})
			for _, sql := range tt.steps {
				s.observe(sql, tt.resp)
			}
			st, err := s.tx.TxStatus()
			require.NoError(t, err)
			assert.Equal(t, tt.want, st)
		})
	}
}
