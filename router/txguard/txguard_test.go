package txguard_test

import (
	"errors"
	"testing"

	mocktx "github.com/pg-sharding/shardproxy/pkg/mock/txstatus"
	"github.com/pg-sharding/shardproxy/pkg/txstatus"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/pg-sharding/shardproxy/router/txguard"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestGuardSkipsStatusLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := mocktx.NewMockManager(ctrl)

	tests := []struct {
		name string
		tp   txstatus.TransactionType
		stmt *parser.Statement
	}{
		{name: "local ddl", tp: txstatus.LOCAL, stmt: &parser.Statement{Type: parser.DDL}},
		{name: "base ddl", tp: txstatus.BASE, stmt: &parser.Statement{Type: parser.DDL}},
		{name: "xa dml", tp: txstatus.XA, stmt: &parser.Statement{Type: parser.DML}},
		{name: "xa dql", tp: txstatus.XA, stmt: &parser.Statement{Type: parser.DQL}},
		{name: "nil statement", tp: txstatus.XA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsupported, err := txguard.New(tt.tp, mgr).Unsupported(tt.stmt)
			assert.NoError(t, err)
			assert.False(t, unsupported)
		})
	}
}

func TestGuardXADDL(t *testing.T) {
	ddl := &parser.Statement{Type: parser.DDL, Tables: []string{"t_order"}}

	tests := []struct {
		name   string
		status txstatus.TXStatus
		want   bool
	}{
		{name: "no transaction", status: txstatus.TXNONE, want: false},
		{name: "active transaction", status: txstatus.TXACTIVE, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mgr := mocktx.NewMockManager(ctrl)
			mgr.EXPECT().TxStatus().Return(tt.status, nil)

			unsupported, err := txguard.New(txstatus.XA, mgr).Unsupported(ddl)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, unsupported)
		})
	}
}

func TestGuardStatusError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := mocktx.NewMockManager(ctrl)
	mgr.EXPECT().TxStatus().Return(txstatus.TXNONE, errors.New("xa recovery in progress"))

	unsupported, err := txguard.New(txstatus.XA, mgr).Unsupported(&parser.Statement{Type: parser.DDL})
	assert.EqualError(t, err, "xa recovery in progress")
	assert.False(t, unsupported)
}

func TestGuardWithoutManager(t *testing.T) {
	unsupported, err := txguard.New(txstatus.XA, nil).Unsupported(&parser.Statement{Type: parser.DDL})
	assert.NoError(t, err)
	assert.False(t, unsupported)
}
