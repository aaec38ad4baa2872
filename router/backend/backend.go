package backend

import (
	"context"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/pkg/txstatus"
)

// BackendHandler serves one statement of one session.
//
// Execute is called once. If its response is a result set header, the
// caller pulls rows with HasMoreResultValue/GetResultValue pairs until
// HasMoreResultValue reports false. Close must be called when the caller
// stops early; calling it after the stream ended is a no-op.
type BackendHandler interface {
	Execute(ctx context.Context) *mysqlproto.CommandResponsePackets
	HasMoreResultValue() (bool, error)
	GetResultValue() mysqlproto.Packet
	Close() error
}

// Config is the part of the proxy configuration a handler depends on.
// It does not change during the lifetime of a handler.
type Config struct {
	MasterSlaveOnly bool
	ShardingRule    *config.ShardingRule
	TransactionType txstatus.TransactionType
}

func ConfigFromProxy(p *config.Proxy) *Config {
	return &Config{
		MasterSlaveOnly: p.MasterSlaveOnly(),
		ShardingRule:    &p.ShardingRule,
		TransactionType: p.TxType(),
	}
}

// RowPacketBuilder makes the packet carrying one result row.
type RowPacketBuilder interface {
	NewRowPacket(seq int, data []any, columnTypes []mysqlproto.ColumnType) mysqlproto.Packet
}

// TextRowBuilder answers COM_QUERY.
type TextRowBuilder struct{}

func (TextRowBuilder) NewRowPacket(seq int, data []any, _ []mysqlproto.ColumnType) mysqlproto.Packet {
	return mysqlproto.NewTextResultSetRowPacket(seq, data)
}

// BinaryRowBuilder answers COM_STMT_EXECUTE.
type BinaryRowBuilder struct{}

func (BinaryRowBuilder) NewRowPacket(seq int, data []any, columnTypes []mysqlproto.ColumnType) mysqlproto.Packet {
	return mysqlproto.NewBinaryResultSetRowPacket(seq, data, columnTypes)
}
