package mysqlproto_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(p mysqlproto.Packet) []byte {
	var pl mysqlproto.Payload
	p.Write(&pl)
	return pl.Bytes()
}

func TestWriteIntLenenc(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{250, []byte{0xfa}},
		{251, []byte{0xfc, 0xfb, 0x00}},
		{1 << 16, []byte{0xfd, 0x00, 0x00, 0x01}},
		{1 << 24, []byte{0xfe, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.v), func(t *testing.T) {
			var pl mysqlproto.Payload
			pl.WriteIntLenenc(tt.v)
			assert.Equal(t, tt.want, pl.Bytes())
		})
	}
}

func TestOKPacket(t *testing.T) {
	p := mysqlproto.NewOKPacket(1, 3, 7)
	assert.Equal(t, []byte{0x00, 0x03, 0x07, 0x02, 0x00, 0x00, 0x00}, encode(p))
}

func TestErrPacket(t *testing.T) {
	p := mysqlproto.NewErrPacketFromError(1, proxyerror.New(proxyerror.ER_STD_UNKNOWN_EXCEPTION, "x"))

	assert.Equal(t, proxyerror.ER_STD_UNKNOWN_EXCEPTION, p.ErrorCode)
	want := append([]byte{0xff, 0xee, 0x0b, '#'}, []byte("HY000Unknown exception: x")...)
	assert.Equal(t, want, encode(p))
}

func TestEOFPacket(t *testing.T) {
	assert.Equal(t, []byte{0xfe, 0x00, 0x00, 0x02, 0x00}, encode(mysqlproto.NewEOFPacket(5)))
}

func TestWithSequenceIDCopies(t *testing.T) {
	orig := mysqlproto.NewFieldCountPacket(9, 2)
	restamped := orig.WithSequenceID(1)

	assert.Equal(t, 9, orig.SequenceID())
	assert.Equal(t, 1, restamped.SequenceID())
	assert.Equal(t, 2, restamped.(*mysqlproto.FieldCountPacket).ColumnCount)
}

func TestColumnDefinition(t *testing.T) {
	p := mysqlproto.NewColumnDefinition41Packet(2, "t_order", "id", mysqlproto.MYSQL_TYPE_LONGLONG, 20)
	b := encode(p)

	assert.True(t, bytes.HasPrefix(b, []byte{0x03, 'd', 'e', 'f', 0x00, 0x07}))
	// fixed-length tail: 0x0c, charset(2), length(4), type, flags(2), decimals, filler(2)
	tail := b[len(b)-13:]
	assert.Equal(t, []byte{0x0c, 0x21, 0x00, 20, 0, 0, 0, byte(mysqlproto.MYSQL_TYPE_LONGLONG), 0, 0, 0, 0, 0}, tail)
}

func TestTextRow(t *testing.T) {
	p := mysqlproto.NewTextResultSetRowPacket(4, []any{int64(10), nil, []byte("abc"), true})
	assert.Equal(t, []byte{0x02, '1', '0', 0xfb, 0x03, 'a', 'b', 'c', 0x01, '1'}, encode(p))
}

func TestBinaryRow(t *testing.T) {
	types := []mysqlproto.ColumnType{
		mysqlproto.MYSQL_TYPE_LONGLONG,
		mysqlproto.MYSQL_TYPE_VAR_STRING,
		mysqlproto.MYSQL_TYPE_DATE,
	}
	p := mysqlproto.NewBinaryResultSetRowPacket(3, []any{[]byte("5"), nil, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)}, types)
	b := encode(p)

	require.Len(t, b, 1+1+8+5)
	assert.Equal(t, byte(0x00), b[0])
	// column 1 is NULL -> bit (1+2)
	assert.Equal(t, byte(1<<3), b[1])
	assert.Equal(t, []byte{5, 0, 0, 0, 0, 0, 0, 0}, b[2:10])
	assert.Equal(t, []byte{4, 0xe8, 0x07, 2, 3}, b[10:])
}

func TestWritePacketFraming(t *testing.T) {
	var buf bytes.Buffer
	w := mysqlproto.NewStreamPacketWriter(&buf)

	require.NoError(t, w.WritePacket(mysqlproto.NewEOFPacket(7)))
	assert.Equal(t, []byte{0x05, 0x00, 0x00, 0x07, 0xfe, 0x00, 0x00, 0x02, 0x00}, buf.Bytes())
}

func TestColumnTypeByDatabaseTypeName(t *testing.T) {
	assert.Equal(t, mysqlproto.MYSQL_TYPE_LONGLONG, mysqlproto.ColumnTypeByDatabaseTypeName("BIGINT"))
	assert.Equal(t, mysqlproto.MYSQL_TYPE_LONGLONG, mysqlproto.ColumnTypeByDatabaseTypeName("UNSIGNED BIGINT"))
	assert.Equal(t, mysqlproto.MYSQL_TYPE_LONG, mysqlproto.ColumnTypeByDatabaseTypeName("int4"))
	assert.Equal(t, mysqlproto.MYSQL_TYPE_VAR_STRING, mysqlproto.ColumnTypeByDatabaseTypeName("INTERVAL"))
}

func TestCommandResponsePackets(t *testing.T) {
	assert.Nil(t, mysqlproto.NewCommandResponsePackets().HeadPacket())

	c := mysqlproto.NewCommandResponsePackets(mysqlproto.NewOKPacket(1, 0, 0))
	c.AddPacket(mysqlproto.NewEOFPacket(2))
	assert.Len(t, c.Packets, 2)
	assert.IsType(t, &mysqlproto.OKPacket{}, c.HeadPacket())
}
