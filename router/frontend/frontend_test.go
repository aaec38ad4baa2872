package frontend_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/router/backend"
	"github.com/pg-sharding/shardproxy/router/frontend"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mockbackend "github.com/pg-sharding/shardproxy/router/mock/backend"
)

type recordingWriter struct {
	packets []mysqlproto.Packet
	failAt  int
}

func (w *recordingWriter) WritePacket(p mysqlproto.Packet) error {
	if w.failAt > 0 && len(w.packets)+1 == w.failAt {
		return errors.New("connection reset by peer")
	}
	w.packets = append(w.packets, p)
	return nil
}

func header() *mysqlproto.CommandResponsePackets {
	return mysqlproto.NewCommandResponsePackets(
		mysqlproto.NewFieldCountPacket(1, 1),
		mysqlproto.NewColumnDefinition41Packet(2, "t_order", "order_id", mysqlproto.MYSQL_TYPE_LONGLONG, 20),
		mysqlproto.NewEOFPacket(3),
	)
}

func TestDriveOK(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mockbackend.NewMockBackendHandler(ctrl)

	ok := mysqlproto.NewOKPacket(1, 3, 0)
	h.EXPECT().Execute(gomock.Any()).Return(mysqlproto.NewCommandResponsePackets(ok))
	h.EXPECT().Close().Return(nil).Times(1)

	w := &recordingWriter{}
	assert.NoError(t, frontend.Drive(context.Background(), h, w))
	assert.Equal(t, []mysqlproto.Packet{ok}, w.packets)
}

func TestDriveRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mockbackend.NewMockBackendHandler(ctrl)

	row1 := mysqlproto.NewTextResultSetRowPacket(4, []any{int64(1)})
	row2 := mysqlproto.NewTextResultSetRowPacket(5, []any{int64(2)})
	eof := mysqlproto.NewEOFPacket(6)

	gomock.InOrder(
		h.EXPECT().Execute(gomock.Any()).Return(header()),
		h.EXPECT().HasMoreResultValue().Return(true, nil),
		h.EXPECT().GetResultValue().Return(row1),
		h.EXPECT().HasMoreResultValue().Return(true, nil),
		h.EXPECT().GetResultValue().Return(row2),
		h.EXPECT().HasMoreResultValue().Return(true, nil),
		h.EXPECT().GetResultValue().Return(eof),
		h.EXPECT().Close().Return(nil),
	)

	w := &recordingWriter{}
	assert.NoError(t, frontend.Drive(context.Background(), h, w))
	assert.Len(t, w.packets, 6)
	assert.Equal(t, eof, w.packets[5])
}

func TestDriveStopsOnErrPacket(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mockbackend.NewMockBackendHandler(ctrl)

	errPkt := mysqlproto.NewErrPacket(1, 3054, "HY000", "Unknown exception: invalid connection")
	h.EXPECT().Execute(gomock.Any()).Return(header())
	h.EXPECT().HasMoreResultValue().Return(true, nil).Times(1)
	h.EXPECT().GetResultValue().Return(errPkt).Times(1)
	h.EXPECT().Close().Return(nil)

	w := &recordingWriter{}
	assert.NoError(t, frontend.Drive(context.Background(), h, w))
	assert.Equal(t, errPkt, w.packets[len(w.packets)-1])
}

func TestDriveReleasesAbandonedStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mockbackend.NewMockBackendHandler(ctrl)

	h.EXPECT().Execute(gomock.Any()).Return(header())
	h.EXPECT().HasMoreResultValue().Return(true, nil)
	h.EXPECT().GetResultValue().Return(mysqlproto.NewTextResultSetRowPacket(4, []any{int64(1)}))
	h.EXPECT().Close().Return(nil).Times(1)

	w := &recordingWriter{failAt: 4}
	assert.EqualError(t, frontend.Drive(context.Background(), h, w), "connection reset by peer")
}

func TestDriveReleaseFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mockbackend.NewMockBackendHandler(ctrl)

	h.EXPECT().Execute(gomock.Any()).Return(header())
	h.EXPECT().HasMoreResultValue().Return(false, errors.New("bad connection"))
	h.EXPECT().Close().Return(nil)

	assert.EqualError(t, frontend.Drive(context.Background(), h, &recordingWriter{}), "bad connection")
}

func TestFrontend(t *testing.T) {
	ctrl := gomock.NewController(t)

	var created []string
	factory := func(sql string) backend.BackendHandler {
		created = append(created, sql)
		h := mockbackend.NewMockBackendHandler(ctrl)
		h.EXPECT().Execute(gomock.Any()).Return(mysqlproto.NewCommandResponsePackets(mysqlproto.NewOKPacket(1, 0, 0)))
		h.EXPECT().Close().Return(nil).Times(1)
		return h
	}

	var buf bytes.Buffer
	src := frontend.NewSliceSource("BEGIN", "COMMIT")
	assert.NoError(t, frontend.Frontend(context.Background(), src, factory, mysqlproto.NewStreamPacketWriter(&buf)))

	assert.Equal(t, []string{"BEGIN", "COMMIT"}, created)
	// two framed OK packets: 4 byte header and 7 byte payload each
	assert.Equal(t, 22, buf.Len())
}
