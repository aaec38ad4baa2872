package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/router/app"
	"github.com/pg-sharding/shardproxy/router/instance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	packets []mysqlproto.Packet
}

func (w *recordingWriter) WritePacket(p mysqlproto.Packet) error {
	w.packets = append(w.packets, p)
	return nil
}

func memDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func openMem(t *testing.T, name string, ddl ...string) {
	t.Helper()
	db, err := sqlx.Open("sqlite3", memDSN(name))
	require.NoError(t, err)
	for _, q := range ddl {
		_, err := db.Exec(q)
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = db.Close() })
}

func shardedConfig(prefix string) *config.Proxy {
	return &config.Proxy{
		DataSources: map[string]*config.DataSource{
			"ds_0": {Driver: "sqlite3", DSN: memDSN(prefix + "_ds_0")},
			"ds_1": {Driver: "sqlite3", DSN: memDSN(prefix + "_ds_1")},
		},
		ShardingRule: config.ShardingRule{
			DefaultDataSource: "ds_0",
			Tables: []*config.TableRule{{
				LogicTable:      "t_order",
				ActualDataNodes: []string{"ds_0.t_order_0", "ds_1.t_order_1"},
				ShardingColumn:  "order_id",
			}},
		},
		TimeQuantiles: []float64{0.5},
	}
}

func TestExecShardedQueries(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	openMem(t, "app_ds_0", "CREATE TABLE t_order_0 (order_id INTEGER, amount INTEGER)")
	openMem(t, "app_ds_1", "CREATE TABLE t_order_1 (order_id INTEGER, amount INTEGER)")

	inst, err := instance.NewInstance(ctx, shardedConfig("app"))
	require.NoError(t, err)
	defer func() { assert.NoError(inst.Shutdown()) }()

	// metadata of configured tables is loaded in the background on start
	require.Eventually(t, func() bool {
		_, ok := inst.MetaData.Get("t_order")
		return ok
	}, time.Second, 5*time.Millisecond)

	w := &recordingWriter{}
	err = app.NewApp(inst).Exec(ctx, []string{
		"INSERT INTO t_order (order_id, amount) VALUES (1, 10), (2, 20), (3, 30), (4, 40)",
		"SELECT order_id, amount FROM t_order ORDER BY order_id DESC",
	}, false, w)
	require.NoError(t, err)

	require.Len(t, w.packets, 1+4+4+1)
	ok, isOK := w.packets[0].(*mysqlproto.OKPacket)
	require.True(t, isOK)
	assert.Equal(uint64(4), ok.AffectedRows)

	header := w.packets[1:5]
	for i, p := range header {
		assert.Equal(i+1, p.SequenceID())
	}
	assert.Equal("amount", header[2].(*mysqlproto.ColumnDefinition41Packet).Name)

	var ids []string
	for i, p := range w.packets[5:9] {
		row, isRow := p.(*mysqlproto.TextResultSetRowPacket)
		require.True(t, isRow)
		assert.Equal(5+i, row.SequenceID())
		ids = append(ids, string(mysqlproto.TextValue(row.Data[0])))
	}
	assert.Equal([]string{"4", "3", "2", "1"}, ids)
	assert.Equal(mysqlproto.NewEOFPacket(9), w.packets[9])

	assert.Equal(uint64(2), inst.Stats().Queries())
	assert.Equal(uint64(0), inst.Stats().Failed())
}

func TestExecOrdersByUnselectedColumn(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	openMem(t, "apphidden_ds_0", "CREATE TABLE t_order_0 (order_id INTEGER, amount INTEGER)")
	openMem(t, "apphidden_ds_1", "CREATE TABLE t_order_1 (order_id INTEGER, amount INTEGER)")

	inst, err := instance.NewInstance(ctx, shardedConfig("apphidden"))
	require.NoError(t, err)
	defer func() { assert.NoError(inst.Shutdown()) }()

	require.Eventually(t, func() bool {
		_, ok := inst.MetaData.Get("t_order")
		return ok
	}, time.Second, 5*time.Millisecond)

	w := &recordingWriter{}
	err = app.NewApp(inst).Exec(ctx, []string{
		// column order comes from the loaded metadata
		"INSERT INTO t_order VALUES (1, 30), (2, 10), (3, 20)",
		"SELECT order_id FROM t_order ORDER BY amount",
		"SELECT COUNT(*) FROM t_order",
	}, false, w)
	require.NoError(t, err)

	require.Len(t, w.packets, 1+3+3+1+1)
	ok, isOK := w.packets[0].(*mysqlproto.OKPacket)
	require.True(t, isOK)
	assert.Equal(uint64(3), ok.AffectedRows)

	assert.Equal(mysqlproto.NewFieldCountPacket(1, 1), w.packets[1])
	assert.Equal("order_id", w.packets[2].(*mysqlproto.ColumnDefinition41Packet).Name)

	var ids []string
	for _, p := range w.packets[4:7] {
		row, isRow := p.(*mysqlproto.TextResultSetRowPacket)
		require.True(t, isRow)
		require.Len(t, row.Data, 1)
		ids = append(ids, string(mysqlproto.TextValue(row.Data[0])))
	}
	assert.Equal([]string{"2", "3", "1"}, ids)
	assert.Equal(mysqlproto.NewEOFPacket(7), w.packets[7])

	errPkt, isErr := w.packets[8].(*mysqlproto.ErrPacket)
	require.True(t, isErr)
	assert.Equal(proxyerror.ER_NOT_SUPPORTED_YET, errPkt.ErrorCode)
}

func TestExecReportsErrors(t *testing.T) {
	ctx := context.Background()

	openMem(t, "apperr_ds_0", "CREATE TABLE t_order_0 (order_id INTEGER)")
	openMem(t, "apperr_ds_1", "CREATE TABLE t_order_1 (order_id INTEGER)")

	inst, err := instance.NewInstance(ctx, shardedConfig("apperr"))
	require.NoError(t, err)
	defer func() { _ = inst.Shutdown() }()

	w := &recordingWriter{}
	err = app.NewApp(inst).Exec(ctx, []string{
		"SELEC broken",
		"INSERT INTO t_order (amount) VALUES (1)",
		"SELECT * FROM t_missing",
	}, true, w)
	require.NoError(t, err)

	require.Len(t, w.packets, 3)
	for _, p := range w.packets {
		errPkt, ok := p.(*mysqlproto.ErrPacket)
		require.True(t, ok)
		assert.Equal(t, 1, errPkt.SequenceID())
	}
	assert.Equal(t, uint64(3), inst.Stats().Failed())
}

func TestExecTracksSessionTransaction(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct {
		name     string
		txType   string
		rejected bool
	}{
		{name: "xa", txType: "XA", rejected: true},
		{name: "local", txType: "LOCAL", rejected: false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			prefix := "apptx_" + tt.name
			openMem(t, prefix+"_ds_0", "CREATE TABLE t_order_0 (order_id INTEGER)")
			openMem(t, prefix+"_ds_1", "CREATE TABLE t_order_1 (order_id INTEGER)")

			cfg := shardedConfig(prefix)
			cfg.TransactionType = tt.txType
			inst, err := instance.NewInstance(ctx, cfg)
			require.NoError(t, err)
			defer func() { _ = inst.Shutdown() }()

			w := &recordingWriter{}
			err = app.NewApp(inst).Exec(ctx, []string{
				"BEGIN",
				"CREATE TABLE t_audit (id INTEGER)",
			}, false, w)
			require.NoError(t, err)

			require.Len(t, w.packets, 2)
			assert.IsType(t, &mysqlproto.OKPacket{}, w.packets[0])

			errPkt, failed := w.packets[1].(*mysqlproto.ErrPacket)
			assert.Equal(t, tt.rejected, failed)
			if tt.rejected {
				assert.Equal(t, proxyerror.ER_ERROR_ON_MODIFYING_GTID_EXECUTED_TABLE, errPkt.ErrorCode)
				assert.Contains(t, errPkt.ErrorMessage, "t_audit")
			}
		})
	}
}

func TestExecTransactionEndsOnRollback(t *testing.T) {
	ctx := context.Background()

	openMem(t, "apprb_ds_0", "CREATE TABLE t_order_0 (order_id INTEGER)")
	openMem(t, "apprb_ds_1", "CREATE TABLE t_order_1 (order_id INTEGER)")

	cfg := shardedConfig("apprb")
	cfg.TransactionType = "XA"
	inst, err := instance.NewInstance(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = inst.Shutdown() }()

	w := &recordingWriter{}
	err = app.NewApp(inst).Exec(ctx, []string{
		"BEGIN",
		"ROLLBACK",
		"CREATE TABLE t_audit (id INTEGER)",
	}, false, w)
	require.NoError(t, err)

	require.Len(t, w.packets, 3)
	assert.IsType(t, &mysqlproto.OKPacket{}, w.packets[2])
}
