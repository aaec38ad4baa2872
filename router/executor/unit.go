package executor

import (
	"context"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/router/route"
)

func errResponse(unit route.ExecutionUnit, err error) *unitResult {
	proxylog.Zero.Debug().
		Err(err).
		Str("data-source", unit.DataSource).
		Str("sql", unit.SQLUnit.SQL).
		Msg("unit failed")
	return &unitResult{
		packets: mysqlproto.NewCommandResponsePackets(mysqlproto.NewErrPacketFromError(1, err)),
	}
}

func (e *SQLEngine) query(ctx context.Context, conn *sqlx.Conn, unit route.ExecutionUnit) *unitResult {
	rows, err := conn.QueryxContext(ctx, unit.SQLUnit.SQL, unit.SQLUnit.Parameters...)
	if err != nil {
		return errResponse(unit, err)
	}
	e.conn.Track(rows)

	cols, err := rows.ColumnTypes()
	if err != nil {
		return errResponse(unit, err)
	}
	// SET, USE and the like produce no result set
	if len(cols) == 0 {
		if err := rows.Close(); err != nil {
			return errResponse(unit, err)
		}
		return &unitResult{
			packets: mysqlproto.NewCommandResponsePackets(mysqlproto.NewOKPacket(1, 0, 0)),
		}
	}

	seq := 1
	packets := mysqlproto.NewCommandResponsePackets(mysqlproto.NewFieldCountPacket(seq, len(cols)))
	types := make([]mysqlproto.ColumnType, 0, len(cols))
	labels := make([]string, 0, len(cols))
	for _, c := range cols {
		seq++
		tp := mysqlproto.ColumnTypeByDatabaseTypeName(c.DatabaseTypeName())
		var length uint32
		if l, ok := c.Length(); ok && l > 0 {
			length = uint32(min(l, math.MaxUint32))
		}
		packets.AddPacket(mysqlproto.NewColumnDefinition41Packet(seq, "", c.Name(), tp, length))
		types = append(types, tp)
		labels = append(labels, c.Name())
	}
	seq++
	packets.AddPacket(mysqlproto.NewEOFPacket(seq))

	return &unitResult{
		packets: packets,
		result:  newRowsQueryResult(rows, labels),
		types:   types,
	}
}

func exec(ctx context.Context, conn *sqlx.Conn, unit route.ExecutionUnit, wantGeneratedKeys bool) *unitResult {
	res, err := conn.ExecContext(ctx, unit.SQLUnit.SQL, unit.SQLUnit.Parameters...)
	if err != nil {
		return errResponse(unit, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	var lastID int64
	if wantGeneratedKeys {
		// not every driver reports insert ids, pgx and lib/pq never do
		if id, err := res.LastInsertId(); err == nil {
			lastID = id
		}
	}
	return &unitResult{
		packets: mysqlproto.NewCommandResponsePackets(mysqlproto.NewOKPacket(1, uint64(affected), uint64(lastID))),
	}
}
