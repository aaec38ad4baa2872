package backend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/pkg/txstatus"
	"github.com/pg-sharding/shardproxy/router/executor"
	"github.com/pg-sharding/shardproxy/router/merger"
	"github.com/pg-sharding/shardproxy/router/metadata"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/pg-sharding/shardproxy/router/route"
	"github.com/pg-sharding/shardproxy/router/statistics"
	"github.com/pg-sharding/shardproxy/router/txguard"
)

const unknownTable = "unknown_table"

// Handler runs one statement through routing, execution and merging and
// then streams the merged rows. It is confined to a single session.
type Handler struct {
	sql string
	cfg *Config

	computer   route.Computer
	engine     executor.Engine
	guard      *txguard.Guard
	rowBuilder RowPacketBuilder
	refresher  metadata.Refresher
	stats      statistics.StatHolder

	queryID     string
	state       State
	seq         int
	columnCount int
	hidden      int
	columnTypes []mysqlproto.ColumnType
	merged      merger.MergedResult
	streamErr   error
	closed      bool
}

var _ BackendHandler = &Handler{}

// NewHandler creates a handler for sql. refresher and stats may be nil.
func NewHandler(
	sql string,
	cfg *Config,
	computer route.Computer,
	engine executor.Engine,
	txMgr txstatus.Manager,
	rowBuilder RowPacketBuilder,
	refresher metadata.Refresher,
	stats statistics.StatHolder,
) *Handler {
	if rowBuilder == nil {
		rowBuilder = TextRowBuilder{}
	}
	return &Handler{
		sql:        sql,
		cfg:        cfg,
		computer:   computer,
		engine:     engine,
		guard:      txguard.New(cfg.TransactionType, txMgr),
		rowBuilder: rowBuilder,
		refresher:  refresher,
		stats:      stats,
		queryID:    uuid.NewString(),
		state:      StateInit,
	}
}

func (h *Handler) QueryID() string {
	return h.queryID
}

func (h *Handler) State() State {
	return h.state
}

func (h *Handler) Execute(ctx context.Context) *mysqlproto.CommandResponsePackets {
	span, ctx := opentracing.StartSpanFromContext(ctx, "execute")
	defer span.Finish()
	span.SetTag("query-id", h.queryID)

	proxylog.Zero.Debug().
		Str("query-id", h.queryID).
		Str("sql", h.sql).
		Msg("executing statement")

	resp, err := h.execute(ctx)
	if err != nil {
		h.state = StateFailed
		span.SetTag("error", true)
		proxylog.Zero.Error().
			Err(err).
			Str("query-id", h.queryID).
			Str("sql", h.sql).
			Msg("failed to execute statement")
		resp = mysqlproto.NewCommandResponsePackets(mysqlproto.NewErrPacketFromError(1, err))
	}

	if h.stats != nil {
		_, failed := resp.HeadPacket().(*mysqlproto.ErrPacket)
		h.stats.RecordQuery(failed)
	}
	return resp
}

func (h *Handler) recordPhase(phase statistics.Phase, start time.Time) {
	if h.stats != nil {
		h.stats.RecordPhase(phase, time.Since(start))
	}
}

func (h *Handler) execute(ctx context.Context) (*mysqlproto.CommandResponsePackets, error) {
	if h.state != StateInit {
		return nil, proxyerror.Newf(proxyerror.ER_STD_UNKNOWN_EXCEPTION, "statement already executed, state %s", h.state)
	}

	start := time.Now()
	rr, err := h.computer.Route(ctx, h.sql)
	h.recordPhase(statistics.PhaseRoute, start)
	if err != nil {
		return nil, err
	}
	h.state = StateRouted

	if rr.IsEmpty() {
		h.state = StateMergedNone
		return mysqlproto.NewCommandResponsePackets(mysqlproto.NewOKPacket(1, 0, 0)), nil
	}

	stmt := rr.Statement
	unsupported, err := h.guard.Unsupported(stmt)
	if err != nil {
		return nil, proxyerror.FromError(err)
	}
	if unsupported {
		table := unknownTable
		if stmt.IsSingleTable() {
			table = stmt.SingleTableName()
		}
		return nil, proxyerror.New(proxyerror.ER_ERROR_ON_MODIFYING_GTID_EXECUTED_TABLE, table)
	}

	proxylog.Zero.Debug().
		Str("query-id", h.queryID).
		Str("statement-type", stmt.Type.String()).
		Int("units", len(rr.ExecutionUnits)).
		Msg("statement routed")

	start = time.Now()
	resp, err := h.engine.Execute(ctx, rr, stmt.IsInsert())
	h.recordPhase(statistics.PhaseExecute, start)
	if err != nil {
		return nil, err
	}
	h.state = StateExecuted
	h.columnCount = resp.ColumnCount
	h.columnTypes = resp.ColumnTypes

	start = time.Now()
	packets, err := h.merge(rr, resp)
	h.recordPhase(statistics.PhaseMerge, start)
	if err != nil {
		return nil, err
	}

	if !h.cfg.MasterSlaveOnly && h.refresher != nil {
		h.refresher.Refresh(rr)
	}
	return packets, nil
}

func (h *Handler) merge(rr *route.RouteResult, resp *executor.Response) (*mysqlproto.CommandResponsePackets, error) {
	for _, p := range resp.Packets {
		if errPkt, ok := p.HeadPacket().(*mysqlproto.ErrPacket); ok {
			h.state = StateFailed
			return mysqlproto.NewCommandResponsePackets(errPkt), nil
		}
	}

	switch rr.Statement.Type {
	case parser.DML:
		h.state = StateMergedDML
		return mergeDML(resp.Packets), nil
	case parser.DQL, parser.DAL:
		// statements such as SET NAMES answer with OK, not a result set
		if _, ok := resp.Packets[0].HeadPacket().(*mysqlproto.FieldCountPacket); ok {
			return h.mergeRows(rr, resp)
		}
		h.state = StateMergedNone
		return resp.Packets[0], nil
	default:
		h.state = StateMergedNone
		return resp.Packets[0], nil
	}
}

func mergeDML(packets []*mysqlproto.CommandResponsePackets) *mysqlproto.CommandResponsePackets {
	var affectedRows, lastInsertID uint64
	for _, p := range packets {
		ok, isOK := p.HeadPacket().(*mysqlproto.OKPacket)
		if !isOK {
			continue
		}
		affectedRows += ok.AffectedRows
		// multi-unit inserts report the id of the last unit only
		lastInsertID = ok.LastInsertID
	}
	return mysqlproto.NewCommandResponsePackets(mysqlproto.NewOKPacket(1, affectedRows, lastInsertID))
}

func (h *Handler) mergeRows(rr *route.RouteResult, resp *executor.Response) (*mysqlproto.CommandResponsePackets, error) {
	engine, err := merger.NewMergeEngine(h.cfg.ShardingRule, resp.QueryResults, rr.Statement, rr.Limit)
	if err != nil {
		return nil, err
	}
	merged, err := engine.Merge()
	if err != nil {
		return nil, err
	}
	h.merged = merged
	h.state = StateMergedRows

	// columns appended for ordering only are never sent
	if rr.HiddenColumns > 0 && rr.HiddenColumns < h.columnCount {
		h.hidden = rr.HiddenColumns
		h.columnCount -= h.hidden
		if len(h.columnTypes) > h.columnCount {
			h.columnTypes = h.columnTypes[:h.columnCount]
		}
	}
	return h.headerPackets(resp.Packets[0]), nil
}

// headerPackets renumbers the field count, column definitions and EOF of
// one unit from 1, leaving out the definitions of hidden columns.
func (h *Handler) headerPackets(sample *mysqlproto.CommandResponsePackets) *mysqlproto.CommandResponsePackets {
	total := h.columnCount + h.hidden
	n := min(total+2, len(sample.Packets))
	ret := mysqlproto.NewCommandResponsePackets()
	for i, p := range sample.Packets[:n] {
		if i > h.columnCount && i <= total {
			continue
		}
		h.seq++
		if i == 0 && h.hidden > 0 {
			ret.AddPacket(mysqlproto.NewFieldCountPacket(h.seq, h.columnCount))
			continue
		}
		ret.AddPacket(p.WithSequenceID(h.seq))
	}
	return ret
}

// HasMoreResultValue advances the merged cursor. The call that finds the
// cursor exhausted still returns true, so that the following
// GetResultValue yields the EOF packet; every later call returns false
// and releases the backend connection.
func (h *Handler) HasMoreResultValue() (bool, error) {
	if !h.state.streamable() {
		return false, h.Close()
	}
	h.state = StateStreaming

	ok, err := h.merged.Next()
	if err != nil {
		// reported as an inline ERR packet by the next GetResultValue
		h.streamErr = err
		return true, nil
	}
	if !ok {
		h.state = StateExhausted
	}
	return true, nil
}

func (h *Handler) GetResultValue() mysqlproto.Packet {
	if h.state != StateStreaming {
		h.seq++
		return mysqlproto.NewEOFPacket(h.seq)
	}
	if h.streamErr != nil {
		return h.rowError(h.streamErr, -1)
	}

	data := make([]any, 0, h.columnCount)
	for i := 0; i < h.columnCount; i++ {
		v, err := h.merged.Value(i)
		if err != nil {
			return h.rowError(err, i)
		}
		data = append(data, v)
	}
	h.seq++
	return h.rowBuilder.NewRowPacket(h.seq, data, h.columnTypes)
}

func (h *Handler) rowError(err error, column int) mysqlproto.Packet {
	proxylog.Zero.Error().
		Err(err).
		Str("query-id", h.queryID).
		Int("column", column).
		Msg("failed to read merged row")
	h.state = StateFailed
	return mysqlproto.NewErrPacketFromError(1, err)
}

// Close releases the backend connection. It is safe to call repeatedly.
func (h *Handler) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.engine.Close()
}
