package executor

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pg-sharding/shardproxy/pkg/datasource"
	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/router/merger"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/pg-sharding/shardproxy/router/route"
	"golang.org/x/sync/errgroup"
)

// Response holds the outcome of every execution unit in unit order.
type Response struct {
	Packets      []*mysqlproto.CommandResponsePackets
	QueryResults []merger.QueryResult
	ColumnCount  int
	ColumnTypes  []mysqlproto.ColumnType
}

// Engine executes the units of one statement. Connections borrowed by
// Execute stay open until Close, so query results can be streamed.
type Engine interface {
	Execute(ctx context.Context, rr *route.RouteResult, wantGeneratedKeys bool) (*Response, error)
	Close() error
}

type SQLEngine struct {
	pool        datasource.Pool
	maxParallel int
	conn        *BackendConnection
}

var _ Engine = &SQLEngine{}

// NewSQLEngine returns an engine for a single statement. maxParallel
// bounds how many units run at once, 0 means no bound.
func NewSQLEngine(pool datasource.Pool, maxParallel int) *SQLEngine {
	return &SQLEngine{
		pool:        pool,
		maxParallel: maxParallel,
		conn:        NewBackendConnection(pool),
	}
}

type unitResult struct {
	packets *mysqlproto.CommandResponsePackets
	result  merger.QueryResult
	types   []mysqlproto.ColumnType
}

func (e *SQLEngine) Execute(ctx context.Context, rr *route.RouteResult, wantGeneratedKeys bool) (*Response, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "execute units")
	defer span.Finish()
	span.SetTag("units", len(rr.ExecutionUnits))

	isQuery := rr.Statement.Type == parser.DQL || rr.Statement.Type == parser.DAL
	results := make([]*unitResult, len(rr.ExecutionUnits))

	// rows must outlive this call, so units run on ctx itself rather
	// than on a context cancelled by the group
	var g errgroup.Group
	if e.maxParallel > 0 {
		g.SetLimit(e.maxParallel)
	}
	for i, unit := range rr.ExecutionUnits {
		g.Go(func() error {
			conn, err := e.conn.Borrow(ctx, unit.DataSource)
			if err != nil {
				return err
			}
			if isQuery {
				results[i] = e.query(ctx, conn, unit)
			} else {
				results[i] = exec(ctx, conn, unit, wantGeneratedKeys)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		proxylog.Zero.Error().Err(err).Msg("failed to execute units")
		return nil, err
	}

	resp := &Response{
		Packets: make([]*mysqlproto.CommandResponsePackets, 0, len(results)),
	}
	for _, r := range results {
		resp.Packets = append(resp.Packets, r.packets)
		if r.result == nil {
			continue
		}
		if resp.QueryResults == nil {
			resp.ColumnCount = r.result.ColumnCount()
			resp.ColumnTypes = r.types
		}
		resp.QueryResults = append(resp.QueryResults, r.result)
	}
	return resp, nil
}

func (e *SQLEngine) Close() error {
	return e.conn.Close()
}
