package instance

import (
	"context"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/datasource"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/pkg/txstatus"
	"github.com/pg-sharding/shardproxy/router/backend"
	"github.com/pg-sharding/shardproxy/router/executor"
	"github.com/pg-sharding/shardproxy/router/metadata"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/pg-sharding/shardproxy/router/route"
	"github.com/pg-sharding/shardproxy/router/statistics"
)

type ProxyInstance interface {
	// NewHandler creates the handler of one statement. tx reports the
	// transaction status of the session the statement belongs to.
	NewHandler(sql string, binary bool, tx txstatus.Manager) backend.BackendHandler
	Parser() parser.Parser
	Stats() *statistics.Collector
	Shutdown() error
}

// InstanceImpl holds everything shared by the handlers of one proxy.
type InstanceImpl struct {
	cfg         *backend.Config
	maxParallel int

	Pool      datasource.Pool
	Computer  route.Computer
	MetaData  *metadata.ShardingMetaData
	parser    *parser.SharedParser
	refresher *metadata.AsyncRefresher
	publisher *metadata.EtcdPublisher
	stats     *statistics.Collector
}

var _ ProxyInstance = &InstanceImpl{}

func NewInstance(ctx context.Context, cfg *config.Proxy) (*InstanceImpl, error) {
	pool, err := datasource.NewSQLPool(cfg.DataSources)
	if err != nil {
		return nil, err
	}

	meta := metadata.NewShardingMetaData()
	shared := parser.NewSharedParser()
	computer := route.SelectComputer(cfg, shared, meta)
	proxylog.Zero.Debug().
		Bool("master-slave-only", cfg.MasterSlaveOnly()).
		Str("transaction-type", string(cfg.TxType())).
		Msg("creating proxy instance")

	var publisher *metadata.EtcdPublisher
	var pub metadata.Publisher
	if len(cfg.MetadataCfg.EtcdEndpoints) > 0 {
		publisher, err = metadata.NewEtcdPublisher(cfg.MetadataCfg.EtcdEndpoints, cfg.MetadataCfg.EtcdPrefix)
		if err != nil {
			_ = pool.Close()
			return nil, err
		}
		pub = publisher
	}

	handler := metadata.NewRefreshHandler(
		meta,
		metadata.NewSQLTableMetaLoader(pool, &cfg.ShardingRule),
		pub,
		cfg.MetadataCfg.RefreshRetries,
	)
	refresher := metadata.NewAsyncRefresher(handler, cfg.MetadataCfg.RefreshQueueSize)
	refresher.Start(ctx)
	for _, t := range cfg.ShardingRule.Tables {
		refresher.Submit(metadata.Task{Action: metadata.ActionReload, Table: t.LogicTable})
	}

	return &InstanceImpl{
		cfg:         backend.ConfigFromProxy(cfg),
		maxParallel: cfg.ExecuterCfg.MaxParallelUnits,
		Pool:        pool,
		Computer:    computer,
		MetaData:    meta,
		parser:      shared,
		refresher:   refresher,
		publisher:   publisher,
		stats:       statistics.NewCollector(cfg.TimeQuantiles),
	}, nil
}

// NewHandler creates the handler of one statement. binary selects the
// row format of prepared statement execution; tx holds the transaction
// status of the calling session.
func (r *InstanceImpl) NewHandler(sql string, binary bool, tx txstatus.Manager) backend.BackendHandler {
	var rb backend.RowPacketBuilder = backend.TextRowBuilder{}
	if binary {
		rb = backend.BinaryRowBuilder{}
	}
	return backend.NewHandler(
		sql,
		r.cfg,
		r.Computer,
		executor.NewSQLEngine(r.Pool, r.maxParallel),
		tx,
		rb,
		r.refresher,
		r.stats,
	)
}

func (r *InstanceImpl) Parser() parser.Parser {
	return r.parser
}

func (r *InstanceImpl) Stats() *statistics.Collector {
	return r.stats
}

// Shutdown waits for queued metadata refreshes and closes data sources.
func (r *InstanceImpl) Shutdown() error {
	r.refresher.Stop()
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			proxylog.Zero.Error().Err(err).Msg("failed to close metadata publisher")
		}
	}
	return r.Pool.Close()
}
