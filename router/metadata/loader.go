package metadata

import (
	"context"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/datasource"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pkg/errors"
)

type TableMetaLoader interface {
	Load(ctx context.Context, logicTable string) (*TableMetaData, error)
}

// SQLTableMetaLoader reads column metadata from the first data node of a
// table. Tables without a sharding rule are read from the default data
// source under their own name.
type SQLTableMetaLoader struct {
	pool datasource.Pool
	rule *config.ShardingRule
}

var _ TableMetaLoader = &SQLTableMetaLoader{}

func NewSQLTableMetaLoader(pool datasource.Pool, rule *config.ShardingRule) *SQLTableMetaLoader {
	return &SQLTableMetaLoader{pool: pool, rule: rule}
}

func (l *SQLTableMetaLoader) dataNode(logicTable string) (config.DataNode, error) {
	if tr, ok := l.rule.FindTableRule(logicTable); ok {
		nodes, err := tr.DataNodes()
		if err != nil {
			return config.DataNode{}, err
		}
		if len(nodes) == 0 {
			return config.DataNode{}, proxyerror.Newf(proxyerror.ER_PROXY_ROUTING, "table %s has no data nodes", logicTable)
		}
		return nodes[0], nil
	}
	if l.rule == nil || l.rule.DefaultDataSource == "" {
		return config.DataNode{}, proxyerror.Newf(proxyerror.ER_PROXY_ROUTING, "no data source for table %s", logicTable)
	}
	return config.DataNode{DataSource: l.rule.DefaultDataSource, Table: logicTable}, nil
}

func (l *SQLTableMetaLoader) Load(ctx context.Context, logicTable string) (*TableMetaData, error) {
	node, err := l.dataNode(logicTable)
	if err != nil {
		return nil, err
	}
	db, err := l.pool.DB(node.DataSource)
	if err != nil {
		return nil, err
	}

	proxylog.Zero.Debug().
		Str("table", logicTable).
		Str("data-node", node.String()).
		Msg("loading table metadata")

	// an empty result set reports column types on every supported driver
	rows, err := db.QueryxContext(ctx, "SELECT * FROM "+node.Table+" WHERE 1 = 0")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load metadata of %s", node)
	}
	defer rows.Close()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read columns of %s", node)
	}
	tm := &TableMetaData{Columns: make([]ColumnMetaData, 0, len(cols))}
	for _, c := range cols {
		tm.Columns = append(tm.Columns, ColumnMetaData{
			Name:     c.Name(),
			DataType: c.DatabaseTypeName(),
		})
	}
	return tm, rows.Err()
}
