package route

import (
	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/router/parser"
)

// SelectComputer picks the routing mode of a proxy instance. The choice
// is made once, from the loaded configuration. columns may be nil.
func SelectComputer(cfg *config.Proxy, p parser.Parser, columns ColumnSource) Computer {
	if cfg.MasterSlaveOnly() {
		return NewMasterSlaveComputer(p, cfg.MasterSlaveRule)
	}
	return NewShardingComputer(p, &cfg.ShardingRule).WithColumns(columns)
}
