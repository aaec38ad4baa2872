package route

import (
	"context"
	"math/rand"
	"slices"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/router/parser"
	"go.uber.org/atomic"
)

// MasterSlaveRouter sends reads to a slave and everything else to the master.
type MasterSlaveRouter struct {
	rule    *config.MasterSlaveRule
	counter *atomic.Uint64
}

func NewMasterSlaveRouter(rule *config.MasterSlaveRule) *MasterSlaveRouter {
	return &MasterSlaveRouter{
		rule:    rule,
		counter: atomic.NewUint64(0),
	}
}

func (r *MasterSlaveRouter) Route(tp parser.SQLType) []string {
	if tp != parser.DQL || len(r.rule.Slaves) == 0 {
		return []string{r.rule.Master}
	}
	switch r.rule.LoadBalance {
	case config.LoadBalanceRandom:
		return []string{r.rule.Slaves[rand.Intn(len(r.rule.Slaves))]}
	default:
		n := r.counter.Inc() - 1
		return []string{r.rule.Slaves[n%uint64(len(r.rule.Slaves))]}
	}
}

func (r *MasterSlaveRouter) dataSources() []string {
	return append([]string{r.rule.Master}, r.rule.Slaves...)
}

type MasterSlaveComputer struct {
	parser parser.Parser
	router *MasterSlaveRouter
}

var _ Computer = &MasterSlaveComputer{}

func NewMasterSlaveComputer(p parser.Parser, rule *config.MasterSlaveRule) *MasterSlaveComputer {
	return &MasterSlaveComputer{
		parser: p,
		router: NewMasterSlaveRouter(rule),
	}
}

func (c *MasterSlaveComputer) Route(_ context.Context, sql string) (*RouteResult, error) {
	stmt, err := c.parser.Judge(sql)
	if err != nil {
		return nil, err
	}

	targets := c.router.Route(stmt.Type)
	if ds, ok := stmt.Hints[parser.HintDataSource]; ok {
		if !slices.Contains(c.router.dataSources(), ds) {
			return nil, proxyerror.Newf(proxyerror.ER_PROXY_ROUTING, "hinted data source %q is not part of rule %q", ds, c.router.rule.Name)
		}
		targets = []string{ds}
	}

	proxylog.Zero.Debug().
		Str("sql", sql).
		Str("statement-type", stmt.Type.String()).
		Strs("data-sources", targets).
		Msg("master-slave route")

	return &RouteResult{
		Statement:      stmt,
		ExecutionUnits: unitsOf(sql, targets...),
	}, nil
}
