package route_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/models/hashfunction"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/pg-sharding/shardproxy/router/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vitess.io/vitess/go/vt/sqlparser"
)

func normalize(t *testing.T, sql string) string {
	t.Helper()
	ast, err := sqlparser.Parse(sql)
	require.NoError(t, err)
	return sqlparser.String(ast)
}

func testRule() *config.ShardingRule {
	return &config.ShardingRule{
		DefaultDataSource: "ds_0",
		Tables: []*config.TableRule{
			{
				LogicTable:      "t_order",
				ActualDataNodes: []string{"ds_0.t_order_0", "ds_1.t_order_1"},
				ShardingColumn:  "order_id",
			},
			{
				LogicTable:      "t_user",
				ActualDataNodes: []string{"ds_0.t_user_0", "ds_1.t_user_1"},
				ShardingColumn:  "user_id",
				HashFunction:    "murmur",
			},
		},
	}
}

func codeOf(t *testing.T, err error) uint16 {
	t.Helper()
	var pe *proxyerror.ProxyError
	require.True(t, errors.As(err, &pe), "%v", err)
	return pe.ErrorCode
}

type expUnit struct {
	ds  string
	sql string
}

func TestShardingComputerRoute(t *testing.T) {
	type tcase struct {
		name  string
		sql   string
		units []expUnit
		limit *route.Limit
	}

	for _, tt := range []tcase{
		{
			name:  "equal on sharding column",
			sql:   "SELECT * FROM t_order WHERE order_id = 2",
			units: []expUnit{{"ds_0", "SELECT * FROM t_order_0 WHERE order_id = 2"}},
		},
		{
			name:  "value first",
			sql:   "SELECT * FROM t_order WHERE 3 = order_id AND status = 'x'",
			units: []expUnit{{"ds_1", "SELECT * FROM t_order_1 WHERE 3 = order_id AND status = 'x'"}},
		},
		{
			name: "in list",
			sql:  "SELECT * FROM t_order WHERE order_id IN (3, 2, 5)",
			units: []expUnit{
				{"ds_0", "SELECT * FROM t_order_0 WHERE order_id IN (3, 2, 5)"},
				{"ds_1", "SELECT * FROM t_order_1 WHERE order_id IN (3, 2, 5)"},
			},
		},
		{
			name: "no condition broadcasts",
			sql:  "SELECT * FROM t_order",
			units: []expUnit{
				{"ds_0", "SELECT * FROM t_order_0"},
				{"ds_1", "SELECT * FROM t_order_1"},
			},
		},
		{
			name: "or over other column broadcasts",
			sql:  "SELECT * FROM t_order WHERE order_id = 2 OR status = 'x'",
			units: []expUnit{
				{"ds_0", "SELECT * FROM t_order_0 WHERE order_id = 2 OR status = 'x'"},
				{"ds_1", "SELECT * FROM t_order_1 WHERE order_id = 2 OR status = 'x'"},
			},
		},
		{
			name:  "alias",
			sql:   "SELECT o.status FROM t_order o WHERE o.order_id = 3",
			units: []expUnit{{"ds_1", "SELECT o.status FROM t_order_1 AS o WHERE o.order_id = 3"}},
		},
		{
			name:  "qualified columns",
			sql:   "SELECT t_order.status FROM t_order WHERE t_order.order_id = 2",
			units: []expUnit{{"ds_0", "SELECT t_order_0.status FROM t_order_0 WHERE t_order_0.order_id = 2"}},
		},
		{
			name: "limit over several units",
			sql:  "SELECT * FROM t_order ORDER BY order_id LIMIT 10, 20",
			units: []expUnit{
				{"ds_0", "SELECT * FROM t_order_0 ORDER BY order_id LIMIT 0, 30"},
				{"ds_1", "SELECT * FROM t_order_1 ORDER BY order_id LIMIT 0, 30"},
			},
			limit: &route.Limit{Offset: 10, RowCount: 20},
		},
		{
			name:  "limit on one unit",
			sql:   "SELECT * FROM t_order WHERE order_id = 2 LIMIT 10, 20",
			units: []expUnit{{"ds_0", "SELECT * FROM t_order_0 WHERE order_id = 2 LIMIT 10, 20"}},
		},
		{
			name:  "update",
			sql:   "UPDATE t_order SET status = 'y' WHERE order_id = 3",
			units: []expUnit{{"ds_1", "UPDATE t_order_1 SET status = 'y' WHERE order_id = 3"}},
		},
		{
			name:  "delete",
			sql:   "DELETE FROM t_order WHERE order_id = 2",
			units: []expUnit{{"ds_0", "DELETE FROM t_order_0 WHERE order_id = 2"}},
		},
		{
			name: "insert split per node",
			sql:  "INSERT INTO t_order (order_id, status) VALUES (1, 'a'), (2, 'b'), (3, 'c')",
			units: []expUnit{
				{"ds_0", "INSERT INTO t_order_0 (order_id, status) VALUES (2, 'b')"},
				{"ds_1", "INSERT INTO t_order_1 (order_id, status) VALUES (1, 'a'), (3, 'c')"},
			},
		},
		{
			name: "ddl broadcasts",
			sql:  "DROP TABLE t_order",
			units: []expUnit{
				{"ds_0", "DROP TABLE t_order_0"},
				{"ds_1", "DROP TABLE t_order_1"},
			},
		},
		{
			name:  "unsharded table goes to default",
			sql:   "SELECT * FROM t_config WHERE id = 7",
			units: []expUnit{{"ds_0", "SELECT * FROM t_config WHERE id = 7"}},
		},
		{
			name:  "transaction control goes to default",
			sql:   "BEGIN",
			units: []expUnit{{"ds_0", "BEGIN"}},
		},
		{
			name: "show tables reaches every data source",
			sql:  "SHOW TABLES",
			units: []expUnit{
				{"ds_0", "SHOW TABLES"},
				{"ds_1", "SHOW TABLES"},
			},
		},
		{
			name:  "hint",
			sql:   "/* shardproxy.data_source: ds_1 */ SELECT * FROM t_order",
			units: []expUnit{{"ds_1", "/* shardproxy.data_source: ds_1 */ SELECT * FROM t_order"}},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := route.NewShardingComputer(parser.SQLJudge{}, testRule())

			rr, err := c.Route(context.Background(), tt.sql)
			require.NoError(t, err)

			require.Len(t, rr.ExecutionUnits, len(tt.units))
			for i, u := range tt.units {
				assert.Equal(t, u.ds, rr.ExecutionUnits[i].DataSource)
				exp := u.sql
				if exp != tt.sql {
					exp = normalize(t, exp)
				}
				assert.Equal(t, exp, rr.ExecutionUnits[i].SQLUnit.SQL)
				assert.Empty(t, rr.ExecutionUnits[i].SQLUnit.Parameters)
			}
			assert.Equal(t, tt.limit, rr.Limit)
			assert.Equal(t, tt.sql, rr.Statement.SQL)
		})
	}
}

func TestShardingComputerMurmur(t *testing.T) {
	c := route.NewShardingComputer(parser.SQLJudge{}, testRule())

	rr, err := c.Route(context.Background(), "SELECT * FROM t_user WHERE user_id = 'alice'")
	require.NoError(t, err)

	h, err := hashfunction.ApplyHashFunction("alice", hashfunction.HashFunctionMurmur)
	require.NoError(t, err)
	exp := []string{"ds_0", "ds_1"}[h%2]

	assert.Equal(t, []string{exp}, rr.DataSources())
}

func TestShardingComputerMurmurLiteralKinds(t *testing.T) {
	c := route.NewShardingComputer(parser.SQLJudge{}, testRule())

	for i := 1; i <= 20; i++ {
		ins, err := c.Route(context.Background(), fmt.Sprintf("INSERT INTO t_user (user_id, name) VALUES (%d, 'n')", i))
		require.NoError(t, err)
		sel, err := c.Route(context.Background(), fmt.Sprintf("SELECT * FROM t_user WHERE user_id = '%d'", i))
		require.NoError(t, err)

		assert.Len(t, ins.DataSources(), 1)
		assert.Equal(t, ins.DataSources(), sel.DataSources(), "user_id %d", i)
	}
}

func TestShardingComputerErrors(t *testing.T) {
	for _, tt := range []struct {
		sql  string
		code uint16
	}{
		{sql: "SELECT * FROM t_order o JOIN t_user u ON o.user_id = u.user_id", code: proxyerror.ER_NOT_SUPPORTED_YET},
		{sql: "INSERT INTO t_order (status) VALUES ('a')", code: proxyerror.ER_PROXY_ROUTING},
		{sql: "INSERT INTO t_order (order_id) SELECT id FROM t_config", code: proxyerror.ER_NOT_SUPPORTED_YET},
		{sql: "/* shardproxy.data_source: ds_9 */ SELECT 1", code: proxyerror.ER_PROXY_ROUTING},
		{sql: "SELEC * FROM t_order", code: proxyerror.ER_PARSE_ERROR},
		{sql: "SELECT COUNT(*) FROM t_order", code: proxyerror.ER_NOT_SUPPORTED_YET},
		{sql: "SELECT status, SUM(amount) FROM t_order GROUP BY status", code: proxyerror.ER_NOT_SUPPORTED_YET},
		{sql: "SELECT DISTINCT status FROM t_order WHERE order_id IN (1, 2)", code: proxyerror.ER_NOT_SUPPORTED_YET},
	} {
		t.Run(tt.sql, func(t *testing.T) {
			c := route.NewShardingComputer(parser.SQLJudge{}, testRule())
			_, err := c.Route(context.Background(), tt.sql)
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}
}

func TestShardingComputerNoDefaultDataSource(t *testing.T) {
	rule := testRule()
	rule.DefaultDataSource = ""
	c := route.NewShardingComputer(parser.SQLJudge{}, rule)

	rr, err := c.Route(context.Background(), "SELECT * FROM t_config")
	require.NoError(t, err)

	assert.True(t, rr.IsEmpty())
	assert.Equal(t, parser.DQL, rr.Statement.Type)
}

func TestShardingComputerAggregationOnOneShard(t *testing.T) {
	c := route.NewShardingComputer(parser.SQLJudge{}, testRule())

	rr, err := c.Route(context.Background(), "SELECT COUNT(*) FROM t_order WHERE order_id = 2")
	require.NoError(t, err)

	assert.Equal(t, []string{"ds_0"}, rr.DataSources())
	assert.Zero(t, rr.HiddenColumns)
}

type columnMap map[string][]string

func (m columnMap) ColumnNames(table string) ([]string, bool) {
	names, ok := m[table]
	return names, ok
}

func TestShardingComputerHiddenOrderByColumns(t *testing.T) {
	for _, tt := range []struct {
		name    string
		sql     string
		columns route.ColumnSource
		hidden  int
		exp     string
	}{
		{
			name:   "selected column",
			sql:    "SELECT order_id, status FROM t_order ORDER BY order_id",
			hidden: 0,
			exp:    "SELECT order_id, status FROM t_order_0 ORDER BY order_id",
		},
		{
			name:   "alias",
			sql:    "SELECT order_id AS id, status FROM t_order ORDER BY id",
			hidden: 0,
			exp:    "SELECT order_id AS id, status FROM t_order_0 ORDER BY id",
		},
		{
			name:   "missing column",
			sql:    "SELECT status FROM t_order ORDER BY created_at DESC, status",
			hidden: 1,
			exp:    "SELECT status, created_at FROM t_order_0 ORDER BY created_at DESC, status",
		},
		{
			name:   "star without metadata",
			sql:    "SELECT * FROM t_order ORDER BY created_at",
			hidden: 0,
			exp:    "SELECT * FROM t_order_0 ORDER BY created_at",
		},
		{
			name:    "star with metadata",
			sql:     "SELECT * FROM t_order ORDER BY created_at",
			columns: columnMap{"t_order": {"order_id", "status", "created_at"}},
			hidden:  0,
			exp:     "SELECT * FROM t_order_0 ORDER BY created_at",
		},
		{
			name:    "star missing from metadata",
			sql:     "SELECT * FROM t_order o JOIN t_config c ON o.status = c.code ORDER BY c.weight",
			columns: columnMap{"t_order": {"order_id", "status"}},
			hidden:  1,
			exp:     "SELECT *, c.weight FROM t_order_0 AS o JOIN t_config AS c ON o.status = c.code ORDER BY c.weight",
		},
		{
			name:   "qualified column",
			sql:    "SELECT t_order.status FROM t_order ORDER BY t_order.order_id",
			hidden: 1,
			exp:    "SELECT t_order_0.status, t_order_0.order_id FROM t_order_0 ORDER BY t_order_0.order_id",
		},
		{
			name:   "ordinal",
			sql:    "SELECT order_id, status FROM t_order ORDER BY 2",
			hidden: 0,
			exp:    "SELECT order_id, status FROM t_order_0 ORDER BY 2",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := route.NewShardingComputer(parser.SQLJudge{}, testRule()).WithColumns(tt.columns)

			rr, err := c.Route(context.Background(), tt.sql)
			require.NoError(t, err)

			require.Len(t, rr.ExecutionUnits, 2)
			assert.Equal(t, tt.hidden, rr.HiddenColumns)
			assert.Equal(t, normalize(t, tt.exp), rr.ExecutionUnits[0].SQLUnit.SQL)
		})
	}
}

func TestShardingComputerHiddenColumnOnOneShard(t *testing.T) {
	c := route.NewShardingComputer(parser.SQLJudge{}, testRule())

	rr, err := c.Route(context.Background(), "SELECT status FROM t_order WHERE order_id = 3 ORDER BY created_at")
	require.NoError(t, err)

	require.Len(t, rr.ExecutionUnits, 1)
	assert.Zero(t, rr.HiddenColumns)
	assert.Equal(t, normalize(t, "SELECT status FROM t_order_1 WHERE order_id = 3 ORDER BY created_at"), rr.ExecutionUnits[0].SQLUnit.SQL)
}

func TestShardingComputerInsertWithoutColumnList(t *testing.T) {
	sql := "INSERT INTO t_order VALUES ('a', 3), ('b', 4)"

	_, err := route.NewShardingComputer(parser.SQLJudge{}, testRule()).Route(context.Background(), sql)
	assert.Equal(t, proxyerror.ER_PROXY_ROUTING, codeOf(t, err))

	c := route.NewShardingComputer(parser.SQLJudge{}, testRule()).
		WithColumns(columnMap{"t_order": {"status", "order_id"}})
	rr, err := c.Route(context.Background(), sql)
	require.NoError(t, err)

	require.Len(t, rr.ExecutionUnits, 2)
	assert.Equal(t, "ds_0", rr.ExecutionUnits[0].DataSource)
	assert.Equal(t, normalize(t, "INSERT INTO t_order_0 VALUES ('b', 4)"), rr.ExecutionUnits[0].SQLUnit.SQL)
	assert.Equal(t, "ds_1", rr.ExecutionUnits[1].DataSource)
	assert.Equal(t, normalize(t, "INSERT INTO t_order_1 VALUES ('a', 3)"), rr.ExecutionUnits[1].SQLUnit.SQL)
}
