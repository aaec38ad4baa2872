package datasource_test

import (
	"context"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/datasource"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memSource(name string) *config.DataSource {
	return &config.DataSource{
		Driver:          "sqlite3",
		DSN:             "file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns:    4,
		ConnMaxLifetime: "1m",
	}
}

func TestSQLPoolAcquire(t *testing.T) {
	assert := assert.New(t)

	p, err := datasource.NewSQLPool(map[string]*config.DataSource{
		"ds_1": memSource("pool_ds_1"),
		"ds_0": memSource("pool_ds_0"),
	})
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	assert.Equal([]string{"ds_0", "ds_1"}, p.Names())

	conn, err := p.Acquire(context.Background(), "ds_0")
	require.NoError(t, err)

	var one int
	require.NoError(t, conn.QueryRowxContext(context.Background(), "SELECT 1").Scan(&one))
	assert.Equal(1, one)
	assert.NoError(conn.Close())
}

func TestSQLPoolUnknownDataSource(t *testing.T) {
	p := datasource.NewSQLPoolFromDBs(nil)

	_, err := p.Acquire(context.Background(), "missing")

	var pe *proxyerror.ProxyError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, proxyerror.ER_PROXY_CONNECTION, pe.ErrorCode)
}

func TestSQLPoolBadLifetime(t *testing.T) {
	ds := memSource("pool_bad")
	ds.ConnMaxLifetime = "forever"

	_, err := datasource.NewSQLPool(map[string]*config.DataSource{"ds": ds})
	assert.Error(t, err)
}

func TestSQLPoolClose(t *testing.T) {
	p, err := datasource.NewSQLPool(map[string]*config.DataSource{"ds": memSource("pool_close")})
	require.NoError(t, err)

	assert.NoError(t, p.Close())
	assert.Empty(t, p.Names())
}
