package app

import (
	"context"

	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/router/backend"
	"github.com/pg-sharding/shardproxy/router/frontend"
	"github.com/pg-sharding/shardproxy/router/instance"
)

type App struct {
	proxy instance.ProxyInstance
}

func NewApp(proxy instance.ProxyInstance) *App {
	return &App{
		proxy: proxy,
	}
}

// Exec runs statements one after another as a single session and writes
// every response packet to w.
func (app *App) Exec(ctx context.Context, queries []string, binary bool, w mysqlproto.PacketWriter) error {
	proxylog.Zero.Info().
		Int("statements", len(queries)).
		Bool("binary", binary).
		Msg("executing statements")

	sess := newSession(app.proxy.Parser())
	return frontend.Frontend(ctx, frontend.NewSliceSource(queries...), func(sql string) backend.BackendHandler {
		return &trackedHandler{
			BackendHandler: app.proxy.NewHandler(sql, binary, sess.tx),
			sql:            sql,
			session:        sess,
		}
	}, w)
}
