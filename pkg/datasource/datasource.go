package datasource

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pkg/errors"
)

// Pool hands out physical connections of named data sources.
type Pool interface {
	Acquire(ctx context.Context, name string) (*sqlx.Conn, error)
	DB(name string) (*sqlx.DB, error)
	Names() []string
	Close() error
}

type SQLPool struct {
	mu  sync.RWMutex
	dbs map[string]*sqlx.DB
}

var _ Pool = &SQLPool{}

// NewSQLPool opens one database handle per configured data source. Handles
// connect lazily, so an unreachable backend shows up on first Acquire.
func NewSQLPool(sources map[string]*config.DataSource) (*SQLPool, error) {
	p := &SQLPool{dbs: make(map[string]*sqlx.DB, len(sources))}
	for name, ds := range sources {
		db, err := sqlx.Open(ds.Driver, ds.DSN)
		if err != nil {
			_ = p.Close()
			return nil, errors.Wrapf(err, "open data source %q", name)
		}
		if err := configure(db, ds); err != nil {
			_ = db.Close()
			_ = p.Close()
			return nil, errors.Wrapf(err, "configure data source %q", name)
		}
		proxylog.Zero.Debug().
			Str("data-source", name).
			Str("driver", ds.Driver).
			Uint("db", proxylog.GetPointer(db)).
			Msg("opened data source")
		p.dbs[name] = db
	}
	return p, nil
}

// NewSQLPoolFromDBs wraps already opened handles.
func NewSQLPoolFromDBs(dbs map[string]*sqlx.DB) *SQLPool {
	return &SQLPool{dbs: dbs}
}

func configure(db *sqlx.DB, ds *config.DataSource) error {
	if ds.MaxOpenConns > 0 {
		db.SetMaxOpenConns(ds.MaxOpenConns)
	}
	if ds.MaxIdleConns > 0 {
		db.SetMaxIdleConns(ds.MaxIdleConns)
	}
	if ds.ConnMaxLifetime != "" {
		d, err := time.ParseDuration(ds.ConnMaxLifetime)
		if err != nil {
			return err
		}
		db.SetConnMaxLifetime(d)
	}
	return nil
}

func (p *SQLPool) DB(name string) (*sqlx.DB, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	db, ok := p.dbs[name]
	if !ok {
		return nil, proxyerror.Newf(proxyerror.ER_PROXY_CONNECTION, "unknown data source %q", name)
	}
	return db, nil
}

func (p *SQLPool) Acquire(ctx context.Context, name string) (*sqlx.Conn, error) {
	db, err := p.DB(name)
	if err != nil {
		return nil, err
	}
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "acquire connection to %q", name)
	}
	return conn, nil
}

func (p *SQLPool) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.dbs))
	for name := range p.dbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every handle and returns the first error.
func (p *SQLPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for name, db := range p.dbs {
		if err := db.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "close data source %q", name)
		}
		delete(p.dbs, name)
	}
	return first
}
