package executor

import (
	"context"
	"io"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pg-sharding/shardproxy/pkg/datasource"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pkg/errors"
)

// BackendConnection owns every physical connection borrowed for one
// statement, along with the row sets opened on them.
type BackendConnection struct {
	pool datasource.Pool

	mu     sync.Mutex
	conns  []*sqlx.Conn
	rows   []io.Closer
	closed bool
}

func NewBackendConnection(pool datasource.Pool) *BackendConnection {
	return &BackendConnection{pool: pool}
}

func (bc *BackendConnection) Borrow(ctx context.Context, dataSource string) (*sqlx.Conn, error) {
	conn, err := bc.pool.Acquire(ctx, dataSource)
	if err != nil {
		return nil, err
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.closed {
		_ = conn.Close()
		return nil, errors.New("backend connection is closed")
	}
	bc.conns = append(bc.conns, conn)
	return conn, nil
}

func (bc *BackendConnection) Track(rows io.Closer) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.rows = append(bc.rows, rows)
}

// Close closes row sets and then connections. It returns the first
// error and is safe to call more than once.
func (bc *BackendConnection) Close() error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.closed {
		return nil
	}
	bc.closed = true

	var first error
	for _, r := range bc.rows {
		if err := r.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "close rows")
		}
	}
	for _, c := range bc.conns {
		if err := c.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "release connection")
		}
	}
	proxylog.Zero.Debug().
		Int("connections", len(bc.conns)).
		Uint("backend-connection", proxylog.GetPointer(bc)).
		Err(first).
		Msg("released backend connection")
	bc.rows = nil
	bc.conns = nil
	return first
}
