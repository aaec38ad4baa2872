package metadata

import (
	"context"
	"encoding/json"
	"path"

	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"
)

// Publisher propagates refreshed metadata to other proxy instances.
type Publisher interface {
	Publish(ctx context.Context, table string, tm *TableMetaData) error
	Remove(ctx context.Context, table string) error
}

const defaultEtcdPrefix = "/shardproxy/metadata"

type EtcdPublisher struct {
	cli    *clientv3.Client
	prefix string
}

var _ Publisher = &EtcdPublisher{}

func NewEtcdPublisher(endpoints []string, prefix string) (*EtcdPublisher, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints: endpoints,
		DialOptions: []grpc.DialOption{ // TODO remove WithInsecure
			grpc.WithInsecure(), //nolint:all
		},
	})
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = defaultEtcdPrefix
	}

	proxylog.Zero.Debug().
		Strs("endpoints", endpoints).
		Uint("client", proxylog.GetPointer(cli)).
		Msg("etcd metadata publisher created")

	return &EtcdPublisher{cli: cli, prefix: prefix}, nil
}

func (p *EtcdPublisher) tableNodePath(table string) string {
	return path.Join(p.prefix, table)
}

func (p *EtcdPublisher) Publish(ctx context.Context, table string, tm *TableMetaData) error {
	raw, err := json.Marshal(tm)
	if err != nil {
		return err
	}
	resp, err := p.cli.Put(ctx, p.tableNodePath(table), string(raw))
	if err != nil {
		return err
	}
	proxylog.Zero.Debug().
		Str("table", table).
		Int64("revision", resp.Header.GetRevision()).
		Msg("published table metadata")
	return nil
}

func (p *EtcdPublisher) Remove(ctx context.Context, table string) error {
	_, err := p.cli.Delete(ctx, p.tableNodePath(table))
	return err
}

func (p *EtcdPublisher) Close() error {
	return p.cli.Close()
}
