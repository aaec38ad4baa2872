package metadata

import (
	"context"
	"time"

	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/router/parser"
	"github.com/pg-sharding/shardproxy/router/route"
	retry "github.com/sethvargo/go-retry"
	"vitess.io/vitess/go/vt/sqlparser"
)

type Action int

const (
	ActionReload = Action(iota)
	ActionRemove
)

func (a Action) String() string {
	switch a {
	case ActionReload:
		return "reload"
	case ActionRemove:
		return "remove"
	}
	return "unknown"
}

type Task struct {
	Action Action
	Table  string
}

const defaultBackoff = 500 * time.Millisecond

// RefreshHandler turns executed DDL into metadata tasks and applies them.
type RefreshHandler struct {
	meta      *ShardingMetaData
	loader    TableMetaLoader
	publisher Publisher

	retries uint64
	backoff time.Duration
}

func NewRefreshHandler(meta *ShardingMetaData, loader TableMetaLoader, publisher Publisher, retries uint64) *RefreshHandler {
	return &RefreshHandler{
		meta:      meta,
		loader:    loader,
		publisher: publisher,
		retries:   retries,
		backoff:   defaultBackoff,
	}
}

// WithBackoff sets the base delay of the Fibonacci backoff between loads.
func (h *RefreshHandler) WithBackoff(d time.Duration) *RefreshHandler {
	h.backoff = d
	return h
}

// Build returns the tasks a routed statement implies. Only DDL produces any.
func (h *RefreshHandler) Build(rr *route.RouteResult) []Task {
	if rr == nil || rr.Statement == nil || rr.Statement.Type != parser.DDL {
		return nil
	}
	ddl, ok := rr.Statement.AST.(*sqlparser.DDL)
	if !ok {
		return nil
	}

	switch ddl.Action {
	case sqlparser.CreateStr, sqlparser.AlterStr, sqlparser.TruncateStr:
		return tasksOf(ActionReload, rr.Statement.Tables)
	case sqlparser.DropStr:
		return tasksOf(ActionRemove, rr.Statement.Tables)
	case sqlparser.RenameStr:
		var ret []Task
		for _, t := range ddl.FromTables {
			ret = append(ret, Task{Action: ActionRemove, Table: t.Name.String()})
		}
		for _, t := range ddl.ToTables {
			ret = append(ret, Task{Action: ActionReload, Table: t.Name.String()})
		}
		return ret
	}
	return nil
}

func tasksOf(a Action, tables []string) []Task {
	ret := make([]Task, 0, len(tables))
	for _, t := range tables {
		ret = append(ret, Task{Action: a, Table: t})
	}
	return ret
}

// Apply runs one task against the cache and the publisher.
func (h *RefreshHandler) Apply(ctx context.Context, task Task) error {
	proxylog.Zero.Debug().
		Str("table", task.Table).
		Str("action", task.Action.String()).
		Msg("refreshing table metadata")

	switch task.Action {
	case ActionRemove:
		h.meta.Remove(task.Table)
		if h.publisher != nil {
			return h.publisher.Remove(ctx, task.Table)
		}
		return nil
	default:
		var tm *TableMetaData
		if err := retry.Do(ctx, retry.WithMaxRetries(h.retries, retry.NewFibonacci(h.backoff)), func(ctx context.Context) error {
			var err error
			tm, err = h.loader.Load(ctx, task.Table)
			if err != nil {
				return retry.RetryableError(err)
			}
			return nil
		}); err != nil {
			return err
		}
		h.meta.Put(task.Table, tm)
		if h.publisher != nil {
			return h.publisher.Publish(ctx, task.Table, tm)
		}
		return nil
	}
}
