package merger

import (
	"github.com/pg-sharding/shardproxy/router/route"
)

// LimitDecoratorMergedResult skips Offset rows of the wrapped result and
// returns at most RowCount of the rest.
type LimitDecoratorMergedResult struct {
	mr      MergedResult
	limit   *route.Limit
	emitted int64
	done    bool
}

var _ MergedResult = &LimitDecoratorMergedResult{}

func NewLimitDecoratorMergedResult(mr MergedResult, limit *route.Limit) (*LimitDecoratorMergedResult, error) {
	l := &LimitDecoratorMergedResult{mr: mr, limit: limit}
	for i := int64(0); i < limit.Offset; i++ {
		ok, err := mr.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			l.done = true
			break
		}
	}
	return l, nil
}

func (l *LimitDecoratorMergedResult) Next() (bool, error) {
	if l.done || l.emitted >= l.limit.RowCount {
		return false, nil
	}
	ok, err := l.mr.Next()
	if err != nil {
		return false, err
	}
	if !ok {
		l.done = true
		return false, nil
	}
	l.emitted++
	return true, nil
}

func (l *LimitDecoratorMergedResult) Value(i int) (any, error) {
	return l.mr.Value(i)
}
