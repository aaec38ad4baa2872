package parser

import (
	"sync"
)

// SharedParser is shared across sessions and caches classification
// results by SQL text.
type SharedParser struct {
	parseCache sync.Map

	underlying Parser
}

var _ Parser = &SharedParser{}

func (shp *SharedParser) Judge(sql string) (*Statement, error) {
	if ce, ok := shp.parseCache.Load(sql); ok {
		return ce.(*Statement), nil
	}

	stmt, err := shp.underlying.Judge(sql)
	if err == nil {
		shp.parseCache.Store(sql, stmt)
	}
	return stmt, err
}

func NewSharedParser() *SharedParser {
	return &SharedParser{
		underlying: SQLJudge{},
	}
}
