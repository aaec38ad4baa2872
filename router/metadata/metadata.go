package metadata

import (
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type ColumnMetaData struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
}

type TableMetaData struct {
	Columns []ColumnMetaData `json:"columns"`
}

// ShardingMetaData caches column metadata of logic tables.
// Keys are case-insensitive.
type ShardingMetaData struct {
	mu     sync.RWMutex
	tables map[string]*TableMetaData
}

func NewShardingMetaData() *ShardingMetaData {
	return &ShardingMetaData{
		tables: map[string]*TableMetaData{},
	}
}

func (m *ShardingMetaData) Get(table string) (*TableMetaData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tm, ok := m.tables[strings.ToLower(table)]
	return tm, ok
}

func (m *ShardingMetaData) Put(table string, tm *TableMetaData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables[strings.ToLower(table)] = tm
}

func (m *ShardingMetaData) Remove(table string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tables, strings.ToLower(table))
}

// Tables returns cached table names in sorted order.
func (m *ShardingMetaData) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ret := maps.Keys(m.tables)
	slices.Sort(ret)
	return ret
}

// ColumnNames returns the cached column names of table in declaration order.
func (m *ShardingMetaData) ColumnNames(table string) ([]string, bool) {
	tm, ok := m.Get(table)
	if !ok {
		return nil, false
	}
	ret := make([]string, 0, len(tm.Columns))
	for _, c := range tm.Columns {
		ret = append(ret, c.Name)
	}
	return ret, true
}
