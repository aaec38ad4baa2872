package merger

// MemoryMergedResult serves rows already held in memory.
type MemoryMergedResult struct {
	rows [][]any
	pos  int
}

var _ MergedResult = &MemoryMergedResult{}

func NewMemoryMergedResult(rows [][]any) *MemoryMergedResult {
	return &MemoryMergedResult{rows: rows, pos: -1}
}

func (m *MemoryMergedResult) Next() (bool, error) {
	if m.pos+1 >= len(m.rows) {
		m.pos = len(m.rows)
		return false, nil
	}
	m.pos++
	return true, nil
}

func (m *MemoryMergedResult) Value(i int) (any, error) {
	if m.pos < 0 || m.pos >= len(m.rows) {
		return nil, errNoCurrentRow
	}
	row := m.rows[m.pos]
	if i < 0 || i >= len(row) {
		return nil, errColumnIndex(i, len(row))
	}
	return row[i], nil
}

// MemoryQueryResult is a QueryResult over rows held in memory.
type MemoryQueryResult struct {
	*MemoryMergedResult
	labels []string
	closed bool
}

var _ QueryResult = &MemoryQueryResult{}

func NewMemoryQueryResult(labels []string, rows [][]any) *MemoryQueryResult {
	return &MemoryQueryResult{
		MemoryMergedResult: NewMemoryMergedResult(rows),
		labels:             labels,
	}
}

func (m *MemoryQueryResult) ColumnCount() int {
	return len(m.labels)
}

func (m *MemoryQueryResult) ColumnLabel(i int) string {
	if i < 0 || i >= len(m.labels) {
		return ""
	}
	return m.labels[i]
}

func (m *MemoryQueryResult) Close() error {
	m.closed = true
	return nil
}

func (m *MemoryQueryResult) Closed() bool {
	return m.closed
}
