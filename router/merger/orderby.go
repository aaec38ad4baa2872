package merger

import (
	"container/heap"
)

type OrderByItem struct {
	Index int
	Desc  bool
}

type orderByCursor struct {
	result QueryResult
	unit   int
	keys   []any
}

func (c *orderByCursor) load(items []OrderByItem) error {
	c.keys = c.keys[:0]
	for _, it := range items {
		v, err := c.result.Value(it.Index)
		if err != nil {
			return err
		}
		c.keys = append(c.keys, v)
	}
	return nil
}

type cursorHeap struct {
	items   []OrderByItem
	cursors []*orderByCursor
}

func (h *cursorHeap) Len() int { return len(h.cursors) }

func (h *cursorHeap) Less(i, j int) bool {
	a, b := h.cursors[i], h.cursors[j]
	for k, it := range h.items {
		c := CompareValues(a.keys[k], b.keys[k])
		if it.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
	}
	return a.unit < b.unit
}

func (h *cursorHeap) Swap(i, j int) { h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i] }

func (h *cursorHeap) Push(x any) { h.cursors = append(h.cursors, x.(*orderByCursor)) }

func (h *cursorHeap) Pop() any {
	n := len(h.cursors)
	c := h.cursors[n-1]
	h.cursors = h.cursors[:n-1]
	return c
}

// OrderByStreamMergedResult merges unit results that are each sorted by
// the ORDER BY items, reading one row ahead per unit.
type OrderByStreamMergedResult struct {
	h       *cursorHeap
	current *orderByCursor
}

var _ MergedResult = &OrderByStreamMergedResult{}

func NewOrderByStreamMergedResult(results []QueryResult, items []OrderByItem) (*OrderByStreamMergedResult, error) {
	h := &cursorHeap{items: items}
	for i, r := range results {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		c := &orderByCursor{result: r, unit: i}
		if err := c.load(items); err != nil {
			return nil, err
		}
		h.cursors = append(h.cursors, c)
	}
	heap.Init(h)
	return &OrderByStreamMergedResult{h: h}, nil
}

func (m *OrderByStreamMergedResult) Next() (bool, error) {
	if m.current != nil {
		ok, err := m.current.result.Next()
		if err != nil {
			return false, err
		}
		if ok {
			if err := m.current.load(m.h.items); err != nil {
				return false, err
			}
			heap.Push(m.h, m.current)
		}
		m.current = nil
	}
	if m.h.Len() == 0 {
		return false, nil
	}
	m.current = heap.Pop(m.h).(*orderByCursor)
	return true, nil
}

func (m *OrderByStreamMergedResult) Value(i int) (any, error) {
	if m.current == nil {
		return nil, errNoCurrentRow
	}
	return m.current.result.Value(i)
}
