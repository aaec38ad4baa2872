package merger

// IteratorMergedResult concatenates unit results in unit order.
type IteratorMergedResult struct {
	results []QueryResult
	idx     int
}

var _ MergedResult = &IteratorMergedResult{}

func NewIteratorMergedResult(results []QueryResult) *IteratorMergedResult {
	return &IteratorMergedResult{results: results}
}

func (it *IteratorMergedResult) Next() (bool, error) {
	for it.idx < len(it.results) {
		ok, err := it.results[it.idx].Next()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		it.idx++
	}
	return false, nil
}

func (it *IteratorMergedResult) Value(i int) (any, error) {
	if it.idx >= len(it.results) {
		return nil, errNoCurrentRow
	}
	return it.results[it.idx].Value(i)
}
