package backend

type State int

const (
	StateInit = State(iota)
	StateRouted
	StateExecuted
	StateMergedNone
	StateMergedDML
	StateMergedRows
	StateStreaming
	StateExhausted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateRouted:
		return "ROUTED"
	case StateExecuted:
		return "EXECUTED"
	case StateMergedNone:
		return "MERGED NONE"
	case StateMergedDML:
		return "MERGED DML"
	case StateMergedRows:
		return "MERGED ROWS"
	case StateStreaming:
		return "STREAMING"
	case StateExhausted:
		return "EXHAUSTED"
	case StateFailed:
		return "FAILED"
	}
	return "invalid"
}

// streamable reports whether rows may be pulled in this state.
func (s State) streamable() bool {
	return s == StateMergedRows || s == StateStreaming
}
