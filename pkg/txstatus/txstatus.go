package txstatus

import (
	"fmt"
	"strings"

	"go.uber.org/atomic"
)

// TXStatus is the state reported by a transaction manager for the
// current session.
type TXStatus byte

const (
	TXACTIVE = TXStatus(iota)
	TXMARKEDROLLBACK
	TXPREPARED
	TXCOMMITTED
	TXROLLEDBACK
	TXUNKNOWN
	TXNONE
	TXPREPARING
	TXCOMMITTING
	TXROLLINGBACK
)

func (s TXStatus) String() string {
	switch s {
	case TXACTIVE:
		return "ACTIVE"
	case TXMARKEDROLLBACK:
		return "MARKED ROLLBACK"
	case TXPREPARED:
		return "PREPARED"
	case TXCOMMITTED:
		return "COMMITTED"
	case TXROLLEDBACK:
		return "ROLLED BACK"
	case TXUNKNOWN:
		return "UNKNOWN"
	case TXNONE:
		return "NO TRANSACTION"
	case TXPREPARING:
		return "PREPARING"
	case TXCOMMITTING:
		return "COMMITTING"
	case TXROLLINGBACK:
		return "ROLLING BACK"
	}
	return "invalid"
}

// TransactionType is the proxy-wide transaction mode.
type TransactionType string

const (
	LOCAL = TransactionType("LOCAL")
	XA    = TransactionType("XA")
	BASE  = TransactionType("BASE")
)

// TransactionTypeByName parses a configured transaction type; empty means LOCAL.
func TransactionTypeByName(name string) (TransactionType, error) {
	switch strings.ToUpper(name) {
	case "", string(LOCAL):
		return LOCAL, nil
	case string(XA):
		return XA, nil
	case string(BASE):
		return BASE, nil
	}
	return "", fmt.Errorf("unknown transaction type: %s", name)
}

// Manager is the read side of a transaction manager. Implementations may
// fail when the underlying coordinator cannot be queried.
type Manager interface {
	TxStatus() (TXStatus, error)
}

type TxStatusMgr interface {
	Manager
	SetTxStatus(status TXStatus)
}

// LocalTxStatusMgr tracks the status in process memory.
type LocalTxStatusMgr struct {
	status atomic.Uint32
}

var _ TxStatusMgr = &LocalTxStatusMgr{}

func NewLocalTxStatusMgr() *LocalTxStatusMgr {
	m := &LocalTxStatusMgr{}
	m.status.Store(uint32(TXNONE))
	return m
}

func (m *LocalTxStatusMgr) SetTxStatus(status TXStatus) {
	m.status.Store(uint32(status))
}

func (m *LocalTxStatusMgr) TxStatus() (TXStatus, error) {
	return TXStatus(m.status.Load()), nil
}
