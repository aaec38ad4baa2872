package proxyerror

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// MySQL server error codes produced by the proxy.
const (
	ER_PARSE_ERROR                            = uint16(1064)
	ER_PROXY_ROUTING                          = uint16(1105)
	ER_PROXY_CONNECTION                       = uint16(1106)
	ER_NOT_SUPPORTED_YET                      = uint16(1235)
	ER_STD_UNKNOWN_EXCEPTION                  = uint16(3054)
	ER_ERROR_ON_MODIFYING_GTID_EXECUTED_TABLE = uint16(3176)
)

type errorTemplate struct {
	sqlState string
	format   string
}

var existingErrorCodeMap = map[uint16]errorTemplate{
	ER_PARSE_ERROR:           {"42000", "%s"},
	ER_PROXY_ROUTING:         {"HY000", "Routing error: %s"},
	ER_PROXY_CONNECTION:      {"08S01", "Connection error: %s"},
	ER_NOT_SUPPORTED_YET:     {"42000", "This version of MySQL doesn't yet support '%s'"},
	ER_STD_UNKNOWN_EXCEPTION: {"HY000", "Unknown exception: %s"},
	ER_ERROR_ON_MODIFYING_GTID_EXECUTED_TABLE: {"HY000", "Please do not modify the %s table with an XA transaction. " +
		"This is an internal system table used to store GTIDs for committed transactions. " +
		"Although modifying it can lead to an inconsistent GTID state, if neccessary you can modify it with a non-XA transaction."},
}

// GetSQLStateByCode returns the SQL state registered for a code, HY000 otherwise.
func GetSQLStateByCode(code uint16) string {
	if tmpl, ok := existingErrorCodeMap[code]; ok {
		return tmpl.sqlState
	}
	return "HY000"
}

var _ error = &ProxyError{}

type ProxyError struct {
	Err error

	ErrorCode uint16
	SQLState  string
}

// New formats the message template registered for code with a single argument.
func New(errorCode uint16, arg string) *ProxyError {
	msg := arg
	if tmpl, ok := existingErrorCodeMap[errorCode]; ok {
		msg = fmt.Sprintf(tmpl.format, arg)
	}
	return &ProxyError{
		Err:       errors.New(msg),
		ErrorCode: errorCode,
		SQLState:  GetSQLStateByCode(errorCode),
	}
}

func Newf(errorCode uint16, format string, a ...any) *ProxyError {
	return New(errorCode, fmt.Sprintf(format, a...))
}

func (er *ProxyError) Error() string {
	return er.Err.Error()
}

func (er *ProxyError) Unwrap() error {
	return er.Err
}

// FromError converts any error into a ProxyError. Driver errors keep
// their own code and state, anything else becomes ER_STD_UNKNOWN_EXCEPTION.
func FromError(err error) *ProxyError {
	if err == nil {
		return nil
	}

	var pe *ProxyError
	if errors.As(err, &pe) {
		return pe
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return &ProxyError{
			Err:       errors.New(myErr.Message),
			ErrorCode: myErr.Number,
			SQLState:  GetSQLStateByCode(myErr.Number),
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &ProxyError{
			Err:       errors.New(pgErr.Message),
			ErrorCode: ER_STD_UNKNOWN_EXCEPTION,
			SQLState:  pgErr.Code,
		}
	}

	return New(ER_STD_UNKNOWN_EXCEPTION, err.Error())
}
