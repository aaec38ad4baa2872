package proxylog

import (
	"io"
	"os"
	"reflect"
)

// GetPointer returns the address behind a pointer-like value, used to
// tell pools, engines and clients apart in log lines.
func GetPointer(value any) uint {
	return uint(reflect.ValueOf(value).Pointer())
}

// newWriter opens the log file in append mode. An empty path logs to
// stdout and returns no file to close.
func newWriter(path string) (*os.File, io.Writer, error) {
	if path == "" {
		return nil, os.Stdout, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}
