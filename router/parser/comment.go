package parser

import (
	"strings"

	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"golang.org/x/xerrors"
	"vitess.io/vitess/go/vt/sqlparser"
)

// HintPrefix marks proxy options inside a leading comment:
//
//	/* shardproxy.data_source: ds_0 */ SELECT ...
const HintPrefix = "shardproxy."

const HintDataSource = "data_source"

/*
key: value[, key1: value1...]
*/
func ParseComment(comm string) (map[string]string, error) {
	opts := make(map[string]string)
	if strings.TrimSpace(comm) == "" {
		return opts, nil
	}

	for _, pair := range strings.Split(comm, ",") {
		name, value, found := strings.Cut(pair, ":")
		if !found {
			return nil, xerrors.New("invalid comment format: expected colon after option name")
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		switch {
		case name == "":
			return nil, xerrors.New("invalid comment format: empty option name")
		case value == "":
			return nil, xerrors.New("invalid comment format: empty option values")
		case strings.ContainsFunc(name, isSpace), strings.ContainsFunc(value, isSpace):
			return nil, xerrors.New("invalid comment format: expected comma after not-last key-value pair")
		}
		opts[name] = value
	}

	return opts, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// extractHints returns the proxy options of the leading comment of sql,
// with HintPrefix removed. Comments that are not option lists are ignored.
func extractHints(sql string) map[string]string {
	_, margin := sqlparser.SplitMarginComments(sql)
	comm := strings.TrimSpace(margin.Leading)
	if !strings.HasPrefix(comm, "/*") || !strings.HasSuffix(comm, "*/") {
		return nil
	}
	comm = strings.TrimSuffix(strings.TrimPrefix(comm, "/*"), "*/")
	if !strings.Contains(comm, HintPrefix) {
		return nil
	}

	opts, err := ParseComment(comm)
	if err != nil {
		proxylog.Zero.Debug().Err(err).Str("comment", comm).Msg("ignoring malformed hint comment")
		return nil
	}

	hints := make(map[string]string, len(opts))
	for k, v := range opts {
		if after, ok := strings.CutPrefix(k, HintPrefix); ok {
			hints[after] = v
		}
	}
	return hints
}
