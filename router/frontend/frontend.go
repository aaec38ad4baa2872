package frontend

import (
	"context"
	"io"

	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/router/backend"
)

// Drive writes the complete response of one statement to w. The handler
// is always closed before Drive returns, including when the row stream
// is abandoned because of a write failure.
func Drive(ctx context.Context, h backend.BackendHandler, w mysqlproto.PacketWriter) error {
	defer func() {
		if err := h.Close(); err != nil {
			proxylog.Zero.Debug().Err(err).Msg("failed to close backend handler")
		}
	}()

	resp := h.Execute(ctx)
	for _, p := range resp.Packets {
		if err := w.WritePacket(p); err != nil {
			return err
		}
	}
	if _, ok := resp.HeadPacket().(*mysqlproto.FieldCountPacket); !ok {
		return nil
	}

	for {
		more, err := h.HasMoreResultValue()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		p := h.GetResultValue()
		if err := w.WritePacket(p); err != nil {
			return err
		}
		switch p.(type) {
		case *mysqlproto.ErrPacket, *mysqlproto.EOFPacket:
			return nil
		}
	}
}

// QuerySource yields statements of one session. Receive returns io.EOF
// once the session ends.
type QuerySource interface {
	Receive() (string, error)
}

// HandlerFactory creates the handler of one statement.
type HandlerFactory func(sql string) backend.BackendHandler

// Frontend serves every statement of a session in order.
func Frontend(ctx context.Context, src QuerySource, newHandler HandlerFactory, w mysqlproto.PacketWriter) error {
	for {
		sql, err := src.Receive()
		if err != nil {
			switch err {
			case io.ErrUnexpectedEOF, io.EOF:
				return nil
			default:
				return err
			}
		}

		proxylog.Zero.Debug().
			Str("sql", sql).
			Msg("processing statement")

		if err := Drive(ctx, newHandler(sql), w); err != nil {
			return err
		}
	}
}

// SliceSource serves a fixed list of statements.
type SliceSource struct {
	queries []string
}

var _ QuerySource = &SliceSource{}

func NewSliceSource(queries ...string) *SliceSource {
	return &SliceSource{queries: queries}
}

func (s *SliceSource) Receive() (string, error) {
	if len(s.queries) == 0 {
		return "", io.EOF
	}
	q := s.queries[0]
	s.queries = s.queries[1:]
	return q, nil
}
