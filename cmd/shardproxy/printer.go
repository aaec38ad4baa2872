package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/pg-sharding/shardproxy/pkg/config"
	"github.com/pg-sharding/shardproxy/pkg/mysqlproto"
	"github.com/pg-sharding/shardproxy/router/statistics"
	"github.com/pkg/errors"
)

const nullValue = "NULL"

// resultWriter renders response packets as human readable tables.
type resultWriter struct {
	out    io.Writer
	header table.Row
	rows   []table.Row
	inRows bool
}

var _ mysqlproto.PacketWriter = &resultWriter{}

func newResultWriter(out io.Writer) *resultWriter {
	return &resultWriter{out: out}
}

func (w *resultWriter) WritePacket(p mysqlproto.Packet) error {
	switch p := p.(type) {
	case *mysqlproto.FieldCountPacket:
		w.header = make(table.Row, 0, p.ColumnCount)
		w.rows = nil
		w.inRows = false
	case *mysqlproto.ColumnDefinition41Packet:
		w.header = append(w.header, p.Name)
	case *mysqlproto.TextResultSetRowPacket:
		w.rows = append(w.rows, toRow(p.Data))
	case *mysqlproto.BinaryResultSetRowPacket:
		w.rows = append(w.rows, toRow(p.Data))
	case *mysqlproto.EOFPacket:
		if w.header == nil {
			return nil
		}
		// the first EOF closes column definitions
		if !w.inRows {
			w.inRows = true
			return nil
		}
		return w.render()
	case *mysqlproto.OKPacket:
		_, err := fmt.Fprintf(w.out, "OK, %d rows affected, last insert id %d\n", p.AffectedRows, p.LastInsertID)
		return err
	case *mysqlproto.ErrPacket:
		if w.inRows && len(w.rows) > 0 {
			if err := w.render(); err != nil {
				return err
			}
		}
		w.header = nil
		w.inRows = false
		_, err := fmt.Fprintf(w.out, "Error %d (%s): %s\n", p.ErrorCode, p.SQLState, p.ErrorMessage)
		return err
	default:
		return errors.Errorf("unexpected packet %T", p)
	}
	return nil
}

func (w *resultWriter) render() error {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(w.header)
	for _, row := range w.rows {
		t.AppendRow(row)
	}
	t.Render()

	_, err := fmt.Fprintf(w.out, "%d rows in set\n\n", len(w.rows))
	w.header = nil
	w.rows = nil
	w.inRows = false
	return err
}

func toRow(data []any) table.Row {
	row := make(table.Row, len(data))
	for i, v := range data {
		if v == nil {
			row[i] = nullValue
			continue
		}
		row[i] = string(mysqlproto.TextValue(v))
	}
	return row
}

func printStats(out io.Writer, stats *statistics.Collector) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.Style().Format.Header = text.FormatDefault

	header := table.Row{"phase"}
	for _, q := range stats.Quantiles() {
		header = append(header, fmt.Sprintf("p%g, ms", q*100))
	}
	t.AppendHeader(header)
	for _, phase := range statistics.Phases {
		row := table.Row{string(phase)}
		for _, q := range stats.Quantiles() {
			row = append(row, fmt.Sprintf("%.3f", stats.TimeQuantile(phase, q)))
		}
		t.AppendRow(row)
	}
	t.Render()
	fmt.Fprintf(out, "queries: %d, failed: %d\n", stats.Queries(), stats.Failed())
}

func printConfig(out io.Writer, cfg *config.Proxy) error {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
