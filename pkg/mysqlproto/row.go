package mysqlproto

import (
	"fmt"
	"strconv"
	"time"
)

const nullColumn = 0xfb

const (
	dateTimeLayout = "2006-01-02 15:04:05.999999"
	dateLayout     = "2006-01-02"
)

// TextResultSetRowPacket is a result row of COM_QUERY.
type TextResultSetRowPacket struct {
	Seq  int
	Data []any
}

func NewTextResultSetRowPacket(seq int, data []any) *TextResultSetRowPacket {
	return &TextResultSetRowPacket{Seq: seq, Data: data}
}

func (p *TextResultSetRowPacket) SequenceID() int { return p.Seq }

func (p *TextResultSetRowPacket) WithSequenceID(seq int) Packet {
	cp := *p
	cp.Seq = seq
	return &cp
}

func (p *TextResultSetRowPacket) Write(pl *Payload) {
	for _, v := range p.Data {
		if v == nil {
			pl.WriteInt1(nullColumn)
			continue
		}
		pl.WriteBytesLenenc(TextValue(v))
	}
}

// TextValue renders a decoded column value the way the text protocol sends it.
func TextValue(v any) []byte {
	switch val := v.(type) {
	case []byte:
		return val
	case string:
		return []byte(val)
	case bool:
		if val {
			return []byte("1")
		}
		return []byte("0")
	case time.Time:
		return []byte(val.Format(dateTimeLayout))
	case int64:
		return strconv.AppendInt(nil, val, 10)
	case uint64:
		return strconv.AppendUint(nil, val, 10)
	case float64:
		return strconv.AppendFloat(nil, val, 'g', -1, 64)
	case float32:
		return strconv.AppendFloat(nil, float64(val), 'g', -1, 32)
	default:
		return []byte(fmt.Sprintf("%v", val))
	}
}

// BinaryResultSetRowPacket is a result row of COM_STMT_EXECUTE.
type BinaryResultSetRowPacket struct {
	Seq         int
	Data        []any
	ColumnTypes []ColumnType
}

func NewBinaryResultSetRowPacket(seq int, data []any, columnTypes []ColumnType) *BinaryResultSetRowPacket {
	return &BinaryResultSetRowPacket{Seq: seq, Data: data, ColumnTypes: columnTypes}
}

func (p *BinaryResultSetRowPacket) SequenceID() int { return p.Seq }

func (p *BinaryResultSetRowPacket) WithSequenceID(seq int) Packet {
	cp := *p
	cp.Seq = seq
	return &cp
}

// Binary rows carry a null bitmap with a 2 bit offset.
const binaryRowNullBitmapOffset = 2

func (p *BinaryResultSetRowPacket) Write(pl *Payload) {
	pl.WriteInt1(okHeader)
	bitmap := make([]byte, (len(p.Data)+7+binaryRowNullBitmapOffset)/8)
	for i, v := range p.Data {
		if v == nil {
			pos := i + binaryRowNullBitmapOffset
			bitmap[pos/8] |= 1 << (pos % 8)
		}
	}
	pl.WriteBytes(bitmap)
	for i, v := range p.Data {
		if v == nil {
			continue
		}
		tp := MYSQL_TYPE_VAR_STRING
		if i < len(p.ColumnTypes) {
			tp = p.ColumnTypes[i]
		}
		writeBinaryValue(pl, tp, v)
	}
}

func writeBinaryValue(pl *Payload, tp ColumnType, v any) {
	switch tp {
	case MYSQL_TYPE_LONGLONG:
		if n, ok := toInt64(v); ok {
			pl.WriteInt8(uint64(n))
			return
		}
	case MYSQL_TYPE_LONG, MYSQL_TYPE_INT24:
		if n, ok := toInt64(v); ok {
			pl.WriteInt4(uint32(n))
			return
		}
	case MYSQL_TYPE_SHORT, MYSQL_TYPE_YEAR:
		if n, ok := toInt64(v); ok {
			pl.WriteInt2(uint16(n))
			return
		}
	case MYSQL_TYPE_TINY:
		if n, ok := toInt64(v); ok {
			pl.WriteInt1(uint8(n))
			return
		}
	case MYSQL_TYPE_DOUBLE:
		if f, ok := toFloat64(v); ok {
			pl.WriteFloat8(f)
			return
		}
	case MYSQL_TYPE_FLOAT:
		if f, ok := toFloat64(v); ok {
			pl.WriteFloat4(float32(f))
			return
		}
	case MYSQL_TYPE_DATE, MYSQL_TYPE_DATETIME, MYSQL_TYPE_TIMESTAMP:
		if t, ok := toTime(v); ok {
			writeBinaryTime(pl, t)
			return
		}
	}
	pl.WriteBytesLenenc(TextValue(v))
}

func writeBinaryTime(pl *Payload, t time.Time) {
	switch {
	case t.IsZero():
		pl.WriteInt1(0)
	case t.Nanosecond() != 0:
		pl.WriteInt1(11)
		writeDateTime(pl, t)
		pl.WriteInt4(uint32(t.Nanosecond() / 1000))
	case t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0:
		pl.WriteInt1(7)
		writeDateTime(pl, t)
	default:
		pl.WriteInt1(4)
		pl.WriteInt2(uint16(t.Year()))
		pl.WriteInt1(uint8(t.Month()))
		pl.WriteInt1(uint8(t.Day()))
	}
}

func writeDateTime(pl *Payload, t time.Time) {
	pl.WriteInt2(uint16(t.Year()))
	pl.WriteInt1(uint8(t.Month()))
	pl.WriteInt1(uint8(t.Day()))
	pl.WriteInt1(uint8(t.Hour()))
	pl.WriteInt1(uint8(t.Minute()))
	pl.WriteInt1(uint8(t.Second()))
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case uint64:
		return int64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case []byte:
		n, err := strconv.ParseInt(string(val), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int64:
		return float64(val), true
	case []byte:
		f, err := strconv.ParseFloat(string(val), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	var s string
	switch val := v.(type) {
	case time.Time:
		return val, true
	case []byte:
		s = string(val)
	case string:
		s = val
	default:
		return time.Time{}, false
	}
	for _, layout := range []string{dateTimeLayout, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
