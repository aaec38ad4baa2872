package mysqlproto

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Payload accumulates the body of one protocol packet using the MySQL
// little-endian and length-encoded conventions.
type Payload struct {
	buf bytes.Buffer
}

func (p *Payload) Bytes() []byte {
	return p.buf.Bytes()
}

func (p *Payload) Len() int {
	return p.buf.Len()
}

func (p *Payload) WriteInt1(v uint8) {
	p.buf.WriteByte(v)
}

func (p *Payload) WriteInt2(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	p.buf.Write(b[:])
}

func (p *Payload) WriteInt4(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	p.buf.Write(b[:])
}

func (p *Payload) WriteInt8(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	p.buf.Write(b[:])
}

func (p *Payload) WriteFloat4(v float32) {
	p.WriteInt4(math.Float32bits(v))
}

func (p *Payload) WriteFloat8(v float64) {
	p.WriteInt8(math.Float64bits(v))
}

// WriteIntLenenc writes a length-encoded integer.
func (p *Payload) WriteIntLenenc(v uint64) {
	switch {
	case v < 251:
		p.buf.WriteByte(byte(v))
	case v < 1<<16:
		p.buf.WriteByte(0xfc)
		p.WriteInt2(uint16(v))
	case v < 1<<24:
		p.buf.WriteByte(0xfd)
		p.buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
	default:
		p.buf.WriteByte(0xfe)
		p.WriteInt8(v)
	}
}

func (p *Payload) WriteStringLenenc(s string) {
	p.WriteIntLenenc(uint64(len(s)))
	p.buf.WriteString(s)
}

func (p *Payload) WriteBytesLenenc(b []byte) {
	p.WriteIntLenenc(uint64(len(b)))
	p.buf.Write(b)
}

func (p *Payload) WriteStringEOF(s string) {
	p.buf.WriteString(s)
}

func (p *Payload) WriteBytes(b []byte) {
	p.buf.Write(b)
}

func (p *Payload) WriteZero(n int) {
	for i := 0; i < n; i++ {
		p.buf.WriteByte(0)
	}
}
