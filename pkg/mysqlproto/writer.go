package mysqlproto

import (
	"fmt"
	"io"
)

const maxPayloadLen = 1<<24 - 1

// PacketWriter frames packets onto a stream: 3 bytes payload length,
// 1 byte sequence id, payload.
type PacketWriter interface {
	WritePacket(p Packet) error
}

type StreamPacketWriter struct {
	w io.Writer
}

func NewStreamPacketWriter(w io.Writer) *StreamPacketWriter {
	return &StreamPacketWriter{w: w}
}

func (sw *StreamPacketWriter) WritePacket(p Packet) error {
	return WritePacket(sw.w, p)
}

func WritePacket(w io.Writer, p Packet) error {
	var pl Payload
	p.Write(&pl)
	if pl.Len() >= maxPayloadLen {
		return fmt.Errorf("packet payload of %d bytes exceeds protocol limit", pl.Len())
	}
	n := pl.Len()
	header := []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(p.SequenceID())}
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(pl.Bytes())
	return err
}
