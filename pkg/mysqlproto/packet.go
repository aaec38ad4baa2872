package mysqlproto

import (
	"github.com/pg-sharding/shardproxy/pkg/models/proxyerror"
)

const (
	okHeader  = 0x00
	eofHeader = 0xfe
	errHeader = 0xff
)

const (
	SERVER_STATUS_AUTOCOMMIT = uint16(0x0002)
)

// Packet is one protocol message stamped with a sequence id.
type Packet interface {
	SequenceID() int
	// WithSequenceID returns a copy of the packet stamped with seq.
	WithSequenceID(seq int) Packet
	Write(p *Payload)
}

type OKPacket struct {
	Seq          int
	AffectedRows uint64
	LastInsertID uint64
	StatusFlags  uint16
	Warnings     uint16
	Info         string
}

func NewOKPacket(seq int, affectedRows, lastInsertID uint64) *OKPacket {
	return &OKPacket{
		Seq:          seq,
		AffectedRows: affectedRows,
		LastInsertID: lastInsertID,
		StatusFlags:  SERVER_STATUS_AUTOCOMMIT,
	}
}

func (p *OKPacket) SequenceID() int { return p.Seq }

func (p *OKPacket) WithSequenceID(seq int) Packet {
	cp := *p
	cp.Seq = seq
	return &cp
}

func (p *OKPacket) Write(pl *Payload) {
	pl.WriteInt1(okHeader)
	pl.WriteIntLenenc(p.AffectedRows)
	pl.WriteIntLenenc(p.LastInsertID)
	pl.WriteInt2(p.StatusFlags)
	pl.WriteInt2(p.Warnings)
	pl.WriteStringEOF(p.Info)
}

type ErrPacket struct {
	Seq          int
	ErrorCode    uint16
	SQLState     string
	ErrorMessage string
}

func NewErrPacket(seq int, code uint16, sqlState, msg string) *ErrPacket {
	return &ErrPacket{
		Seq:          seq,
		ErrorCode:    code,
		SQLState:     sqlState,
		ErrorMessage: msg,
	}
}

// NewErrPacketFromError converts err with proxyerror.FromError.
func NewErrPacketFromError(seq int, err error) *ErrPacket {
	pe := proxyerror.FromError(err)
	return NewErrPacket(seq, pe.ErrorCode, pe.SQLState, pe.Error())
}

func (p *ErrPacket) SequenceID() int { return p.Seq }

func (p *ErrPacket) WithSequenceID(seq int) Packet {
	cp := *p
	cp.Seq = seq
	return &cp
}

func (p *ErrPacket) Write(pl *Payload) {
	pl.WriteInt1(errHeader)
	pl.WriteInt2(p.ErrorCode)
	pl.WriteStringEOF("#")
	state := p.SQLState
	if len(state) != 5 {
		state = "HY000"
	}
	pl.WriteStringEOF(state)
	pl.WriteStringEOF(p.ErrorMessage)
}

func (p *ErrPacket) Error() string {
	return p.ErrorMessage
}

type EOFPacket struct {
	Seq         int
	Warnings    uint16
	StatusFlags uint16
}

func NewEOFPacket(seq int) *EOFPacket {
	return &EOFPacket{Seq: seq, StatusFlags: SERVER_STATUS_AUTOCOMMIT}
}

func (p *EOFPacket) SequenceID() int { return p.Seq }

func (p *EOFPacket) WithSequenceID(seq int) Packet {
	cp := *p
	cp.Seq = seq
	return &cp
}

func (p *EOFPacket) Write(pl *Payload) {
	pl.WriteInt1(eofHeader)
	pl.WriteInt2(p.Warnings)
	pl.WriteInt2(p.StatusFlags)
}

type FieldCountPacket struct {
	Seq         int
	ColumnCount int
}

func NewFieldCountPacket(seq, columnCount int) *FieldCountPacket {
	return &FieldCountPacket{Seq: seq, ColumnCount: columnCount}
}

func (p *FieldCountPacket) SequenceID() int { return p.Seq }

func (p *FieldCountPacket) WithSequenceID(seq int) Packet {
	cp := *p
	cp.Seq = seq
	return &cp
}

func (p *FieldCountPacket) Write(pl *Payload) {
	pl.WriteIntLenenc(uint64(p.ColumnCount))
}

type ColumnDefinition41Packet struct {
	Seq          int
	Schema       string
	Table        string
	OrgTable     string
	Name         string
	OrgName      string
	CharacterSet uint16
	ColumnLength uint32
	ColumnType   ColumnType
	Flags        uint16
	Decimals     uint8
}

const utf8GeneralCI = uint16(0x21)

func NewColumnDefinition41Packet(seq int, table, name string, tp ColumnType, length uint32) *ColumnDefinition41Packet {
	return &ColumnDefinition41Packet{
		Seq:          seq,
		Table:        table,
		OrgTable:     table,
		Name:         name,
		OrgName:      name,
		CharacterSet: utf8GeneralCI,
		ColumnLength: length,
		ColumnType:   tp,
	}
}

func (p *ColumnDefinition41Packet) SequenceID() int { return p.Seq }

func (p *ColumnDefinition41Packet) WithSequenceID(seq int) Packet {
	cp := *p
	cp.Seq = seq
	return &cp
}

func (p *ColumnDefinition41Packet) Write(pl *Payload) {
	pl.WriteStringLenenc("def")
	pl.WriteStringLenenc(p.Schema)
	pl.WriteStringLenenc(p.Table)
	pl.WriteStringLenenc(p.OrgTable)
	pl.WriteStringLenenc(p.Name)
	pl.WriteStringLenenc(p.OrgName)
	pl.WriteIntLenenc(0x0c)
	pl.WriteInt2(p.CharacterSet)
	pl.WriteInt4(p.ColumnLength)
	pl.WriteInt1(uint8(p.ColumnType))
	pl.WriteInt2(p.Flags)
	pl.WriteInt1(p.Decimals)
	pl.WriteZero(2)
}

// CommandResponsePackets is the ordered list of packets answering one command.
type CommandResponsePackets struct {
	Packets []Packet
}

func NewCommandResponsePackets(packets ...Packet) *CommandResponsePackets {
	return &CommandResponsePackets{Packets: packets}
}

func (c *CommandResponsePackets) AddPacket(p Packet) {
	c.Packets = append(c.Packets, p)
}

// HeadPacket returns the first packet or nil for an empty response.
func (c *CommandResponsePackets) HeadPacket() Packet {
	if len(c.Packets) == 0 {
		return nil
	}
	return c.Packets[0]
}
