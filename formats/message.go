package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/OLUWAMUYIWA/combinators/parsec"
)

type MsgID uint8

const (
	Choke MsgID = iota
	Unchoke
	Interested
	Uninterested
	Have
	BitField
	Request
	Piece
	Cancel
	Port

	// KeepAlive has no id on the wire: it is a zero length prefix.
	KeepAlive MsgID = 0xff
)

var msgNames = map[MsgID]string{
	Choke:        "Choke",
	Unchoke:      "Unchoke",
	Interested:   "Interested",
	Uninterested: "Uninterested",
	Have:         "Have",
	BitField:     "BitField",
	Request:      "Request",
	Piece:        "Piece",
	Cancel:       "Cancel",
	Port:         "Port",
	KeepAlive:    "KeepAlive",
}

func (id MsgID) String() string {
	if name, ok := msgNames[id]; ok {
		return name
	}
	return fmt.Sprintf("MsgID(%d)", uint8(id))
}

// Msg: All of the remaining messages in the protocol take the form of <length prefix><message ID><payload>
type Msg struct {
	ID      MsgID
	Payload []byte
}

func (m Msg) String() string {
	return fmt.Sprintf("%s [%d bytes]", m.ID, len(m.Payload))
}

// payloadSize is the exact payload length of fixed-size messages.
var payloadSize = map[MsgID]int{
	Choke:        0,
	Unchoke:      0,
	Interested:   0,
	Uninterested: 0,
	Have:         4,
	Request:      12,
	Cancel:       12,
	Port:         2,
}

func checkMsg(m Msg) (Msg, error) {
	if m.ID == KeepAlive {
		return m, nil
	}
	if size, fixed := payloadSize[m.ID]; fixed {
		if len(m.Payload) != size {
			return m, errors.Errorf("%s: payload is %d bytes, want %d", m.ID, len(m.Payload), size)
		}
		return m, nil
	}
	switch m.ID {
	case BitField:
		return m, nil
	case Piece:
		if len(m.Payload) < 8 {
			return m, errors.Errorf("Piece: payload is %d bytes, want at least 8", len(m.Payload))
		}
		return m, nil
	}
	return m, errors.Errorf("unknown message id %d", uint8(m.ID))
}

// MessageParser matches one length-prefixed message, keep-alives included.
func MessageParser() parsec.Parsec[Msg] {
	frame := parsec.Bind(uint32BE(), func(n uint32) parsec.Parsec[Msg] {
		if n == 0 {
			return parsec.Pure(Msg{ID: KeepAlive})
		}
		return parsec.Map(takeBytes(int(n)), func(body string) Msg {
			return Msg{ID: MsgID(body[0]), Payload: []byte(body[1:])}
		})
	})
	return parsec.Construct(frame, checkMsg)
}

var messages = parsec.Many0(MessageParser())

// ParseMessages splits a stream into complete messages. The rest is what
// is left after the last complete message: a partial frame, or an invalid one.
func ParseMessages(data []byte) (msgs []Msg, rest []byte) {
	res := messages(string(data))
	msgs, _ = res.Get()
	return msgs, data[len(data)-len(res.Rem()):]
}

// ParseMessage decodes exactly one message.
func ParseMessage(data []byte) (Msg, error) {
	res := MessageParser()(string(data))
	m, ok := res.Get()
	if !ok {
		return m, errors.Wrap(ErrMalformed, "peer message")
	}
	if res.Rem() != "" {
		return m, errors.Wrapf(ErrTrailing, "%d bytes after message", len(res.Rem()))
	}
	return m, nil
}

// Marshal encodes m with its length prefix.
func (m Msg) Marshal() []byte {
	if m.ID == KeepAlive {
		return make([]byte, 4)
	}
	buf := make([]byte, 5+len(m.Payload))
	binary.BigEndian.PutUint32(buf[:4], uint32(1+len(m.Payload)))
	buf[4] = byte(m.ID)
	copy(buf[5:], m.Payload)
	return buf
}

func NewChoke() Msg        { return Msg{ID: Choke} }
func NewUnchoke() Msg      { return Msg{ID: Unchoke} }
func NewInterested() Msg   { return Msg{ID: Interested} }
func NewUninterested() Msg { return Msg{ID: Uninterested} }

func NewHave(pieceIndex uint32) Msg {
	p := make([]byte, 4)
	binary.BigEndian.PutUint32(p, pieceIndex)
	return Msg{ID: Have, Payload: p}
}

func NewBitfield(b Bitfield) Msg {
	return Msg{ID: BitField, Payload: append([]byte(nil), b...)}
}

// Block is the Index-Begin-Length trio of Request and Cancel.
type Block struct {
	Index, Begin, Length uint32
}

func (b Block) bytes() []byte {
	p := make([]byte, 12)
	binary.BigEndian.PutUint32(p[0:4], b.Index)
	binary.BigEndian.PutUint32(p[4:8], b.Begin)
	binary.BigEndian.PutUint32(p[8:12], b.Length)
	return p
}

func NewRequest(b Block) Msg { return Msg{ID: Request, Payload: b.bytes()} }
func NewCancel(b Block) Msg  { return Msg{ID: Cancel, Payload: b.bytes()} }

func NewPiece(index, begin uint32, block []byte) Msg {
	p := make([]byte, 8+len(block))
	binary.BigEndian.PutUint32(p[0:4], index)
	binary.BigEndian.PutUint32(p[4:8], begin)
	copy(p[8:], block)
	return Msg{ID: Piece, Payload: p}
}

var blockParser = parsec.Map3(parsec.Seq3(uint32BE(), uint32BE(), uint32BE()),
	func(index, begin, length uint32) Block { return Block{index, begin, length} })

// Block returns the payload of a Request or Cancel.
func (m Msg) Block() (Block, error) {
	if m.ID != Request && m.ID != Cancel {
		return Block{}, errors.Errorf("%s carries no block", m.ID)
	}
	b, ok := blockParser(string(m.Payload)).Get()
	if !ok {
		return b, errors.Wrap(ErrMalformed, "block")
	}
	return b, nil
}

// HaveIndex returns the piece index of a Have message.
func (m Msg) HaveIndex() (uint32, error) {
	if m.ID != Have || len(m.Payload) != 4 {
		return 0, errors.Errorf("%s is not a valid Have", m)
	}
	return binary.BigEndian.Uint32(m.Payload), nil
}

// PieceBlock splits a Piece payload into its index, offset and data.
func (m Msg) PieceBlock() (index, begin uint32, block []byte, err error) {
	if m.ID != Piece || len(m.Payload) < 8 {
		return 0, 0, nil, errors.Errorf("%s is not a valid Piece", m)
	}
	return binary.BigEndian.Uint32(m.Payload[0:4]), binary.BigEndian.Uint32(m.Payload[4:8]), m.Payload[8:], nil
}

type Bitfield []byte

func NewBitfieldSize(pieces int) Bitfield {
	return make(Bitfield, (pieces+7)/8)
}

func (b Bitfield) Set(i int) error {
	pos := i / 8 // byte position
	off := i % 8 // offset in byte position
	if i < 0 || pos >= len(b) {
		return errors.Errorf("bit %d out of bounds", i)
	}
	b[pos] |= 1 << uint(7-off)
	return nil
}

func (b Bitfield) Has(i int) bool {
	if i < 0 {
		return false
	}
	pos := i / 8
	off := i % 8
	if pos >= len(b) {
		return false
	}
	return b[pos]>>uint(7-off)&1 != 0
}
