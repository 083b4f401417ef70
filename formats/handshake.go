package formats

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"

	"github.com/OLUWAMUYIWA/combinators/parsec"
)

const Protocol = "BitTorrent protocol"

// handshake: <pstrlen><pstr><reserved><info_hash><peer_id>

// pstrlen: string length of <pstr>, as a single raw byte
// pstr: string identifier of the protocol
// reserved: eight (8) reserved bytes. All current implementations use all zeroes.
// peer_id: 20-byte string used as a unique ID for the client.

type Handshake struct {
	Reserved [8]byte
	InfoHash Sha1
	PeerID   Sha1
}

var ErrProtocol = errors.New("unsupported protocol")

func NewHandshake(infoHash, peerID Sha1) Handshake {
	return Handshake{InfoHash: infoHash, PeerID: peerID}
}

// Marshal encodes h for the wire.
func (h Handshake) Marshal() []byte {
	var b bytes.Buffer
	b.WriteByte(byte(len(Protocol)))
	b.WriteString(Protocol)
	b.Write(h.Reserved[:])
	b.Write(h.InfoHash[:])
	b.Write(h.PeerID[:])
	return b.Bytes()
}

// HandshakeParser matches one handshake. Any protocol other than Protocol fails.
func HandshakeParser() parsec.Parsec[Handshake] {
	pstr := parsec.Filter(parsec.Bind(octet(), func(n byte) parsec.Parsec[string] {
		return takeBytes(int(n))
	}), func(s string) bool { return s == Protocol })

	return parsec.Map4(
		parsec.Seq4(pstr, takeBytes(8), takeBytes(20), takeBytes(20)),
		func(_ string, reserved, info, peer string) Handshake {
			var h Handshake
			copy(h.Reserved[:], reserved)
			copy(h.InfoHash[:], info)
			copy(h.PeerID[:], peer)
			return h
		})
}

// ParseHandshake decodes a handshake that must fill data exactly.
func ParseHandshake(data []byte) (Handshake, error) {
	res := HandshakeParser()(string(data))
	h, ok := res.Get()
	if !ok {
		if len(data) > 0 && (int(data[0]) != len(Protocol) || !isPrefix(data[1:], Protocol)) {
			return h, ErrProtocol
		}
		return h, errors.Errorf("short handshake: %d of %d bytes", len(data), 49+len(Protocol))
	}
	if res.Rem() != "" {
		return h, errors.Wrapf(ErrTrailing, "%d bytes after handshake", len(res.Rem()))
	}
	return h, nil
}

// isPrefix reports whether b, cut to the length of s, is a prefix of s.
func isPrefix(b []byte, s string) bool {
	if len(b) > len(s) {
		b = b[:len(s)]
	}
	return strings.HasPrefix(s, string(b))
}

func octet() parsec.Parsec[byte] {
	return parsec.Map(takeBytes(1), func(s string) byte { return s[0] })
}

func uint32BE() parsec.Parsec[uint32] {
	return parsec.Map(takeBytes(4), func(s string) uint32 {
		return binary.BigEndian.Uint32([]byte(s))
	})
}
