// Package wire implements the minimal DNS wire format mig needs: the
// 12-byte header, a single question section, and the canned OPT pseudo-RR
// and A-record bytes used to build queries and synthesize answers.
//
// This is deliberately not a general DNS library — compression pointers,
// EDNS negotiation, and most record types are out of scope; only
// the fields needed for query/response correlation and the reflector's
// fixed synthetic answer are implemented.
package wire

import (
	"encoding/binary"

	"github.com/nslatency/mig/internal/errors"
)

// HeaderSize is the fixed size of the DNS message header in bytes.
const HeaderSize = 12

// Header-flag and record-type constants (RFC 1035 §4.1.1, §3.2.2).
const (
	// FlagsStandardQuery is QR=0, OPCODE=0, RD=1: a standard recursive query.
	FlagsStandardQuery = 0x0100

	// TypeA is the QTYPE/TYPE value for an IPv4 address record.
	TypeA = 1

	// ClassIN is the QCLASS/CLASS value for the Internet class.
	ClassIN = 1
)

// Header is the fixed six-field DNS message header (RFC 1035 §4.1.1).
//
//	 0                   1
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                      ID                       |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|QR|   Opcode  |AA|TC|RD|RA|  Z |   RCODE   |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                    QDCOUNT                    |
//	|                    ANCOUNT                    |
//	|                    NSCOUNT                    |
//	|                    ARCOUNT                    |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// BuildHeader appends the wire-format encoding of h to dst and returns the
// extended slice.
func BuildHeader(dst []byte, h Header) []byte {
	var buf [HeaderSize]byte
	binary.BigEndian.PutUint16(buf[0:2], h.ID)
	binary.BigEndian.PutUint16(buf[2:4], h.Flags)
	binary.BigEndian.PutUint16(buf[4:6], h.QDCount)
	binary.BigEndian.PutUint16(buf[6:8], h.ANCount)
	binary.BigEndian.PutUint16(buf[8:10], h.NSCount)
	binary.BigEndian.PutUint16(buf[10:12], h.ARCount)
	return append(dst, buf[:]...)
}

// ParseHeader reads the first HeaderSize bytes of msg as a Header.
func ParseHeader(msg []byte) (Header, error) {
	if len(msg) < HeaderSize {
		return Header{}, &errors.ProtocolError{
			Operation: "parse header",
			Message:   "message shorter than the 12-byte DNS header",
		}
	}

	return Header{
		ID:      binary.BigEndian.Uint16(msg[0:2]),
		Flags:   binary.BigEndian.Uint16(msg[2:4]),
		QDCount: binary.BigEndian.Uint16(msg[4:6]),
		ANCount: binary.BigEndian.Uint16(msg[6:8]),
		NSCount: binary.BigEndian.Uint16(msg[8:10]),
		ARCount: binary.BigEndian.Uint16(msg[10:12]),
	}, nil
}
