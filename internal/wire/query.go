package wire

import "encoding/binary"

// ClientIDLength is the size in bytes of the opaque client identifier
// carried in the OPT pseudo-RR.
const ClientIDLength = 16

// additionalTemplate is the fixed 15-byte OPT pseudo-RR prefix the probe
// writes verbatim ahead of the 16-byte client id, byte-for-byte identical
// to the original probe's `additional[]` constant.
var additionalTemplate = [15]byte{
	0x00, 0x00, 0x29, 0x10, 0x00, 0x00, 0x00, 0x80,
	0x00, 0x00, 0x14, 0xFF, 0xEE, 0x00, 0x10,
}

// AdditionalSize is the wire size of the OPT pseudo-RR including the
// trailing client id (15 + 16 bytes).
const AdditionalSize = len(additionalTemplate) + ClientIDLength

// BuildQuery appends one complete query record to dst: the 12-byte header
// (ID = id, flags = FlagsStandardQuery, QDCOUNT = 1, AN/NS = 0,
// ARCOUNT = 1 iff clientID is non-nil), the pre-encoded question name,
// QTYPE=A, QCLASS=IN, and — when clientID is non-nil — the OPT pseudo-RR
// template followed by the 16 client id bytes.
//
// name must already be in wire format (length-prefixed labels terminated
// by a zero-length label), as produced by package domainenc.
func BuildQuery(dst []byte, id uint16, name []byte, clientID []byte) []byte {
	arcount := uint16(0)
	if clientID != nil {
		arcount = 1
	}

	dst = BuildHeader(dst, Header{
		ID:      id,
		Flags:   FlagsStandardQuery,
		QDCount: 1,
		ARCount: arcount,
	})

	dst = append(dst, name...)

	var qtypeClass [4]byte
	binary.BigEndian.PutUint16(qtypeClass[0:2], TypeA)
	binary.BigEndian.PutUint16(qtypeClass[2:4], ClassIN)
	dst = append(dst, qtypeClass[:]...)

	if clientID != nil {
		dst = append(dst, additionalTemplate[:]...)
		dst = append(dst, clientID...)
	}

	return dst
}

// QuerySize returns the exact wire size BuildQuery will produce for a name
// of the given encoded length, without building the record.
func QuerySize(nameLen int, withClientID bool) int {
	size := HeaderSize + nameLen + 4
	if withClientID {
		size += AdditionalSize
	}
	return size
}
