package wire

import (
	"encoding/binary"

	"github.com/nslatency/mig/internal/errors"
)

// cannedAnswerRR is the reflector's fixed answer resource record: a
// compression pointer to the question name at offset 12 (0xC00C), TYPE=A,
// CLASS=IN, TTL=3600, RDLENGTH=4, RDATA=1.2.3.4 — 16 bytes, byte-for-byte
// identical to the original reflector's canned answer.
var cannedAnswerRR = [16]byte{
	0xC0, 0x0C, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x0E, 0x10, 0x00, 0x04, 0x01, 0x02, 0x03, 0x04,
}

// AnswerRRSize is the size in bytes of cannedAnswerRR.
const AnswerRRSize = len(cannedAnswerRR)

// QuestionNameLength scans a length-prefixed, zero-terminated DNS name
// starting at offset in msg (no compression — the probe never compresses
// its questions) and returns the number of bytes it occupies, terminator
// included.
func QuestionNameLength(msg []byte, offset int) (int, error) {
	pos := offset
	for {
		if pos >= len(msg) {
			return 0, &errors.ProtocolError{
				Operation: "scan question name",
				Message:   "truncated name: ran off end of message before zero-length label",
			}
		}

		label := int(msg[pos])
		pos++
		if label == 0 {
			return pos - offset, nil
		}

		pos += label
	}
}

// RefuseQuery builds a refused response by copying the original query
// verbatim and rewriting its flags to (flags & 0x7079) | 0x0580.
func RefuseQuery(query []byte) []byte {
	out := make([]byte, len(query))
	copy(out, query)

	flags := binary.BigEndian.Uint16(out[2:4])
	flags = (flags & 0x7079) | 0x0580
	binary.BigEndian.PutUint16(out[2:4], flags)

	return out
}

// ClassifyQuery reports whether query should be answered (true) or
// refused (false): refused if any header flag bit outside the low (RD)
// bit is set, or QDCOUNT != 1, or ANCOUNT != 0, or NSCOUNT != 0, or the
// question's QTYPE != A. A structural error (too short for a header, or
// for header+question) is returned as-is; the caller treats it as a
// fatal per-packet condition.
func ClassifyQuery(query []byte) (answer bool, err error) {
	header, err := ParseHeader(query)
	if err != nil {
		return false, err
	}

	// RD (recursion desired, 0x0100) is the only flag bit a well-formed
	// standard query may set; anything else (QR, Opcode, AA, TC, RA, Z,
	// RCODE) routes to the refused path.
	if header.Flags & ^uint16(FlagsStandardQuery) != 0 {
		return false, nil
	}
	if header.QDCount != 1 || header.ANCount != 0 || header.NSCount != 0 {
		return false, nil
	}

	nameLen, err := QuestionNameLength(query, HeaderSize)
	if err != nil {
		return false, err
	}

	qtypeOffset := HeaderSize + nameLen
	if len(query) < qtypeOffset+4 {
		return false, &errors.ProtocolError{
			Operation: "parse question",
			Message:   "query too short for QTYPE/QCLASS",
		}
	}

	qtype := binary.BigEndian.Uint16(query[qtypeOffset : qtypeOffset+2])
	if qtype != TypeA {
		return false, nil
	}

	return true, nil
}

// AnswerQuery synthesizes an answered response for query: flags rewritten
// to (flags & 0x7079) | 0x0084, ANCOUNT=1, the original question copied
// verbatim, one canned A record appended, and any trailing bytes (OPT
// pseudo-RR, etc.) copied unchanged after it. Output size is
// len(query) + AnswerRRSize. Caller must have already confirmed via
// ClassifyQuery that this query should be answered.
func AnswerQuery(query []byte) ([]byte, error) {
	nameLen, err := QuestionNameLength(query, HeaderSize)
	if err != nil {
		return nil, err
	}

	beforeAnswer := HeaderSize + nameLen + 4
	if len(query) < beforeAnswer {
		return nil, &errors.ProtocolError{
			Operation: "build answer",
			Message:   "query too short for header + question section",
		}
	}

	out := make([]byte, len(query)+AnswerRRSize)
	copy(out, query[:beforeAnswer])

	flags := binary.BigEndian.Uint16(out[2:4])
	flags = (flags & 0x7079) | 0x0084
	binary.BigEndian.PutUint16(out[2:4], flags)
	binary.BigEndian.PutUint16(out[6:8], 1) // ANCOUNT = 1

	copy(out[beforeAnswer:], cannedAnswerRR[:])
	copy(out[beforeAnswer+AnswerRRSize:], query[beforeAnswer:])

	return out, nil
}
