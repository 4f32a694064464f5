// Package ring implements the reflector's bounded spool queue: a
// fixed-capacity, single-producer-single-consumer FIFO of (peer address,
// payload) entries used to buffer outbound responses while the socket is
// not writable.
//
// The original implementation threaded a raw byte buffer with a one-byte
// tag in front of every entry (0x00 for a live entry, 0xFF for a wrap
// marker telling the consumer to jump back to the buffer base). That trick
// is awkward in a typed language: this version instead tracks head and
// tail as byte offsets modulo the buffer length and frames each entry with
// its own length prefix, letting an entry's bytes physically wrap across
// the end of the buffer without any sentinel.
package ring

import (
	"encoding/binary"
	"net/netip"

	"github.com/nslatency/mig/internal/errors"
)

// addrPortSize is the fixed wire size of a serialized netip.AddrPort: 16
// address bytes (IPv4 addresses are stored 4-in-16 via To4/To16) plus a
// 1-byte family tag and a 2-byte port.
const addrPortSize = 1 + 16 + 2

// frameHeaderSize is the length prefix written ahead of every entry's
// serialized address and payload.
const frameHeaderSize = 4

// Entry is one pending outbound response: the peer to send it to and the
// exact bytes to send.
type Entry struct {
	Addr    netip.AddrPort
	Payload []byte
}

// Queue is a fixed-capacity ring buffer of Entry values. The zero Queue is
// not usable; construct one with New.
type Queue struct {
	buf  []byte
	head int
	tail int
	full bool
}

// New allocates a Queue backed by a capacity-byte buffer.
func New(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, &errors.ResourceError{
			Operation:      "allocate spool queue",
			RequestedBytes: int64(capacity),
		}
	}
	return &Queue{buf: make([]byte, capacity)}, nil
}

// Empty reports whether the queue holds no entries.
func (q *Queue) Empty() bool {
	return !q.full && q.head == q.tail
}

// used returns the number of buffer bytes currently occupied.
func (q *Queue) used() int {
	if q.full {
		return len(q.buf)
	}
	if q.tail >= q.head {
		return q.tail - q.head
	}
	return len(q.buf) - q.head + q.tail
}

// free returns the number of buffer bytes currently unoccupied.
func (q *Queue) free() int {
	return len(q.buf) - q.used()
}

// Push appends entry to the tail of the queue. It reports a ResourceError
// if the buffer has no contiguous-or-wrapped room for it; the caller must
// treat a full spool queue as fatal to the run.
func (q *Queue) Push(entry Entry) error {
	payload := entry.Payload
	entryLen := addrPortSize + len(payload)

	if frameHeaderSize+entryLen > q.free() {
		return &errors.ResourceError{
			Operation:      "push to spool queue",
			RequestedBytes: int64(frameHeaderSize + entryLen),
		}
	}

	var header [frameHeaderSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(entryLen))
	q.write(header[:])

	var addrBuf [addrPortSize]byte
	encodeAddrPort(addrBuf[:], entry.Addr)
	q.write(addrBuf[:])

	q.write(payload)

	if q.head == q.tail {
		q.full = true
	}

	return nil
}

// Pop removes and returns the entry at the head of the queue. It reports
// ok == false when the queue is empty.
func (q *Queue) Pop() (entry Entry, ok bool) {
	entry, ok = q.Peek()
	if ok {
		q.Advance()
	}
	return entry, ok
}

// Peek returns the entry at the head of the queue without removing it.
// It reports ok == false when the queue is empty. Use Advance to commit
// the entry once it has been successfully handed off — a consumer that
// cannot act on the entry yet (e.g. a nonblocking send that would block)
// can simply not call Advance and retry the same entry later.
func (q *Queue) Peek() (entry Entry, ok bool) {
	if q.Empty() {
		return Entry{}, false
	}

	var header [frameHeaderSize]byte
	q.readAt(q.head, header[:])
	entryLen := int(binary.BigEndian.Uint32(header[:]))

	afterHeader := (q.head + frameHeaderSize) % len(q.buf)

	var addrBuf [addrPortSize]byte
	q.readAt(afterHeader, addrBuf[:])
	addr := decodeAddrPort(addrBuf[:])

	payload := make([]byte, entryLen-addrPortSize)
	q.readAt((afterHeader+addrPortSize)%len(q.buf), payload)

	return Entry{Addr: addr, Payload: payload}, true
}

// Advance removes the entry last returned by Peek from the queue. It is
// a programming error to call Advance without a preceding successful
// Peek; on an empty queue it is a no-op.
func (q *Queue) Advance() {
	if q.Empty() {
		return
	}

	var header [frameHeaderSize]byte
	q.readAt(q.head, header[:])
	entryLen := int(binary.BigEndian.Uint32(header[:]))

	q.head = (q.head + frameHeaderSize + entryLen) % len(q.buf)
	q.full = false
}

// write copies p into the ring starting at tail, wrapping as needed, and
// advances tail. Caller must have already verified enough free space.
func (q *Queue) write(p []byte) {
	n := copy(q.buf[q.tail:], p)
	if n < len(p) {
		copy(q.buf, p[n:])
	}
	q.tail = (q.tail + len(p)) % len(q.buf)
}

// readAt copies len(p) bytes starting at the given buffer offset into p,
// wrapping as needed, without mutating head or tail.
func (q *Queue) readAt(offset int, p []byte) {
	n := copy(p, q.buf[offset:])
	if n < len(p) {
		copy(p[n:], q.buf[:len(p)-n])
	}
}

func encodeAddrPort(dst []byte, addr netip.AddrPort) {
	a := addr.Addr()
	if a.Is4() {
		dst[0] = 4
	} else {
		dst[0] = 6
	}
	a16 := a.As16()
	copy(dst[1:17], a16[:])
	binary.BigEndian.PutUint16(dst[17:19], addr.Port())
}

func decodeAddrPort(src []byte) netip.AddrPort {
	var a16 [16]byte
	copy(a16[:], src[1:17])
	port := binary.BigEndian.Uint16(src[17:19])

	if src[0] == 4 {
		var a4 [4]byte
		copy(a4[:], a16[12:16])
		return netip.AddrPortFrom(netip.AddrFrom4(a4), port)
	}
	return netip.AddrPortFrom(netip.AddrFrom16(a16), port)
}
