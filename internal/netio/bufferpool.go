package netio

import "sync"

// receiveBufferSize is the scratch buffer size for one incoming datagram,
// sized to the maximum UDP payload a DNS message over IPv4 can carry
// without fragmentation surprises.
const receiveBufferSize = 65535

// bufferPool recycles receive scratch buffers across RecvFrom calls: both
// engines sit in a tight poll/recv loop for the life of a run, and handing
// the same backing arrays back and forth avoids a per-datagram allocation
// on that hot path.
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, receiveBufferSize)
		return &buf
	},
}

// GetBuffer returns a pointer to a receiveBufferSize-length scratch
// buffer. Callers must return it with PutBuffer once the datagram it
// holds has been consumed.
func GetBuffer() *[]byte {
	return bufferPool.Get().(*[]byte)
}

// PutBuffer returns bufPtr to the pool. The caller must not use the slice
// again afterward.
func PutBuffer(bufPtr *[]byte) {
	bufferPool.Put(bufPtr)
}
