// Package probeengine implements the probe's core loop: build a batch of
// queries from a domain set, send them at an optional fixed rate while
// draining answers off the socket without blocking on either direction,
// correlate each answer back to the query that produced it under a
// 16-bit transaction-id space, and report a final drain phase once every
// query has been sent.
package probeengine

import (
	"github.com/nslatency/mig/internal/domainenc"
	"github.com/nslatency/mig/internal/wire"
)

// transactionIDModulus is the original tool's id cycle length. It is one
// less than the full 16-bit space (65536) because the id generator used
// the unsigned-short maximum value itself as its modulus.
const transactionIDModulus = 65535

// Batch is the probe's pre-built set of outbound queries: one contiguous
// byte slice holding every query back to back, with Offsets marking where
// each one starts and ends (Offsets has len(queries)+1 entries). This
// replaces the original tool's per-query host-endian size prefix baked
// into the same buffer with a typed parallel-offsets slice — the shape a
// Go caller actually wants to range over.
type Batch struct {
	Queries []byte
	Offsets []int
}

// BuildBatch constructs a Batch of count queries cycling through names,
// each carrying clientID as its OPT pseudo-RR client id (nil to omit the
// OPT record entirely). Transaction ids cycle 0..transactionIDModulus-1.
func BuildBatch(names domainenc.Set, count int, clientID []byte) Batch {
	var batch Batch
	batch.Offsets = make([]int, 0, count+1)
	batch.Offsets = append(batch.Offsets, 0)

	nameCount := names.Count()
	for i := 0; i < count; i++ {
		name := names.Name(i % nameCount)
		id := uint16(i % transactionIDModulus)

		batch.Queries = wire.BuildQuery(batch.Queries, id, name, clientID)
		batch.Offsets = append(batch.Offsets, len(batch.Queries))
	}

	return batch
}

// Count reports how many queries are in the batch.
func (b Batch) Count() int {
	if len(b.Offsets) == 0 {
		return 0
	}
	return len(b.Offsets) - 1
}

// Query returns the wire bytes of the i'th query in the batch.
func (b Batch) Query(i int) []byte {
	return b.Queries[b.Offsets[i]:b.Offsets[i+1]]
}
