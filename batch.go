package chunkstage

// batch accumulates the contents of one stage call.
type batch struct {
	metadata []byte   // Metadata carried by this batch, empty after the first
	indices  []uint16 // Original module indices, increasing
	code     [][]byte // Module bytecode, parallel to indices
	size     int      // Running size as measured by the pack sizer
}

// newBatch starts a batch seeded with the given metadata slice.
func newBatch(metadata []byte, sizer Sizer) *batch {
	if metadata == nil {
		metadata = []byte{}
	}
	return &batch{
		metadata: metadata,
		indices:  make([]uint16, 0, 4),
		code:     make([][]byte, 0, 4),
		size:     sizer(metadata),
	}
}

// admits reports whether code can join the batch without exceeding limit.
// A module larger than limit on its own is admitted by a batch without
// modules, so it still gets a batch of its own.
func (b *batch) admits(code []byte, limit int, sizer Sizer) bool {
	n := sizer(code)
	if b.size+n <= limit {
		return true
	}
	return len(b.indices) == 0 && n > limit
}

// add appends module i to the batch.
func (b *batch) add(i int, code []byte, sizer Sizer) {
	b.indices = append(b.indices, uint16(i))
	b.code = append(b.code, code)
	b.size += sizer(code)
}
