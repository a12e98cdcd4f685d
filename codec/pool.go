package codec

import (
	"sync"

	"github.com/feltforge/modelabi"
	"github.com/feltforge/modelabi/felt"
	"github.com/feltforge/modelabi/layout"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 4096 // max felt elements
	poolInitCap = 32
)

// felt buffer pool for read scratch space
var feltBufPool = sync.Pool{
	New: func() any {
		buf := make([]felt.Felt, 0, poolInitCap)
		return &buf
	},
}

func getFeltBuf() *[]felt.Felt {
	return feltBufPool.Get().(*[]felt.Felt)
}

func putFeltBuf(buf *[]felt.Felt) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	feltBufPool.Put(buf)
}

// ReadValue reads a whole value rooted at base and returns it as a fresh
// buffer. The walk runs against pooled scratch space.
func (c *Codec) ReadValue(l *layout.Layout, base uint64, store modelabi.SlotReader) ([]felt.Felt, error) {
	buf := getFeltBuf()
	defer putFeltBuf(buf)

	cursor := base
	if err := c.Read(l, &cursor, store, buf); err != nil {
		return nil, err
	}

	out := make([]felt.Felt, len(*buf))
	copy(out, *buf)
	return out, nil
}

// WriteValue serializes a whole value rooted at base and returns the
// number of slots written.
func (c *Codec) WriteValue(l *layout.Layout, values []felt.Felt, base uint64, store modelabi.SlotWriter) (uint64, error) {
	cursor := base
	if err := c.Write(l, values, &cursor, store); err != nil {
		return 0, err
	}
	return cursor - base, nil
}

// DeleteValue clears a whole value rooted at base and returns the number
// of slots cleared.
func (c *Codec) DeleteValue(l *layout.Layout, base uint64, store modelabi.SlotStore) (uint64, error) {
	cursor := base
	if err := c.Delete(l, &cursor, store); err != nil {
		return 0, err
	}
	return cursor - base, nil
}
