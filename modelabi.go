package modelabi

import "github.com/feltforge/modelabi/felt"

// SlotReader reads fixed-width words from contract storage slots.
// Offsets are relative to a base key bound by the caller; slots that were
// never written read as the zero felt.
type SlotReader interface {
	ReadSlot(offset uint64) (felt.Felt, error)
}

// SlotWriter writes fixed-width words to contract storage slots.
type SlotWriter interface {
	WriteSlot(offset uint64, value felt.Felt) error
}

// SlotStore combines read and write access to a bound run of slots.
// The engine only decides the sequence and count of slot accesses; it never
// computes base keys, and callers must serialize concurrent access to the
// same logical key.
type SlotStore interface {
	SlotReader
	SlotWriter
}
