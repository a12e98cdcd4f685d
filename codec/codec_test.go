package codec

import (
	stderrors "errors"
	"testing"

	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/felt"
	"github.com/feltforge/modelabi/layout"
	"github.com/feltforge/modelabi/storage"
	"github.com/feltforge/modelabi/typedef"
)

func felts(vs ...uint64) []felt.Felt {
	out := make([]felt.Felt, len(vs))
	for i, v := range vs {
		out[i] = felt.FromUint64(v)
	}
	return out
}

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("not a structured error: %v", err)
	}
	return e.Kind
}

func equalFelts(a, b []felt.Felt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func TestStructRoundTrip(t *testing.T) {
	lay := layout.Derive(typedef.Struct("Point",
		typedef.NewField("x", typedef.U8()),
		typedef.NewField("y", typedef.U32()),
	))
	store := storage.NewMemory()
	c := New(DefaultLimits())

	in := felts(10, 20)
	written, err := c.WriteValue(lay, in, 0, store)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if written != 2 {
		t.Errorf("written: got %d, want 2", written)
	}

	out, err := c.ReadValue(lay, 0, store)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !equalFelts(in, out) {
		t.Errorf("round trip: got %v, want %v", out, in)
	}
}

func TestStructShortBuffer(t *testing.T) {
	lay := layout.Derive(typedef.Struct("Point",
		typedef.NewField("x", typedef.U8()),
		typedef.NewField("y", typedef.U32()),
	))
	c := New(DefaultLimits())

	_, err := c.WriteValue(lay, felts(10), 0, storage.NewMemory())
	if err == nil {
		t.Fatal("short buffer accepted")
	}
	if kindOf(t, err) != errors.KindInvalidValuesLength {
		t.Errorf("kind: got %s", kindOf(t, err))
	}
}

func TestFailedWriteLeavesStoreUntouched(t *testing.T) {
	c := New(Limits{MaxLengthBits: 4})

	tests := []struct {
		name   string
		typ    *typedef.Type
		values []felt.Felt
		kind   errors.Kind
	}{
		{"short buffer", typedef.Struct("Point",
			typedef.NewField("x", typedef.U8()),
			typedef.NewField("y", typedef.U32()),
		), felts(10), errors.KindInvalidValuesLength},
		{"bad selector after valid sibling", typedef.Struct("M",
			typedef.NewField("a", typedef.U8()),
			typedef.NewField("e", typedef.Enum("E",
				typedef.NewVariant("A", typedef.Unit()),
				typedef.NewVariant("B", typedef.Unit()),
			)),
		), felts(7, 5), errors.KindVariantNotFound},
		{"oversized length after valid sibling", typedef.Struct("M",
			typedef.NewField("a", typedef.U8()),
			typedef.NewField("items", typedef.Array(typedef.U8())),
		), felts(7, 16), errors.KindInvalidArrayLength},
		{"bad pending count after chunks", typedef.Struct("M",
			typedef.NewField("a", typedef.U8()),
			typedef.NewField("label", typedef.ByteArray()),
		), felts(7, 1, 0xaa, 0xbb, ByteChunkSize), errors.KindInvalidData},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := storage.NewMemory()
			lay := layout.Derive(tc.typ)

			_, err := c.WriteValue(lay, tc.values, 0, store)
			if err == nil {
				t.Fatal("invalid buffer accepted")
			}
			if kindOf(t, err) != tc.kind {
				t.Errorf("kind: got %s, want %s", kindOf(t, err), tc.kind)
			}
			if store.Len() != 0 {
				t.Errorf("rejected write committed %d slots", store.Len())
			}
			if v, _ := store.ReadSlot(0); !v.IsZero() {
				t.Errorf("slot 0 holds %s after a rejected write", v)
			}
		})
	}
}

func TestEnumSelector(t *testing.T) {
	lay := layout.Derive(typedef.Enum("E",
		typedef.NewVariant("X", typedef.U8()),
		typedef.NewVariant("Y", typedef.U32()),
	))
	c := New(DefaultLimits())

	// only selectors 0 and 1 are declared
	_, err := c.WriteValue(lay, felts(2, 20), 0, storage.NewMemory())
	if err == nil {
		t.Fatal("undeclared selector accepted")
	}
	if kindOf(t, err) != errors.KindVariantNotFound {
		t.Errorf("kind: got %s", kindOf(t, err))
	}

	store := storage.NewMemory()
	if _, err := c.WriteValue(lay, felts(0, 10), 0, store); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := c.ReadValue(lay, 0, store)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !equalFelts(out, felts(0, 10)) {
		t.Errorf("got %v, want [0 10]", out)
	}
}

func TestEnumSelectorTooWide(t *testing.T) {
	lay := layout.Derive(typedef.Enum("E", typedef.NewVariant("A", typedef.Unit())))
	c := New(DefaultLimits())

	_, err := c.WriteValue(lay, felts(300), 0, storage.NewMemory())
	if err == nil {
		t.Fatal("selector wider than the discriminant accepted")
	}
	if kindOf(t, err) != errors.KindInvalidVariantValue {
		t.Errorf("kind: got %s", kindOf(t, err))
	}
}

func TestDefaultZero(t *testing.T) {
	lay := layout.Derive(typedef.Struct("Game",
		typedef.NewField("score", typedef.U64()),
		typedef.NewField("state", typedef.Enum("State",
			typedef.NewVariant("Idle", typedef.U8()),
			typedef.NewVariant("Running", typedef.U8()),
		)),
		typedef.NewField("tags", typedef.Array(typedef.U32())),
	))
	c := New(DefaultLimits())

	out, err := c.ReadValue(lay, 0, storage.NewMemory())
	if err != nil {
		t.Fatalf("read from fresh store: %v", err)
	}
	// score 0, selector 0 with zero payload, empty array
	want := felts(0, 0, 0, 0)
	if !equalFelts(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestArrayRoundTrip(t *testing.T) {
	lay := layout.Derive(typedef.Array(typedef.Tuple(typedef.U32(), typedef.U8())))
	store := storage.NewMemory()
	c := New(DefaultLimits())

	in := felts(2, 100, 1, 200, 2)
	if _, err := c.WriteValue(lay, in, 0, store); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := c.ReadValue(lay, 0, store)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !equalFelts(in, out) {
		t.Errorf("round trip: got %v, want %v", out, in)
	}
}

func TestArrayLengthBoundary(t *testing.T) {
	lay := layout.Derive(typedef.Array(typedef.U8()))
	c := New(Limits{MaxLengthBits: 4})

	// 15 elements fit a 4-bit prefix
	in := make([]felt.Felt, 16)
	in[0] = felt.FromUint64(15)
	if _, err := c.WriteValue(lay, in, 0, storage.NewMemory()); err != nil {
		t.Fatalf("boundary length rejected: %v", err)
	}

	over := make([]felt.Felt, 17)
	over[0] = felt.FromUint64(16)
	_, err := c.WriteValue(lay, over, 0, storage.NewMemory())
	if err == nil {
		t.Fatal("over-boundary length accepted")
	}
	if kindOf(t, err) != errors.KindInvalidArrayLength {
		t.Errorf("kind: got %s", kindOf(t, err))
	}
}

func TestByteArrayRoundTrip(t *testing.T) {
	lay := layout.Derive(typedef.ByteArray())
	store := storage.NewMemory()
	c := New(DefaultLimits())

	// one full chunk, pending word with 5 bytes
	in := felts(1, 0xdeadbeef, 0x68656c6c6f, 5)
	if _, err := c.WriteValue(lay, in, 0, store); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := c.ReadValue(lay, 0, store)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !equalFelts(in, out) {
		t.Errorf("round trip: got %v, want %v", out, in)
	}
}

func TestByteArrayPendingLength(t *testing.T) {
	lay := layout.Derive(typedef.ByteArray())
	c := New(DefaultLimits())

	// a pending word can never hold a full chunk
	_, err := c.WriteValue(lay, felts(0, 0, ByteChunkSize), 0, storage.NewMemory())
	if err == nil {
		t.Fatal("pending byte count of a full chunk accepted")
	}
	if kindOf(t, err) != errors.KindInvalidData {
		t.Errorf("kind: got %s", kindOf(t, err))
	}
}

func TestOffsetDeterminism(t *testing.T) {
	lay := layout.Derive(typedef.Struct("M",
		typedef.NewField("a", typedef.U8()),
		typedef.NewField("pair", typedef.Tuple(typedef.U16(), typedef.U32())),
		typedef.NewField("items", typedef.Array(typedef.U8())),
	))
	c := New(DefaultLimits())

	in := felts(1, 2, 3, 2, 40, 41)
	s1 := storage.NewMemory()
	s2 := storage.NewMemory()
	n1, err := c.WriteValue(lay, in, 0, s1)
	if err != nil {
		t.Fatal(err)
	}
	n2, err := c.WriteValue(lay, in, 0, s2)
	if err != nil {
		t.Fatal(err)
	}
	if n1 != n2 {
		t.Fatalf("slot counts differ: %d vs %d", n1, n2)
	}
	for off := uint64(0); off < n1; off++ {
		v1, _ := s1.ReadSlot(off)
		v2, _ := s2.ReadSlot(off)
		if !v1.Equal(v2) {
			t.Errorf("slot %d differs: %s vs %s", off, v1, v2)
		}
	}
}

func TestDeleteIdempotent(t *testing.T) {
	lay := layout.Derive(typedef.Struct("M",
		typedef.NewField("score", typedef.U64()),
		typedef.NewField("items", typedef.Array(typedef.U32())),
		typedef.NewField("label", typedef.ByteArray()),
	))
	store := storage.NewMemory()
	c := New(DefaultLimits())

	in := felts(7, 3, 10, 11, 12, 1, 0xaa, 0xbb, 3)
	if _, err := c.WriteValue(lay, in, 0, store); err != nil {
		t.Fatalf("write: %v", err)
	}
	if store.Len() == 0 {
		t.Fatal("nothing written")
	}

	if _, err := c.DeleteValue(lay, 0, store); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("slots left after delete: %d", store.Len())
	}

	if _, err := c.DeleteValue(lay, 0, store); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("slots left after second delete: %d", store.Len())
	}

	// zero form: score, empty array, empty byte array (count, pending, len)
	out, err := c.ReadValue(lay, 0, store)
	if err != nil {
		t.Fatalf("read after delete: %v", err)
	}
	if !equalFelts(out, felts(0, 0, 0, 0, 0)) {
		t.Errorf("zero form: got %v", out)
	}
}

func TestBoundStoreIsolation(t *testing.T) {
	lay := layout.Derive(typedef.U64())
	backing := storage.NewMemory()
	c := New(DefaultLimits())

	a := storage.Bind(backing, 1000)
	b := storage.Bind(backing, 2000)
	if _, err := c.WriteValue(lay, felts(11), 0, a); err != nil {
		t.Fatal(err)
	}
	if _, err := c.WriteValue(lay, felts(22), 0, b); err != nil {
		t.Fatal(err)
	}

	va, _ := c.ReadValue(lay, 0, a)
	vb, _ := c.ReadValue(lay, 0, b)
	if !equalFelts(va, felts(11)) || !equalFelts(vb, felts(22)) {
		t.Errorf("bound views interfere: a=%v b=%v", va, vb)
	}
}
