package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltforge/modelabi/felt"
)

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory()

	// unwritten slots read as zero
	v, err := m.ReadSlot(42)
	assert.NoError(t, err)
	assert.True(t, v.IsZero())

	assert.NoError(t, m.WriteSlot(42, felt.FromUint64(7)))
	v, err = m.ReadSlot(42)
	assert.NoError(t, err)
	assert.True(t, v.Equal(felt.FromUint64(7)))
	assert.Equal(t, 1, m.Len())
}

func TestMemoryZeroWriteReleasesSlot(t *testing.T) {
	m := NewMemory()
	assert.NoError(t, m.WriteSlot(1, felt.FromUint64(5)))
	assert.NoError(t, m.WriteSlot(1, felt.Felt{}))
	assert.Equal(t, 0, m.Len())
}

func TestBindShiftsOffsets(t *testing.T) {
	m := NewMemory()
	view := Bind(m, 100)

	assert.NoError(t, view.WriteSlot(5, felt.FromUint64(9)))

	direct, err := m.ReadSlot(105)
	assert.NoError(t, err)
	assert.True(t, direct.Equal(felt.FromUint64(9)))

	through, err := view.ReadSlot(5)
	assert.NoError(t, err)
	assert.True(t, through.Equal(felt.FromUint64(9)))
}

func TestSQLiteSlots(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	v, err := s.ReadSlot(7)
	assert.NoError(t, err)
	assert.True(t, v.IsZero())

	want, err := felt.FromHex("0xdeadbeefcafe")
	require.NoError(t, err)
	assert.NoError(t, s.WriteSlot(7, want))

	got, err := s.ReadSlot(7)
	assert.NoError(t, err)
	assert.True(t, got.Equal(want))

	n, err := s.Len()
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	// zero write drops the row
	assert.NoError(t, s.WriteSlot(7, felt.Felt{}))
	n, err = s.Len()
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLiteOverwrite(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.WriteSlot(1, felt.FromUint64(10)))
	assert.NoError(t, s.WriteSlot(1, felt.FromUint64(20)))

	got, err := s.ReadSlot(1)
	assert.NoError(t, err)
	assert.True(t, got.Equal(felt.FromUint64(20)))
}

func TestSQLiteDefinitions(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.PutDefinition("Position", "1.0.0", []byte("schema-a")))
	assert.NoError(t, s.PutDefinition("Health", "2.1.0", []byte("schema-b")))

	version, schema, err := s.GetDefinition("Position")
	assert.NoError(t, err)
	assert.Equal(t, "1.0.0", version)
	assert.Equal(t, []byte("schema-a"), schema)

	// replace keeps one record per name
	assert.NoError(t, s.PutDefinition("Position", "1.1.0", []byte("schema-a2")))
	version, _, err = s.GetDefinition("Position")
	assert.NoError(t, err)
	assert.Equal(t, "1.1.0", version)

	names, err := s.ListDefinitions()
	assert.NoError(t, err)
	assert.Equal(t, []string{"Health", "Position"}, names)

	_, _, err = s.GetDefinition("Missing")
	assert.Error(t, err)
}
