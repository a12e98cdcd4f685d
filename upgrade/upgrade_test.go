package upgrade

import (
	stderrors "errors"
	"testing"

	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/introspect"
	"github.com/feltforge/modelabi/typedef"
)

func schema(t *typedef.Type) *introspect.Schema {
	return introspect.Derive(t)
}

func baseStruct() *typedef.Type {
	return typedef.Struct("Model",
		typedef.KeyField("k", typedef.U8()),
		typedef.NewField("a", typedef.Felt252()),
		typedef.NewField("b", typedef.U128()),
	)
}

func TestAppendFieldIsCompatible(t *testing.T) {
	next := typedef.Struct("Model",
		typedef.KeyField("k", typedef.U8()),
		typedef.NewField("a", typedef.Felt252()),
		typedef.NewField("b", typedef.U128()),
		typedef.NewField("c", typedef.U256()),
	)

	status, err := Check(schema(baseStruct()), schema(next))
	if status != Compatible || err != nil {
		t.Errorf("append: got %s (%v), want compatible", status, err)
	}
}

func TestRemoveFieldIsSchemaIncompatible(t *testing.T) {
	next := typedef.Struct("Model",
		typedef.KeyField("k", typedef.U8()),
		typedef.NewField("b", typedef.U128()),
	)

	status, err := Check(schema(baseStruct()), schema(next))
	if status != IncompatibleSchema {
		t.Fatalf("removal: got %s, want incompatible_schema", status)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindIncompatibleSchema {
		t.Errorf("error kind: got %v", err)
	}
}

func TestIdenticalIsCompatible(t *testing.T) {
	status, err := Check(schema(baseStruct()), schema(baseStruct()))
	if status != Compatible || err != nil {
		t.Errorf("identical: got %s (%v)", status, err)
	}
}

func TestStructViolations(t *testing.T) {
	tests := []struct {
		name string
		next *typedef.Type
		want Status
	}{
		{"rename member", typedef.Struct("Model",
			typedef.KeyField("k", typedef.U8()),
			typedef.NewField("z", typedef.Felt252()),
			typedef.NewField("b", typedef.U128()),
		), IncompatibleSchema},
		{"reorder members", typedef.Struct("Model",
			typedef.KeyField("k", typedef.U8()),
			typedef.NewField("b", typedef.U128()),
			typedef.NewField("a", typedef.Felt252()),
		), IncompatibleSchema},
		{"widen member", typedef.Struct("Model",
			typedef.KeyField("k", typedef.U16()),
			typedef.NewField("a", typedef.Felt252()),
			typedef.NewField("b", typedef.U128()),
		), IncompatibleLayout},
		{"drop key attribute", typedef.Struct("Model",
			typedef.NewField("k", typedef.U8()),
			typedef.NewField("a", typedef.Felt252()),
			typedef.NewField("b", typedef.U128()),
		), IncompatibleSchema},
		{"change member kind", typedef.Struct("Model",
			typedef.KeyField("k", typedef.U8()),
			typedef.NewField("a", typedef.Array(typedef.Felt252())),
			typedef.NewField("b", typedef.U128()),
		), IncompatibleLayout},
		{"insert in the middle", typedef.Struct("Model",
			typedef.KeyField("k", typedef.U8()),
			typedef.NewField("new", typedef.U8()),
			typedef.NewField("a", typedef.Felt252()),
			typedef.NewField("b", typedef.U128()),
		), IncompatibleSchema},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, err := Check(schema(baseStruct()), schema(tc.next))
			if status != tc.want {
				t.Errorf("got %s (%v), want %s", status, err, tc.want)
			}
			if err == nil {
				t.Error("violation reported no error")
			}
		})
	}
}

func TestEnumEvolution(t *testing.T) {
	old := typedef.Enum("State",
		typedef.NewVariant("Idle", typedef.Unit()),
		typedef.NewVariant("Running", typedef.U64()),
	)

	appended := typedef.Enum("State",
		typedef.NewVariant("Idle", typedef.Unit()),
		typedef.NewVariant("Running", typedef.U64()),
		typedef.NewVariant("Paused", typedef.U64()),
	)
	if status, err := Check(schema(old), schema(appended)); status != Compatible {
		t.Errorf("append variant: got %s (%v)", status, err)
	}

	reordered := typedef.Enum("State",
		typedef.NewVariant("Running", typedef.U64()),
		typedef.NewVariant("Idle", typedef.Unit()),
	)
	if status, _ := Check(schema(old), schema(reordered)); status != IncompatibleSchema {
		t.Errorf("reorder variants: got %s", status)
	}

	removed := typedef.Enum("State",
		typedef.NewVariant("Idle", typedef.Unit()),
	)
	if status, _ := Check(schema(old), schema(removed)); status != IncompatibleSchema {
		t.Errorf("remove variant: got %s", status)
	}

	retyped := typedef.Enum("State",
		typedef.NewVariant("Idle", typedef.Unit()),
		typedef.NewVariant("Running", typedef.U32()),
	)
	if status, _ := Check(schema(old), schema(retyped)); status != IncompatibleLayout {
		t.Errorf("retype payload: got %s", status)
	}
}

func TestShapeViolations(t *testing.T) {
	tests := []struct {
		name string
		old  *typedef.Type
		next *typedef.Type
		want Status
	}{
		{"kind change", typedef.U32(), typedef.Array(typedef.U32()), IncompatibleLayout},
		{"tuple grows at tail", typedef.Tuple(typedef.U8()), typedef.Tuple(typedef.U8(), typedef.U8()), Compatible},
		{"tuple shrinks", typedef.Tuple(typedef.U8(), typedef.U8()), typedef.Tuple(typedef.U8()), IncompatibleLayout},
		{"fixed array resized", typedef.FixedArray(typedef.U8(), 4), typedef.FixedArray(typedef.U8(), 5), IncompatibleLayout},
		{"array elem retyped", typedef.Array(typedef.U8()), typedef.Array(typedef.U16()), IncompatibleLayout},
		{"byte array stable", typedef.ByteArray(), typedef.ByteArray(), Compatible},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := Check(schema(tc.old), schema(tc.next))
			if status != tc.want {
				t.Errorf("got %s, want %s", status, tc.want)
			}
		})
	}
}

func TestTypeRenameIsSchemaIncompatible(t *testing.T) {
	// identical shapes under different names are still distinct types
	old := typedef.Struct("Outer",
		typedef.NewField("inner", typedef.Struct("A",
			typedef.NewField("v", typedef.U8()),
		)),
	)
	renamed := typedef.Struct("Outer",
		typedef.NewField("inner", typedef.Struct("B",
			typedef.NewField("v", typedef.U8()),
		)),
	)

	status, err := Check(schema(old), schema(renamed))
	if status != IncompatibleSchema {
		t.Fatalf("struct rename: got %s, want incompatible_schema", status)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindIncompatibleSchema {
		t.Errorf("error kind: got %v", err)
	}

	oldEnum := typedef.Struct("Outer",
		typedef.NewField("state", typedef.Enum("State",
			typedef.NewVariant("Idle", typedef.Unit()),
		)),
	)
	renamedEnum := typedef.Struct("Outer",
		typedef.NewField("state", typedef.Enum("Mode",
			typedef.NewVariant("Idle", typedef.Unit()),
		)),
	)
	if status, _ := Check(schema(oldEnum), schema(renamedEnum)); status != IncompatibleSchema {
		t.Errorf("enum rename: got %s", status)
	}

	if status, err := Check(schema(old), schema(old)); status != Compatible {
		t.Errorf("same name: got %s (%v)", status, err)
	}
}

func TestNestedViolationPath(t *testing.T) {
	old := typedef.Struct("Outer",
		typedef.NewField("inner", typedef.Struct("Inner",
			typedef.NewField("v", typedef.U8()),
		)),
	)
	next := typedef.Struct("Outer",
		typedef.NewField("inner", typedef.Struct("Inner",
			typedef.NewField("v", typedef.U16()),
		)),
	)

	status, err := Check(schema(old), schema(next))
	if status != IncompatibleLayout {
		t.Fatalf("got %s", status)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatal("not a structured error")
	}
	if len(e.Path) != 2 || e.Path[0] != "inner" || e.Path[1] != "v" {
		t.Errorf("path: got %v, want [inner v]", e.Path)
	}
}
