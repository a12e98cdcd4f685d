// Package modelabi is a layout and serialization engine for felt-slot
// storage of typed game models.
//
// The engine takes a typed struct/enum declaration and deterministically
// derives the storage layout, an introspection schema, and the
// serialization routines between in-memory values and flat runs of field
// elements.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	modelabi/            Root package with the SlotReader/SlotWriter interfaces
//	├── felt/            Fixed-width field element value type
//	├── typedef/         Type descriptors (struct, enum, tuple, array, ...)
//	├── layout/          Layout derivation and static size calculation
//	├── introspect/      Named schema trees and the JSON introspection surface
//	├── codec/           Slot serialization, deserialization, deletion, packing
//	├── upgrade/         Backward-compatibility checks between definitions
//	├── registry/        Versioned model definition registry with persistence
//	├── storage/         In-memory and SQLite slot store implementations
//	└── errors/          Structured error types for debugging
//
// # Pipeline
//
// One pipeline runs through the packages, leaves first:
//
//	typedef.Type ──► layout.Derive ──► codec.Write / Read / Delete
//	     │
//	     └────────► introspect.Derive ──► upgrade.Check
//
// # Quick Start
//
// Declare a model, derive its layout, and round-trip a value:
//
//	position := typedef.Struct("Position",
//	    typedef.KeyField("player", typedef.Felt252()),
//	    typedef.NewField("x", typedef.U32()),
//	    typedef.NewField("y", typedef.U32()),
//	)
//
//	lay := layout.Derive(position)
//	store := storage.Bind(storage.NewMemory(), entityBase)
//
//	c := codec.New(codec.DefaultLimits())
//	cursor := uint64(0)
//	err := c.Write(lay, values, &cursor, store)
//
// # Determinism
//
// Every operation is a pure function of its explicit inputs. Two
// independently derived layouts for structurally identical descriptors are
// deep-equal, and serializing two values of the same static shape always
// advances the cursor by the same amount.
//
// # Thread Safety
//
// Descriptors, layouts, and schemas are immutable after construction and
// safe for concurrent use. Codec calls against different slot keys may run
// concurrently; access to the same key must be serialized by the caller.
package modelabi
