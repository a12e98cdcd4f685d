// Package registry holds model definitions and serves entity reads and
// writes against a slot store. A definition bundles everything derived
// from a model's type descriptor: its schema, its full and value-only
// layouts, and the packed footprint when the value layout is packable.
//
// Definitions are replaced only through Upgrade, which gates the swap on
// the append-only compatibility rules, so data written under an old
// definition stays readable under every accepted successor.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/feltforge/modelabi"
	"github.com/feltforge/modelabi/codec"
	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/introspect"
	"github.com/feltforge/modelabi/layout"
	"github.com/feltforge/modelabi/typedef"
	"github.com/feltforge/modelabi/upgrade"
)

// Definition is an immutable, fully derived model definition.
type Definition struct {
	Name        string
	Version     semver.Version
	Type        *typedef.Type
	Schema      *introspect.Schema
	Layout      *layout.Layout
	KeyLayout   *layout.Layout
	ValueLayout *layout.Layout
	PackedSize  int // packed word count, 0 when the value layout is dynamic
}

// Define derives a definition from a model's type descriptor. The
// descriptor must be a struct with at least one key field; key fields
// identify entities and are never serialized with the value.
func Define(name, version string, t *typedef.Type) (*Definition, error) {
	if t.Kind != typedef.KindStruct {
		return nil, errors.TypeMismatch(errors.PhaseDerive, []string{name}, t.Kind.String(), "struct")
	}
	if len(t.Keys()) == 0 {
		return nil, errors.InvalidData(errors.PhaseDerive, []string{name}, "model has no key fields")
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, fmt.Sprintf("version %q", version))
	}

	keyType := typedef.Struct(t.Name, t.Keys()...)
	valueType := typedef.Struct(t.Name, t.Values()...)
	valueLayout := layout.Derive(valueType)

	def := &Definition{
		Name:        name,
		Version:     *v,
		Type:        t,
		Schema:      introspect.Derive(t),
		Layout:      layout.Derive(t),
		KeyLayout:   layout.Derive(keyType),
		ValueLayout: valueLayout,
	}
	if widths, ok := valueLayout.PackedWidths(); ok {
		def.PackedSize = codec.PackedSize(widths)
	}
	return def, nil
}

// Registry is a thread-safe definition table bound to a slot store.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	codec *codec.Codec
	store modelabi.SlotStore
}

// Option configures a Registry.
type Option func(*Registry)

// WithCodec overrides the default codec, typically to change limits.
func WithCodec(c *codec.Codec) Option {
	return func(r *Registry) { r.codec = c }
}

// New creates a registry serving entities from the given store.
func New(store modelabi.SlotStore, opts ...Option) *Registry {
	r := &Registry{
		defs:  make(map[string]*Definition),
		codec: codec.New(codec.DefaultLimits()),
		store: store,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a new definition. Registering a name twice is an error;
// use Upgrade to replace an existing definition.
func (r *Registry) Register(def *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return errors.InvalidData(errors.PhaseDerive, []string{def.Name}, "model already registered")
	}
	r.defs[def.Name] = def

	Logger().Info("model registered",
		zap.String("model", def.Name),
		zap.String("version", def.Version.String()),
		zap.Int("packed_size", def.PackedSize))
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseDerive, "model", name)
	}
	return def, nil
}

// List returns the registered model names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Upgrade atomically replaces a registered definition. The replacement
// must advance the version and pass the compatibility check against the
// current definition; on any failure the current definition stays.
func (r *Registry) Upgrade(def *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.defs[def.Name]
	if !ok {
		return errors.NotFound(errors.PhaseUpgrade, "model", def.Name)
	}
	if !old.Version.LessThan(def.Version) {
		return errors.InvalidData(errors.PhaseUpgrade, []string{def.Name},
			fmt.Sprintf("version %s does not advance %s", def.Version, old.Version))
	}

	status, err := upgrade.Check(old.Schema, def.Schema)
	if err != nil {
		Logger().Warn("model upgrade rejected",
			zap.String("model", def.Name),
			zap.String("status", status.String()),
			zap.Error(err))
		return err
	}

	r.defs[def.Name] = def
	Logger().Info("model upgraded",
		zap.String("model", def.Name),
		zap.String("from", old.Version.String()),
		zap.String("to", def.Version.String()))
	return nil
}
