package registry

import (
	"encoding/json"

	"github.com/golang/snappy"
	"go.uber.org/zap"

	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/introspect"
)

// DefinitionStore persists definition snapshots. Implementations keep one
// record per model name; PutDefinition overwrites.
type DefinitionStore interface {
	PutDefinition(name, version string, schema []byte) error
	GetDefinition(name string) (version string, schema []byte, err error)
	ListDefinitions() ([]string, error)
}

// Save snapshots every registered definition into the store. Schemas are
// stored as snappy-compressed JSON.
func (r *Registry) Save(store DefinitionStore) error {
	r.mu.RLock()
	defs := make([]*Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	r.mu.RUnlock()

	for _, def := range defs {
		raw, err := json.Marshal(def.Schema)
		if err != nil {
			return errors.Wrap(errors.PhaseStorage, errors.KindInvalidData, err, "marshal schema "+def.Name)
		}
		if err := store.PutDefinition(def.Name, def.Version.String(), snappy.Encode(nil, raw)); err != nil {
			return errors.Storage(errors.PhaseStorage, err, "save definition "+def.Name)
		}
	}

	Logger().Info("definitions saved", zap.Int("count", len(defs)))
	return nil
}

// Load rebuilds definitions from a snapshot and registers them. Names
// already registered are skipped, live definitions win over snapshots.
func (r *Registry) Load(store DefinitionStore) error {
	names, err := store.ListDefinitions()
	if err != nil {
		return errors.Storage(errors.PhaseStorage, err, "list definitions")
	}

	loaded := 0
	for _, name := range names {
		if _, err := r.Get(name); err == nil {
			continue
		}

		version, compressed, err := store.GetDefinition(name)
		if err != nil {
			return errors.Storage(errors.PhaseStorage, err, "load definition "+name)
		}
		raw, err := snappy.Decode(nil, compressed)
		if err != nil {
			return errors.Wrap(errors.PhaseStorage, errors.KindInvalidData, err, "decompress schema "+name)
		}

		var schema introspect.Schema
		if err := json.Unmarshal(raw, &schema); err != nil {
			return err
		}
		t, err := schema.Type()
		if err != nil {
			return err
		}
		def, err := Define(name, version, t)
		if err != nil {
			return err
		}
		if err := r.Register(def); err != nil {
			return err
		}
		loaded++
	}

	Logger().Info("definitions loaded", zap.Int("count", loaded))
	return nil
}
