package registry

import (
	"github.com/spaolacci/murmur3"
	"go.uber.org/zap"

	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/felt"
	"github.com/feltforge/modelabi/storage"
)

// EntityID derives a stable base offset for an entity from its model name
// and serialized key words. The id depends only on its inputs, so every
// process addressing the same store agrees on where an entity lives.
//
// The full 64-bit hash is kept: distinct entities get distinct bases up
// to the 64-bit birthday bound, and the expected gap between neighboring
// bases dwarfs any admissible value footprint.
func EntityID(model string, keys []felt.Felt) uint64 {
	h := murmur3.New64()
	h.Write([]byte(model))
	for _, k := range keys {
		b := k.Bytes()
		h.Write(b[:])
	}
	return h.Sum64()
}

// checkKeys validates the key buffer against the model's key layout.
func (r *Registry) checkKeys(def *Definition, keys []felt.Felt) error {
	if n, ok := def.KeyLayout.SizeHint(); ok && len(keys) != n {
		return errors.InvalidValuesLength(errors.PhaseSerialize, []string{def.Name, "keys"}, n, len(keys))
	}
	return nil
}

// SetEntity serializes an entity's value words under the model definition.
// Keys identify the entity and are not stored; the value layout alone
// decides which slots are written.
func (r *Registry) SetEntity(model string, keys, values []felt.Felt) error {
	def, err := r.Get(model)
	if err != nil {
		return err
	}
	if err := r.checkKeys(def, keys); err != nil {
		return err
	}

	base := EntityID(model, keys)
	written, err := r.codec.WriteValue(def.ValueLayout, values, 0, storage.Bind(r.store, base))
	if err != nil {
		return err
	}

	Logger().Debug("entity written",
		zap.String("model", model),
		zap.Uint64("base", base),
		zap.Uint64("slots", written))
	return nil
}

// GetEntity reads an entity's value words. An entity that was never
// written deserializes to its zero form.
func (r *Registry) GetEntity(model string, keys []felt.Felt) ([]felt.Felt, error) {
	def, err := r.Get(model)
	if err != nil {
		return nil, err
	}
	if err := r.checkKeys(def, keys); err != nil {
		return nil, err
	}
	return r.codec.ReadValue(def.ValueLayout, 0, storage.Bind(r.store, EntityID(model, keys)))
}

// DeleteEntity clears an entity's slots. Deleting an absent entity is a
// no-op.
func (r *Registry) DeleteEntity(model string, keys []felt.Felt) error {
	def, err := r.Get(model)
	if err != nil {
		return err
	}
	if err := r.checkKeys(def, keys); err != nil {
		return err
	}

	base := EntityID(model, keys)
	cleared, err := r.codec.DeleteValue(def.ValueLayout, 0, storage.Bind(r.store, base))
	if err != nil {
		return err
	}

	Logger().Debug("entity deleted",
		zap.String("model", model),
		zap.Uint64("base", base),
		zap.Uint64("slots", cleared))
	return nil
}
