package ordmap

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// ============================================================================
// Configuration
// ============================================================================

// MapConfig defines configurable options for Map initialization.
// The zero value is replaced field by field with the defaults: 8 buckets,
// load factor 0.75, the built-in hasher and a no-op logger.
type MapConfig struct {
	// capacity is the number of buckets of the first table.
	// It must be positive; any value is accepted, not only powers of 2.
	capacity int

	// loadFactor is the growth threshold: the table doubles when
	// entries/capacity exceeds it after an insert. Valid range is (0, 1].
	loadFactor float64

	// keyHash specifies a custom hash function for keys.
	// If nil, the built-in hash function will be used.
	keyHash HashFunc

	logger *zap.Logger

	// set records which fields were supplied explicitly, so that
	// WithCapacity(0) is rejected instead of silently defaulted.
	capacitySet   bool
	loadFactorSet bool
}

// WithCapacity configures the initial number of buckets.
// It must be positive; New fails with ErrInvalidConfiguration otherwise.
func WithCapacity(capacity int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.capacity = capacity
		c.capacitySet = true
	}
}

// WithLoadFactor configures the growth threshold.
// It must lie in (0, 1]; New fails with ErrInvalidConfiguration otherwise.
func WithLoadFactor(loadFactor float64) func(*MapConfig) {
	return func(c *MapConfig) {
		c.loadFactor = loadFactor
		c.loadFactorSet = true
	}
}

// WithKeyHasher sets a custom key hashing function for the map.
// This allows you to optimize hash distribution for specific key types
// or implement custom hashing strategies. Pass nil to use the default
// built-in hasher.
//
// Usage:
//
//	m, err := New[string, int](WithKeyHasher(func(key string, seed uintptr) uintptr {
//		return uintptr(len(key)) ^ seed
//	}))
func WithKeyHasher[K comparable](
	keyHash func(key K, seed uintptr) uintptr,
) func(*MapConfig) {
	return func(c *MapConfig) {
		if keyHash != nil {
			c.keyHash = func(ptr unsafe.Pointer, seed uintptr) uintptr {
				return keyHash(*(*K)(ptr), seed)
			}
		}
	}
}

// WithKeyHasherUnsafe sets a low-level unsafe key hashing function that
// operates directly on a pointer to the key.
//
// Notes:
//   - You must correctly cast unsafe.Pointer to the actual key type
//   - Incorrect pointer operations will cause crashes or memory corruption
func WithKeyHasherUnsafe(hs HashFunc) func(*MapConfig) {
	return func(c *MapConfig) {
		c.keyHash = hs
	}
}

// WithLogger sets the logger used for table growth and clear events.
// Nothing is logged on the per-key path.
func WithLogger(logger *zap.Logger) func(*MapConfig) {
	return func(c *MapConfig) {
		c.logger = logger
	}
}

// validate checks explicit options and fills in defaults.
func (c *MapConfig) validate() error {
	if c.capacitySet && c.capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d",
			ErrInvalidConfiguration, c.capacity)
	}
	// NaN fails this check as well
	if c.loadFactorSet && !(c.loadFactor > 0 && c.loadFactor <= 1) {
		return fmt.Errorf("%w: load factor must be in (0, 1], got %v",
			ErrInvalidConfiguration, c.loadFactor)
	}
	if !c.capacitySet {
		c.capacity = defaultCapacity
	}
	if !c.loadFactorSet {
		c.loadFactor = defaultLoadFactor
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return nil
}
