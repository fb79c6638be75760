package ordmap

// LoadOrStore returns the existing value for the key if present.
// Otherwise, it stores and returns the given value.
// The loaded result is true if the value was loaded, false if stored.
func (m *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	hash := m.hash(&key)
	if v, ok := m.load(hash, key); ok {
		return v, true
	}
	previous, loaded, grow := m.insert(hash, key, value, false)
	if grow {
		m.grow()
	}
	if loaded {
		return previous, true
	}
	return value, false
}

// Swap stores value for key and returns the previous value if any.
// The loaded result reports whether the key was present.
func (m *Map[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	hash := m.hash(&key)
	if previous, ok := m.update(hash, key, value); ok {
		return previous, true
	}
	previous, loaded, grow := m.insert(hash, key, value, true)
	if grow {
		m.grow()
	}
	return previous, loaded
}

// CompareAndDelete deletes the entry for key if its value is equal to old.
// The value type must be comparable, otherwise this method panics.
func (m *Map[K, V]) CompareAndDelete(key K, old V) (deleted bool) {
	_, deleted = m.remove(m.hash(&key), key, func(v V) bool {
		return any(v) == any(old)
	})
	return deleted
}

// LoadOrCompute returns the existing value for key, or calls valueFn and
// stores its result. valueFn runs without holding any map lock, and
// concurrent callers missing the same key share a single valueFn call.
//
// If valueFn returns an error, nothing is stored and the error is
// returned to every caller that shared the call.
func (m *Map[K, V]) LoadOrCompute(
	key K,
	valueFn func() (V, error),
) (actual V, err error) {
	hash := m.hash(&key)
	if v, ok := m.load(hash, key); ok {
		return v, nil
	}
	actual, err, _ = m.computes.do(key, func() (V, error) {
		// a previous call may have stored key while we joined the group
		if v, ok := m.load(hash, key); ok {
			return v, nil
		}
		v, err := valueFn()
		if err != nil {
			return v, err
		}
		v, _ = m.LoadOrStore(key, v)
		return v, nil
	})
	return actual, err
}
