package ordmap

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by Get and Delete when the key is absent.
	ErrKeyNotFound = errors.New("ordmap: key not found")
	// ErrInvalidConfiguration is returned by New for out-of-range options.
	ErrInvalidConfiguration = errors.New("ordmap: invalid configuration")
)

func keyNotFound[K comparable](key K) error {
	return fmt.Errorf("%w: %v", ErrKeyNotFound, key)
}
