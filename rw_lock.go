package ordmap

import (
	"sync/atomic"
)

// RWLock is a spin-based Reader-Writer lock guarding a single bucket.
//
// Properties:
//   - Writer-Preferred: a pending writer blocks new readers, so a resize
//     that write-locks every bucket cannot be starved by a hot key.
//   - Busy-wait (Spinning) with backoff; critical sections are short and
//     never block on I/O.
//   - Not reentrant. A goroutine must not re-acquire a lock it holds.
//
// The zero value is an unlocked lock. Size: 4 bytes.
type RWLock struct {
	_     noCopy
	state atomic.Uint32
}

const (
	rwWriteMask = 1
	rwReadShift = 1
	rwReadUnit  = 1 << rwReadShift
)

// Lock acquires the write lock.
// It spins until the lock is free.
func (l *RWLock) Lock() {
	var spins int
	for {
		// 1. Acquire Write Bit (Bit 0). This blocks NEW readers.
		s := l.state.Load()
		if s&rwWriteMask == 0 {
			if l.state.CompareAndSwap(s, s|rwWriteMask) {
				// 2. Wait for existing readers to drain.
				for l.state.Load()>>rwReadShift != 0 {
					delay(&spins)
				}
				return
			}
		}
		delay(&spins)
	}
}

// TryLock tries to acquire the write lock without waiting.
func (l *RWLock) TryLock() bool {
	return l.state.CompareAndSwap(0, rwWriteMask)
}

// Unlock releases the write lock.
func (l *RWLock) Unlock() {
	l.state.Store(0)
}

// RLock acquires a read lock.
func (l *RWLock) RLock() {
	var spins int
	for {
		s := l.state.Load()
		if s&rwWriteMask == 0 { // No writer
			if l.state.CompareAndSwap(s, s+rwReadUnit) {
				return
			}
		}
		delay(&spins)
	}
}

// RUnlock releases a read lock.
func (l *RWLock) RUnlock() {
	l.state.Add(^uint32(rwReadUnit - 1))
}
