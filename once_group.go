package ordmap

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// call represents an in-flight or completed onceGroup.do call
type call[V any] struct {
	wg   sync.WaitGroup
	val  V
	err  error
	dups int32
}

// onceGroup suppresses duplicate work per key: while a call for a key is
// in flight, later callers for the same key wait for it and share its
// result. In-flight calls are kept in a callTable, so joining a call never
// touches the locks of the Map the work is done for.
type onceGroup[K comparable, V any] struct {
	calls callTable[K, V]
}

// do executes and returns the results of fn, making sure that only one
// execution is in-flight for a given key at a time. The return value
// shared indicates whether v was given to multiple callers.
func (g *onceGroup[K, V]) do(
	key K,
	fn func() (V, error),
) (v V, err error, shared bool) {
	c, loaded := g.calls.join(key)
	if loaded {
		c.wg.Wait()
		var e *panicError
		if errors.As(c.err, &e) {
			panic(e)
		} else if errors.Is(c.err, errGoexit) {
			runtime.Goexit()
		}
		return c.val, c.err, true
	}

	g.doCall(c, key, fn)
	return c.val, c.err, atomic.LoadInt32(&c.dups) > 0
}

// doCall runs fn with panic/Goexit semantics compatible with
// x/sync/singleflight, then drops the key.
func (g *onceGroup[K, V]) doCall(
	c *call[V],
	key K,
	fn func() (V, error),
) {
	normalReturn := false
	recovered := false

	defer func() {
		// the goroutine terminated without normal return
		// and without a recovered panic.
		if !normalReturn && !recovered {
			c.err = errGoexit
		}

		g.calls.leave(key, c)
		c.wg.Done()

		var e *panicError
		if errors.As(c.err, &e) {
			panic(e)
		}
	}()

	func() {
		defer func() {
			if !normalReturn {
				if r := recover(); r != nil {
					c.err = newPanicError(r)
				}
			}
		}()

		c.val, c.err = fn()
		normalReturn = true
	}()

	if !normalReturn {
		recovered = true
	}
}

// panicError is an arbitrary value recovered from a panic
// with the stack trace during the execution of given function.
type panicError struct {
	value any
	stack []byte
}

// Error implements error interface.
func (p *panicError) Error() string {
	return fmt.Sprintf("%v\n\n%s", p.value, p.stack)
}

// Unwrap returns the underlying error value, if any.
func (p *panicError) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) error {
	stack := debug.Stack()
	// Trim first line "goroutine N [status]:" which can be misleading.
	if line := bytes.IndexByte(stack, '\n'); line >= 0 {
		stack = stack[line+1:]
	}
	return &panicError{value: v, stack: stack}
}

var errGoexit = errors.New("runtime.Goexit was called")
