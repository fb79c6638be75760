package ordmap

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRWLock_Basic(t *testing.T) {
	var a int
	var rw RWLock
	rw.Lock()
	a = 1
	rw.Unlock()
	rw.RLock()
	_ = a
	rw.RUnlock()
	if !rw.TryLock() {
		t.Fatal("TryLock failed on a free lock")
	}
	if rw.TryLock() {
		t.Fatal("TryLock succeeded on a held lock")
	}
	rw.Unlock()
}

func TestRWLock_ReadersAndWriters(t *testing.T) {
	var rw RWLock
	var readers int32
	var writers int32

	const loops = 1000
	readerN := runtime.GOMAXPROCS(0)
	writerN := 2

	var wg sync.WaitGroup
	wg.Add(readerN + writerN)

	for range readerN {
		go func() {
			defer wg.Done()
			for range loops {
				rw.RLock()
				n := atomic.AddInt32(&readers, 1)
				if atomic.LoadInt32(&writers) != 0 {
					t.Errorf("reader observed active writer")
					rw.RUnlock()
					return
				}
				if n <= 0 {
					t.Errorf("invalid reader count")
					rw.RUnlock()
					return
				}
				atomic.AddInt32(&readers, -1)
				rw.RUnlock()
			}
		}()
	}

	for range writerN {
		go func() {
			defer wg.Done()
			for range loops {
				rw.Lock()
				if atomic.AddInt32(&writers, 1) != 1 {
					t.Errorf("multiple writers active")
					rw.Unlock()
					return
				}
				if atomic.LoadInt32(&readers) != 0 {
					t.Errorf("writer observed active readers")
					rw.Unlock()
					return
				}
				atomic.AddInt32(&writers, -1)
				rw.Unlock()
			}
		}()
	}

	wg.Wait()
}

func TestRWLock_WriterBlocksNewReaders(t *testing.T) {
	var rw RWLock
	rw.RLock()

	locked := make(chan struct{})
	go func() {
		rw.Lock()
		close(locked)
	}()

	// wait for the writer to announce itself
	for rw.state.Load()&rwWriteMask == 0 {
		runtime.Gosched()
	}

	readDone := make(chan struct{})
	go func() {
		rw.RLock()
		rw.RUnlock()
		close(readDone)
	}()

	select {
	case <-locked:
		t.Fatal("writer acquired the lock while a reader held it")
	case <-readDone:
		t.Fatal("new reader passed a pending writer")
	default:
	}

	rw.RUnlock()
	<-locked
	rw.Unlock()
	<-readDone
}
