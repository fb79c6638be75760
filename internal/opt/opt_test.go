package opt

import (
	"testing"
)

func TestCacheLineSize(t *testing.T) {
	if CacheLineSize_ < 32 {
		t.Fatalf("CacheLineSize_=%d, want >= 32", CacheLineSize_)
	}
	if CacheLineSize_&(CacheLineSize_-1) != 0 {
		t.Fatalf("CacheLineSize_=%d is not a power of 2", CacheLineSize_)
	}
}

func TestPaddingMult(t *testing.T) {
	if PaddingMult_ != 0 && PaddingMult_ != 1 {
		t.Fatalf("PaddingMult_=%d, want 0 or 1", PaddingMult_)
	}
}
