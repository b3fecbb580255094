package common

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- GenerateRandByteArray ----------

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const n = 24
	buf := GenerateRandByteArray(n)
	if len(buf) != n {
		t.Fatalf("expected length %d, got %d", n, len(buf))
	}
}

// ---------- NewID ----------

func TestNewID_TimestampPrefix(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	id := NewID(now)

	prefix, suffix, ok := strings.Cut(id, ".")
	if !ok {
		t.Fatalf("expected a dot separator in %q", id)
	}
	ms, err := strconv.ParseInt(prefix, 36, 64)
	if err != nil {
		t.Fatalf("prefix is not base36: %v", err)
	}
	if ms != now.UnixMilli() {
		t.Fatalf("prefix decodes to %d, want %d", ms, now.UnixMilli())
	}
	if _, err := strconv.ParseUint(suffix, 36, 64); err != nil {
		t.Fatalf("suffix is not base36: %v", err)
	}
}

func TestNewID_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID(now)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d iterations", id, i)
		}
		seen[id] = struct{}{}
	}
}
