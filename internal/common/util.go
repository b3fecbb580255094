package common

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"time"
)

// GenerateRandByteArray returns n bytes from crypto/rand.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

// NewID returns an identifier made of the current Unix time in milliseconds
// and a random suffix, both rendered in base36 and joined by a dot.
//
// Identifiers sort roughly by creation time and are never reused.
func NewID(now time.Time) string {
	suffix := binary.BigEndian.Uint64(GenerateRandByteArray(8))
	return strconv.FormatInt(now.UnixMilli(), 36) + "." + strconv.FormatUint(suffix, 36)
}

// WipeByteArray overwrites b with zeros. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
