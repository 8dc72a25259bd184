// Package slug generates the short public identifiers used for board
// URLs and card slugs. Slugs are random lowercase base36, unique in
// practice by entropy and backed by a unique index on the collection;
// callers retry on the (vanishingly rare) duplicate-key error.
package slug

import (
	"crypto/rand"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength matches the short public slugs boards and cards use.
const DefaultLength = 8

// New returns a random slug of n characters. n <= 0 uses DefaultLength.
func New(n int) string {
	if n <= 0 {
		n = DefaultLength
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
