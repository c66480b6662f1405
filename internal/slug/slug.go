// Package slug generates short, collision-resistant identifiers suitable as
// URL path segments. Identifiers are 24 lowercase base-36 characters with an
// alphabetic first character, drawn from crypto/rand. No uniqueness check is
// performed here; the store's unique constraint is the final arbiter.
package slug

import (
	"crypto/rand"
)

const (
	// Length is the number of characters in a generated slug.
	Length = 24

	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	letters  = "abcdefghijklmnopqrstuvwxyz"
)

// New returns a fresh 24-character identifier. It panics only if the
// system's secure random source is unavailable.
func New() string {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		panic("slug: crypto/rand unavailable: " + err.Error())
	}

	out := make([]byte, Length)
	// First character alphabetic so slugs never collide with numeric IDs.
	out[0] = letters[int(buf[0])%len(letters)]
	for i := 1; i < Length; i++ {
		out[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(out)
}
