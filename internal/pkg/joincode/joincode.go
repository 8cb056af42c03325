// Package joincode generates the short codes students use to enroll in a
// classroom. Codes are 8 uppercase alphanumeric characters drawn from
// crypto/rand; uniqueness is enforced by the database, callers retry on
// collision.
package joincode

import (
	"crypto/rand"
	"fmt"
)

const (
	// Length is the number of characters in a join code
	Length = 8

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxUnbiasedByte is the largest multiple of len(alphabet) that fits
	// in a byte. Bytes at or above it are discarded so no character is
	// more likely than another.
	maxUnbiasedByte = 256 - 256%len(alphabet)
)

// Generate returns a new random join code
func Generate() (string, error) {
	code := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for len(code) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == Length {
				break
			}
		}
	}
	return string(code), nil
}
