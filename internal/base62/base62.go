// Package base62 maps non-negative 64-bit integers to compact strings over
// the alphabet 0-9, A-Z, a-z. The alphabet order is fixed: short codes in
// storage depend on it staying bit-exact.
package base62

import (
	"errors"
	"math"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = 62

var (
	// ErrInvalidCharacter is returned when a string contains a character
	// outside the base62 alphabet.
	ErrInvalidCharacter = errors.New("base62: invalid character")

	// ErrOverflow is returned when a decoded value would exceed int64 range.
	ErrOverflow = errors.New("base62: decoded value overflows int64")

	// ErrNegative is returned when asked to encode a negative number.
	ErrNegative = errors.New("base62: cannot encode negative number")
)

var charIndex [256]int8

func init() {
	for i := range charIndex {
		charIndex[i] = -1
	}

	for i := 0; i < len(alphabet); i++ {
		charIndex[alphabet[i]] = int8(i)
	}
}

// Encode converts a non-negative integer to its base62 representation.
// Encode(0) is "0".
func Encode(n int64) (string, error) {
	if n < 0 {
		return "", ErrNegative
	}

	if n == 0 {
		return string(alphabet[0]), nil
	}

	// int64 never needs more than 11 base62 digits
	buf := make([]byte, 0, 11)

	for n > 0 {
		buf = append(buf, alphabet[n%base])
		n /= base
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}

// Decode converts a base62 string back to the integer it encodes.
// The empty string decodes to 0.
func Decode(s string) (int64, error) {
	var result int64

	for i := 0; i < len(s); i++ {
		idx := charIndex[s[i]]
		if idx < 0 {
			return 0, ErrInvalidCharacter
		}

		if result > (math.MaxInt64-int64(idx))/base {
			return 0, ErrOverflow
		}

		result = result*base + int64(idx)
	}

	return result, nil
}

// Valid reports whether s contains only base62 alphabet characters.
func Valid(s string) bool {
	for i := 0; i < len(s); i++ {
		if charIndex[s[i]] < 0 {
			return false
		}
	}

	return true
}
