// Package id generates URL-safe identifiers for sessions and requests.
//
// Identifiers are UUIDv4 bytes encoded as lowercase base32 (RFC 4648) with no
// padding, 26 characters long.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator func() (string, error)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a fresh random identifier.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(value[:])), nil
}

// Sequence returns a deterministic Generator yielding prefix-1, prefix-2, ...
// It is safe for concurrent use.
func Sequence(prefix string) Generator {
	var n atomic.Int64
	return func() (string, error) {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1)), nil
	}
}

// OrDefault returns gen, or NewID when gen is nil.
func OrDefault(gen Generator) Generator {
	if gen == nil {
		return NewID
	}
	return gen
}
