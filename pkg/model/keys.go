// Copyright © 2018 One Concern

package model

import (
	"encoding/hex"

	blake2b "github.com/minio/blake2b-simd"
)

// keySep separates natural key parts before hashing
const keySep = 0x1f

// NaturalKey derives a stable primary key from the parts of a natural key.
//
// Records which are unique on a tuple (e.g. a remote artifact on
// (content artifact, remote)) get the same primary key whenever they are
// built, which lets stores enforce uniqueness on the key alone.
func NaturalKey(parts ...string) string {
	var size int
	for _, p := range parts {
		size += len(p) + 1
	}
	buf := make([]byte, 0, size)
	for _, p := range parts {
		buf = append(buf, p...)
		buf = append(buf, keySep)
	}
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
