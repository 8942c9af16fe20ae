package cafs

import (
	"fmt"
	"hash"

	blake2b "github.com/minio/blake2b-simd"
)

// MaxPersonSize is the maximum length of a blake2b personalization string
const MaxPersonSize = 16

// Hasher derives content identifiers for one kind of object.
//
// Each kind of object (file content, directory manifest, shard node) hashes
// with its own blake2b personalization, so identical bytes produce different
// keys in different contexts.
type Hasher struct {
	person string
}

// NewHasher builds a hasher for some personalization string. It panics if the
// string exceeds MaxPersonSize bytes.
func NewHasher(person string) Hasher {
	if len(person) > MaxPersonSize {
		panic(fmt.Sprintf("cafs: personalization %q exceeds %d bytes", person, MaxPersonSize))
	}
	return Hasher{person: person}
}

// Person yields the personalization string of this hasher
func (h Hasher) Person() string {
	return h.person
}

// New returns a streaming blake2b-256 hash for this context
func (h Hasher) New() hash.Hash {
	hasher, err := blake2b.New(&blake2b.Config{
		Size:   KeySize,
		Person: []byte(h.person),
	})
	if err != nil {
		// New only fails when configuration is wrong
		panic(err)
	}
	return hasher
}

// Sum computes the key of some data buffer
func (h Hasher) Sum(data []byte) Key {
	hasher := h.New()
	_, _ = hasher.Write(data)
	return SumKey(hasher)
}

// SumKey extracts the key from a hash obtained with Hasher.New
func SumKey(hasher hash.Hash) Key {
	return MustNewKey(hasher.Sum(nil))
}
