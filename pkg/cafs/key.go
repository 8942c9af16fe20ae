package cafs

import (
	"encoding/hex"
	"fmt"
)

const (
	// KeySize for blake2b-256 identifiers
	KeySize = 32

	// KeySizeHex for hex representation of a key
	KeySizeHex = 2 * KeySize
)

// NewKey creates a new key from data
func NewKey(data []byte) (Key, error) {
	var k Key
	if len(data) != KeySize {
		return Key{}, &BadKeySize{Key: data}
	}
	copy(k[:], data)
	return k, nil
}

// MustNewKey creates a new key from data but panics if there is an error
func MustNewKey(data []byte) Key {
	k, e := NewKey(data)
	if e != nil {
		panic(e.Error())
	}
	return k
}

// KeyFromString parses the hex representation of a key
func KeyFromString(str string) (Key, error) {
	if len(str) != KeySizeHex {
		return Key{}, &BadKeySize{Key: []byte(str)}
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return Key{}, fmt.Errorf("invalid key %q: %w", str, err)
	}
	return NewKey(b)
}

// Key type for content identifiers.
//
// The zero Key is never produced by a Hasher and stands for "no key".
type Key [KeySize]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Short renders the first 12 hex characters of the key, for display purposes
func (k Key) Short() string {
	return hex.EncodeToString(k[:6])
}

// StringWithPrefix renders the key as a storage path under some prefix
func (k Key) StringWithPrefix(prefix string) string {
	return prefix + k.String()
}

// IsZero tells if this key is the zero value
func (k Key) IsZero() bool {
	return k == Key{}
}

// MarshalBinary encodes the key as raw bytes. The canonical codec
// serializes keys as fixed-length byte strings through this method.
func (k Key) MarshalBinary() ([]byte, error) {
	return k[:], nil
}

// UnmarshalBinary decodes a key from raw bytes, rejecting any other length
func (k *Key) UnmarshalBinary(data []byte) error {
	key, err := NewKey(data)
	if err != nil {
		return err
	}
	*k = key
	return nil
}

// MarshalText renders the key in hex, e.g. for JSON or YAML output
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a hex key
func (k *Key) UnmarshalText(data []byte) error {
	key, err := KeyFromString(string(data))
	if err != nil {
		return err
	}
	*k = key
	return nil
}

// BadKeySize is an error that's returned when the key to create has an invalid size.
type BadKeySize struct {
	Key []byte
}

func (b *BadKeySize) Error() string {
	return fmt.Sprintf("%x has invalid size of %d, expected %d", b.Key, len(b.Key), KeySize)
}
