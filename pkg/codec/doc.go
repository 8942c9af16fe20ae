// Package codec is the canonical binary encoding of every persisted structure.
//
// Encoding uses CBOR with Core Deterministic Encoding (RFC 8949, section 4.2):
// map keys are sorted, integers use their smallest form and indefinite-length
// items are never produced. Logically equal values therefore always encode to
// identical bytes, which is what content identifiers are computed from.
//
// Decoding is strict. Unknown struct fields, duplicate map keys and
// indefinite-length items are rejected, so that a schema mismatch surfaces as
// an error instead of a partially decoded value.
//
// Persisted types declare their wire layout with integer keys:
//
//	type childWire struct {
//		_      struct{} `cbor:",toarray"`
//		Byte   uint8
//		ID     cafs.Key
//	}
//
// Content keys (cafs.Key) are encoded as fixed-length byte strings through
// their encoding.BinaryMarshaler implementation.
package codec
