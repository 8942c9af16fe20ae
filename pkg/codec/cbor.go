package codec

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/oneconcern/dirmanifest/pkg/errors"
)

var (
	// ErrNonCanonical is returned by UnmarshalCanonical when data decodes but
	// is not the canonical encoding of the decoded value.
	ErrNonCanonical = errors.New("non-canonical encoding")

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to its canonical CBOR form.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// UnmarshalCanonical decodes data into v and checks that re-encoding v yields
// exactly data.
func UnmarshalCanonical(data []byte, v any) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return err
	}
	again, err := encMode.Marshal(v)
	if err != nil {
		return err
	}
	if !bytes.Equal(again, data) {
		return ErrNonCanonical.Wrap(fmt.Errorf("%d bytes re-encode to %d different bytes", len(data), len(again)))
	}
	return nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949, section 8) of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
