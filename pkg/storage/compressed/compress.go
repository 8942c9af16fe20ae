package compressed

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"github.com/pierrec/lz4/v4"
)

// Algorithm used to compress an object at rest.
// Values are persisted in the object header.
type Algorithm uint8

// Supported algorithms
const (
	None Algorithm = iota
	LZ4
	Zstd
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm parses the name of a compression algorithm
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, ErrUnknownAlgorithm.Wrapf("%q", name)
	}
}

// MaxObjectSize is the largest uncompressed object this package decodes
const MaxObjectSize = 1 << 30

// lz4 cannot expand a block by more than this ratio
const lz4MaxRatio = 255

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compressed: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxObjectSize))
	if err != nil {
		panic("compressed: zstd decoder initialization failed: " + err.Error())
	}
}

// encode builds an object: a 1-byte algorithm tag, the uvarint size of the
// uncompressed data, then the payload. Incompressible data is stored as is.
func encode(data []byte, algo Algorithm) ([]byte, error) {
	payload, used, err := compress(data, algo)
	if err != nil {
		return nil, err
	}

	header := make([]byte, 1+binary.MaxVarintLen64)
	header[0] = byte(used)
	n := binary.PutUvarint(header[1:], uint64(len(data)))

	out := make([]byte, 0, 1+n+len(payload))
	out = append(out, header[:1+n]...)
	return append(out, payload...), nil
}

func compress(data []byte, algo Algorithm) ([]byte, Algorithm, error) {
	switch algo {
	case None:
		return data, None, nil

	case LZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(data)))
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, None, fmt.Errorf("lz4 compress: %w", err)
		}
		if written == 0 || written >= len(data) {
			return data, None, nil
		}
		return destination[:written], LZ4, nil

	case Zstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return data, None, nil
		}
		return compressed, Zstd, nil

	default:
		return nil, None, ErrUnknownAlgorithm.Wrapf("%d", uint8(algo))
	}
}

func decode(object []byte) ([]byte, error) {
	if len(object) == 0 {
		return nil, ErrCorrupted.Wrapf("empty object")
	}
	algo := Algorithm(object[0])
	size, n := binary.Uvarint(object[1:])
	if n <= 0 {
		return nil, ErrCorrupted.Wrapf("invalid size header")
	}
	payload := object[1+n:]
	if size > MaxObjectSize {
		return nil, ErrCorrupted.Wrap(status.ErrObjectTooBig.Wrapf("size %d, max is %d", size, MaxObjectSize))
	}

	switch algo {
	case None:
		if uint64(len(payload)) != size {
			return nil, ErrCorrupted.Wrapf("size %d does not match expected %d", len(payload), size)
		}
		return payload, nil

	case LZ4:
		if size > uint64(len(payload))*lz4MaxRatio {
			return nil, ErrCorrupted.Wrapf("lz4 decompress: size %d is out of reach of %d bytes", size, len(payload))
		}
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(payload, destination)
		if err != nil {
			return nil, ErrCorrupted.Wrap(fmt.Errorf("lz4 decompress: %w", err))
		}
		if uint64(read) != size {
			return nil, ErrCorrupted.Wrapf("lz4 decompress: got %d bytes, expected %d", read, size)
		}
		return destination, nil

	case Zstd:
		result, err := zstdDecoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, ErrCorrupted.Wrap(fmt.Errorf("zstd decompress: %w", err))
		}
		if uint64(len(result)) != size {
			return nil, ErrCorrupted.Wrapf("zstd decompress: got %d bytes, expected %d", len(result), size)
		}
		return result, nil

	default:
		return nil, ErrUnknownAlgorithm.Wrapf("%d", uint8(algo))
	}
}
