package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/colsort/internal/conv"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores blocks raw.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD uses ZSTD block compression (better ratio).
	ZSTD Type = 2
)

const (
	headerSize = 8

	// DefaultBlockSize is the uncompressed size of a full block.
	DefaultBlockSize = 256 * 1024

	// maxBlockSize bounds the allocation a block header can request.
	maxBlockSize = 64 << 20
)

// ErrCorrupt is returned for truncated or undecodable blocks.
var ErrCorrupt = errors.New("compress: corrupt block")

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Valid reports whether t is a known algorithm.
func (t Type) Valid() bool { return t <= ZSTD }

// ParseType parses "none", "lz4" or "zstd".
func ParseType(s string) (Type, error) {
	switch s {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("compress: unknown algorithm %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxBlockSize))
}

// Block compresses data into one framed block.
func Block(data []byte, t Type) ([]byte, error) {
	rawSize, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, err
	}
	if rawSize > maxBlockSize {
		return nil, fmt.Errorf("compress: block of %d bytes exceeds %d", rawSize, maxBlockSize)
	}

	var packed []byte
	switch t {
	case None:
	case LZ4:
		packed, err = packLZ4(data)
	case ZSTD:
		packed, err = packZSTD(data)
	default:
		return nil, fmt.Errorf("compress: unknown algorithm %s", t)
	}
	if err != nil {
		return nil, err
	}

	// Keep the raw bytes unless compression saves at least 10%.
	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*0.9 {
		packed = nil
	}

	payload := data
	if packed != nil {
		payload = packed
	}
	out := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:], rawSize)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(packed)))
	copy(out[headerSize:], payload)
	return out, nil
}

func packLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, err
	}
	// n == 0: incompressible
	return dst[:n], nil
}

func packZSTD(data []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

// header decodes a block header.
func header(b []byte) (raw, packed uint32, err error) {
	if len(b) < headerSize {
		return 0, 0, fmt.Errorf("%w: short header", ErrCorrupt)
	}
	raw = binary.LittleEndian.Uint32(b[0:])
	packed = binary.LittleEndian.Uint32(b[4:])
	if raw > maxBlockSize || packed > maxBlockSize {
		return 0, 0, fmt.Errorf("%w: block size %d/%d out of range", ErrCorrupt, raw, packed)
	}
	return raw, packed, nil
}

// storedSize returns the number of payload bytes following the header in b.
func storedSize(b []byte) (int, error) {
	raw, packed, err := header(b)
	if err != nil {
		return 0, err
	}
	stored := raw
	if packed != 0 {
		stored = packed
	}
	n, err := conv.Uint32ToInt(stored)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return n, nil
}

// Unblock decodes the block at the start of b. It returns the uncompressed
// bytes and the number of bytes of b the block occupied.
func Unblock(b []byte, t Type) ([]byte, int, error) {
	n, err := storedSize(b)
	if err != nil {
		return nil, 0, err
	}
	end := headerSize + n
	if len(b) < end {
		return nil, 0, fmt.Errorf("%w: block extends beyond data", ErrCorrupt)
	}
	raw, packed, _ := header(b)
	out, err := unpack(b[headerSize:end], raw, packed, t)
	if err != nil {
		return nil, 0, err
	}
	return out, end, nil
}

func unpack(payload []byte, raw, packed uint32, t Type) ([]byte, error) {
	if packed == 0 {
		return payload, nil
	}

	result := make([]byte, raw)
	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != raw {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil
	case ZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(payload, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != raw {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: compressed block with algorithm %s", ErrCorrupt, t)
	}
}
