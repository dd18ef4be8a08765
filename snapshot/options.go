package snapshot

import (
	"github.com/hupe1980/colsort/codec"
	"github.com/hupe1980/colsort/internal/compress"
	"github.com/hupe1980/colsort/resource"
)

// Compression selects the block compression of a snapshot body.
type Compression = compress.Type

const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	return compress.ParseType(s)
}

type options struct {
	codec       codec.Codec
	compression Compression
	blockSize   int
	controller  *resource.Controller
}

// Option configures snapshot encoding and IO.
type Option func(*options)

// WithCodec sets the body codec used by writes. Reads pick the codec named in
// the header and only fall back to this one when the name matches.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the block compression used by writes.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed block size. Values <= 0 keep the default.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithController rate-limits snapshot IO and accounts decode buffers
// against the controller's memory budget.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:       codec.Default,
		compression: CompressionZSTD,
		blockSize:   compress.DefaultBlockSize,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
