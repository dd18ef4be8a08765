package snapshot

import (
	"bytes"
	"cmp"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/colsort/codec"
	"github.com/hupe1980/colsort/column"
	"github.com/hupe1980/colsort/internal/compress"
	"github.com/hupe1980/colsort/internal/conv"
	"github.com/hupe1980/colsort/internal/hash"
	"github.com/hupe1980/colsort/resource"
)

const (
	magic         = 0x504E5343 // "CSNP"
	formatVersion = 1
	headerSize    = 32

	// maxBodySize bounds allocations driven by header fields.
	maxBodySize = 1 << 40
)

// header is the fixed little-endian prefix of every snapshot:
//
//	Magic        (4 bytes)
//	Version      (2 bytes)
//	Compression  (1 byte)
//	CodecNameLen (1 byte)
//	BodyLen      (8 bytes) - framed, compressed body
//	PayloadLen   (8 bytes) - codec output before compression
//	Checksum     (4 bytes) - CRC32C of the framed body
//	Reserved     (4 bytes)
//
// The codec name and the body follow.
type header struct {
	version     uint16
	compression Compression
	codecName   string
	bodyLen     uint64
	payloadLen  uint64
	checksum    uint32
}

func (h *header) marshal() ([]byte, error) {
	if len(h.codecName) == 0 || len(h.codecName) > 255 {
		return nil, fmt.Errorf("%w: codec name %q", ErrUnknownCodec, h.codecName)
	}
	buf := make([]byte, headerSize, headerSize+len(h.codecName))
	binary.LittleEndian.PutUint32(buf[0:4], magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.version)
	buf[6] = byte(h.compression)
	buf[7] = byte(len(h.codecName))
	binary.LittleEndian.PutUint64(buf[8:16], h.bodyLen)
	binary.LittleEndian.PutUint64(buf[16:24], h.payloadLen)
	binary.LittleEndian.PutUint32(buf[24:28], h.checksum)
	return append(buf, h.codecName...), nil
}

func readHeader(r io.Reader) (*header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
		}
		return nil, err
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != magic {
		return nil, ErrBadMagic
	}

	h := &header{
		version:     binary.LittleEndian.Uint16(buf[4:6]),
		compression: Compression(buf[6]),
		bodyLen:     binary.LittleEndian.Uint64(buf[8:16]),
		payloadLen:  binary.LittleEndian.Uint64(buf[16:24]),
		checksum:    binary.LittleEndian.Uint32(buf[24:28]),
	}
	if h.version == 0 || h.version > formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.version)
	}
	if !h.compression.Valid() {
		return nil, fmt.Errorf("%w: compression %d", ErrCorrupt, buf[6])
	}
	if h.bodyLen > maxBodySize || h.payloadLen > maxBodySize {
		return nil, fmt.Errorf("%w: body too large", ErrCorrupt)
	}

	name := make([]byte, buf[7])
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("%w: truncated codec name", ErrCorrupt)
	}
	h.codecName = string(name)
	return h, nil
}

// tableDoc is the codec-level shape of a table.
type tableDoc[V, I cmp.Ordered] struct {
	Names   []string `json:"names"`
	Index   []I      `json:"index"`
	Columns [][]V    `json:"columns"`
}

func docOf[V, I cmp.Ordered](t *column.Table[V, I]) (*tableDoc[V, I], error) {
	doc := &tableDoc[V, I]{
		Names: t.Names(),
		Index: t.Index(),
	}
	doc.Columns = make([][]V, len(doc.Names))
	for i, name := range doc.Names {
		values, err := t.Values(name)
		if err != nil {
			return nil, err
		}
		doc.Columns[i] = values
	}
	return doc, nil
}

func (d *tableDoc[V, I]) table() (*column.Table[V, I], error) {
	if len(d.Names) != len(d.Columns) {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrCorrupt, len(d.Names), len(d.Columns))
	}
	t := column.NewTable[V](d.Index)
	for i, name := range d.Names {
		values := d.Columns[i]
		// Empty slices may decode as nil.
		if values == nil {
			values = []V{}
		}
		if err := t.AddColumn(name, values); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	return t, nil
}

// Write encodes t to w.
func Write[V, I cmp.Ordered](ctx context.Context, w io.Writer, t *column.Table[V, I], optFns ...Option) error {
	o := applyOptions(optFns)
	if !o.compression.Valid() {
		return fmt.Errorf("snapshot: invalid compression %d", o.compression)
	}

	doc, err := docOf(t)
	if err != nil {
		return err
	}
	payload, err := o.codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("snapshot: encode with %s: %w", o.codec.Name(), err)
	}

	var body bytes.Buffer
	cw := compress.NewWriter(&body, o.compression, o.blockSize)
	if _, err := cw.Write(payload); err != nil {
		return fmt.Errorf("snapshot: compress: %w", err)
	}
	if err := cw.Flush(); err != nil {
		return fmt.Errorf("snapshot: compress: %w", err)
	}

	bodyLen, err := conv.IntToUint64(body.Len())
	if err != nil {
		return err
	}
	payloadLen, err := conv.IntToUint64(len(payload))
	if err != nil {
		return err
	}

	h := header{
		version:     formatVersion,
		compression: o.compression,
		codecName:   o.codec.Name(),
		bodyLen:     bodyLen,
		payloadLen:  payloadLen,
		checksum:    hash.CRC32C(body.Bytes()),
	}
	hdr, err := h.marshal()
	if err != nil {
		return err
	}

	rw := resource.NewRateLimitedWriter(ctx, w, o.controller)
	if _, err := rw.Write(hdr); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if _, err := rw.Write(body.Bytes()); err != nil {
		return fmt.Errorf("snapshot: write body: %w", err)
	}
	return nil
}

// Marshal encodes t into a byte slice.
func Marshal[V, I cmp.Ordered](ctx context.Context, t *column.Table[V, I], optFns ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(ctx, &buf, t, optFns...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read decodes a table written by Write. Trailing data after the body is not consumed.
func Read[V, I cmp.Ordered](ctx context.Context, r io.Reader, optFns ...Option) (*column.Table[V, I], error) {
	o := applyOptions(optFns)
	rr := resource.NewRateLimitedReader(ctx, r, o.controller)

	h, err := readHeader(rr)
	if err != nil {
		return nil, err
	}
	c, err := resolveCodec(h.codecName, o.codec)
	if err != nil {
		return nil, err
	}

	bodyLen, err := conv.Uint64ToInt(h.bodyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	payloadLen, err := conv.Uint64ToInt(h.payloadLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	reserved := int64(bodyLen) + int64(payloadLen)
	if err := o.controller.AcquireMemory(ctx, reserved); err != nil {
		return nil, err
	}
	defer o.controller.ReleaseMemory(reserved)

	// Sizes come from the header; allocate only what the stream delivers.
	body, err := io.ReadAll(io.LimitReader(rr, int64(bodyLen)))
	if err != nil {
		return nil, err
	}
	if len(body) != bodyLen {
		return nil, fmt.Errorf("%w: truncated body (%d of %d bytes)", ErrCorrupt, len(body), bodyLen)
	}
	if sum := hash.CRC32C(body); sum != h.checksum {
		return nil, fmt.Errorf("%w: checksum mismatch (got %08x, want %08x)", ErrCorrupt, sum, h.checksum)
	}

	zr := compress.NewReader(bytes.NewReader(body), h.compression)
	payload, err := io.ReadAll(io.LimitReader(zr, int64(payloadLen)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(payload) != payloadLen {
		return nil, fmt.Errorf("%w: payload length mismatch, header says %d", ErrCorrupt, payloadLen)
	}

	var doc tableDoc[V, I]
	if err := c.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode with %s: %w", ErrCorrupt, c.Name(), err)
	}
	return doc.table()
}

// Unmarshal decodes a table from a byte slice.
func Unmarshal[V, I cmp.Ordered](ctx context.Context, data []byte, optFns ...Option) (*column.Table[V, I], error) {
	return Read[V, I](ctx, bytes.NewReader(data), optFns...)
}

func resolveCodec(name string, configured codec.Codec) (codec.Codec, error) {
	if c, ok := codec.ByName(name); ok {
		return c, nil
	}
	if configured != nil && configured.Name() == name {
		return configured, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
