package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Writer buffers writes and emits one framed block per blockSize bytes.
// Flush must be called to emit the final partial block.
type Writer struct {
	w         io.Writer
	typ       Type
	blockSize int
	buffer    *bytes.Buffer
	written   int64
}

// NewWriter creates a block writer. blockSize <= 0 selects DefaultBlockSize.
func NewWriter(w io.Writer, t Type, blockSize int) *Writer {
	if blockSize <= 0 || blockSize > maxBlockSize {
		blockSize = DefaultBlockSize
	}
	return &Writer{
		w:         w,
		typ:       t,
		blockSize: blockSize,
		buffer:    bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

// Write buffers p, flushing full blocks as needed.
func (c *Writer) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := c.blockSize - c.buffer.Len()
		if space <= 0 {
			if err := c.flushBlock(); err != nil {
				return total, err
			}
			space = c.blockSize
		}

		n, _ := c.buffer.Write(p[:min(len(p), space)])
		total += n
		p = p[n:]
	}
	return total, nil
}

func (c *Writer) flushBlock() error {
	if c.buffer.Len() == 0 {
		return nil
	}

	block, err := Block(c.buffer.Bytes(), c.typ)
	if err != nil {
		return err
	}

	n, err := c.w.Write(block)
	c.written += int64(n)
	if err != nil {
		return err
	}
	c.buffer.Reset()
	return nil
}

// Flush writes any remaining buffered data as a final block.
func (c *Writer) Flush() error {
	return c.flushBlock()
}

// BytesWritten returns the total framed bytes written to the underlying writer.
func (c *Writer) BytesWritten() int64 {
	return c.written
}

// Reader decodes a sequence of framed blocks.
type Reader struct {
	r   io.Reader
	typ Type
	hdr [headerSize]byte
	buf []byte
	off int
}

// NewReader creates a block reader over r.
func NewReader(r io.Reader, t Type) *Reader {
	return &Reader{r: r, typ: t}
}

// Read implements io.Reader over the decompressed stream.
func (c *Reader) Read(p []byte) (int, error) {
	for c.off == len(c.buf) {
		if err := c.next(); err != nil {
			return 0, err
		}
	}
	n := copy(p, c.buf[c.off:])
	c.off += n
	return n, nil
}

func (c *Reader) next() error {
	if _, err := io.ReadFull(c.r, c.hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: truncated header", ErrCorrupt)
		}
		return err
	}
	n, err := storedSize(c.hdr[:])
	if err != nil {
		return err
	}

	frame := make([]byte, headerSize+n)
	copy(frame, c.hdr[:])
	if _, err := io.ReadFull(c.r, frame[headerSize:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: truncated block", ErrCorrupt)
		}
		return err
	}

	c.buf, _, err = Unblock(frame, c.typ)
	if err != nil {
		return err
	}
	c.off = 0
	return nil
}
