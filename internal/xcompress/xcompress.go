// Package xcompress wraps the gzip (RFC 1952) and zlib (RFC 1950) streams
// used to frame NBT documents and region chunk payloads, reading both
// formats through klauspost/compress. This package adds the matching
// write side and a growable output buffer used by the NBT writer.
package xcompress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Kind identifies which RFC-defined stream framing wraps a payload.
type Kind byte

const (
	Gzip Kind = 1
	Zlib Kind = 2

	// Unknown marks a compression byte read from disk that isn't Gzip or
	// Zlib. It is never valid to pass to Inflate/Deflate.
	Unknown Kind = 0
)

// ErrCorruptStream is returned by Inflate when the underlying stream fails
// to decode.
var ErrCorruptStream = errors.New("xcompress: corrupt stream")

// ErrCompressionFailed is returned by Deflate when the underlying encoder
// fails.
var ErrCompressionFailed = errors.New("xcompress: compression failed")

// GzipMagic is the two-byte marker NBT document auto-detection keys off of.
var GzipMagic = [2]byte{0x1F, 0x8B}

// Inflate decompresses data according to kind.
func Inflate(data []byte, kind Kind) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch kind {
	case Gzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	case Zlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	default:
		return nil, ErrCorruptStream
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	return out, nil
}

// Deflate compresses data according to kind.
func Deflate(data []byte, kind Kind) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch kind {
	case Gzip:
		w = gzip.NewWriter(&buf)
	case Zlib:
		w = zlib.NewWriter(&buf)
	default:
		return nil, ErrCompressionFailed
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailed, err)
	}
	return buf.Bytes(), nil
}

// Buffer is a growable byte buffer with append/finalize semantics, used to
// accumulate codec output before a single write.
type Buffer struct {
	buf bytes.Buffer
}

// Append writes b to the end of the buffer.
func (g *Buffer) Append(b []byte) {
	g.buf.Write(b)
}

// Finalize returns the accumulated bytes. The Buffer must not be reused
// after calling Finalize.
func (g *Buffer) Finalize() []byte {
	return g.buf.Bytes()
}
