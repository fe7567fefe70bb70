// Package wire implements the WeeChat relay protocol's primitive codec: the
// ground types every typed value and every command line is built from.
// Multi-byte integers are big-endian; textual fields (Pointer, Time, Long)
// are length-prefixed ASCII.
package wire

import (
	"strconv"

	"github.com/m-lab/weechat-relay/codecerr"
)

// TagLen is the fixed width of a type tag on the wire.
const TagLen = 3

// Reader decodes primitive values from a byte slice, advancing a cursor and
// failing with codecerr.Truncated on short input.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the reader's current position, for error reporting.
func (r *Reader) Offset() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *Reader) truncated() error {
	return codecerr.New(codecerr.Truncated, r.pos)
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, r.truncated()
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Byte reads one unsigned 8-bit value.
func (r *Reader) Byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads one signed 8-bit value (the wire's "chr" payload).
func (r *Reader) Int8() (int8, error) {
	b, err := r.Byte()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

// Int32 reads a 4-byte big-endian two's-complement integer.
func (r *Reader) Int32() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])), nil
}

// TypeTag reads the 3 raw ASCII bytes of a type tag, without validating that
// they name a recognized kind (that is the value package's job).
func (r *Reader) TypeTag() (string, error) {
	b, err := r.take(TagLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// String reads a length-prefixed byte string: an i32 length, then that many
// bytes. Length -1 means null (ok=false); 0 means empty (non-nil, zero-length
// slice); a negative length below -1 fails with MalformedLength.
func (r *Reader) String() (data []byte, ok bool, err error) {
	start := r.pos
	n, err := r.Int32()
	if err != nil {
		return nil, false, err
	}
	if n < -1 {
		return nil, false, codecerr.Newf(codecerr.MalformedLength, start, "length %d", n)
	}
	if n == -1 {
		return nil, false, nil
	}
	if n == 0 {
		return []byte{}, true, nil
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Pointer reads a length-prefixed hex-digit pointer: a u8 digit count, then
// that many lowercase hex ASCII digits, parsed as an unsigned 64-bit value.
// The sentinel null pointer is encoded as count=1, digit "0".
func (r *Reader) Pointer() (uint64, error) {
	start := r.pos
	n, err := r.Byte()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, codecerr.New(codecerr.MalformedPointer, start)
	}
	digits, err := r.take(int(n))
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseUint(string(digits), 16, 64)
	if perr != nil {
		return 0, codecerr.Newf(codecerr.MalformedPointer, start, "%q: %s", digits, perr)
	}
	return v, nil
}

// Time reads a length-prefixed decimal-digit Unix timestamp.
func (r *Reader) Time() (uint64, error) {
	start := r.pos
	n, err := r.Byte()
	if err != nil {
		return 0, err
	}
	digits, err := r.take(int(n))
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseUint(string(digits), 10, 64)
	if perr != nil {
		return 0, codecerr.Newf(codecerr.MalformedFrame, start, "time %q: %s", digits, perr)
	}
	return v, nil
}

// Long reads a length-prefixed signed decimal integer (optional leading '-').
func (r *Reader) Long() (int64, error) {
	start := r.pos
	n, err := r.Byte()
	if err != nil {
		return 0, err
	}
	digits, err := r.take(int(n))
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseInt(string(digits), 10, 64)
	if perr != nil {
		return 0, codecerr.Newf(codecerr.MalformedFrame, start, "long %q: %s", digits, perr)
	}
	return v, nil
}

// Writer encodes primitive values into a caller-supplied destination slice.
// It keeps a virtual cursor that advances past len(dst) without writing, so
// Len() always reports the exact length that would have been written
// regardless of the destination's capacity; callers with an undersized
// buffer can reallocate to exactly Len() bytes and retry.
type Writer struct {
	dst []byte
	n   int
}

// NewWriter wraps dst as an encode destination. dst may be nil or shorter
// than the eventual output; bytes beyond len(dst) are simply not written.
func NewWriter(dst []byte) *Writer {
	return &Writer{dst: dst}
}

// Len returns the number of bytes that have been (or would have been)
// written so far.
func (w *Writer) Len() int {
	return w.n
}

// Truncated reports whether any write so far has overrun the destination.
func (w *Writer) Truncated() bool {
	return w.n > len(w.dst)
}

func (w *Writer) writeBytes(p []byte) {
	for _, b := range p {
		if w.n < len(w.dst) {
			w.dst[w.n] = b
		}
		w.n++
	}
}

// Byte writes one unsigned 8-bit value.
func (w *Writer) Byte(b byte) {
	w.writeBytes([]byte{b})
}

// Int8 writes one signed 8-bit value.
func (w *Writer) Int8(v int8) {
	w.Byte(byte(v))
}

// Int32 writes a 4-byte big-endian two's-complement integer.
func (w *Writer) Int32(v int32) {
	u := uint32(v)
	w.writeBytes([]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
}

// TypeTag writes the 3 raw ASCII bytes of a type tag.
func (w *Writer) TypeTag(tag string) {
	w.writeBytes([]byte(tag))
}

// String writes a length-prefixed byte string. A nil data slice with
// ok=false encodes the null sentinel (-1); otherwise data is written
// verbatim, including the zero-length (empty, non-null) case.
func (w *Writer) String(data []byte, ok bool) {
	if !ok {
		w.Int32(-1)
		return
	}
	w.Int32(int32(len(data)))
	w.writeBytes(data)
}

// Pointer writes the minimal lowercase-hex representation of v, or "0" for
// the null pointer.
func (w *Writer) Pointer(v uint64) {
	digits := strconv.FormatUint(v, 16)
	w.Byte(byte(len(digits)))
	w.writeBytes([]byte(digits))
}

// Time writes the minimal decimal representation of v.
func (w *Writer) Time(v uint64) {
	digits := strconv.FormatUint(v, 10)
	w.Byte(byte(len(digits)))
	w.writeBytes([]byte(digits))
}

// Long writes the minimal signed decimal representation of v.
func (w *Writer) Long(v int64) {
	digits := strconv.FormatInt(v, 10)
	w.Byte(byte(len(digits)))
	w.writeBytes([]byte(digits))
}

// Raw writes p verbatim, with no length prefix.
func (w *Writer) Raw(p []byte) {
	w.writeBytes(p)
}

// RawString writes s verbatim, with no length prefix. Used by the message
// package for the ASCII command-line framing, which has no field lengths at
// all.
func (w *Writer) RawString(s string) {
	w.writeBytes([]byte(s))
}
