package nbs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"unicode/utf8"
)

// reader reads the little-endian primitives of the format and keeps
// track of how many bytes have been consumed.
type reader struct {
	r      io.Reader
	offset int64
	buf    [4]byte
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

func (r *reader) fill(n int) ([]byte, error) {
	read, err := io.ReadFull(r.r, r.buf[:n])
	r.offset += int64(read)
	if err != nil {
		// A song never ends between fields, so any end of stream is a truncation.
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return r.buf[:n], nil
}

func (r *reader) readUint8() (uint8, error) {
	b, err := r.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readInt8() (int8, error) {
	v, err := r.readUint8()
	return int8(v), err
}

// readBool reads a byte flag. Only 1 means true.
func (r *reader) readBool() (bool, error) {
	v, err := r.readUint8()
	return v == 1, err
}

func (r *reader) readInt16() (int16, error) {
	b, err := r.fill(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (r *reader) readInt32() (int32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// readString reads a string prefixed with its byte length as a signed 32-bit integer.
func (r *reader) readString() (string, error) {
	n, err := r.readInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", invalidf("negative string length %d at offset %d", n, r.offset-4)
	}
	if n == 0 {
		return "", nil
	}

	// Copy instead of allocating n bytes up front, so a corrupt length
	// only costs as much memory as the stream actually holds.
	var b bytes.Buffer
	copied, err := io.CopyN(&b, r.r, int64(n))
	r.offset += copied
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	if !utf8.Valid(b.Bytes()) {
		return "", badString("%d byte string at offset %d", n, r.offset-int64(n))
	}
	return b.String(), nil
}

// writer is the encoding counterpart of reader.
type writer struct {
	w   io.Writer
	buf [4]byte
}

func newWriter(w io.Writer) *writer {
	return &writer{w: w}
}

func (w *writer) write(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

func (w *writer) writeUint8(v uint8) error {
	w.buf[0] = v
	return w.write(w.buf[:1])
}

func (w *writer) writeInt8(v int8) error {
	return w.writeUint8(uint8(v))
}

func (w *writer) writeBool(v bool) error {
	if v {
		return w.writeUint8(1)
	}
	return w.writeUint8(0)
}

func (w *writer) writeInt16(v int16) error {
	binary.LittleEndian.PutUint16(w.buf[:2], uint16(v))
	return w.write(w.buf[:2])
}

func (w *writer) writeInt32(v int32) error {
	binary.LittleEndian.PutUint32(w.buf[:4], uint32(v))
	return w.write(w.buf[:4])
}

func (w *writer) writeString(s string) error {
	if len(s) > math.MaxInt32 {
		return invalidf("string of %d bytes does not fit a 32-bit length", len(s))
	}
	if !utf8.ValidString(s) {
		return badString("%q", s)
	}
	if err := w.writeInt32(int32(len(s))); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	_, err := io.WriteString(w.w, s)
	return err
}

// stringSize is the encoded size of s including its length prefix.
func stringSize(s string) int {
	return 4 + len(s)
}
