package nbs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// stream builds raw song bytes field by field.
type stream struct {
	bytes.Buffer
}

func (s *stream) u8(v uint8) *stream {
	s.WriteByte(v)
	return s
}

func (s *stream) i8(v int8) *stream {
	return s.u8(uint8(v))
}

func (s *stream) i16(v int16) *stream {
	binary.Write(&s.Buffer, binary.LittleEndian, v)
	return s
}

func (s *stream) i32(v int32) *stream {
	binary.Write(&s.Buffer, binary.LittleEndian, v)
	return s
}

func (s *stream) str(v string) *stream {
	s.i32(int32(len(v)))
	s.WriteString(v)
	return s
}

// header appends a header for format with the given layer count and every
// other field zero or empty, tempo 1000 and vanilla count 16.
func (s *stream) header(format Format, legacyLength, layerCount int16) *stream {
	if format.IsExtended() {
		s.i16(0).i8(format.Version()).u8(DefaultVanillaCount)
	} else {
		s.i16(legacyLength)
	}
	if format.Version() >= 3 {
		s.i16(legacyLength)
	}
	s.i16(layerCount)
	s.str("").str("").str("").str("")
	s.i16(1000)
	s.u8(0).u8(0).u8(4)
	for range 5 {
		s.i32(0)
	}
	s.str("")
	if format.IsExtended() {
		s.u8(0).u8(0).i16(0)
	}
	return s
}

// layerInfo appends one layer table record with the fields format has.
func (s *stream) layerInfo(format Format, name string) *stream {
	s.str(name)
	if format.Version() >= 4 {
		s.u8(0)
	}
	s.u8(100)
	if format.Version() >= 2 {
		s.u8(100)
	}
	return s
}

// failingWriter accepts limit bytes and then fails every write.
type failingWriter struct {
	limit int
	err   error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		n := w.limit
		w.limit = 0
		return n, w.err
	}
	w.limit -= len(p)
	return len(p), nil
}

var errDiskFull = errors.New("disk full")

func dumpOnFailure(t *testing.T, label string, v any) {
	t.Helper()
	if t.Failed() {
		t.Logf("%s:\n%s", label, spew.Sdump(v))
	}
}
