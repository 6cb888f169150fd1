package nbs

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestPrimitivesAreLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	w := newWriter(&buf)
	if err := w.writeInt16(0x0102); err != nil {
		t.Fatal(err)
	}
	if err := w.writeInt32(0x03040506); err != nil {
		t.Fatal(err)
	}
	if err := w.writeInt8(-1); err != nil {
		t.Fatal(err)
	}
	if err := w.writeBool(true); err != nil {
		t.Fatal(err)
	}
	if err := w.writeString("hi"); err != nil {
		t.Fatal(err)
	}

	want := []byte{0x02, 0x01, 0x06, 0x05, 0x04, 0x03, 0xff, 0x01, 0x02, 0, 0, 0, 'h', 'i'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % x, want % x", buf.Bytes(), want)
	}

	r := newReader(bytes.NewReader(buf.Bytes()))
	if v, err := r.readInt16(); err != nil || v != 0x0102 {
		t.Errorf("readInt16 = %#x, %v", v, err)
	}
	if v, err := r.readInt32(); err != nil || v != 0x03040506 {
		t.Errorf("readInt32 = %#x, %v", v, err)
	}
	if v, err := r.readInt8(); err != nil || v != -1 {
		t.Errorf("readInt8 = %d, %v", v, err)
	}
	if v, err := r.readBool(); err != nil || !v {
		t.Errorf("readBool = %v, %v", v, err)
	}
	if v, err := r.readString(); err != nil || v != "hi" {
		t.Errorf("readString = %q, %v", v, err)
	}
	if r.offset != int64(len(want)) {
		t.Errorf("offset = %d, want %d", r.offset, len(want))
	}
}

func TestReadBoolOnlyOneIsTrue(t *testing.T) {
	r := newReader(bytes.NewReader([]byte{0, 1, 2, 0xff}))
	for i, want := range []bool{false, true, false, false} {
		got, err := r.readBool()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("byte %d: got %v, want %v", i, got, want)
		}
	}
}

func TestReadString(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{
			name: "empty",
			data: []byte{0, 0, 0, 0},
			want: "",
		},
		{
			name: "utf8",
			data: append([]byte{5, 0, 0, 0}, "héllo"[:5]...),
			want: "héll",
		},
		{
			name:    "negative length",
			data:    []byte{0xff, 0xff, 0xff, 0xff},
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "invalid utf8",
			data:    []byte{2, 0, 0, 0, 0xc3, 0x28},
			wantErr: ErrInvalidString,
		},
		{
			name:    "truncated body",
			data:    []byte{10, 0, 0, 0, 'a', 'b'},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "truncated length",
			data:    []byte{10, 0},
			wantErr: io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newReader(bytes.NewReader(tt.data)).readString()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteStringRejectsInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	err := newWriter(&buf).writeString("\xc3\x28")
	if !errors.Is(err, ErrInvalidString) {
		t.Fatalf("got %v, want ErrInvalidString", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes before failing", buf.Len())
	}
}

func TestReadAtEndOfStream(t *testing.T) {
	r := newReader(bytes.NewReader(nil))
	if _, err := r.readUint8(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("readUint8 on empty stream: %v", err)
	}
	r = newReader(bytes.NewReader([]byte{1}))
	if _, err := r.readInt16(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("readInt16 on short stream: %v", err)
	}
}
