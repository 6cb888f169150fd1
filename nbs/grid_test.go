package nbs

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"
)

func gridWithLayers(format Format, n int) *Grid {
	g := NewGrid()
	for range n {
		g.AddLayer(format)
	}
	return g
}

func TestEmptyGridEncodesToTerminator(t *testing.T) {
	g := gridWithLayers(Extended(4), 3)

	var buf bytes.Buffer
	if err := g.encode(newWriter(&buf), Extended(4)); err != nil {
		t.Fatal(err)
	}
	if want := []byte{0, 0}; !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
	if g.size(Extended(4)) != 2 {
		t.Errorf("size = %d, want 2", g.size(Extended(4)))
	}
}

// readJumps decodes the raw jump structure of an encoded grid without note bodies.
func readJumps(t *testing.T, data []byte, noteBytes int) (ticks []int16, rows [][]int16) {
	t.Helper()
	r := newReader(bytes.NewReader(data))
	tick := int16(-1)
	for {
		jump, err := r.readInt16()
		if err != nil {
			t.Fatal(err)
		}
		if jump == 0 {
			return ticks, rows
		}
		tick += jump
		ticks = append(ticks, tick)

		var row []int16
		layer := int16(-1)
		for {
			jump, err := r.readInt16()
			if err != nil {
				t.Fatal(err)
			}
			if jump == 0 {
				break
			}
			layer += jump
			row = append(row, layer)
			if _, err := r.fill(noteBytes); err != nil {
				t.Fatal(err)
			}
		}
		rows = append(rows, row)
	}
}

func TestGridJumpArithmetic(t *testing.T) {
	format := Extended(3)
	g := gridWithLayers(format, 3)
	piano := NewNoteFor(format, Vanilla(Piano), 45)
	mustSet(t, g, 0, 0, piano)
	mustSet(t, g, 5, 0, piano)
	mustSet(t, g, 5, 2, piano)

	var buf bytes.Buffer
	if err := g.encode(newWriter(&buf), format); err != nil {
		t.Fatal(err)
	}

	// First tick jump is 1 from the -1 cursor, then 5 to reach tick 5.
	// Row 0: layer jump 1. Row 5: layer jumps 1 and 2.
	var want stream
	want.i16(1).i16(1).u8(0).u8(45).i16(0)
	want.i16(5).i16(1).u8(0).u8(45).i16(2).u8(0).u8(45).i16(0)
	want.i16(0)
	if !bytes.Equal(buf.Bytes(), want.Bytes()) {
		t.Errorf("got  % x\nwant % x", buf.Bytes(), want.Bytes())
	}

	ticks, rows := readJumps(t, buf.Bytes(), noteSize(format))
	if !reflect.DeepEqual(ticks, []int16{0, 5}) {
		t.Errorf("visited ticks %v, want [0 5]", ticks)
	}
	if !reflect.DeepEqual(rows, [][]int16{{0}, {0, 2}}) {
		t.Errorf("visited layers %v, want [[0] [0 2]]", rows)
	}
	if g.size(format) != buf.Len() {
		t.Errorf("size = %d, encoded %d bytes", g.size(format), buf.Len())
	}
}

func TestGridDecodeJumps(t *testing.T) {
	format := Extended(2)
	var s stream
	// Tick 3: layers 1 and 4. Tick 10: layer 0.
	s.i16(4).i16(2).u8(1).u8(30).i16(3).u8(17).u8(31).i16(0)
	s.i16(7).i16(1).u8(15).u8(32).i16(0)
	s.i16(0)

	g, err := decodeGrid(newReader(bytes.NewReader(s.Bytes())), 5, format, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer dumpOnFailure(t, "grid", g)

	if len(g.Layers) != 5 {
		t.Fatalf("got %d layers, want 5", len(g.Layers))
	}
	want := map[[2]int16]Note{
		{3, 1}:  {Instrument: Vanilla(DoubleBass), Key: 30},
		{3, 4}:  {Instrument: Custom(17), Key: 31},
		{10, 0}: {Instrument: Vanilla(Pling), Key: 32},
	}
	for pos, wantNote := range want {
		got, ok := g.Note(pos[0], pos[1])
		if !ok {
			t.Errorf("no note at tick %d layer %d", pos[0], pos[1])
			continue
		}
		if !reflect.DeepEqual(got, wantNote) {
			t.Errorf("tick %d layer %d: got %+v, want %+v", pos[0], pos[1], got, wantNote)
		}
	}
	if g.NoteCount() != len(want) {
		t.Errorf("NoteCount = %d, want %d", g.NoteCount(), len(want))
	}
	if g.Length() != 10 {
		t.Errorf("Length = %d, want 10", g.Length())
	}
}

func TestGridDecodeLayerOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "past last layer",
			data: new(stream).i16(1).i16(3).u8(0).u8(0).i16(0).i16(0).Bytes(),
		},
		{
			name: "negative layer",
			data: new(stream).i16(1).i16(-1).u8(0).u8(0).i16(0).i16(0).Bytes(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeGrid(newReader(bytes.NewReader(tt.data)), 2, Extended(1), 16)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("got %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestGridDecodeTruncated(t *testing.T) {
	data := new(stream).i16(1).i16(1).u8(0).Bytes()
	_, err := decodeGrid(newReader(bytes.NewReader(data)), 1, Extended(4), 16)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestGridDecodeNegativeLayerCount(t *testing.T) {
	_, err := decodeGrid(newReader(bytes.NewReader([]byte{0, 0})), -1, Extended(4), 16)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("got %v, want ErrInvalidFormat", err)
	}
}

func TestInstrumentBoundary(t *testing.T) {
	tests := []struct {
		name         string
		id           uint8
		vanillaCount uint8
		want         Instrument
	}{
		{name: "last vanilla", id: 15, vanillaCount: 16, want: Vanilla(Pling)},
		{name: "first custom", id: 16, vanillaCount: 16, want: Custom(16)},
		{name: "legacy last vanilla", id: 9, vanillaCount: LegacyVanillaCount, want: Vanilla(Xylophone)},
		{name: "legacy first custom", id: 10, vanillaCount: LegacyVanillaCount, want: Custom(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := new(stream).i16(1).i16(1).u8(tt.id).u8(40).i16(0).i16(0).Bytes()
			g, err := decodeGrid(newReader(bytes.NewReader(data)), 1, Extended(1), tt.vanillaCount)
			if err != nil {
				t.Fatal(err)
			}
			n, ok := g.Note(0, 0)
			if !ok {
				t.Fatal("note not decoded")
			}
			if n.Instrument != tt.want {
				t.Errorf("got %v, want %v", n.Instrument, tt.want)
			}
		})
	}
}

func TestGridEncodeMissingNoteFields(t *testing.T) {
	g := gridWithLayers(Extended(4), 1)
	// A v3 note has no velocity, panning or pitch.
	mustSet(t, g, 2, 0, NewNoteFor(Extended(3), Vanilla(Bit), 50))

	err := g.encode(newWriter(&bytes.Buffer{}), Extended(4))
	var mf *MissingFieldError
	if !errors.As(err, &mf) || mf.Field != "note velocity" {
		t.Errorf("got %v, want missing note velocity", err)
	}
}

func TestLayerTable(t *testing.T) {
	for _, format := range []Format{Legacy, Extended(1), Extended(2), Extended(3), Extended(4)} {
		t.Run(format.String(), func(t *testing.T) {
			var s stream
			s.layerInfo(format, "Drums").layerInfo(format, "")

			g := gridWithLayers(format, 2)
			for _, l := range g.Layers {
				l.Volume, l.Stereo, l.Locked = nil, nil, nil
			}
			if err := decodeLayerTable(newReader(bytes.NewReader(s.Bytes())), g, format); err != nil {
				t.Fatal(err)
			}
			defer dumpOnFailure(t, "layers", g.Layers)

			l := g.Layers[0]
			if l.Name != "Drums" {
				t.Errorf("name = %q", l.Name)
			}
			if l.Volume == nil || *l.Volume != 100 {
				t.Errorf("volume = %v, want 100", l.Volume)
			}
			if (l.Stereo != nil) != (format.Version() >= 2) {
				t.Errorf("stereo = %v for %v", l.Stereo, format)
			}
			if (l.Locked != nil) != (format.Version() >= 4) {
				t.Errorf("locked = %v for %v", l.Locked, format)
			}

			var buf bytes.Buffer
			if err := g.encodeLayerTable(newWriter(&buf), format); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(buf.Bytes(), s.Bytes()) {
				t.Errorf("re-encoded % x, want % x", buf.Bytes(), s.Bytes())
			}
			if g.layerTableSize(format) != s.Len() {
				t.Errorf("layerTableSize = %d, want %d", g.layerTableSize(format), s.Len())
			}
		})
	}
}

func TestLayerTableEncodeMissingFields(t *testing.T) {
	g := gridWithLayers(Extended(2), 1)
	g.Layers[0].Stereo = nil
	var mf *MissingFieldError
	err := g.encodeLayerTable(newWriter(&bytes.Buffer{}), Extended(2))
	if !errors.As(err, &mf) || mf.Field != "layer stereo" {
		t.Errorf("got %v, want missing layer stereo", err)
	}

	// Volume is always stored, even in the legacy format.
	g = gridWithLayers(Legacy, 1)
	g.Layers[0].Volume = nil
	err = g.encodeLayerTable(newWriter(&bytes.Buffer{}), Legacy)
	if !errors.As(err, &mf) || mf.Field != "layer volume" {
		t.Errorf("got %v, want missing layer volume", err)
	}
}

func TestGridEditing(t *testing.T) {
	g := gridWithLayers(Extended(4), 2)
	n := NewNoteFor(Extended(4), Vanilla(Banjo), 40)

	if err := g.SetNote(3, 2, n); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("SetNote on missing layer: %v", err)
	}
	if err := g.SetNote(-1, 0, n); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("SetNote on negative tick: %v", err)
	}
	mustSet(t, g, 7, 1, n)
	if got, ok := g.Note(7, 1); !ok || !reflect.DeepEqual(got, n) {
		t.Errorf("Note(7, 1) = %+v, %v", got, ok)
	}
	if g.Length() != 7 {
		t.Errorf("Length = %d, want 7", g.Length())
	}
	if !g.RemoveNote(7, 1) {
		t.Error("RemoveNote reported no note")
	}
	if g.RemoveNote(7, 1) {
		t.Error("RemoveNote removed a note twice")
	}
	if g.Length() != 0 || g.NoteCount() != 0 {
		t.Errorf("Length %d, NoteCount %d after removal", g.Length(), g.NoteCount())
	}
}

func mustSet(t *testing.T, g *Grid, tick, layer int16, n Note) {
	t.Helper()
	if err := g.SetNote(tick, layer, n); err != nil {
		t.Fatal(err)
	}
}
