package nbs

import "math"

// Grid is the tick×layer matrix of note blocks. Layer order is the order in the file.
type Grid struct {
	Layers []*Layer
}

// NewGrid returns a grid without layers.
func NewGrid() *Grid {
	return &Grid{}
}

// AddLayer appends an empty layer with the defaults of format and returns it.
func (g *Grid) AddLayer(format Format) *Layer {
	l := NewLayer(format)
	g.Layers = append(g.Layers, l)
	return l
}

// Note returns the note at tick on layer, if there is one.
func (g *Grid) Note(tick, layer int16) (Note, bool) {
	if layer < 0 || int(layer) >= len(g.Layers) {
		return Note{}, false
	}
	n, ok := g.Layers[layer].Notes[tick]
	return n, ok
}

// SetNote places n at tick on an existing layer, replacing any note already there.
func (g *Grid) SetNote(tick, layer int16, n Note) error {
	if layer < 0 || int(layer) >= len(g.Layers) {
		return invalidf("layer %d does not exist, grid has %d layers", layer, len(g.Layers))
	}
	if tick < 0 {
		return invalidf("tick %d is negative", tick)
	}
	l := g.Layers[layer]
	if l.Notes == nil {
		l.Notes = make(map[int16]Note)
	}
	l.Notes[tick] = n
	return nil
}

// RemoveNote deletes the note at tick on layer and reports whether there was one.
func (g *Grid) RemoveNote(tick, layer int16) bool {
	if _, ok := g.Note(tick, layer); !ok {
		return false
	}
	delete(g.Layers[layer].Notes, tick)
	return true
}

// NoteCount returns the number of notes on all layers.
func (g *Grid) NoteCount() int {
	count := 0
	for _, l := range g.Layers {
		count += len(l.Notes)
	}
	return count
}

// Length returns the highest tick holding a note on any layer, or 0 for an empty grid.
func (g *Grid) Length() int16 {
	var length int16
	for _, l := range g.Layers {
		if last, ok := l.lastTick(); ok && last > length {
			length = last
		}
	}
	return length
}

// decodeGrid reads the note blocks into layerCount freshly allocated layers.
//
// Notes are stored as jumps: the tick cursor starts at -1 and advances by each
// tick jump until a jump of 0 ends the grid. Within a tick the layer cursor
// starts at -1 and advances by each layer jump, each followed by one note,
// until a jump of 0 ends the row.
func decodeGrid(r *reader, layerCount int16, format Format, vanillaCount uint8) (*Grid, error) {
	if layerCount < 0 {
		return nil, invalidf("negative layer count %d", layerCount)
	}
	g := &Grid{Layers: make([]*Layer, layerCount)}
	for i := range g.Layers {
		g.Layers[i] = &Layer{Notes: make(map[int16]Note)}
	}

	tick := int16(-1)
	for {
		jump, err := r.readInt16()
		if err != nil {
			return nil, err
		}
		if jump == 0 {
			break
		}
		tick += jump

		layer := int16(-1)
		for {
			jump, err := r.readInt16()
			if err != nil {
				return nil, err
			}
			if jump == 0 {
				break
			}
			layer += jump
			if layer < 0 || layer >= layerCount {
				return nil, invalidf("note at tick %d is on layer %d, song has %d layers", tick, layer, layerCount)
			}

			note, err := decodeNote(r, format, vanillaCount)
			if err != nil {
				return nil, err
			}
			g.Layers[layer].Notes[tick] = note
		}
	}
	return g, nil
}

// encode writes the note blocks as the inverse of decodeGrid. Ticks
// without notes produce nothing; the next tick jump skips over them.
func (g *Grid) encode(w *writer, format Format) error {
	if len(g.Layers) > math.MaxInt16 {
		return invalidf("%d layers do not fit a 16-bit layer index", len(g.Layers))
	}

	tickCursor := int16(-1)
	last := int(g.Length())
	for t := 0; t <= last; t++ {
		tick := int16(t)
		layerCursor := int16(-1)
		jumped := false

		for i, l := range g.Layers {
			note, ok := l.Notes[tick]
			if !ok {
				continue
			}
			if !jumped {
				if err := w.writeInt16(tick - tickCursor); err != nil {
					return err
				}
				tickCursor = tick
				jumped = true
			}
			if err := w.writeInt16(int16(i) - layerCursor); err != nil {
				return err
			}
			layerCursor = int16(i)
			if err := note.encode(w, format); err != nil {
				return err
			}
		}

		if jumped {
			// End of this tick's row.
			if err := w.writeInt16(0); err != nil {
				return err
			}
		}
	}
	return w.writeInt16(0)
}

// size returns the number of bytes encode writes for format.
func (g *Grid) size(format Format) int {
	last := g.Length()
	rows := make(map[int16]struct{})
	n := 2 // grid terminator
	for _, l := range g.Layers {
		for tick := range l.Notes {
			if tick < 0 || tick > last {
				continue
			}
			rows[tick] = struct{}{}
			n += 2 + noteSize(format) // layer jump + note
		}
	}
	return n + len(rows)*(2+2) // tick jump + row terminator
}

func decodeLayerTable(r *reader, g *Grid, format Format) error {
	for _, l := range g.Layers {
		if err := l.decodeInfo(r, format); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grid) encodeLayerTable(w *writer, format Format) error {
	for _, l := range g.Layers {
		if err := l.encodeInfo(w, format); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grid) layerTableSize(format Format) int {
	n := 0
	for _, l := range g.Layers {
		n += l.infoSize(format)
	}
	return n
}
