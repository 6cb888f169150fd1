package nbs

// Note is a single note block, placed at one tick of one layer.
type Note struct {
	Instrument Instrument

	// The key of the note block, from 0-87, where 0 is A0 and 87 is C8.
	// 33-57 is within the 2-octave range of the game.
	Key uint8

	// Velocity in percent (0-100). Extended format version 4 and up.
	Velocity *uint8
	// Stereo position (0-200), 100 is center. Extended format version 4 and up.
	Panning *uint8
	// Fine pitch in cents, limited to ±1200 by the editor. Extended format version 4 and up.
	Pitch *int16
}

// NewNote returns a note with the given optional fields.
func NewNote(instrument Instrument, key uint8, velocity, panning *uint8, pitch *int16) Note {
	return Note{
		Instrument: instrument,
		Key:        key,
		Velocity:   velocity,
		Panning:    panning,
		Pitch:      pitch,
	}
}

// NewNoteFor returns a note carrying the default values of every field format has:
// full velocity, center panning and no fine pitch.
func NewNoteFor(format Format, instrument Instrument, key uint8) Note {
	n := Note{Instrument: instrument, Key: key}
	if format.Version() >= 4 {
		n.Velocity = Ptr(uint8(100))
		n.Panning = Ptr(uint8(100))
		n.Pitch = Ptr(int16(0))
	}
	return n
}

func decodeNote(r *reader, format Format, vanillaCount uint8) (Note, error) {
	var n Note
	id, err := r.readUint8()
	if err != nil {
		return n, err
	}
	n.Instrument = classifyInstrument(id, vanillaCount)
	if n.Key, err = r.readUint8(); err != nil {
		return n, err
	}
	if format.Version() >= 4 {
		velocity, err := r.readUint8()
		if err != nil {
			return n, err
		}
		panning, err := r.readUint8()
		if err != nil {
			return n, err
		}
		pitch, err := r.readInt16()
		if err != nil {
			return n, err
		}
		n.Velocity, n.Panning, n.Pitch = &velocity, &panning, &pitch
	}
	return n, nil
}

func (n *Note) encode(w *writer, format Format) error {
	if format.Version() >= 4 {
		switch {
		case n.Velocity == nil:
			return missing("note velocity", format)
		case n.Panning == nil:
			return missing("note panning", format)
		case n.Pitch == nil:
			return missing("note pitch", format)
		}
	}

	if err := w.writeUint8(n.Instrument.ID); err != nil {
		return err
	}
	if err := w.writeUint8(n.Key); err != nil {
		return err
	}
	if format.Version() >= 4 {
		if err := w.writeUint8(*n.Velocity); err != nil {
			return err
		}
		if err := w.writeUint8(*n.Panning); err != nil {
			return err
		}
		if err := w.writeInt16(*n.Pitch); err != nil {
			return err
		}
	}
	return nil
}

func noteSize(format Format) int {
	if format.Version() >= 4 {
		return 6
	}
	return 2
}
