package nbs

// Layer is a row of the editor, holding the notes placed on it keyed by tick.
type Layer struct {
	Name string
	// Extended format version 4 and up.
	Locked *bool
	// Volume in percent. Always stored in the file, but may be left unset on a layer built by hand.
	Volume *uint8
	// Stereo position (0-200), 100 is center. Extended format version 2 and up.
	Stereo *uint8

	Notes map[int16]Note
}

// NewLayer returns an empty layer with the defaults of every field format has.
func NewLayer(format Format) *Layer {
	l := &Layer{
		Volume: Ptr(uint8(100)),
		Notes:  make(map[int16]Note),
	}
	if format.Version() >= 4 {
		l.Locked = Ptr(false)
	}
	if format.Version() >= 2 {
		l.Stereo = Ptr(uint8(100))
	}
	return l
}

// lastTick returns the highest tick with a note, and false if the layer is empty.
func (l *Layer) lastTick() (int16, bool) {
	var last int16
	found := false
	for tick := range l.Notes {
		if !found || tick > last {
			last = tick
			found = true
		}
	}
	return last, found
}

// decodeInfo reads the layer table fields that follow the note grid.
func (l *Layer) decodeInfo(r *reader, format Format) error {
	var err error
	if l.Name, err = r.readString(); err != nil {
		return err
	}
	if format.Version() >= 4 {
		locked, err := r.readBool()
		if err != nil {
			return err
		}
		l.Locked = &locked
	}
	volume, err := r.readUint8()
	if err != nil {
		return err
	}
	l.Volume = &volume
	if format.Version() >= 2 {
		stereo, err := r.readUint8()
		if err != nil {
			return err
		}
		l.Stereo = &stereo
	}
	return nil
}

func (l *Layer) encodeInfo(w *writer, format Format) error {
	switch {
	case l.Volume == nil:
		return missing("layer volume", format)
	case format.Version() >= 4 && l.Locked == nil:
		return missing("layer lock", format)
	case format.Version() >= 2 && l.Stereo == nil:
		return missing("layer stereo", format)
	}

	if err := w.writeString(l.Name); err != nil {
		return err
	}
	if format.Version() >= 4 {
		if err := w.writeBool(*l.Locked); err != nil {
			return err
		}
	}
	if err := w.writeUint8(*l.Volume); err != nil {
		return err
	}
	if format.Version() >= 2 {
		if err := w.writeUint8(*l.Stereo); err != nil {
			return err
		}
	}
	return nil
}

func (l *Layer) infoSize(format Format) int {
	n := stringSize(l.Name) + 1
	if format.Version() >= 4 {
		n++
	}
	if format.Version() >= 2 {
		n++
	}
	return n
}
