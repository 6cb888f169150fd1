package nbs

import (
	"time"
)

const (
	// LegacyVanillaCount is the number of built-in instruments in the legacy format.
	LegacyVanillaCount = 10
	// DefaultVanillaCount is the number of built-in instruments in current extended songs.
	DefaultVanillaCount = 16
)

// Header holds the metadata block at the start of a song file.
// Pointer fields only exist in some formats; nil means the field is absent.
type Header struct {
	// Format is not stored as a field of its own: it is detected from LegacyLength and the version byte.
	Format Format

	// In the legacy format this is the song length in ticks, and can never be zero.
	// The extended format writes zero here to tell the two layouts apart.
	LegacyLength int16

	// Number of built-in instruments when the song was saved. Custom instrument ids start here.
	// Extended format only.
	VanillaInstrumentCount *uint8

	// Song length in ticks. Extended format version 3 and up.
	SongLength *int16

	// The last layer with a note in it, or the last layer that has had its settings changed.
	LayerCount int16

	Name           string
	Author         string
	OriginalAuthor string
	Description    string

	Tempo int16 // Ticks per second multiplied by 100.

	AutoSave         bool
	AutoSaveInterval uint8 // Minutes between auto-saves (1-60).
	TimeSignature    uint8 // Beats per bar; 3 means 3/4. Ranges 2-8.

	MinutesSpent int32
	LeftClicks   int32
	RightClicks  int32
	NotesAdded   int32
	NotesRemoved int32

	// Name (not path) of the .mid or .schematic file the song was imported from.
	ImportedFileName string

	// Extended format only.
	Loop          *bool
	MaxLoopCount  *uint8 // 0 loops forever.
	LoopStartTick *int16
}

// NewHeader returns a header with the editor's defaults, carrying exactly the optional fields format has.
func NewHeader(format Format) *Header {
	h := &Header{
		Format:        format,
		Tempo:         1000,
		TimeSignature: 4,
	}
	if format.IsExtended() {
		h.VanillaInstrumentCount = Ptr(uint8(DefaultVanillaCount))
		h.Loop = Ptr(false)
		h.MaxLoopCount = Ptr(uint8(0))
		h.LoopStartTick = Ptr(int16(0))
	}
	if format.Version() >= 3 {
		h.SongLength = Ptr(int16(0))
	}
	return h
}

func decodeHeader(r *reader) (*Header, error) {
	var h Header
	var err error

	if h.LegacyLength, err = r.readInt16(); err != nil {
		return nil, err
	}
	if h.LegacyLength != 0 {
		h.Format = Legacy
	} else {
		version, err := r.readInt8()
		if err != nil {
			return nil, err
		}
		h.Format = Extended(version)
	}

	if h.Format.IsExtended() {
		count, err := r.readUint8()
		if err != nil {
			return nil, err
		}
		h.VanillaInstrumentCount = &count
	}
	if h.Format.Version() >= 3 {
		length, err := r.readInt16()
		if err != nil {
			return nil, err
		}
		h.SongLength = &length
	}

	if h.LayerCount, err = r.readInt16(); err != nil {
		return nil, err
	}
	for _, s := range []*string{&h.Name, &h.Author, &h.OriginalAuthor, &h.Description} {
		if *s, err = r.readString(); err != nil {
			return nil, err
		}
	}
	if h.Tempo, err = r.readInt16(); err != nil {
		return nil, err
	}
	if h.AutoSave, err = r.readBool(); err != nil {
		return nil, err
	}
	if h.AutoSaveInterval, err = r.readUint8(); err != nil {
		return nil, err
	}
	if h.TimeSignature, err = r.readUint8(); err != nil {
		return nil, err
	}
	for _, c := range []*int32{&h.MinutesSpent, &h.LeftClicks, &h.RightClicks, &h.NotesAdded, &h.NotesRemoved} {
		if *c, err = r.readInt32(); err != nil {
			return nil, err
		}
	}
	if h.ImportedFileName, err = r.readString(); err != nil {
		return nil, err
	}

	if h.Format.IsExtended() {
		loop, err := r.readBool()
		if err != nil {
			return nil, err
		}
		count, err := r.readUint8()
		if err != nil {
			return nil, err
		}
		start, err := r.readInt16()
		if err != nil {
			return nil, err
		}
		h.Loop, h.MaxLoopCount, h.LoopStartTick = &loop, &count, &start
	}

	return &h, nil
}

// encode writes the header in the layout of format.
func (h *Header) encode(w *writer, format Format) error {
	if format.IsExtended() {
		if h.VanillaInstrumentCount == nil {
			return missing("vanilla instrument count", format)
		}
		if h.Loop == nil {
			return missing("loop flag", format)
		}
		if h.MaxLoopCount == nil {
			return missing("max loop count", format)
		}
		if h.LoopStartTick == nil {
			return missing("loop start tick", format)
		}
		if format.Version() >= 3 && h.SongLength == nil {
			return missing("song length", format)
		}
	} else if h.LegacyLength == 0 {
		// A zero here would be read back as the extended format marker.
		return invalidf("legacy song length must not be zero")
	}

	if format.IsExtended() {
		if err := w.writeInt16(0); err != nil {
			return err
		}
		if err := w.writeInt8(format.Version()); err != nil {
			return err
		}
		if err := w.writeUint8(*h.VanillaInstrumentCount); err != nil {
			return err
		}
	} else {
		if err := w.writeInt16(h.LegacyLength); err != nil {
			return err
		}
	}
	if format.Version() >= 3 {
		if err := w.writeInt16(*h.SongLength); err != nil {
			return err
		}
	}

	if err := w.writeInt16(h.LayerCount); err != nil {
		return err
	}
	for _, s := range []string{h.Name, h.Author, h.OriginalAuthor, h.Description} {
		if err := w.writeString(s); err != nil {
			return err
		}
	}
	if err := w.writeInt16(h.Tempo); err != nil {
		return err
	}
	if err := w.writeBool(h.AutoSave); err != nil {
		return err
	}
	if err := w.writeUint8(h.AutoSaveInterval); err != nil {
		return err
	}
	if err := w.writeUint8(h.TimeSignature); err != nil {
		return err
	}
	for _, c := range []int32{h.MinutesSpent, h.LeftClicks, h.RightClicks, h.NotesAdded, h.NotesRemoved} {
		if err := w.writeInt32(c); err != nil {
			return err
		}
	}
	if err := w.writeString(h.ImportedFileName); err != nil {
		return err
	}

	if format.IsExtended() {
		if err := w.writeBool(*h.Loop); err != nil {
			return err
		}
		if err := w.writeUint8(*h.MaxLoopCount); err != nil {
			return err
		}
		if err := w.writeInt16(*h.LoopStartTick); err != nil {
			return err
		}
	}
	return nil
}

// size returns the number of bytes encode writes for format.
func (h *Header) size(format Format) int {
	n := 2 + 2 + 2 + 1 + 1 + 1 + 5*4 // length/marker, layer count, tempo, auto-save, interval, signature, counters
	for _, s := range []string{h.Name, h.Author, h.OriginalAuthor, h.Description, h.ImportedFileName} {
		n += stringSize(s)
	}
	if format.IsExtended() {
		n += 1 + 1 + 1 + 1 + 2 // version, vanilla count, loop, max loops, loop start
	}
	if format.Version() >= 3 {
		n += 2
	}
	return n
}

// VanillaInstruments returns the number of built-in instruments, which is also the first custom instrument id.
// The legacy format always has 10; the extended format stores the count.
func (h *Header) VanillaInstruments() (uint8, error) {
	if !h.Format.IsExtended() {
		return LegacyVanillaCount, nil
	}
	if h.VanillaInstrumentCount == nil {
		return 0, missing("vanilla instrument count", h.Format)
	}
	return *h.VanillaInstrumentCount, nil
}

// SongTicks returns the song length in ticks as stored in the header.
// Extended versions 1 and 2 never stored it, in which case ok is false.
func (h *Header) SongTicks() (ticks int16, ok bool, err error) {
	if !h.Format.IsExtended() {
		return h.LegacyLength, true, nil
	}
	if h.Format.Version() < 3 {
		return 0, false, nil
	}
	if h.SongLength == nil {
		return 0, false, missing("song length", h.Format)
	}
	return *h.SongLength, true, nil
}

// SongDuration converts SongTicks to a duration using the header tempo.
func (h *Header) SongDuration() (time.Duration, bool, error) {
	ticks, ok, err := h.SongTicks()
	if err != nil || !ok {
		return 0, ok, err
	}
	if h.Tempo <= 0 {
		return 0, false, invalidf("tempo %d is not positive", h.Tempo)
	}
	return ticksToDuration(ticks, h.Tempo), true, nil
}

// ticksToDuration converts ticks at tempo (ticks per second ×100) to a duration.
func ticksToDuration(ticks, tempo int16) time.Duration {
	seconds := float64(ticks) / (float64(tempo) / 100)
	return time.Duration(seconds * float64(time.Second))
}
