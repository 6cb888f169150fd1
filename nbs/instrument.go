package nbs

import "fmt"

// Sound is one of the editor's built-in instrument sounds, in wire order.
type Sound uint8

const (
	Piano Sound = iota
	DoubleBass
	BassDrum
	SnareDrum
	Click
	Guitar
	Flute
	Bell
	Chime
	Xylophone
	IronXylophone
	CowBell
	Didgeridoo
	Bit
	Banjo
	Pling
)

var soundNames = [...]string{
	"Piano",
	"Double Bass",
	"Bass Drum",
	"Snare Drum",
	"Click",
	"Guitar",
	"Flute",
	"Bell",
	"Chime",
	"Xylophone",
	"Iron Xylophone",
	"Cow Bell",
	"Didgeridoo",
	"Bit",
	"Banjo",
	"Pling",
}

func (s Sound) String() string {
	if int(s) < len(soundNames) {
		return soundNames[s]
	}
	return fmt.Sprintf("Sound(%d)", uint8(s))
}

// Instrument references either a built-in sound or a custom instrument.
// Custom ids start at the song's vanilla instrument count, so the two never overlap.
type Instrument struct {
	ID     uint8
	Custom bool
}

// Vanilla returns a reference to a built-in sound.
func Vanilla(s Sound) Instrument {
	return Instrument{ID: uint8(s)}
}

// Custom returns a reference to the custom instrument with the given id.
func Custom(id uint8) Instrument {
	return Instrument{ID: id, Custom: true}
}

// classifyInstrument decides from the wire id whether an instrument is built in.
func classifyInstrument(id, vanillaCount uint8) Instrument {
	if id >= vanillaCount {
		return Custom(id)
	}
	return Vanilla(Sound(id))
}

// Sound returns the built-in sound of a vanilla instrument.
// ok is false for custom instruments.
func (i Instrument) Sound() (s Sound, ok bool) {
	if i.Custom {
		return 0, false
	}
	return Sound(i.ID), true
}

func (i Instrument) String() string {
	if i.Custom {
		return fmt.Sprintf("Custom(%d)", i.ID)
	}
	return Sound(i.ID).String()
}

// CustomInstrument is an entry of the song's custom instrument table.
type CustomInstrument struct {
	// ID is assigned on decode as the table index plus the vanilla instrument count.
	// It is not stored in the file, and must fit in 8 bits, which caps the table size.
	ID       uint8
	Name     string
	FileName string // Sound file, relative to the editor's sounds folder.
	Pitch    uint8  // Key of the sound file, 45 (F#4) by default.
	PressKey bool   // Whether the piano key is pressed when a note of this instrument plays.
}

// Instrument returns the reference notes use to play this entry.
func (c CustomInstrument) Instrument() Instrument {
	return Custom(c.ID)
}

func decodeCustomInstruments(r *reader, vanillaCount uint8) ([]CustomInstrument, error) {
	count, err := r.readUint8()
	if err != nil {
		return nil, err
	}
	if int(count) > maxCustomInstruments(vanillaCount) {
		return nil, invalidf("%d custom instruments after %d built-in ones do not fit 8-bit instrument ids", count, vanillaCount)
	}

	var instruments []CustomInstrument
	for i := range count {
		ci := CustomInstrument{ID: i + vanillaCount}
		if ci.Name, err = r.readString(); err != nil {
			return nil, err
		}
		if ci.FileName, err = r.readString(); err != nil {
			return nil, err
		}
		if ci.Pitch, err = r.readUint8(); err != nil {
			return nil, err
		}
		if ci.PressKey, err = r.readBool(); err != nil {
			return nil, err
		}
		instruments = append(instruments, ci)
	}
	return instruments, nil
}

// maxCustomInstruments is the number of table entries that get an id notes can refer to.
func maxCustomInstruments(vanillaCount uint8) int {
	return min(256-int(vanillaCount), 255)
}

func encodeCustomInstruments(w *writer, instruments []CustomInstrument, vanillaCount uint8) error {
	if len(instruments) > maxCustomInstruments(vanillaCount) {
		return invalidf("%d custom instruments after %d built-in ones do not fit 8-bit instrument ids", len(instruments), vanillaCount)
	}
	if err := w.writeUint8(uint8(len(instruments))); err != nil {
		return err
	}
	for _, ci := range instruments {
		if err := w.writeString(ci.Name); err != nil {
			return err
		}
		if err := w.writeString(ci.FileName); err != nil {
			return err
		}
		if err := w.writeUint8(ci.Pitch); err != nil {
			return err
		}
		if err := w.writeBool(ci.PressKey); err != nil {
			return err
		}
	}
	return nil
}

func customInstrumentsSize(instruments []CustomInstrument) int {
	n := 1
	for _, ci := range instruments {
		n += stringSize(ci.Name) + stringSize(ci.FileName) + 2
	}
	return n
}
