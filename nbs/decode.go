package nbs

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
)

// Warning is a non-fatal problem found while decoding.
type Warning struct {
	Offset  int64 // Byte offset in the stream where decoding was when the problem was found.
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("offset %d: %s", w.Offset, w.Message)
}

// Decoder reads one song from a byte stream.
type Decoder struct {
	r      *reader
	logger *log.Logger

	// Collect any warnings whilst decoding.
	warnings []Warning

	// Decoding can only be done once per Decoder.
	used bool
}

// NewDecoder creates a decoder reading from r. A nil logger logs to log.Default().
func NewDecoder(r io.Reader, logger *log.Logger) *Decoder {
	if logger == nil {
		logger = log.Default()
	}
	return &Decoder{
		r:      newReader(r),
		logger: logger,
	}
}

// Decode reads a whole song from r.
func Decode(r io.Reader) (*Song, error) {
	return NewDecoder(r, nil).Decode()
}

// DecodeFile decodes the song file found at path.
func DecodeFile(path string) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Song) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// Warnings returns the warnings collected by Decode.
func (d *Decoder) Warnings() []Warning {
	return d.warnings
}

func (d *Decoder) addWarning(format string, args ...any) {
	d.warnings = append(d.warnings, Warning{
		Offset:  d.r.offset,
		Message: fmt.Sprintf(format, args...),
	})
}

// Decode reads the header, note grid, layer table and custom instrument table in order.
// The first failure abandons the whole song.
func (d *Decoder) Decode() (*Song, error) {
	if d.used {
		return nil, fmt.Errorf("decoder already used")
	}
	d.used = true

	header, err := decodeHeader(d.r)
	if err != nil {
		return nil, stage(err, "decode header")
	}
	if header.Format.Version() > LatestVersion {
		d.addWarning("unknown format version %d, decoding it like version %d", header.Format.Version(), LatestVersion)
	}

	vanillaCount, err := header.VanillaInstruments()
	if err != nil {
		return nil, stage(err, "decode header")
	}

	grid, err := decodeGrid(d.r, header.LayerCount, header.Format, vanillaCount)
	if err != nil {
		return nil, stage(err, "decode note grid")
	}
	if err := decodeLayerTable(d.r, grid, header.Format); err != nil {
		return nil, stage(err, "decode layer table")
	}

	instruments, err := decodeCustomInstruments(d.r, vanillaCount)
	if err != nil {
		return nil, stage(err, "decode custom instruments")
	}

	song := FromParts(header, grid, instruments)
	d.checkInstruments(song)

	if len(d.warnings) > 0 {
		d.logger.Println("Warnings produced while decoding song:")
		for _, warning := range d.warnings {
			d.logger.Println(warning)
		}
	}
	return song, nil
}

// checkInstruments warns about notes playing custom instruments missing from the table.
func (d *Decoder) checkInstruments(song *Song) {
	for layerIndex, l := range song.Grid.Layers {
		ticks := make([]int, 0, len(l.Notes))
		for tick := range l.Notes {
			ticks = append(ticks, int(tick))
		}
		sort.Ints(ticks)

		for _, tick := range ticks {
			inst := l.Notes[int16(tick)].Instrument
			if !inst.Custom {
				continue
			}
			if _, ok := song.CustomInstrument(inst); !ok {
				d.addWarning("note at tick %d on layer %d plays custom instrument %d, which is not in the instrument table", tick, layerIndex, inst.ID)
			}
		}
	}
}
