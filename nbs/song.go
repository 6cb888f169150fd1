// Package nbs decodes and encodes Note Block Studio song files, in the
// original legacy layout and versions 1-4 of the extended Open Note Block
// Studio layout.
//
// A Song is built either by Decode, or by hand from New or FromParts. After
// changing the notes or layers of a song, call Update before encoding so the
// header agrees with the grid.
package nbs

import "time"

// A song file: metadata header, note grid and custom instrument table.
type Song struct {
	Header      *Header
	Grid        *Grid
	Instruments []CustomInstrument // Custom instruments, in file order.
}

// New returns an empty song in the given format.
func New(format Format) *Song {
	return &Song{
		Header: NewHeader(format),
		Grid:   NewGrid(),
	}
}

// FromParts assembles a song from separately built components.
func FromParts(header *Header, grid *Grid, instruments []CustomInstrument) *Song {
	return &Song{
		Header:      header,
		Grid:        grid,
		Instruments: instruments,
	}
}

// Format returns the format the song is encoded in.
func (s *Song) Format() Format {
	return s.Header.Format
}

// Update recomputes the header fields derived from the grid: the song length
// (where the format stores one) and the layer count.
//
// A legacy song whose notes all sit at tick 0, or that has no notes, gets a
// length of 0. The legacy layout cannot store that length, so Encode rejects
// such a song with ErrInvalidFormat.
func (s *Song) Update() {
	length := s.Grid.Length()
	switch {
	case !s.Format().IsExtended():
		s.Header.LegacyLength = length
	case s.Format().Version() >= 3:
		s.Header.SongLength = Ptr(length)
	}
	s.Header.LayerCount = int16(len(s.Grid.Layers))
}

// Ticks returns the tick of the last note in the song.
func (s *Song) Ticks() int16 {
	return s.Grid.Length()
}

// Duration returns the play time up to the last note, using the header tempo.
// It is zero when the tempo is not positive.
func (s *Song) Duration() time.Duration {
	if s.Header.Tempo <= 0 {
		return 0
	}
	return ticksToDuration(s.Ticks(), s.Header.Tempo)
}

// CustomInstrument returns the table entry a custom instrument reference points to.
func (s *Song) CustomInstrument(i Instrument) (CustomInstrument, bool) {
	if !i.Custom {
		return CustomInstrument{}, false
	}
	for _, ci := range s.Instruments {
		if ci.ID == i.ID {
			return ci, true
		}
	}
	return CustomInstrument{}, false
}
