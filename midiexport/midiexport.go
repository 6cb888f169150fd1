// Package midiexport converts note block songs into Standard MIDI Files.
//
// Note blocks have no length, so every note lasts one song tick. One song
// tick is a sixteenth note.
package midiexport

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/QEStudios/nbstool/nbs"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// Resolution is the number of MIDI ticks per quarter note of the exported file.
	Resolution = 96
	// TicksPerStep is the number of MIDI ticks one song tick lasts.
	TicksPerStep = Resolution / 4

	drumChannel = 9
)

// voice is how a built-in sound is played in General MIDI.
type voice struct {
	channel uint8
	program uint8 // Ignored on the drum channel.
	octave  int   // Octave shift from the note block key.
	drumKey uint8 // Fixed key on the drum channel.
}

// voices is indexed by nbs.Sound.
var voices = [...]voice{
	nbs.Piano:         {channel: 0, program: 0},
	nbs.DoubleBass:    {channel: 1, program: 32, octave: -2},
	nbs.BassDrum:      {channel: drumChannel, drumKey: 36},
	nbs.SnareDrum:     {channel: drumChannel, drumKey: 38},
	nbs.Click:         {channel: drumChannel, drumKey: 42},
	nbs.Guitar:        {channel: 2, program: 24, octave: -1},
	nbs.Flute:         {channel: 3, program: 73, octave: 1},
	nbs.Bell:          {channel: 4, program: 14, octave: 2},
	nbs.Chime:         {channel: 5, program: 112, octave: 2},
	nbs.Xylophone:     {channel: 6, program: 13, octave: 2},
	nbs.IronXylophone: {channel: 7, program: 11},
	nbs.CowBell:       {channel: 8, program: 113, octave: 1},
	nbs.Didgeridoo:    {channel: 10, program: 109, octave: -2},
	nbs.Bit:           {channel: 11, program: 80},
	nbs.Banjo:         {channel: 12, program: 105},
	nbs.Pling:         {channel: 13, program: 4},
}

// voiceFor returns the voice of an instrument. Custom instruments play on the piano voice.
func voiceFor(i nbs.Instrument) voice {
	if s, ok := i.Sound(); ok && int(s) < len(voices) {
		return voices[s]
	}
	return voices[nbs.Piano]
}

// midiKey converts a note block key (0 is A0) to a MIDI key number.
func midiKey(key uint8, v voice) uint8 {
	if v.channel == drumChannel {
		return v.drumKey
	}
	k := int(key) + 21 + 12*v.octave
	return uint8(min(max(k, 0), 127))
}

// velocity combines note velocity and layer volume, both percentages, into a MIDI velocity.
func velocity(n nbs.Note, l *nbs.Layer) uint8 {
	noteVelocity, layerVolume := 100.0, 100.0
	if n.Velocity != nil {
		noteVelocity = float64(*n.Velocity)
	}
	if l.Volume != nil {
		layerVolume = float64(*l.Volume)
	}
	v := math.Round(noteVelocity / 100 * layerVolume / 100 * 127)
	return uint8(min(max(v, 0), 127))
}

// BPM returns the quarter-note tempo of a song tempo in ticks per second ×100.
func BPM(tempo int16) float64 {
	return float64(tempo) / 100 * 60 / 4
}

type event struct {
	time  uint32
	off   bool // Note-offs sort before note-ons at the same time.
	layer int
	msg   []byte
}

// Convert builds a single-track MIDI file from song.
func Convert(song *nbs.Song) (*smf.SMF, error) {
	if song.Header.Tempo <= 0 {
		return nil, fmt.Errorf("cannot export song with tempo %d", song.Header.Tempo)
	}

	var track smf.Track
	if song.Header.Name != "" {
		track.Add(0, smf.MetaTrackSequenceName(song.Header.Name))
	}
	if song.Header.Author != "" {
		track.Add(0, smf.MetaCopyright(song.Header.Author))
	}
	track.Add(0, smf.MetaTempo(BPM(song.Header.Tempo)))
	if song.Header.TimeSignature > 0 {
		track.Add(0, smf.MetaMeter(song.Header.TimeSignature, 4))
	}

	var events []event
	programs := make(map[uint8]uint8)
	for layerIndex, l := range song.Grid.Layers {
		for tick, n := range l.Notes {
			if tick < 0 {
				continue
			}
			vel := velocity(n, l)
			if vel == 0 {
				continue
			}
			v := voiceFor(n.Instrument)
			if v.channel != drumChannel {
				programs[v.channel] = v.program
			}
			key := midiKey(n.Key, v)
			start := uint32(tick) * TicksPerStep
			events = append(events,
				event{time: start, layer: layerIndex, msg: gomidi.NoteOn(v.channel, key, vel)},
				event{time: start + TicksPerStep, off: true, layer: layerIndex, msg: gomidi.NoteOff(v.channel, key)},
			)
		}
	}

	channels := make([]int, 0, len(programs))
	for ch := range programs {
		channels = append(channels, int(ch))
	}
	sort.Ints(channels)
	for _, ch := range channels {
		track.Add(0, gomidi.ProgramChange(uint8(ch), programs[uint8(ch)]))
	}

	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.time != b.time {
			return a.time < b.time
		}
		if a.off != b.off {
			return a.off
		}
		return a.layer < b.layer
	})

	var now uint32
	for _, e := range events {
		track.Add(e.time-now, e.msg)
		now = e.time
	}
	track.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("error adding track: %w", err)
	}
	return s, nil
}

// Write converts song and writes it to w as a Standard MIDI File.
func Write(w io.Writer, song *nbs.Song) error {
	s, err := Convert(song)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}
