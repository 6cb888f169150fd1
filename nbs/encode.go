package nbs

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Encode writes the song to w in the song's format.
// Call Update first if the grid has changed since the header was last set;
// a layer count that disagrees with the grid fails with ErrInvalidFormat.
func (s *Song) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := s.encode(newWriter(bw)); err != nil {
		return err
	}
	return bw.Flush()
}

func (s *Song) encode(w *writer) error {
	format := s.Format()
	if int(s.Header.LayerCount) != len(s.Grid.Layers) {
		return stage(invalidf("header has %d layers, grid has %d; call Update first", s.Header.LayerCount, len(s.Grid.Layers)), "encode header")
	}
	if err := s.Header.encode(w, format); err != nil {
		return stage(err, "encode header")
	}
	vanillaCount, err := s.Header.VanillaInstruments()
	if err != nil {
		return stage(err, "encode header")
	}
	if err := s.Grid.encode(w, format); err != nil {
		return stage(err, "encode note grid")
	}
	if err := s.Grid.encodeLayerTable(w, format); err != nil {
		return stage(err, "encode layer table")
	}
	if err := encodeCustomInstruments(w, s.Instruments, vanillaCount); err != nil {
		return stage(err, "encode custom instruments")
	}
	return nil
}

// EncodedSize returns the size in bytes of the encoded song.
func (s *Song) EncodedSize() int {
	format := s.Format()
	return s.Header.size(format) +
		s.Grid.size(format) +
		s.Grid.layerTableSize(format) +
		customInstrumentsSize(s.Instruments)
}

// MarshalBinary implements encoding.BinaryMarshaler. The result is readable by Decode.
func (s *Song) MarshalBinary() ([]byte, error) {
	totalSize := s.EncodedSize()
	buffer := bytes.NewBuffer(make([]byte, 0, totalSize))

	if err := s.encode(newWriter(buffer)); err != nil {
		return nil, err
	}

	// Sanity check to make sure the output is the expected size.
	if buffer.Len() != totalSize {
		return nil, fmt.Errorf("song size mismatch: got %d bytes, expected %d", buffer.Len(), totalSize)
	}
	return buffer.Bytes(), nil
}

// EncodeFile writes the song to a file at path, replacing any existing file.
func (s *Song) EncodeFile(path string) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
