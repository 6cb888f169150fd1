package main

import (
	"path/filepath"

	"github.com/QEStudios/nbstool/nbs"
	"gopkg.in/yaml.v2"
)

// summary is the --yaml view of a song.
type summary struct {
	File        string         `yaml:"file"`
	Format      string         `yaml:"format"`
	Name        string         `yaml:"name,omitempty"`
	Author      string         `yaml:"author,omitempty"`
	Tempo       float64        `yaml:"tempo"`
	Ticks       int16          `yaml:"ticks"`
	Seconds     float64        `yaml:"seconds"`
	Notes       int            `yaml:"notes"`
	Layers      []layerSummary `yaml:"layers,omitempty"`
	Instruments []string       `yaml:"customInstruments,omitempty"`
}

type layerSummary struct {
	Name   string `yaml:"name,omitempty"`
	Volume *uint8 `yaml:"volume,omitempty"`
	Stereo *uint8 `yaml:"stereo,omitempty"`
	Locked *bool  `yaml:"locked,omitempty"`
	Notes  int    `yaml:"notes"`
}

func newSummary(song *nbs.Song, path string) summary {
	s := summary{
		File:    filepath.Base(path),
		Format:  song.Format().String(),
		Name:    song.Header.Name,
		Author:  song.Header.Author,
		Tempo:   float64(song.Header.Tempo) / 100,
		Ticks:   song.Ticks(),
		Seconds: song.Duration().Seconds(),
		Notes:   song.Grid.NoteCount(),
	}
	for _, l := range song.Grid.Layers {
		s.Layers = append(s.Layers, layerSummary{
			Name:   l.Name,
			Volume: l.Volume,
			Stereo: l.Stereo,
			Locked: l.Locked,
			Notes:  len(l.Notes),
		})
	}
	for _, ci := range song.Instruments {
		s.Instruments = append(s.Instruments, ci.Name)
	}
	return s
}

func summaryYAML(song *nbs.Song, path string) ([]byte, error) {
	return yaml.Marshal(newSummary(song, path))
}
