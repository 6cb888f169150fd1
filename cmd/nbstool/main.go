package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/QEStudios/nbstool/midiexport"
	"github.com/QEStudios/nbstool/nbs"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "", log.Ldate|log.Ltime)

	// Get the current working directory.
	cwd, err := os.Getwd()
	if err != nil {
		logger.Fatalf("failed to get current working directory: %v", err)
	}

	var (
		update     bool
		outputPath string
		midiPath   string
		asYAML     bool
		dump       bool
	)
	pflag.BoolVarP(&update, "update", "u", false, "recompute song length and layer count before writing")
	pflag.StringVarP(&outputPath, "output", "o", "", "re-encode the song to this .nbs file")
	pflag.StringVarP(&midiPath, "midi", "m", "", "export the song to this .mid file")
	pflag.BoolVar(&asYAML, "yaml", false, "print a YAML summary instead of the song listing")
	pflag.BoolVar(&dump, "dump", false, "dump the decoded song structure")
	pflag.Parse()

	// Get the path of the song file.
	path, err := choosePath(cwd, pflag.Args())
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Printf("User cancelled the file dialog")
			os.Exit(1)
		}
		logger.Fatalf("failed to determine file path: %v", err)
	}

	song, err := readSong(path, logger)
	if err != nil {
		logger.Fatalf("decode error: %v", err)
	}

	if update {
		song.Update()
	}

	switch {
	case dump:
		spew.Dump(song)
	case asYAML:
		out, err := summaryYAML(song, path)
		if err != nil {
			logger.Fatalf("summary error: %v", err)
		}
		os.Stdout.Write(out)
	default:
		fmt.Println(song)
	}

	if outputPath != "" {
		if err := song.EncodeFile(outputPath); err != nil {
			logger.Fatalf("encode error: %v", err)
		}
		logger.Printf("Wrote %s", outputPath)
	}

	if midiPath != "" {
		if err := writeMIDI(midiPath, song); err != nil {
			logger.Fatalf("MIDI export error: %v", err)
		}
		logger.Printf("Wrote %s", midiPath)
	}
}

// readSong decodes the song at path, logging any decode warnings to logger.
func readSong(path string, logger *log.Logger) (*nbs.Song, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	return nbs.NewDecoder(bufio.NewReader(file), logger).Decode()
}

func writeMIDI(path string, song *nbs.Song) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := midiexport.Write(f, song); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// songExt is the file extension of Note Block Studio songs.
const songExt = ".nbs"

// choosePath returns the song path given on the command line, or asks for
// one with a file dialog when there is none.
func choosePath(cwd string, args []string) (string, error) {
	if len(args) > 0 {
		path, err := songPath(args[0])
		if err != nil {
			return "", fmt.Errorf("passed argument is not a valid song: %w", err)
		}
		return path, nil
	}

	picked, err := dialog.
		File().
		Title("Open Note Block Studio song").
		Filter("Note Block Studio songs (*"+songExt+")", strings.TrimPrefix(songExt, ".")).
		SetStartDir(cwd).
		Load()
	if err != nil {
		// Caller checks for dialog.ErrCancelled.
		return "", err
	}
	if picked == "" {
		return "", dialog.ErrCancelled
	}
	path, err := songPath(picked)
	if err != nil {
		return "", fmt.Errorf("dialog selection is not a valid song: %w", err)
	}
	return path, nil
}

// songPath makes p absolute and checks that it names an existing song file.
func songPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("cannot get absolute path: %w", err)
	}
	if err := validatePath(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func validatePath(p string) error {
	if !strings.EqualFold(filepath.Ext(p), songExt) {
		return fmt.Errorf("file must have %s extension", songExt)
	}
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	return nil
}
