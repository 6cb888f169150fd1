package nbs

import (
	"fmt"
	"strconv"
	"strings"
)

// formatTable formats rows into a boxed table under the given headers.
// indent: number of spaces to indent the table
func formatTable(headers []string, rows [][]string, indent int) string {
	// Calculate column widths
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
		for _, row := range rows {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		// Set a minimum width for nicer output
		widths[i] = max(widths[i], 6)
	}

	padRight := func(s string, w int) string {
		if len(s) >= w {
			return s
		}
		return s + strings.Repeat(" ", w-len(s))
	}

	var b strings.Builder
	separator := func() {
		b.WriteString(strings.Repeat(" ", indent))
		for _, w := range widths {
			b.WriteString("+")
			b.WriteString(strings.Repeat("-", w+2)) // +2 for the space padding either side
		}
		b.WriteString("+\n")
	}
	line := func(cells []string) {
		b.WriteString(strings.Repeat(" ", indent))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString("| ")
			b.WriteString(padRight(cell, w))
			b.WriteString(" ")
		}
		b.WriteString("|\n")
	}

	separator()
	line(headers)
	separator()
	for _, row := range rows {
		line(row)
	}
	separator()

	return b.String()
}

// optional formats an optional field, or "-" when it is absent.
func optional[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

// Pretty-print
func (s *Song) String() string {
	h := s.Header
	var b strings.Builder
	b.WriteString("Note Block Studio Song:\n")
	fmt.Fprintf(&b, "- Format: %v\n", h.Format)
	fmt.Fprintf(&b, "- Name: %s\n", h.Name)
	fmt.Fprintf(&b, "- Author: %s\n", h.Author)
	if h.OriginalAuthor != "" {
		fmt.Fprintf(&b, "- Original author: %s\n", h.OriginalAuthor)
	}
	if h.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", h.Description)
	}
	fmt.Fprintf(&b, "- Tempo: %.2f ticks/s\n", float64(h.Tempo)/100)
	fmt.Fprintf(&b, "- Time signature: %d/4\n", h.TimeSignature)
	if h.Loop != nil && *h.Loop {
		fmt.Fprintf(&b, "- Loops from tick %s, %s times (0 = forever)\n", optional(h.LoopStartTick), optional(h.MaxLoopCount))
	}
	if h.ImportedFileName != "" {
		fmt.Fprintf(&b, "- Imported from: %s\n", h.ImportedFileName)
	}
	fmt.Fprintf(&b, "- Length: %d ticks (%v)\n", s.Ticks(), s.Duration())
	fmt.Fprintf(&b, "- Notes: %d\n", s.Grid.NoteCount())

	if len(s.Grid.Layers) > 0 {
		fmt.Fprintf(&b, "- Layers (%d):\n", len(s.Grid.Layers))
		rows := make([][]string, 0, len(s.Grid.Layers))
		for i, l := range s.Grid.Layers {
			rows = append(rows, []string{
				strconv.Itoa(i),
				l.Name,
				optional(l.Volume),
				optional(l.Stereo),
				optional(l.Locked),
				strconv.Itoa(len(l.Notes)),
			})
		}
		b.WriteString(formatTable([]string{"#", "Name", "Volume", "Stereo", "Locked", "Notes"}, rows, 2))
	}

	if len(s.Instruments) > 0 {
		fmt.Fprintf(&b, "- Custom instruments (%d):\n", len(s.Instruments))
		rows := make([][]string, 0, len(s.Instruments))
		for _, ci := range s.Instruments {
			rows = append(rows, []string{
				strconv.Itoa(int(ci.ID)),
				ci.Name,
				ci.FileName,
				strconv.Itoa(int(ci.Pitch)),
				strconv.FormatBool(ci.PressKey),
			})
		}
		b.WriteString(formatTable([]string{"ID", "Name", "File", "Pitch", "Press key"}, rows, 2))
	}

	size := s.EncodedSize()
	fmt.Fprintf(&b, "[Total song size: %d byte", size)
	if size != 1 {
		b.WriteString("s") // Pluralise the word "byte" if needed.
	}
	b.WriteString("]\n")

	return b.String()
}
