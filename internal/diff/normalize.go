// Package diff turns the segment lists returned by the sync API into
// numbered lines and renders them for the browser and the terminal.
package diff

import (
	"strconv"
	"strings"

	"notesync-web/internal/domain"
)

// Normalize splits segments on line breaks and groups the fragments into
// lines. A line made only of deleted text is numbered "-"; every other
// line takes the next number, starting at 1. Segments from different
// entries share a line until a line break closes it. A blank line keeps a
// single segment with empty Text, typed after the entry whose line break
// produced it.
func Normalize(segments []domain.DiffSegment) []domain.LineGroup {
	var (
		lines   []domain.LineGroup
		current []domain.DiffSegment
		counter int
	)

	closeLine := func(op domain.DiffOp) {
		if len(current) == 0 {
			// blank line: keep the op that produced its line break
			current = append(current, domain.DiffSegment{Type: op})
		}
		number := "-"
		if !onlyDeletes(current) {
			counter++
			number = strconv.Itoa(counter)
		}
		lines = append(lines, domain.LineGroup{Number: number, Segments: current})
		current = nil
	}

	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		parts := strings.Split(seg.Text, "\n")
		for i, part := range parts {
			if part != "" {
				current = append(current, domain.DiffSegment{Type: seg.Type, Text: part})
			}
			if i < len(parts)-1 {
				closeLine(seg.Type)
			}
		}
	}

	if len(current) > 0 {
		closeLine(domain.DiffEqual)
	}

	return lines
}

// Reconstruct concatenates the text of each line.
func Reconstruct(lines []domain.LineGroup) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text()
	}
	return out
}

// ChangedOnly drops lines that contain nothing but unchanged text.
func ChangedOnly(lines []domain.LineGroup) []domain.LineGroup {
	out := make([]domain.LineGroup, 0, len(lines))
	for _, l := range lines {
		if l.AllOf(domain.DiffEqual) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func onlyDeletes(segments []domain.DiffSegment) bool {
	for _, s := range segments {
		if s.Type != domain.DiffDelete {
			return false
		}
	}
	return true
}
