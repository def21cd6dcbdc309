package diff

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"notesync-web/internal/domain"
)

func segmentGenerator() *rapid.Generator[domain.DiffSegment] {
	return rapid.Custom(func(t *rapid.T) domain.DiffSegment {
		op := rapid.SampledFrom([]domain.DiffOp{domain.DiffDelete, domain.DiffEqual, domain.DiffInsert}).Draw(t, "op")
		text := rapid.StringMatching(`[ab<&\n]{0,8}`).Draw(t, "text")
		return domain.DiffSegment{Type: op, Text: text}
	})
}

func expectedLines(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestNormalizeReconstructsText(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segments := rapid.SliceOf(segmentGenerator()).Draw(t, "segments")

		var all strings.Builder
		for _, s := range segments {
			all.WriteString(s.Text)
		}

		got := Reconstruct(Normalize(segments))
		want := expectedLines(all.String())
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("lines = %q, want %q", got, want)
		}
	})
}

func TestNormalizeNumbering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segments := rapid.SliceOf(segmentGenerator()).Draw(t, "segments")

		numbered := 0
		for i, line := range Normalize(segments) {
			if line.AllOf(domain.DiffDelete) {
				if line.Number != "-" {
					t.Fatalf("line %d is delete-only but numbered %q", i, line.Number)
				}
				continue
			}
			numbered++
			if line.Number != strconv.Itoa(numbered) {
				t.Fatalf("line %d numbered %q, want %d", i, line.Number, numbered)
			}
		}
	})
}

func TestRenderHTMLLineCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := Normalize(rapid.SliceOf(segmentGenerator()).Draw(t, "segments"))
		changedOnly := rapid.Bool().Draw(t, "changedOnly")

		out := string(RenderHTML(lines, RenderOptions{Header: "h", ChangedOnly: changedOnly}))
		again := string(RenderHTML(lines, RenderOptions{Header: "h", ChangedOnly: changedOnly}))
		if out != again {
			t.Fatal("rendering is not idempotent")
		}

		want := len(lines)
		if changedOnly {
			want = 0
			for _, l := range lines {
				if !l.AllOf(domain.DiffEqual) {
					want++
				}
			}
		}
		if got := strings.Count(out, `<div class="diff-line`); got != want {
			t.Fatalf("rendered %d lines, want %d", got, want)
		}
		if strings.Count(out, `<div class="diff-header">`) != 1 {
			t.Fatal("header missing or repeated")
		}
	})
}
