package diff

import (
	"reflect"
	"testing"

	"notesync-web/internal/domain"
)

func seg(op domain.DiffOp, text string) domain.DiffSegment {
	return domain.DiffSegment{Type: op, Text: text}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   []domain.DiffSegment
		numbers []string
		texts   []string
	}{
		{
			name: "mixed line shares number",
			input: []domain.DiffSegment{
				seg(domain.DiffEqual, "a\nb"),
				seg(domain.DiffInsert, "X"),
				seg(domain.DiffEqual, "\nc"),
			},
			numbers: []string{"1", "2", "3"},
			texts:   []string{"a", "bX", "c"},
		},
		{
			name: "deleted line is not numbered",
			input: []domain.DiffSegment{
				seg(domain.DiffDelete, "old\n"),
				seg(domain.DiffInsert, "new\n"),
			},
			numbers: []string{"-", "1"},
			texts:   []string{"old", "new"},
		},
		{
			name: "empty segments are skipped",
			input: []domain.DiffSegment{
				seg(domain.DiffEqual, ""),
				seg(domain.DiffInsert, "x"),
				seg(domain.DiffDelete, ""),
			},
			numbers: []string{"1"},
			texts:   []string{"x"},
		},
		{
			name: "blank lines follow the op of their line break",
			input: []domain.DiffSegment{
				seg(domain.DiffEqual, "a\n\n"),
				seg(domain.DiffDelete, "\n"),
				seg(domain.DiffEqual, "b"),
			},
			numbers: []string{"1", "2", "-", "3"},
			texts:   []string{"a", "", "", "b"},
		},
		{
			name: "delete and insert on one line",
			input: []domain.DiffSegment{
				seg(domain.DiffEqual, "hello "),
				seg(domain.DiffDelete, "world"),
				seg(domain.DiffInsert, "there"),
				seg(domain.DiffEqual, "\nbye"),
			},
			numbers: []string{"1", "2"},
			texts:   []string{"hello worldthere", "bye"},
		},
		{
			name:    "no input",
			input:   nil,
			numbers: nil,
			texts:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Normalize(tt.input)

			var numbers []string
			for _, l := range lines {
				numbers = append(numbers, l.Number)
			}
			if !reflect.DeepEqual(numbers, tt.numbers) {
				t.Errorf("numbers = %v, want %v", numbers, tt.numbers)
			}

			texts := Reconstruct(lines)
			if len(texts) == 0 {
				texts = nil
			}
			if !reflect.DeepEqual(texts, tt.texts) {
				t.Errorf("texts = %q, want %q", texts, tt.texts)
			}
		})
	}
}

func TestNormalizeKeepsSegmentTypes(t *testing.T) {
	lines := Normalize([]domain.DiffSegment{
		seg(domain.DiffEqual, "a\nb"),
		seg(domain.DiffInsert, "X"),
		seg(domain.DiffEqual, "\nc"),
	})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	want := []domain.DiffSegment{seg(domain.DiffEqual, "b"), seg(domain.DiffInsert, "X")}
	if !reflect.DeepEqual(lines[1].Segments, want) {
		t.Errorf("line 2 segments = %+v, want %+v", lines[1].Segments, want)
	}
}

func TestNormalizeBlankLineSegment(t *testing.T) {
	lines := Normalize([]domain.DiffSegment{
		seg(domain.DiffEqual, "a\n"),
		seg(domain.DiffInsert, "\n"),
		seg(domain.DiffEqual, "b"),
	})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	want := []domain.DiffSegment{{Type: domain.DiffInsert}}
	if !reflect.DeepEqual(lines[1].Segments, want) {
		t.Errorf("blank line segments = %+v, want %+v", lines[1].Segments, want)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	input := []domain.DiffSegment{seg(domain.DiffEqual, "a\nb"), seg(domain.DiffDelete, "c\n")}
	before := append([]domain.DiffSegment(nil), input...)

	first := Normalize(input)
	second := Normalize(input)

	if !reflect.DeepEqual(input, before) {
		t.Error("input was modified")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated calls returned different lines")
	}
}

func TestChangedOnly(t *testing.T) {
	lines := Normalize([]domain.DiffSegment{
		seg(domain.DiffEqual, "keep\n"),
		seg(domain.DiffInsert, "added\n"),
		seg(domain.DiffEqual, "same\n"),
		seg(domain.DiffDelete, "gone\n"),
	})

	changed := ChangedOnly(lines)
	got := Reconstruct(changed)
	want := []string{"added", "gone"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChangedOnly = %q, want %q", got, want)
	}
	if len(lines) != 4 {
		t.Errorf("ChangedOnly modified its input: %d lines", len(lines))
	}
}
