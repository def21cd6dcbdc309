package domain

type DiffOp int

const (
	DiffDelete DiffOp = -1
	DiffEqual  DiffOp = 0
	DiffInsert DiffOp = 1
)

func (op DiffOp) String() string {
	switch op {
	case DiffDelete:
		return "delete"
	case DiffInsert:
		return "insert"
	case DiffEqual:
		return "equal"
	}
	return "unknown"
}

// DiffSegment mirrors the diff-match-patch shape the sync API emits.
type DiffSegment struct {
	Type DiffOp `json:"Type" validate:"oneof=-1 0 1"`
	Text string `json:"Text"`
}

// LineGroup is one rendered line of a diff. Number is "-" for lines made
// only of deleted text.
type LineGroup struct {
	Number   string        `json:"number"`
	Segments []DiffSegment `json:"segments"`
}

func (g LineGroup) Text() string {
	var n int
	for _, s := range g.Segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range g.Segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

func (g LineGroup) AllOf(op DiffOp) bool {
	for _, s := range g.Segments {
		if s.Type != op {
			return false
		}
	}
	return true
}
