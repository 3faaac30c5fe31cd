package scrolllock

import (
	"math"
	"strconv"
	"strings"

	"github.com/Iron-Ham/tailpin/internal/errors"
)

type positionKind int

const (
	positionBottom positionKind = iota
	positionTop
	positionOffset
)

// Position is the initial placement applied at construction. The zero value
// is the bottom.
type Position struct {
	kind   positionKind
	offset float64
}

// PositionBottom locks to the bottom at construction.
func PositionBottom() Position { return Position{kind: positionBottom} }

// PositionTop locks to the top at construction.
func PositionTop() Position { return Position{kind: positionTop} }

// PositionAt writes offset at construction and installs no lock.
func PositionAt(offset float64) Position {
	return Position{kind: positionOffset, offset: offset}
}

// ParsePosition parses "top", "bottom", a number, or "" (bottom).
func ParsePosition(s string) (Position, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "bottom":
		return PositionBottom(), nil
	case "top":
		return PositionTop(), nil
	default:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Position{}, errors.NewEngineError("cannot parse position", errors.ErrInvalidPosition).WithPosition(s)
		}
		return PositionAt(n), nil
	}
}

// Offset returns the numeric offset for a numeric position.
func (p Position) Offset() (float64, bool) {
	return p.offset, p.kind == positionOffset
}

// String returns the textual form accepted by ParsePosition.
func (p Position) String() string {
	switch p.kind {
	case positionTop:
		return "top"
	case positionOffset:
		return strconv.FormatFloat(p.offset, 'g', -1, 64)
	default:
		return "bottom"
	}
}
