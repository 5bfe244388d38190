package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType classifies a parsed toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0 in XY
	MoveFeed                    // G1 cutting in XY
	MovePlunge                  // G1 with Z going down only
	MoveRetract                 // Z going up only
)

// Move is a single G0/G1 movement in absolute coordinates.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// Length returns the straight-line distance travelled by the move.
func (m Move) Length() float64 {
	return math.Sqrt((m.ToX-m.FromX)*(m.ToX-m.FromX) +
		(m.ToY-m.FromY)*(m.ToY-m.FromY) +
		(m.ToZ-m.FromZ)*(m.ToZ-m.FromZ))
}

var wordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// Parse reads G0/G1 moves from a program. Other commands and comments
// (";" to end of line or parenthesized) are ignored.
func Parse(code string) []Move {
	var moves []Move
	var x, y, z, feed float64

	for _, line := range strings.Split(code, "\n") {
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		if i := strings.Index(line, "("); i >= 0 {
			if j := strings.Index(line, ")"); j > i {
				line = line[:i] + line[j+1:]
			}
		}
		fields := strings.Fields(strings.ToUpper(line))
		if len(fields) == 0 {
			continue
		}

		var rapid bool
		switch fields[0] {
		case "G0", "G00":
			rapid = true
		case "G1", "G01":
		default:
			continue
		}

		nx, ny, nz, nf := x, y, z, feed
		for _, m := range wordRe.FindAllStringSubmatch(strings.Join(fields[1:], " "), -1) {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				nx = v
			case "Y":
				ny = v
			case "Z":
				nz = v
			case "F":
				nf = v
			}
		}

		moves = append(moves, Move{
			Type:  classify(rapid, x, y, z, nx, ny, nz),
			FromX: x, FromY: y, FromZ: z,
			ToX: nx, ToY: ny, ToZ: nz,
			FeedRate: nf,
		})
		x, y, z, feed = nx, ny, nz, nf
	}
	return moves
}

func classify(rapid bool, fx, fy, fz, tx, ty, tz float64) MoveType {
	dz := tz - fz
	xy := fx != tx || fy != ty
	switch {
	case dz > 0.001 && !xy:
		return MoveRetract
	case rapid:
		return MoveRapid
	case dz < -0.001 && !xy:
		return MovePlunge
	default:
		return MoveFeed
	}
}

// Stats summarizes a program.
type Stats struct {
	Moves       int     `json:"moves"`
	Plunges     int     `json:"plunges"`
	CutLength   float64 `json:"cut_length"`   // mm travelled by feed moves
	RapidLength float64 `json:"rapid_length"` // mm travelled by rapid moves
	MinZ        float64 `json:"min_z"`
	MinX        float64 `json:"min_x"`
	MinY        float64 `json:"min_y"`
	MaxX        float64 `json:"max_x"`
	MaxY        float64 `json:"max_y"`
}

// Summarize totals the distances of moves and the XY extent reached while
// cutting (Z below zero).
func Summarize(moves []Move) Stats {
	s := Stats{Moves: len(moves)}
	first := true
	for _, m := range moves {
		switch m.Type {
		case MoveRapid:
			s.RapidLength += m.Length()
		case MoveFeed:
			s.CutLength += m.Length()
		case MovePlunge:
			s.Plunges++
		}
		s.MinZ = math.Min(s.MinZ, m.ToZ)

		if m.ToZ >= 0 || m.Type != MoveFeed {
			continue
		}
		if first {
			s.MinX, s.MaxX = m.ToX, m.ToX
			s.MinY, s.MaxY = m.ToY, m.ToY
			first = false
		}
		s.MinX = math.Min(s.MinX, math.Min(m.FromX, m.ToX))
		s.MaxX = math.Max(s.MaxX, math.Max(m.FromX, m.ToX))
		s.MinY = math.Min(s.MinY, math.Min(m.FromY, m.ToY))
		s.MaxY = math.Max(s.MaxY, math.Max(m.FromY, m.ToY))
	}
	return s
}
