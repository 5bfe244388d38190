package gcode

import (
	"math"
	"testing"
)

func TestParse_Empty(t *testing.T) {
	if moves := Parse(""); len(moves) != 0 {
		t.Errorf("expected 0 moves for empty input, got %d", len(moves))
	}
	code := "; a comment\n(parenthetical comment)\n"
	if moves := Parse(code); len(moves) != 0 {
		t.Errorf("expected 0 moves for comments-only input, got %d", len(moves))
	}
}

func TestParse_SkipsNonMovementLines(t *testing.T) {
	code := "G90\nG21\nG17\nM3 S18000\nG0 X0.000 Y0.000\nG0 Z5.000\nM0 ; Load plank 2\n"
	moves := Parse(code)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[1].Type != MoveRetract || moves[1].ToZ != 5 {
		t.Errorf("expected retract to Z=5, got type %d Z=%.3f", moves[1].Type, moves[1].ToZ)
	}
}

func TestParse_StateTracking(t *testing.T) {
	code := `G0 X10.000 Y20.000
G0 Z5.000
G1 Z-6.000 F500.0 ; Plunge
G1 X100.000 Y20.000 F1500.0
G1 X100.000 Y80.000
G0 Z5.000
`
	moves := Parse(code)
	if len(moves) != 6 {
		t.Fatalf("expected 6 moves, got %d", len(moves))
	}

	want := []MoveType{MoveRapid, MoveRetract, MovePlunge, MoveFeed, MoveFeed, MoveRetract}
	for i, m := range moves {
		if m.Type != want[i] {
			t.Errorf("move %d: expected type %d, got %d", i, want[i], m.Type)
		}
	}
	if moves[2].FromX != 10 || moves[2].FromY != 20 || moves[2].FromZ != 5 {
		t.Errorf("plunge: expected from (10,20,5), got (%.3f,%.3f,%.3f)", moves[2].FromX, moves[2].FromY, moves[2].FromZ)
	}
	if moves[4].FromX != 100 || moves[4].FromY != 20 || moves[4].ToY != 80 {
		t.Errorf("move 4: expected (100,20) to (100,80), got (%.3f,%.3f) to (%.3f,%.3f)",
			moves[4].FromX, moves[4].FromY, moves[4].ToX, moves[4].ToY)
	}
	if moves[4].FeedRate != 1500 {
		t.Errorf("expected sticky feed rate 1500, got %.1f", moves[4].FeedRate)
	}
}

func TestParse_NegativeCoordinates(t *testing.T) {
	moves := Parse("g0 x-3.000 y-3.5\n")
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	if moves[0].ToX != -3 || moves[0].ToY != -3.5 {
		t.Errorf("expected to (-3,-3.5), got (%.3f, %.3f)", moves[0].ToX, moves[0].ToY)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		rapid      bool
		fx, fy, fz float64
		tx, ty, tz float64
		want       MoveType
	}{
		{"rapid XY", true, 0, 0, 5, 10, 20, 5, MoveRapid},
		{"rapid retract", true, 10, 20, -6, 10, 20, 5, MoveRetract},
		{"feed XY", false, 0, 0, -6, 100, 0, -6, MoveFeed},
		{"plunge", false, 10, 20, 5, 10, 20, -6, MovePlunge},
		{"tab lift", false, 10, 20, -18, 10, 20, -15, MoveRetract},
		{"feed with slight Z", false, 0, 0, -6, 100, 0, -6.0001, MoveFeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.rapid, tt.fx, tt.fy, tt.fz, tt.tx, tt.ty, tt.tz)
			if got != tt.want {
				t.Errorf("classify() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	code := `G0 Z5.000
G0 X-3.000 Y-3.000
G1 Z-6.000 F400
G1 X103.000 Y-3.000 F1500
G1 X103.000 Y53.000
G1 X-3.000 Y53.000
G1 X-3.000 Y-3.000
G0 Z5.000
`
	s := Summarize(Parse(code))
	if s.Moves != 8 {
		t.Errorf("expected 8 moves, got %d", s.Moves)
	}
	if s.Plunges != 1 {
		t.Errorf("expected 1 plunge, got %d", s.Plunges)
	}
	if math.Abs(s.CutLength-2*(106+56)) > 1e-6 {
		t.Errorf("expected cut length %d, got %.3f", 2*(106+56), s.CutLength)
	}
	if math.Abs(s.RapidLength-math.Sqrt(18)) > 1e-6 {
		t.Errorf("expected rapid length %.3f, got %.3f", math.Sqrt(18), s.RapidLength)
	}
	if s.MinZ != -6 {
		t.Errorf("expected min Z -6, got %.3f", s.MinZ)
	}
	if s.MinX != -3 || s.MaxX != 103 || s.MinY != -3 || s.MaxY != 53 {
		t.Errorf("unexpected extent (%.1f,%.1f)-(%.1f,%.1f)", s.MinX, s.MinY, s.MaxX, s.MaxY)
	}
}
