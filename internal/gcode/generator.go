package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/StairCut/internal/model"
)

// Settings holds the router parameters used to cut pieces out of a plank.
type Settings struct {
	ToolDiameter  float64 `json:"tool_diameter" koanf:"tool_diameter"` // mm
	FeedRate      float64 `json:"feed_rate" koanf:"feed_rate"`         // mm/min
	PlungeRate    float64 `json:"plunge_rate" koanf:"plunge_rate"`     // mm/min
	SpindleSpeed  int     `json:"spindle_speed" koanf:"spindle_speed"` // rpm
	SafeZ         float64 `json:"safe_z" koanf:"safe_z"`               // mm above the plank
	PassDepth     float64 `json:"pass_depth" koanf:"pass_depth"`       // mm per pass
	TabsPerSide   int     `json:"tabs_per_side" koanf:"tabs_per_side"`
	TabWidth      float64 `json:"tab_width" koanf:"tab_width"`   // mm
	TabHeight     float64 `json:"tab_height" koanf:"tab_height"` // mm left standing on the final pass
	DecimalPlaces int     `json:"decimal_places" koanf:"decimal_places"`
}

func DefaultSettings() Settings {
	return Settings{
		ToolDiameter:  6,
		FeedRate:      1500,
		PlungeRate:    400,
		SpindleSpeed:  18000,
		SafeZ:         5,
		PassDepth:     6,
		TabsPerSide:   1,
		TabWidth:      8,
		TabHeight:     3,
		DecimalPlaces: 3,
	}
}

// Validate reports the first setting that cannot produce a toolpath.
func (s Settings) Validate() error {
	switch {
	case s.ToolDiameter <= 0:
		return fmt.Errorf("tool diameter must be positive")
	case s.FeedRate <= 0 || s.PlungeRate <= 0:
		return fmt.Errorf("feed and plunge rates must be positive")
	case s.PassDepth <= 0:
		return fmt.Errorf("pass depth must be positive")
	case s.SafeZ <= 0:
		return fmt.Errorf("safe Z must be above the plank")
	case s.TabsPerSide < 0 || s.TabWidth < 0 || s.TabHeight < 0:
		return fmt.Errorf("tab settings must not be negative")
	case s.DecimalPlaces < 0:
		return fmt.Errorf("decimal places must not be negative")
	}
	return nil
}

// Generator produces GCode that routes the pieces of plank layouts.
//
// Coordinates put the origin at the lower-left corner of the plank with Y
// pointing away from the operator, so layout Y positions (measured down from
// the top edge) are mirrored. Z zero is the top face of the plank.
type Generator struct {
	Settings Settings
}

func New(settings Settings) *Generator {
	return &Generator{Settings: settings}
}

// GenerateAll produces a single program for every plank of the result,
// treads first. The machine stops between planks so the next one can be
// clamped down.
func (g *Generator) GenerateAll(result model.OptimizationResult) string {
	var b strings.Builder

	b.WriteString(g.comment(fmt.Sprintf("StairCut GCode - %d planks, %d pieces",
		len(result.Layouts()), result.PlacedCount())))
	b.WriteString(g.comment(fmt.Sprintf("Tool: %.1fmm, Feed: %.0f mm/min, Plunge: %.0f mm/min",
		g.Settings.ToolDiameter, g.Settings.FeedRate, g.Settings.PlungeRate)))
	b.WriteString("G21\nG90\nG17\n\n")

	n := 0
	for _, set := range []struct {
		t       model.PieceType
		layouts []model.PlankLayout
	}{
		{model.PieceTread, result.TreadLayouts},
		{model.PieceRiser, result.RiserLayouts},
	} {
		for _, l := range set.layouts {
			n++
			if n > 1 {
				b.WriteString("M5\n")
				b.WriteString(fmt.Sprintf("M0 ; Load plank %d\n", n))
			}
			g.writePlank(&b, l, set.t, n)
		}
	}

	b.WriteString(g.comment("=== Job complete ==="))
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.SafeZ)))
	b.WriteString("M5\nM30\n")
	return b.String()
}

// GeneratePlank produces a standalone program for one plank.
func (g *Generator) GeneratePlank(l model.PlankLayout, t model.PieceType) string {
	var b strings.Builder
	b.WriteString("G21\nG90\nG17\n\n")
	g.writePlank(&b, l, t, 1)
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.SafeZ)))
	b.WriteString("M5\nM30\n")
	return b.String()
}

func (g *Generator) writePlank(b *strings.Builder, l model.PlankLayout, t model.PieceType, n int) {
	spec := l.Spec
	depth := cutDepth(spec, t)

	b.WriteString(g.comment(fmt.Sprintf("--- Plank %d: %s #%d (%.0f x %.0f x %.0f mm), %d pieces ---",
		n, spec.Label(), l.Index+1, spec.Width, spec.Length, depth, len(l.Placements))))
	b.WriteString(fmt.Sprintf("M3 S%d\n", g.Settings.SpindleSpeed))
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("G0 X%s Y%s\n", g.format(0), g.format(0)))

	offset := 0.0
	if t == model.PieceTread && spec.HasNosing {
		offset = spec.EffectiveNosingDepth()
	}
	for _, p := range l.Placements {
		y := spec.Length - offset - p.Y - p.PlacedHeight()
		g.writePiece(b, p, p.X, y, depth)
	}
	b.WriteString("\n")
}

// cutDepth is the plank thickness, falling back to the usual thickness of
// the piece type when the spec does not say.
func cutDepth(spec model.PlankSpec, t model.PieceType) float64 {
	if spec.Thickness > 0 {
		return spec.Thickness
	}
	if t == model.PieceTread {
		return model.DefaultTreadThickness
	}
	return model.DefaultRiserThickness
}

// writePiece cuts the outside of one piece whose lower-left corner sits at
// (x, y), in as many passes as the depth requires. Tabs are left on the
// final pass only.
func (g *Generator) writePiece(b *strings.Builder, p model.PlacedPiece, x, y, depth float64) {
	toolR := g.Settings.ToolDiameter / 2
	x0 := x - toolR
	y0 := y - toolR
	x1 := x + p.PlacedWidth() + toolR
	y1 := y + p.PlacedHeight() + toolR

	rotated := ""
	if p.Rotation != model.Rotation0 {
		rotated = fmt.Sprintf(" [rotated %d]", p.Rotation)
	}
	b.WriteString(g.comment(fmt.Sprintf("%s step %d: %.1f x %.1f%s",
		p.Type, p.StepNumber, p.Width, p.Height, rotated)))

	passes := int(math.Ceil(depth / g.Settings.PassDepth))
	for pass := 1; pass <= passes; pass++ {
		d := math.Min(float64(pass)*g.Settings.PassDepth, depth)
		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, passes, d)))

		b.WriteString(fmt.Sprintf("G0 X%s Y%s\n", g.format(x0), g.format(y0)))
		b.WriteString(fmt.Sprintf("G1 Z%s F%s\n", g.format(-d), g.format(g.Settings.PlungeRate)))

		if pass == passes && g.Settings.TabsPerSide > 0 && g.Settings.TabHeight > 0 {
			g.writePerimeterWithTabs(b, x0, y0, x1, y1, d)
		} else {
			g.writePerimeter(b, x0, y0, x1, y1)
		}

		b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.SafeZ)))
	}
}

func (g *Generator) writePerimeter(b *strings.Builder, x0, y0, x1, y1 float64) {
	b.WriteString(fmt.Sprintf("G1 X%s Y%s F%s\n", g.format(x1), g.format(y0), g.format(g.Settings.FeedRate)))
	b.WriteString(fmt.Sprintf("G1 X%s Y%s\n", g.format(x1), g.format(y1)))
	b.WriteString(fmt.Sprintf("G1 X%s Y%s\n", g.format(x0), g.format(y1)))
	b.WriteString(fmt.Sprintf("G1 X%s Y%s\n", g.format(x0), g.format(y0)))
}

func (g *Generator) writePerimeterWithTabs(b *strings.Builder, x0, y0, x1, y1, depth float64) {
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	tabZ := math.Min(-depth+g.Settings.TabHeight, 0)
	for i := range corners {
		from, to := corners[i], corners[(i+1)%len(corners)]
		g.writeSideWithTabs(b, from, to, depth, tabZ)
	}
}

// writeSideWithTabs cuts from one corner to the next, lifting to tabZ over
// each evenly spaced tab. Tabs wider than the side are skipped.
func (g *Generator) writeSideWithTabs(b *strings.Builder, from, to [2]float64, depth, tabZ float64) {
	dx, dy := to[0]-from[0], to[1]-from[1]
	length := math.Hypot(dx, dy)
	tw := g.Settings.TabWidth
	n := g.Settings.TabsPerSide
	spacing := length / float64(n+1)

	if length < 0.001 || tw >= spacing {
		b.WriteString(fmt.Sprintf("G1 X%s Y%s F%s\n", g.format(to[0]), g.format(to[1]), g.format(g.Settings.FeedRate)))
		return
	}
	ux, uy := dx/length, dy/length
	at := func(d float64) (string, string) {
		return g.format(from[0] + ux*d), g.format(from[1] + uy*d)
	}

	for i := 1; i <= n; i++ {
		center := spacing * float64(i)
		sx, sy := at(center - tw/2)
		ex, ey := at(center + tw/2)
		b.WriteString(fmt.Sprintf("G1 X%s Y%s F%s\n", sx, sy, g.format(g.Settings.FeedRate)))
		b.WriteString(fmt.Sprintf("G1 Z%s ; Tab\n", g.format(tabZ)))
		b.WriteString(fmt.Sprintf("G1 X%s Y%s\n", ex, ey))
		b.WriteString(fmt.Sprintf("G1 Z%s\n", g.format(-depth)))
	}
	b.WriteString(fmt.Sprintf("G1 X%s Y%s F%s\n", g.format(to[0]), g.format(to[1]), g.format(g.Settings.FeedRate)))
}

func (g *Generator) comment(text string) string {
	return "; " + text + "\n"
}

func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.Settings.DecimalPlaces, v)
}
