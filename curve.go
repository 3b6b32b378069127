// curve.go - piecewise Bézier curves (spec.md §3 "Curve", §4.5)
//
// Grounded on original_source/src/Math/Curve.cpp: a sorted list of parts,
// each bounding a cubic Bézier fader between two control points; evaluation
// clamps to the first/last part's endpoints outside the curve's domain.

package amplitude

// CurvePart is one segment of a piecewise curve: a cubic Bézier fader
// mapping normalized x in [start.X, end.X] to [start.Y, end.Y].
type CurvePart struct {
	StartX, StartY float32
	EndX, EndY     float32
	Shape          FaderCurve
}

// Curve is an ordered, non-overlapping sequence of CurveParts.
type Curve struct {
	Parts []CurvePart
}

// NewCurve builds a curve from parts sorted by StartX ascending. The caller
// is responsible for supplying non-overlapping, contiguous parts.
func NewCurve(parts ...CurvePart) *Curve {
	return &Curve{Parts: parts}
}

// Evaluate maps x to y: locate the containing segment (clamped to the first
// or last part's endpoint outside the curve's domain) and apply that
// segment's Bézier fader to the normalized x.
func (c *Curve) Evaluate(x float32) float32 {
	if len(c.Parts) == 0 {
		return 0
	}
	if x <= c.Parts[0].StartX {
		return c.Parts[0].StartY
	}
	last := c.Parts[len(c.Parts)-1]
	if x >= last.EndX {
		return last.EndY
	}
	for _, p := range c.Parts {
		if x >= p.StartX && x <= p.EndX {
			span := p.EndX - p.StartX
			var t float32
			if span > 0 {
				t = (x - p.StartX) / span
			}
			u := evaluateBezierCurve(p.Shape, t)
			return p.StartY + (p.EndY-p.StartY)*u
		}
	}
	return last.EndY
}
