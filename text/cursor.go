package text

import "math"

// DefaultVerticalThreshold is the vertical move, in text space units, above
// which a cursor move starts a new line.
const DefaultVerticalThreshold = 5.0

// Point is a text-line origin.
type Point struct {
	X, Y float64
}

// Adjust returns the whitespace implied by moving the cursor from old to cur.
// It uses DefaultVerticalThreshold.
func Adjust(old, cur Point, textRise, spaceWidth float64) string {
	return adjust(old, cur, textRise, spaceWidth, DefaultVerticalThreshold)
}

func adjust(old, cur Point, textRise, spaceWidth, threshold float64) string {
	// Page start: nothing to compare against.
	if old.X == 0 && old.Y == 0 {
		return ""
	}

	var out string
	if old.X != 0 && spaceWidth > 0 && math.Abs(old.X-cur.X) >= spaceWidth {
		out += " "
	}
	if old.Y != 0 && textRise == 0 && math.Abs(old.Y-cur.Y) > threshold {
		out += "\n"
	}
	return out
}

// cursor is the per-extraction text cursor.
type cursor struct {
	pos        Point
	old        Point
	textRise   float64
	spaceWidth float64
}

// moveTo records the previous origin, sets the new one and returns the
// synthesized whitespace.
func (c *cursor) moveTo(x, y, threshold float64) string {
	c.old = c.pos
	c.pos = Point{X: x, Y: y}
	return adjust(c.old, c.pos, c.textRise, c.spaceWidth, threshold)
}
