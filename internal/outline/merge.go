package outline

import "math"

// MergeHeadings joins lines that continue the line before them: same page,
// same font, near-equal size, a small downward gap and aligned left edges.
// Absorption is forward only; the absorbing line takes the y of the line it
// absorbed so a chain of wrapped lines collapses into one.
func MergeHeadings(lines []Line, opts Options) []Line {
	out := make([]Line, 0, len(lines))
	for i := 0; i < len(lines); {
		cur := lines[i]
		j := i + 1
		for ; j < len(lines); j++ {
			if !continues(cur, lines[j], opts) {
				break
			}
			cur.Text += " " + lines[j].Text
			cur.Y = lines[j].Y
		}
		out = append(out, cur)
		i = j
	}
	return out
}

func continues(cur, next Line, opts Options) bool {
	if cur.Page != next.Page || cur.Font != next.Font {
		return false
	}
	if math.Abs(cur.Size-next.Size) >= opts.SizeEpsilon {
		return false
	}
	dy := next.Y - cur.Y
	if dy <= 0 || dy >= opts.GapThreshold {
		return false
	}
	return math.Abs(cur.X-next.X) < opts.AlignThreshold
}
