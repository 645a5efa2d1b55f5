package placement

import "math"

// Interval is a half-open column range [Begin, End).
type Interval struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

func (iv Interval) Contains(col int) bool {
	return col >= iv.Begin && col < iv.End
}

// ExclusionMask maps a grid row to the column interval skipped on that row.
// Rows without an entry are unobstructed.
type ExclusionMask map[int]Interval

// Excludes reports whether the cell (row, col) falls inside the mask.
func (m ExclusionMask) Excludes(row, col int) bool {
	iv, ok := m[row]
	return ok && iv.Contains(col)
}

// RiverFromPairs converts a table keyed by 1-based row number holding
// 1-based inclusive [first, last] column pairs into a 0-based mask.
func RiverFromPairs(pairs map[int][2]int) ExclusionMask {
	m := make(ExclusionMask, len(pairs))
	for row, p := range pairs {
		if p[1] < p[0] {
			continue
		}
		m[row-1] = Interval{Begin: p[0] - 1, End: p[1]}
	}
	return m
}

// DefaultRiver returns a meandering band roughly width cells wide that
// crosses a cellCount grid from its top edge to its bottom edge.
func DefaultRiver(cellCount, width int) ExclusionMask {
	if cellCount <= 0 || width <= 0 {
		return ExclusionMask{}
	}
	m := make(ExclusionMask, cellCount)
	mid := float64(cellCount) * 0.6
	amp := float64(cellCount) * 0.15
	for row := 0; row < cellCount; row++ {
		t := float64(row) / float64(cellCount)
		centre := mid + amp*math.Sin(t*2*math.Pi*1.25) - float64(cellCount)*0.2*t
		begin := int(math.Round(centre - float64(width)*0.5))
		m[row] = Interval{Begin: begin, End: begin + width}
	}
	return m
}
