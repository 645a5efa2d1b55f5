package placement

// DensityField maps a distance from the grid midpoint, in cells, to the
// probability that a cell at that distance is occupied.
type DensityField interface {
	Density(dist float64) float64
}

// RadialDensity decreases linearly from Max at Begin to Min at End and is
// clamped to [Min, Max] outside that band.
type RadialDensity struct {
	Begin, End float64
	Min, Max   float64
}

func (d RadialDensity) Density(dist float64) float64 {
	v := (d.End - dist) / (d.End - d.Begin)
	return min(max(v, d.Min), d.Max)
}

// ConstantDensity occupies every cell with the same probability.
type ConstantDensity float64

func (d ConstantDensity) Density(float64) float64 {
	return float64(d)
}
