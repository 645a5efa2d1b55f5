package placement

// FloatsPerInstance is the number of float32 values one transform occupies.
const FloatsPerInstance = 16

// Pack concatenates the transforms column-major, one 4x4 matrix per
// instance, ready for upload into an instance vertex buffer.
func Pack(instances []Instance) []float32 {
	out := make([]float32, 0, len(instances)*FloatsPerInstance)
	for _, inst := range instances {
		out = append(out, inst.Transform[:]...)
	}
	return out
}


// Stats summarises a placement run.
type Stats struct {
	Count                int
	Cells                int
	MinHeight, MaxHeight float32
	MeanHeight           float32
}

// Summarize reports the instance count and the height distribution.
func Summarize(p Params, instances []Instance) Stats {
	side := p.CellCount + 2*p.Padding
	st := Stats{Count: len(instances), Cells: side * side}
	if len(instances) == 0 {
		return st
	}
	st.MinHeight = instances[0].Scale.Y()
	st.MaxHeight = st.MinHeight
	var sum float32
	for _, inst := range instances {
		h := inst.Scale.Y()
		st.MinHeight = min(st.MinHeight, h)
		st.MaxHeight = max(st.MaxHeight, h)
		sum += h
	}
	st.MeanHeight = sum / float32(len(instances))
	return st
}
