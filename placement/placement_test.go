package placement

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRadialDensityClamp(t *testing.T) {
	d := RadialDensity{Begin: 8, End: 45, Min: 0.05, Max: 0.15}
	if got := d.Density(0); got != 0.15 {
		t.Errorf("Density(0): expected 0.15, got %v", got)
	}
	if got := d.Density(100); got != 0.05 {
		t.Errorf("Density(100): expected 0.05, got %v", got)
	}
	prev := d.Density(0)
	for dist := 0.0; dist < 60; dist += 0.5 {
		v := d.Density(dist)
		if v < 0.05 || v > 0.15 {
			t.Fatalf("Density(%v) = %v outside [0.05, 0.15]", dist, v)
		}
		if v > prev {
			t.Fatalf("Density increased at %v: %v > %v", dist, v, prev)
		}
		prev = v
	}
}

func TestIntervalHalfOpen(t *testing.T) {
	iv := Interval{Begin: 3, End: 6}
	for col, want := range map[int]bool{2: false, 3: true, 5: true, 6: false} {
		if got := iv.Contains(col); got != want {
			t.Errorf("Contains(%d): expected %v, got %v", col, want, got)
		}
	}
}

func TestRiverFromPairs(t *testing.T) {
	m := RiverFromPairs(map[int][2]int{1: {10, 12}, 2: {5, 4}})
	iv, ok := m[0]
	if !ok || iv.Begin != 9 || iv.End != 12 {
		t.Fatalf("row 0: expected [9, 12), got %+v (present %v)", iv, ok)
	}
	if _, ok := m[1]; ok {
		t.Errorf("empty pair should not produce an interval")
	}
}

func gridParams() Params {
	p := DefaultParams()
	p.CellCount = 10
	p.Padding = 0
	return p
}

func TestFullDensityFillsGrid(t *testing.T) {
	p := gridParams()
	got, err := Generate(p, ConstantDensity(1), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("expected 100 instances, got %d", len(got))
	}
	for i, inst := range got {
		if inst.Transform.Det() == 0 {
			t.Errorf("instance %d has a singular transform", i)
		}
		if inst.Row != i/10 || inst.Col != i%10 {
			t.Errorf("instance %d: expected cell (%d,%d), got (%d,%d)", i, i/10, i%10, inst.Row, inst.Col)
		}
	}
}

func TestExclusionRespected(t *testing.T) {
	p := gridParams()
	mask := ExclusionMask{4: {Begin: 2, End: 7}}
	got, err := Generate(p, ConstantDensity(1), mask)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 95 {
		t.Fatalf("expected 95 instances, got %d", len(got))
	}
	for _, inst := range got {
		if inst.Row == 4 && inst.Col >= 2 && inst.Col < 7 {
			t.Errorf("cell (%d,%d) should be excluded", inst.Row, inst.Col)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := DefaultParams()
	a, err := Generate(p, nil, DefaultRiver(p.CellCount, 6))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, _ := Generate(p, nil, DefaultRiver(p.CellCount, 6))
	if len(a) != len(b) {
		t.Fatalf("expected equal counts, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Transform != b[i].Transform {
			t.Fatalf("instance %d differs between runs", i)
		}
	}

	p.Seed++
	c, _ := Generate(p, nil, DefaultRiver(p.CellCount, 6))
	same := len(a) == len(c)
	for i := 0; same && i < len(a); i++ {
		same = a[i].Transform == c[i].Transform
	}
	if same {
		t.Errorf("changing the seed should change the layout")
	}
}

func TestScaleRanges(t *testing.T) {
	p := gridParams()
	got, _ := Generate(p, ConstantDensity(1), nil)
	for _, inst := range got {
		s := inst.Scale
		if s.X() < p.FootprintX.Min || s.X() > p.FootprintX.Max {
			t.Errorf("footprint x %v outside range", s.X())
		}
		if s.Z() < p.FootprintZ.Min || s.Z() > p.FootprintZ.Max {
			t.Errorf("footprint z %v outside range", s.Z())
		}
		if s.Y() < p.Height.Min || s.Y() > p.Height.Max+1e-4 {
			t.Errorf("height %v outside range", s.Y())
		}
		if inst.Yaw < 0 || inst.Yaw > p.MaxYaw {
			t.Errorf("yaw %v outside [0, %v]", inst.Yaw, p.MaxYaw)
		}
	}
}

func TestTruncatedParetoBounds(t *testing.T) {
	if got := truncatedPareto(0, 0.5, 8, 2); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("u=0: expected 0.5, got %v", got)
	}
	if got := truncatedPareto(1, 0.5, 8, 2); math.Abs(got-8) > 1e-9 {
		t.Errorf("u=1: expected 8, got %v", got)
	}
	if got := truncatedPareto(0.5, 2, 2, 2); got != 2 {
		t.Errorf("degenerate range: expected 2, got %v", got)
	}
}

func TestTransformCentresCell(t *testing.T) {
	p := gridParams()
	got, _ := Generate(p, ConstantDensity(1), nil)
	first := got[0]
	origin := first.Transform.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	want := mgl32.Vec3{-p.HalfWidth() + p.CellSize/2, 0, -p.HalfWidth() + p.CellSize/2}
	if !origin.Vec3().ApproxEqual(want) {
		t.Errorf("cell (0,0) origin: expected %v, got %v", want, origin.Vec3())
	}
}

func TestPackLayout(t *testing.T) {
	p := gridParams()
	got, _ := Generate(p, ConstantDensity(1), nil)
	packed := Pack(got)
	if len(packed) != FloatsPerInstance*len(got) {
		t.Fatalf("expected %d floats, got %d", FloatsPerInstance*len(got), len(packed))
	}
	// Column-major: translation lives in elements 12..14.
	if packed[12] != got[0].Transform[12] || packed[16+14] != got[1].Transform[14] {
		t.Errorf("packed matrices are not column-major copies")
	}
	if len(Pack(nil)) != 0 {
		t.Errorf("expected empty pack for no instances")
	}
}

func TestValidate(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params should validate: %v", err)
	}
	p.BeginDist, p.EndDist = 10, 10
	if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
	if _, err := Generate(p, nil, nil); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Generate: expected ErrInvalidParams, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	p := gridParams()
	got, _ := Generate(p, ConstantDensity(1), nil)
	st := Summarize(p, got)
	if st.Count != 100 || st.Cells != 100 {
		t.Errorf("expected 100/100, got %d/%d", st.Count, st.Cells)
	}
	if st.MinHeight > st.MeanHeight || st.MeanHeight > st.MaxHeight {
		t.Errorf("height stats out of order: %+v", st)
	}
}
