package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"skyline/core"
)

func TestFacadeTexelBands(t *testing.T) {
	tests := []struct {
		v                  float32
		mask, rough, metal float32
	}{
		{0.05, 0, 0.08, 0.9},
		{0.15, 1, 0.735, 0.2},
		{0.95, 1, 0.735, 0.2},
	}
	for _, tt := range tests {
		m, r, mt := FacadeTexel(tt.v)
		if m != tt.mask || mgl32.Abs(r-tt.rough) > 1e-6 || mgl32.Abs(mt-tt.metal) > 1e-6 {
			t.Errorf("FacadeTexel(%v): expected (%v, %v, %v), got (%v, %v, %v)", tt.v, tt.mask, tt.rough, tt.metal, m, r, mt)
		}
	}
}

func TestNewFacadeTexture(t *testing.T) {
	tex := NewFacadeTexture(20)
	if len(tex.Pixels) != 20*20*4 {
		t.Fatalf("expected %d bytes, got %d", 20*20*4, len(tex.Pixels))
	}
	// Two rows per band: rows 0-1 are band 0, rows 2-3 band 1.
	row := func(y int) []byte { return tex.Pixels[y*20*4 : y*20*4+4] }
	if r := row(0); r[0] != 0 || r[2] < 229 || r[2] > 230 {
		t.Errorf("row 0: expected mask 0 metallic ~0.9, got %v", r)
	}
	if r := row(2); r[0] != 255 || r[1] != 187 {
		t.Errorf("row 2: expected mask 255 roughness 187, got %v", r)
	}
}

func TestBuildingBoxBounds(t *testing.T) {
	m := CreateBuildingBox()
	if m.Indexed() {
		t.Errorf("building box should be drawn without indices")
	}
	if len(m.Vertices) != 36 {
		t.Fatalf("expected 36 vertices, got %d", len(m.Vertices))
	}
	want := AABB{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{1, 2, 1}}
	if m.LocalAABB != want {
		t.Errorf("expected bounds %v, got %v", want, m.LocalAABB)
	}
	for i := 0; i < len(m.Vertices); i += 3 {
		a, b, c := m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		if n.Dot(a.Normal) <= 0 {
			t.Errorf("triangle %d winds against its normal %v", i/3, a.Normal)
		}
	}
}

func TestCreateSphere(t *testing.T) {
	m := CreateSphere(1, 16, 8)
	if len(m.Vertices) != 17*9 {
		t.Errorf("expected %d vertices, got %d", 17*9, len(m.Vertices))
	}
	if len(m.Indices) != 16*8*6 {
		t.Errorf("expected %d indices, got %d", 16*8*6, len(m.Indices))
	}
	for _, v := range m.Vertices {
		if mgl32.Abs(v.Position.Len()-1) > 1e-5 {
			t.Fatalf("vertex %v is off the unit sphere", v.Position)
		}
	}
}

func TestNormalizeToUnitSphere(t *testing.T) {
	m := CreateMeshFromData("box", []core.Vertex{
		{Position: mgl32.Vec3{10, 10, 10}},
		{Position: mgl32.Vec3{14, 12, 10}},
		{Position: mgl32.Vec3{10, 14, 14}},
	}, nil)
	normalizeToUnitSphere(m)
	if c := m.LocalAABB.Center(); c.Len() > 1e-5 {
		t.Errorf("expected centred mesh, got centre %v", c)
	}
	if r := m.LocalAABB.Radius(); mgl32.Abs(r-1) > 1e-5 {
		t.Errorf("expected radius 1, got %v", r)
	}
}

func TestOrbitCameraAdvance(t *testing.T) {
	c := NewOrbitCamera(mgl32.Vec3{}, 10, 45, 16.0/9.0)
	start := c.Position
	if d := start.Len(); mgl32.Abs(d-10) > 1e-4 {
		t.Fatalf("expected distance 10, got %v", d)
	}
	c.Advance(1)
	if c.Position == start {
		t.Errorf("camera did not move")
	}
	if d := c.Position.Len(); mgl32.Abs(d-10) > 1e-4 {
		t.Errorf("orbit changed distance to %v", d)
	}
	c.Advance(float32(4 * math.Pi / float64(c.Speed)))
	if c.Yaw < 0 || c.Yaw >= 2*math.Pi {
		t.Errorf("yaw %v not wrapped", c.Yaw)
	}
}
