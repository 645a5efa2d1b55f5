package core

import "testing"

func TestColorFromRGB8(t *testing.T) {
	c := ColorFromRGB8(255, 0, 51)
	expected := Color{R: 1, G: 0, B: 0.2, A: 1}
	if c != expected {
		t.Errorf("ColorFromRGB8: expected %v, got %v", expected, c)
	}

	v := c.Vec3()
	if v[0] != 1 || v[1] != 0 || v[2] != 0.2 {
		t.Errorf("Vec3: expected (1, 0, 0.2), got %v", v)
	}
}
