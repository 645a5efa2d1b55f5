package renderer

import (
	"context"
	"errors"
	"testing"
	"time"

	"skyline/config"
)

func TestSettingsSnapshot(t *testing.T) {
	e := &Engine{settings: config.DefaultSettings()}

	s := e.Settings()
	s.Roughness = 0.5
	if e.Settings().Roughness == 0.5 {
		t.Fatalf("mutating a snapshot changed the engine settings")
	}

	if err := e.SetSettings(s); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	if got := e.Settings().Roughness; got != 0.5 {
		t.Errorf("expected roughness 0.5, got %v", got)
	}
}

func TestSetSettingsRejectsInvalid(t *testing.T) {
	e := &Engine{settings: config.DefaultSettings()}

	bad := config.DefaultSettings()
	bad.HeroScale = 0
	if err := e.SetSettings(bad); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := e.Settings().HeroScale; got != config.DefaultSettings().HeroScale {
		t.Errorf("invalid settings were stored: hero scale %v", got)
	}
}

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
	}
	for _, tt := range tests {
		if got := frameInterval(tt.fps); got != tt.want {
			t.Errorf("frameInterval(%d): expected %v, got %v", tt.fps, tt.want, got)
		}
	}
}

func TestEdgeFiresOncePerPress(t *testing.T) {
	var k edge
	held := []bool{false, true, true, true, false, true}
	want := []bool{false, true, false, false, false, true}
	for i, down := range held {
		if got := k.pressed(down); got != want[i] {
			t.Errorf("frame %d: expected %v, got %v", i, want[i], got)
		}
	}
}

func TestRunWithoutScene(t *testing.T) {
	e := &Engine{}
	if err := e.Run(context.Background()); !errors.Is(err, ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
}
