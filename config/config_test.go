package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings: %v", err)
	}
	s := DefaultScene()
	if err := s.Validate(); err != nil {
		t.Fatalf("default scene: %v", err)
	}
}

func TestSettingsValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"roughness high", func(s *Settings) { s.Roughness = 1.5 }},
		{"roughness negative", func(s *Settings) { s.Roughness = -0.1 }},
		{"metallic high", func(s *Settings) { s.Metallic = 2 }},
		{"hero scale low", func(s *Settings) { s.HeroScale = 0.5 }},
		{"hero scale high", func(s *Settings) { s.HeroScale = 16 }},
		{"fog inverted", func(s *Settings) { s.FogBegin, s.FogEnd = 50, 10 }},
		{"fog equal", func(s *Settings) { s.FogBegin, s.FogEnd = 10, 10 }},
		{"albedo channel", func(s *Settings) { s.HeroAlbedo.G = 1.2 }},
	}
	for _, tt := range tests {
		s := DefaultSettings()
		tt.mutate(&s)
		if err := s.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	body := `{"panorama": "sky.hdr", "settings": {"roughness": 0.4, "hero_scale": 3, "fog_begin": 5, "fog_end": 40}, "river": {"1": [3, 5]}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Panorama != "sky.hdr" {
		t.Errorf("Panorama: expected sky.hdr, got %q", s.Panorama)
	}
	if s.Settings.Roughness != 0.4 || s.Settings.HeroScale != 3 {
		t.Errorf("Settings: got %+v", s.Settings)
	}
	if s.Settings.Metallic != 0.9 {
		t.Errorf("Metallic: expected default 0.9, got %v", s.Settings.Metallic)
	}
	if s.FPS != 60 || s.Placement.CellCount != 60 {
		t.Errorf("expected defaults for fps and placement, got %d and %d", s.FPS, s.Placement.CellCount)
	}
	iv, ok := s.Mask()[0]
	if !ok || iv.Begin != 2 || iv.End != 5 {
		t.Errorf("Mask row 0: expected [2, 5), got %+v", iv)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(`{"settings": {"metallic": 3}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	s := DefaultScene()
	s.Panorama = "city.hdr"
	if err := Save(path, &s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Panorama != "city.hdr" || got.Settings != s.Settings {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
