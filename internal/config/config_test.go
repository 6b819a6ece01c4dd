package config

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gridcaster/engine"
	"gridcaster/level"
)

func load(t *testing.T, args ...string) (*Settings, error) {
	t.Helper()
	return Load(NewFlagSet("test"), args)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := load(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := engine.DefaultConfig()
	got := s.Engine
	if math.Abs(got.FOV-want.FOV) > 1e-12 {
		t.Errorf("FOV = %v, want %v", got.FOV, want.FOV)
	}
	got.FOV = want.FOV
	if got != want {
		t.Errorf("Engine = %+v, want %+v", got, want)
	}

	if s.Level.String() != level.Default().String() {
		t.Errorf("level =\n%s\nwant the default map", s.Level)
	}
	if s.Start.X != 200 || s.Start.Y != 200 || s.Start.Dir != 0 {
		t.Errorf("Start = %+v, want (200,200,0)", s.Start)
	}
	if s.Window != (engine.Window{Width: 1024, Height: 512}) {
		t.Errorf("Window = %+v", s.Window)
	}
	if s.Log.Level != "info" || s.Log.Format != "text" {
		t.Errorf("Log = %+v", s.Log)
	}
}

func TestLoadFlags(t *testing.T) {
	s, err := load(t, "--rays=120", "--render-width=120", "--fov=90", "--x=100", "--dir=180")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Engine.Rays != 120 || s.Engine.RenderWidth != 120 {
		t.Errorf("rays/width = %d/%d, want 120/120", s.Engine.Rays, s.Engine.RenderWidth)
	}
	if s.Engine.FOV != engine.HalfPi {
		t.Errorf("FOV = %v, want pi/2", s.Engine.FOV)
	}
	if s.Start.X != 100 || s.Start.Y != 200 {
		t.Errorf("Start = (%v,%v), want (100,200)", s.Start.X, s.Start.Y)
	}
	if s.Start.Dir != math.Pi {
		t.Errorf("Start.Dir = %v, want pi", s.Start.Dir)
	}
}

func TestLoadAxisDirections(t *testing.T) {
	tests := []struct {
		deg  string
		want float64
	}{
		{"0", 0},
		{"90", engine.HalfPi},
		{"180", math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.deg, func(t *testing.T) {
			s, err := load(t, "--dir="+tt.deg)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if s.Start.Dir != tt.want {
				t.Errorf("Start.Dir = %v, want %v", s.Start.Dir, tt.want)
			}
		})
	}

	// 60 degrees is the default field of view
	s, err := load(t, "--fov=60")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if math.Abs(s.Engine.FOV-math.Pi/3) > 1e-15 {
		t.Errorf("FOV = %.17g, want pi/3", s.Engine.FOV)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GRIDCASTER_RENDER_HEIGHT", "80")
	t.Setenv("GRIDCASTER_COLORS_BACKGROUND", "navy")
	t.Setenv("LOG_LEVEL", "debug")

	s, err := load(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Engine.RenderHeight != 80 {
		t.Errorf("RenderHeight = %d, want 80", s.Engine.RenderHeight)
	}
	if s.Engine.Palette.Background != (engine.RGB{0, 0, 128}) {
		t.Errorf("Background = %v, want navy", s.Engine.Palette.Background)
	}
	if s.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", s.Log.Level)
	}

	// flags beat the environment
	s, err = load(t, "--render-height=40")
	if err != nil {
		t.Fatal(err)
	}
	if s.Engine.RenderHeight != 40 {
		t.Errorf("RenderHeight = %d, want the flag value 40", s.Engine.RenderHeight)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "gridcaster.yaml", `
rays: 30
render:
  width: 90
colors:
  horizontal: "#ff0000"
level:
  rows:
    - "#####"
    - "#P..#"
    - "#####"
`)

	s, err := load(t, "--config", path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", s.ConfigFile, path)
	}
	if s.Engine.Rays != 30 || s.Engine.RenderWidth != 90 {
		t.Errorf("rays/width = %d/%d, want 30/90", s.Engine.Rays, s.Engine.RenderWidth)
	}
	if s.Engine.Palette.Horizontal != (engine.RGB{255, 0, 0}) {
		t.Errorf("Horizontal = %v", s.Engine.Palette.Horizontal)
	}
	if s.Level.Width() != 5 || s.Level.Height() != 3 {
		t.Errorf("level is %dx%d, want 5x3", s.Level.Width(), s.Level.Height())
	}
	// spawn cell (1,1) centered: 64 + 32 - 4
	if s.Start.X != 92 || s.Start.Y != 92 {
		t.Errorf("Start = (%v,%v), want the spawn cell (92,92)", s.Start.X, s.Start.Y)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"No rays", []string{"--rays=0"}, engine.ErrInvalidConfig},
		{"Wide fov", []string{"--fov=200"}, engine.ErrInvalidConfig},
		{"Missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}, nil},
		{"Missing level", []string{"--level", filepath.Join(t.TempDir(), "nope.txt")}, nil},
		{"Unknown flag", []string{"--bogus"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.args...)
			if err == nil {
				t.Fatal("Load succeeded")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestLoadLevelText(t *testing.T) {
	path := writeFile(t, "map.txt", "####\r\n#..#\n\n####\n")

	l, err := LoadLevel(path)
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if got, want := l.String(), "####\n#..#\n####\n"; got != want {
		t.Errorf("level =\n%s\nwant\n%s", got, want)
	}
}

func TestLoadLevelPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.Black)
	img.Set(1, 0, color.White)
	img.Set(0, 1, color.White)
	img.Set(1, 1, color.Black)

	path := filepath.Join(t.TempDir(), "map.PNG")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	l, err := LoadLevel(path)
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if got, want := l.String(), "#.\n.#\n"; got != want {
		t.Errorf("level =\n%s\nwant\n%s", got, want)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    engine.RGB
		wantErr bool
	}{
		{"#1e1e3c", engine.RGB{30, 30, 60}, false},
		{"#FFFFFF", engine.RGB{255, 255, 255}, false},
		{" slategray ", engine.RGB{112, 128, 144}, false},
		{"Navy", engine.RGB{0, 0, 128}, false},
		{"#fff", engine.RGB{}, true},
		{"#zzzzzz", engine.RGB{}, true},
		{"not-a-color", engine.RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
