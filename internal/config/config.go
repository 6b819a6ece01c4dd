// Package config loads gridcaster settings from defaults, an optional config
// file, GRIDCASTER_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/image/colornames"

	"gridcaster/engine"
	"gridcaster/level"
)

const EnvPrefix = "GRIDCASTER"

// start position used when neither the config nor the level names one
const (
	defaultStartX = 200
	defaultStartY = 200
)

type Start struct {
	X, Y float64
	Dir  float64 // radians
}

type Log struct {
	Level  string
	Format string
}

// Settings is everything a frontend needs to build a pipeline and a player.
type Settings struct {
	Engine engine.Config
	Level  *level.Level
	Window engine.Window
	Start  Start
	Log    Log
	VSync  bool

	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string
}

// flag name -> viper key
var flagKeys = map[string]string{
	"config":           "config",
	"level":            "level.file",
	"cell-size":        "cell_size",
	"rays":             "rays",
	"render-width":     "render.width",
	"render-height":    "render.height",
	"fov":              "fov",
	"wall-scale":       "wall_scale",
	"collision-radius": "collision_radius",
	"max-depth":        "max_probe_depth",
	"window-width":     "window.width",
	"window-height":    "window.height",
	"vsync":            "window.vsync",
	"x":                "player.x",
	"y":                "player.y",
	"dir":              "player.dir",
	"log-level":        "log.level",
	"log-format":       "log.format",
}

// NewFlagSet returns a flag set carrying the shared flags. Frontends may add
// their own flags before passing it to Load.
func NewFlagSet(name string) *pflag.FlagSet {
	d := engine.DefaultConfig()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (yaml, toml or json)")
	fs.StringP("level", "l", "", "level file: text rows or a png")
	fs.Float64("cell-size", d.CellSize, "world units per map cell")
	fs.Int("rays", d.Rays, "number of rays cast per frame")
	fs.Int("render-width", d.RenderWidth, "pixel buffer width")
	fs.Int("render-height", d.RenderHeight, "pixel buffer height")
	fs.Float64("fov", 60, "field of view in degrees")
	fs.Float64("wall-scale", d.WallScale, "projected wall height scale")
	fs.Float64("collision-radius", d.CollisionRadius, "offset from player position to ray origin")
	fs.Int("max-depth", d.MaxProbeDepth, "grid lines crossed before a ray gives up")
	fs.Int("window-width", 1024, "window width")
	fs.Int("window-height", 512, "window height")
	fs.Bool("vsync", true, "enable vsync")
	fs.Float64("x", defaultStartX, "player start x")
	fs.Float64("y", defaultStartY, "player start y")
	fs.Float64("dir", 0, "player start direction in degrees")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "text", "log format: text or json")
	return fs
}

func setDefaults(v *viper.Viper) {
	d := engine.DefaultConfig()

	v.SetDefault("cell_size", d.CellSize)
	v.SetDefault("rays", d.Rays)
	v.SetDefault("render.width", d.RenderWidth)
	v.SetDefault("render.height", d.RenderHeight)
	v.SetDefault("fov", 60)
	v.SetDefault("wall_scale", d.WallScale)
	v.SetDefault("collision_radius", d.CollisionRadius)
	v.SetDefault("max_probe_depth", d.MaxProbeDepth)
	v.SetDefault("colors.horizontal", "#787878")
	v.SetDefault("colors.vertical", "#505050")
	v.SetDefault("colors.background", "#1e1e3c")
	v.SetDefault("level.rows", level.DefaultRows)
	v.SetDefault("window.width", 1024)
	v.SetDefault("window.height", 512)
	v.SetDefault("window.vsync", true)
	v.SetDefault("player.dir", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	// player.x and player.y have no default so a level spawn can win
}

// Load parses args into fs and resolves the final settings.
func Load(fs *pflag.FlagSet, args []string) (*Settings, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("log.format", EnvPrefix+"_LOG_FORMAT", "LOG_FORMAT"); err != nil {
		return nil, err
	}

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gridcaster")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Window: engine.Window{
			Width:  v.GetInt("window.width"),
			Height: v.GetInt("window.height"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		VSync:      v.GetBool("window.vsync"),
		ConfigFile: v.ConfigFileUsed(),
	}

	cfg := engine.Config{
		CellSize:        v.GetFloat64("cell_size"),
		Rays:            v.GetInt("rays"),
		RenderWidth:     v.GetInt("render.width"),
		RenderHeight:    v.GetInt("render.height"),
		FOV:             radians(v.GetFloat64("fov")),
		WallScale:       v.GetFloat64("wall_scale"),
		CollisionRadius: v.GetFloat64("collision_radius"),
		MaxProbeDepth:   v.GetInt("max_probe_depth"),
	}

	var err error
	if cfg.Palette.Horizontal, err = ParseColor(v.GetString("colors.horizontal")); err != nil {
		return nil, err
	}
	if cfg.Palette.Vertical, err = ParseColor(v.GetString("colors.vertical")); err != nil {
		return nil, err
	}
	if cfg.Palette.Background, err = ParseColor(v.GetString("colors.background")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s.Engine = cfg

	if path := v.GetString("level.file"); path != "" {
		s.Level, err = LoadLevel(path)
	} else {
		s.Level, err = level.Parse(v.GetStringSlice("level.rows"))
	}
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}

	s.Start = startFor(v, s.Level, cfg)

	return s, nil
}

// radians converts degrees. 90 and 180 come out exactly as engine.HalfPi and
// math.Pi.
func radians(deg float64) float64 {
	return deg / 180 * math.Pi
}

// startFor prefers an explicit position, then the level's spawn cell, then
// the fixed default.
func startFor(v *viper.Viper, lvl *level.Level, cfg engine.Config) Start {
	st := Start{
		X:   defaultStartX,
		Y:   defaultStartY,
		Dir: radians(v.GetFloat64("player.dir")),
	}

	if col, row, ok := lvl.Spawn(); ok {
		// center the player's square in the spawn cell
		st.X = float64(col)*cfg.CellSize + cfg.CellSize/2 - cfg.CollisionRadius
		st.Y = float64(row)*cfg.CellSize + cfg.CellSize/2 - cfg.CollisionRadius
	}
	if v.IsSet("player.x") {
		st.X = v.GetFloat64("player.x")
	}
	if v.IsSet("player.y") {
		st.Y = v.GetFloat64("player.y")
	}

	return st
}

// LoadLevel reads a PNG level or a text file with one row per line.
func LoadLevel(path string) (*level.Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".png") {
		return level.Decode(f)
	}

	var rows []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return level.Parse(rows)
}

// ParseColor accepts "#rrggbb" or an SVG color name such as "slategray".
func ParseColor(s string) (engine.RGB, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		b, err := hex.DecodeString(s[1:])
		if err != nil || len(b) != 3 {
			return engine.RGB{}, fmt.Errorf("color %q: want #rrggbb", s)
		}
		return engine.RGB{b[0], b[1], b[2]}, nil
	}

	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return engine.RGB{}, fmt.Errorf("color %q: unknown name", s)
	}
	return engine.RGB{c.R, c.G, c.B}, nil
}
