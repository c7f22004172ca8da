// Package config loads, validates and persists the TOML configuration for
// the mockup renderer. Every field has a default, so a partial file only
// overrides what it names.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ekarev/label-mockup/pkg/compose"
	"github.com/ekarev/label-mockup/pkg/errors"
	"github.com/ekarev/label-mockup/pkg/geometry"
	"github.com/ekarev/label-mockup/pkg/palette"
	"github.com/ekarev/label-mockup/pkg/silhouette"
	"github.com/ekarev/label-mockup/pkg/warp"
)

// Config holds the application configuration.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Geometry GeometryConfig `toml:"geometry"`
	Style    StyleConfig    `toml:"style"`
	Warp     WarpConfig     `toml:"warp"`
	Output   OutputConfig   `toml:"output"`
}

// CanvasConfig holds the output raster dimensions.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// GeometryConfig holds the container proportions as fractions of the canvas
// or of the part they are measured against.
type GeometryConfig struct {
	BodyWidthRatio      float64 `toml:"body_width_ratio"`
	BodyHeightRatio     float64 `toml:"body_height_ratio"`
	NeckWidthRatio      float64 `toml:"neck_width_ratio"`
	NeckHeightRatio     float64 `toml:"neck_height_ratio"`
	ShoulderHeightRatio float64 `toml:"shoulder_height_ratio"`
	ShoulderFlareRatio  float64 `toml:"shoulder_flare_ratio"`
	CapHeightRatio      float64 `toml:"cap_height_ratio"`
	CapWidthRatio       float64 `toml:"cap_width_ratio"`
	LabelWidthRatio     float64 `toml:"label_width_ratio"`
	LabelHeightRatio    float64 `toml:"label_height_ratio"`
	LabelTopRatio       float64 `toml:"label_top_ratio"`
}

// StyleConfig holds colours and surface features. Colours accept hex strings
// or CSS named colours; cap_color additionally accepts "auto" to sample the
// dominant label colour. An empty background_image means the flat
// background_color fill. Blur radii are in pixels.
type StyleConfig struct {
	BottleColor     string  `toml:"bottle_color"`
	CapColor        string  `toml:"cap_color"`
	BackgroundColor string  `toml:"background_color"`
	BackgroundImage string  `toml:"background_image"`
	Glass           bool    `toml:"glass"`
	GlassAlpha      int     `toml:"glass_alpha"`
	GripStripes     int     `toml:"grip_stripes"`
	ThreadRidges    int     `toml:"thread_ridges"`
	RefractionGlow  bool    `toml:"refraction_glow"`
	HighlightBlur   float64 `toml:"highlight_blur"`
	ShadowBlur      float64 `toml:"shadow_blur"`
	GlowBlur        float64 `toml:"glow_blur"`
	CapDetailBlur   float64 `toml:"cap_detail_blur"`
	DropShadow      bool    `toml:"drop_shadow"`
	DropShadowBlur  float64 `toml:"drop_shadow_blur"`
}

// WarpConfig holds the label curvature settings.
type WarpConfig struct {
	Strategy      string  `toml:"strategy"`
	Curvature     float64 `toml:"curvature"`
	VerticalBulge float64 `toml:"vertical_bulge"`
	Passes        int     `toml:"passes"`
	FadeWidth     float64 `toml:"fade_width"`
	FadeStrength  float64 `toml:"fade_strength"`
}

// OutputConfig holds encoding settings and the crop anchors to render.
type OutputConfig struct {
	Format   string    `toml:"format"`
	Quality  int       `toml:"quality"`
	Lossless bool      `toml:"lossless"`
	Anchors  []float64 `toml:"anchors"`
}

// Default returns a configuration with default values.
func Default() *Config {
	d := geometry.Default()
	return &Config{
		Canvas: CanvasConfig{
			Width:  d.CanvasWidth,
			Height: d.CanvasHeight,
		},
		Geometry: GeometryConfig{
			BodyWidthRatio:      d.BodyWidthRatio,
			BodyHeightRatio:     d.BodyHeightRatio,
			NeckWidthRatio:      d.NeckWidthRatio,
			NeckHeightRatio:     d.NeckHeightRatio,
			ShoulderHeightRatio: d.ShoulderHeightRatio,
			ShoulderFlareRatio:  d.ShoulderFlareRatio,
			CapHeightRatio:      d.CapHeightRatio,
			CapWidthRatio:       d.CapWidthRatio,
			LabelWidthRatio:     d.LabelWidthRatio,
			LabelHeightRatio:    d.LabelHeightRatio,
			LabelTopRatio:       d.LabelTopRatio,
		},
		Style: StyleConfig{
			BottleColor:     "#48a9e6",
			CapColor:        "#245b96",
			BackgroundColor: "#f2f4f8",
			BackgroundImage: "",
			Glass:           false,
			GlassAlpha:      102,
			GripStripes:     6,
			ThreadRidges:    3,
			RefractionGlow:  true,
			HighlightBlur:   40,
			ShadowBlur:      50,
			GlowBlur:        60,
			CapDetailBlur:   3,
			DropShadow:      true,
			DropShadowBlur:  30,
		},
		Warp: WarpConfig{
			Strategy:      string(warp.StrategyMesh),
			Curvature:     0.45,
			VerticalBulge: 1.0,
			Passes:        1,
			FadeWidth:     0.2,
			FadeStrength:  0.7,
		},
		Output: OutputConfig{
			Format:   "png",
			Quality:  95,
			Lossless: false,
			Anchors:  []float64{0.5},
		},
	}
}

// LoadFromFile loads configuration from a TOML file. Missing keys keep their
// default values.
func LoadFromFile(filename string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(filename, config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to load config file %s", filename)
	}
	return config, nil
}

// SaveToFile saves configuration to a TOML file.
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to create config directory")
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to write config file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to encode config")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Canvas.Width < 1 || c.Canvas.Height < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}

	ratios := []struct {
		name  string
		value float64
	}{
		{"geometry.body_width_ratio", c.Geometry.BodyWidthRatio},
		{"geometry.body_height_ratio", c.Geometry.BodyHeightRatio},
		{"geometry.neck_width_ratio", c.Geometry.NeckWidthRatio},
		{"geometry.neck_height_ratio", c.Geometry.NeckHeightRatio},
		{"geometry.shoulder_height_ratio", c.Geometry.ShoulderHeightRatio},
		{"geometry.cap_height_ratio", c.Geometry.CapHeightRatio},
		{"geometry.cap_width_ratio", c.Geometry.CapWidthRatio},
		{"geometry.label_width_ratio", c.Geometry.LabelWidthRatio},
		{"geometry.label_height_ratio", c.Geometry.LabelHeightRatio},
	}
	for _, r := range ratios {
		if r.value <= 0 || r.value > 1 {
			return errors.New(errors.ErrCodeInvalidRatio, "%s must be in (0, 1], got %g", r.name, r.value)
		}
	}
	if c.Geometry.ShoulderFlareRatio < 0 || c.Geometry.ShoulderFlareRatio >= 1 {
		return errors.New(errors.ErrCodeInvalidRatio, "geometry.shoulder_flare_ratio must be in [0, 1), got %g", c.Geometry.ShoulderFlareRatio)
	}
	if c.Geometry.LabelTopRatio < 0 || c.Geometry.LabelTopRatio >= 1 {
		return errors.New(errors.ErrCodeInvalidRatio, "geometry.label_top_ratio must be in [0, 1), got %g", c.Geometry.LabelTopRatio)
	}

	if _, err := palette.Parse(c.Style.BottleColor); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidColor, err, "style.bottle_color is invalid")
	}
	if !c.AutoCapColor() {
		if _, err := palette.Parse(c.Style.CapColor); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "style.cap_color is invalid")
		}
	}
	if _, err := palette.Parse(c.Style.BackgroundColor); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidColor, err, "style.background_color is invalid")
	}
	if c.Style.GlassAlpha < 1 || c.Style.GlassAlpha > 255 {
		return errors.New(errors.ErrCodeInvalidConfig, "style.glass_alpha must be between 1 and 255, got %d", c.Style.GlassAlpha)
	}
	if c.Style.GripStripes < 0 || c.Style.ThreadRidges < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "style stripe and ridge counts cannot be negative")
	}
	blurs := []struct {
		name  string
		value float64
	}{
		{"style.highlight_blur", c.Style.HighlightBlur},
		{"style.shadow_blur", c.Style.ShadowBlur},
		{"style.glow_blur", c.Style.GlowBlur},
		{"style.cap_detail_blur", c.Style.CapDetailBlur},
		{"style.drop_shadow_blur", c.Style.DropShadowBlur},
	}
	for _, b := range blurs {
		if b.value < 0 || b.value > 200 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be between 0 and 200, got %g", b.name, b.value)
		}
	}

	if _, err := warp.ParseStrategy(c.Warp.Strategy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStrategy, err, "warp.strategy is invalid")
	}
	if c.Warp.Curvature < 0 || c.Warp.Curvature > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "warp.curvature must be between 0 and 1, got %g", c.Warp.Curvature)
	}
	if c.Warp.VerticalBulge < 0 || c.Warp.VerticalBulge > 4 {
		return errors.New(errors.ErrCodeInvalidConfig, "warp.vertical_bulge must be between 0 and 4, got %g", c.Warp.VerticalBulge)
	}
	if c.Warp.Passes < 1 || c.Warp.Passes > 10 {
		return errors.New(errors.ErrCodeInvalidConfig, "warp.passes must be between 1 and 10, got %d", c.Warp.Passes)
	}
	if c.Warp.FadeWidth < 0 || c.Warp.FadeWidth > 0.5 {
		return errors.New(errors.ErrCodeInvalidConfig, "warp.fade_width must be between 0 and 0.5, got %g", c.Warp.FadeWidth)
	}
	if c.Warp.FadeStrength < 0 || c.Warp.FadeStrength > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "warp.fade_strength must be between 0 and 1, got %g", c.Warp.FadeStrength)
	}

	switch strings.ToLower(c.Output.Format) {
	case "png", "jpg", "jpeg", "webp":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "output.format must be png, jpg or webp, got %q", c.Output.Format)
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "output.quality must be between 1 and 100, got %d", c.Output.Quality)
	}
	if len(c.Output.Anchors) == 0 {
		return errors.New(errors.ErrCodeInvalidAnchor, "output.anchors cannot be empty")
	}
	for _, a := range c.Output.Anchors {
		if a < 0 || a > 1 {
			return errors.New(errors.ErrCodeInvalidAnchor, "output.anchors values must be between 0 and 1, got %g", a)
		}
	}

	return nil
}

// AutoCapColor reports whether the cap colour should be sampled from the
// label instead of parsed.
func (c *Config) AutoCapColor() bool {
	return strings.EqualFold(strings.TrimSpace(c.Style.CapColor), "auto")
}

// Descriptor converts the canvas and geometry sections into a geometry
// descriptor.
func (c *Config) Descriptor() geometry.Descriptor {
	return geometry.Descriptor{
		CanvasWidth:         c.Canvas.Width,
		CanvasHeight:        c.Canvas.Height,
		BodyWidthRatio:      c.Geometry.BodyWidthRatio,
		BodyHeightRatio:     c.Geometry.BodyHeightRatio,
		NeckWidthRatio:      c.Geometry.NeckWidthRatio,
		NeckHeightRatio:     c.Geometry.NeckHeightRatio,
		ShoulderHeightRatio: c.Geometry.ShoulderHeightRatio,
		ShoulderFlareRatio:  c.Geometry.ShoulderFlareRatio,
		CapHeightRatio:      c.Geometry.CapHeightRatio,
		CapWidthRatio:       c.Geometry.CapWidthRatio,
		LabelWidthRatio:     c.Geometry.LabelWidthRatio,
		LabelHeightRatio:    c.Geometry.LabelHeightRatio,
		LabelTopRatio:       c.Geometry.LabelTopRatio,
	}
}

// SilhouetteConfig converts the style section into renderer settings. When
// cap_color is "auto" the default cap colour is kept; the caller decides how
// to sample the real one.
func (c *Config) SilhouetteConfig() (silhouette.Config, error) {
	cfg := silhouette.DefaultConfig()

	body, err := palette.Parse(c.Style.BottleColor)
	if err != nil {
		return cfg, err
	}
	cfg.BodyColor = body

	if !c.AutoCapColor() {
		capColor, err := palette.Parse(c.Style.CapColor)
		if err != nil {
			return cfg, err
		}
		cfg.CapColor = capColor
	}

	cfg.Glass = c.Style.Glass
	cfg.GlassAlpha = uint8(c.Style.GlassAlpha)
	cfg.GripStripes = c.Style.GripStripes
	cfg.ThreadRidges = c.Style.ThreadRidges
	cfg.RefractionGlow = c.Style.RefractionGlow
	cfg.HighlightBlur = c.Style.HighlightBlur
	cfg.ShadowBlur = c.Style.ShadowBlur
	cfg.GlowBlur = c.Style.GlowBlur
	cfg.CapDetailBlur = c.Style.CapDetailBlur
	return cfg, nil
}

// WarpOptions converts the warp section into warp options.
func (c *Config) WarpOptions() (warp.Options, error) {
	strategy, err := warp.ParseStrategy(c.Warp.Strategy)
	if err != nil {
		return warp.Options{}, err
	}
	return warp.Options{
		Strategy:      strategy,
		Curvature:     c.Warp.Curvature,
		VerticalBulge: c.Warp.VerticalBulge,
		Passes:        c.Warp.Passes,
		FadeWidth:     c.Warp.FadeWidth,
		FadeStrength:  c.Warp.FadeStrength,
	}, nil
}

// ComposeConfig converts the style section into scene settings.
func (c *Config) ComposeConfig() (compose.Config, error) {
	cfg := compose.DefaultConfig()
	bg, err := palette.Parse(c.Style.BackgroundColor)
	if err != nil {
		return cfg, err
	}
	cfg.BackgroundColor = bg
	cfg.DropShadow = c.Style.DropShadow
	cfg.ShadowBlur = c.Style.DropShadowBlur
	return cfg, nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(home, ".config", "label-mockup", "config.toml")
}
