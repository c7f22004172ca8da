package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/ekarev/label-mockup/internal/config"
	"github.com/ekarev/label-mockup/pkg/imageio"
)

// writeTestConfig saves a small-canvas config so command tests render fast.
func writeTestConfig(t *testing.T, dir string, mutate func(*config.Config)) string {
	t.Helper()
	cfg := config.Default()
	cfg.Canvas.Width = 90
	cfg.Canvas.Height = 140
	if mutate != nil {
		mutate(cfg)
	}
	path := filepath.Join(dir, "config.toml")
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTestLabel(t *testing.T, path string) {
	t.Helper()
	label := imaging.New(60, 30, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	if err := imageio.Save(label, path, imageio.SaveOptions{}); err != nil {
		t.Fatal(err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Info("test message")
	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}

	buf.Reset()
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug message logged at info level")
	}
}

func TestLoggerContextRoundtrip(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, log.DebugLevel)
	ctx := withLogger(context.Background(), logger)

	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext did not return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext without attachment should fall back to the default logger")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Rendered 1 mockup")

	if !bytes.Contains(buf.Bytes(), []byte("Rendered 1 mockup")) {
		t.Errorf("progress output %q missing message", buf.String())
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		source string
		format string
		want   string
	}{
		{filepath.Join("art", "label.png"), "png", filepath.Join("art", "label_bottle.png")},
		{filepath.Join("art", "label.png"), "jpg", filepath.Join("art", "label_bottle.jpg")},
		{"label.webp", "webp", "label_bottle.webp"},
		{"label.png", "", "label_bottle.png"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.source, tt.format); got != tt.want {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.source, tt.format, got, tt.want)
		}
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, func(c *config.Config) { c.Warp.Curvature = 0.75 })

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Warp.Curvature != 0.75 {
		t.Errorf("curvature = %g, want 0.75", cfg.Warp.Curvature)
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestRenderCommandWritesMockup(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, nil)
	labelPath := filepath.Join(dir, "art.png")
	writeTestLabel(t, labelPath)
	outPath := filepath.Join(dir, "mockup.png")

	cmd := newRenderCmd()
	cmd.SetArgs([]string{labelPath, "--config", cfgPath, "-o", outPath, "--warp", "remap", "--curvature", "0.8"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render command: %v", err)
	}

	img, err := imageio.Load(outPath)
	if err != nil {
		t.Fatalf("output not readable: %v", err)
	}
	if img.Bounds().Dx() != 90 || img.Bounds().Dy() != 140 {
		t.Errorf("output = %v, want 90x140", img.Bounds())
	}
}

func TestRenderCommandFlagOverridesConfigFormat(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, func(c *config.Config) { c.Output.Format = "jpg" })
	labelPath := filepath.Join(dir, "art.png")
	writeTestLabel(t, labelPath)

	// Config format applies to the derived output path.
	cmd := newRenderCmd()
	cmd.SetArgs([]string{labelPath, "--config", cfgPath})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render command: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "art_bottle.jpg")); err != nil {
		t.Errorf("config-format output missing: %v", err)
	}

	// An explicit --format flag wins over the config file.
	cmd = newRenderCmd()
	cmd.SetArgs([]string{labelPath, "--config", cfgPath, "--format", "png"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render command: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "art_bottle.png")); err != nil {
		t.Errorf("flag-format output missing: %v", err)
	}
}

func TestRenderCommandRejectsInvalidFlags(t *testing.T) {
	dir := t.TempDir()
	labelPath := filepath.Join(dir, "art.png")
	writeTestLabel(t, labelPath)

	cmd := newRenderCmd()
	cmd.SetArgs([]string{labelPath, "--curvature", "7"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("expected validation error for curvature 7")
	}
}

func TestRenderCommandBatchDirectory(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, nil)

	srcDir := filepath.Join(dir, "labels")
	if err := os.Mkdir(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestLabel(t, filepath.Join(srcDir, "a.png"))
	writeTestLabel(t, filepath.Join(srcDir, "b.png"))

	outDir := filepath.Join(dir, "out")
	cmd := newRenderCmd()
	cmd.SetArgs([]string{srcDir, "--config", cfgPath, "-o", outDir})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("batch render: %v", err)
	}

	for _, name := range []string{"a_bottle.png", "b_bottle.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("batch output %s missing: %v", name, err)
		}
	}
}

func TestRenderCommandBatchEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	cmd := newRenderCmd()
	cmd.SetArgs([]string{dir, "--config", writeTestConfig(t, dir, nil)})
	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Error("expected error for directory without image files")
	}
}

func TestInspectCommandPrintsLayout(t *testing.T) {
	cmd := newInspectCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", writeTestConfig(t, t.TempDir(), nil)})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("inspect command: %v", err)
	}

	var layout struct {
		CanvasWidth  int `json:"canvas_width"`
		CanvasHeight int `json:"canvas_height"`
		Body         struct {
			Width float64 `json:"width"`
		} `json:"body"`
	}
	if err := json.Unmarshal(out.Bytes(), &layout); err != nil {
		t.Fatalf("inspect output not valid JSON: %v\n%s", err, out.String())
	}
	if layout.CanvasWidth != 90 || layout.CanvasHeight != 140 {
		t.Errorf("canvas = %dx%d, want 90x140", layout.CanvasWidth, layout.CanvasHeight)
	}
	if layout.Body.Width <= 0 {
		t.Errorf("body width = %g, want > 0", layout.Body.Width)
	}
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cmd := newConfigInitCmd()
	cmd.SetArgs([]string{"--path", path})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config init: %v", err)
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		t.Fatalf("written config not loadable: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("written config invalid: %v", err)
	}

	// A second init without --force refuses to clobber the file.
	cmd = newConfigInitCmd()
	cmd.SetArgs([]string{"--path", path})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("expected error when config already exists")
	}

	cmd = newConfigInitCmd()
	cmd.SetArgs([]string{"--path", path, "--force"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Errorf("config init --force: %v", err)
	}
}

func TestConfigPathCommand(t *testing.T) {
	cmd := newConfigPathCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("config.toml")) {
		t.Errorf("config path output %q missing config.toml", out.String())
	}
}
