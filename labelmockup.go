// Package labelmockup renders flat label artwork onto a procedurally drawn
// bottle and produces finished product mockup rasters.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		labelmockup "github.com/ekarev/label-mockup"
//		"github.com/ekarev/label-mockup/pkg/imageio"
//	)
//
//	func main() {
//		gen := labelmockup.New()
//
//		label, err := imageio.Load("label.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		scene, err := gen.Render(label, nil, 0.5)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if err := imageio.Save(scene, "label_bottle.png", imageio.SaveOptions{Quality: 95}); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Geometry (pkg/geometry): Derives the container layout from canvas size and ratios
// 2. Silhouette (pkg/silhouette): Draws the bottle body, cap and lighting layers
// 3. Warp (pkg/warp): Bends the flat label around the container surface
// 4. Compose (pkg/compose): Assembles background, shadow, silhouette and label
//
// Features:
//
//   - Deterministic rendering entirely from parameters, no model files or assets
//   - Two label curvature strategies with tunable strength and edge fade
//   - Crop-anchor variants that pan wide artwork across the visible label area
//   - Optional glass-style translucent body and automatic cap colour sampling
//   - PNG, JPEG and WebP output with atomic file writes
package labelmockup

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ekarev/label-mockup/pkg/compose"
	"github.com/ekarev/label-mockup/pkg/geometry"
	"github.com/ekarev/label-mockup/pkg/imageio"
	"github.com/ekarev/label-mockup/pkg/palette"
	"github.com/ekarev/label-mockup/pkg/silhouette"
	"github.com/ekarev/label-mockup/pkg/warp"
)

// Version of the label mockup library
const Version = "1.0.0"

// Options collects the settings of every rendering stage.
type Options struct {
	Geometry   geometry.Descriptor
	Silhouette silhouette.Config
	Warp       warp.Options
	Compose    compose.Config
	Save       imageio.SaveOptions

	// AutoCapColor samples the cap colour from the source label artwork
	// instead of using Silhouette.CapColor.
	AutoCapColor bool

	Logger *log.Logger
}

// DefaultOptions returns the settings used by New.
func DefaultOptions() Options {
	return Options{
		Geometry:   geometry.Default(),
		Silhouette: silhouette.DefaultConfig(),
		Warp:       warp.DefaultOptions(),
		Compose:    compose.DefaultConfig(),
		Save:       imageio.SaveOptions{Quality: imageio.DefaultQuality},
	}
}

// Generator provides a high-level interface for producing mockups.
type Generator struct {
	opts Options
}

// New creates a Generator with default settings.
func New() *Generator {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Generator with custom settings.
func NewWithOptions(opts Options) *Generator {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Generator{opts: opts}
}

// Render produces a single mockup scene. label is the flat artwork; a nil
// label renders the bare container. background may be nil for the configured
// flat backdrop. anchor in [0, 1] picks which horizontal part of wide
// artwork survives the crop to the label area.
func (g *Generator) Render(label, background image.Image, anchor float64) (*image.NRGBA, error) {
	return g.renderScene(g.renderSilhouette(label), label, background, anchor)
}

// RenderVariants produces one mockup per anchor, concurrently. The container
// silhouette is rendered once and shared, so variants differ only inside the
// label area. The returned slice matches anchors by index, with nil entries
// for failed variants, and the error joins every per-variant failure.
func (g *Generator) RenderVariants(label, background image.Image, anchors []float64) ([]*image.NRGBA, error) {
	if len(anchors) == 0 {
		anchors = []float64{0.5}
	}
	sil := g.renderSilhouette(label)

	results := make([]*image.NRGBA, len(anchors))
	errs := make([]error, len(anchors))

	var wg sync.WaitGroup
	for i, anchor := range anchors {
		wg.Add(1)
		go func(i int, anchor float64) {
			defer wg.Done()
			results[i], errs[i] = g.renderScene(sil, label, background, anchor)
		}(i, anchor)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

// RenderFile loads the label (and optional background) from a path or URL,
// renders one scene per anchor and writes the results. An empty outputPath
// derives the destination from the label source; with multiple anchors each
// output gets an anchor tag before the extension. Variants that fail to
// render or save do not stop the remaining ones.
func (g *Generator) RenderFile(labelSource, backgroundSource, outputPath string, anchors []float64) error {
	label, err := imageio.LoadSource(labelSource)
	if err != nil {
		return err
	}

	var background image.Image
	if backgroundSource != "" {
		background, err = imageio.LoadSource(backgroundSource)
		if err != nil {
			return err
		}
	}

	if len(anchors) == 0 {
		anchors = []float64{0.5}
	}
	if outputPath == "" {
		outputPath = imageio.DerivedOutputPath(labelSource)
	}

	scenes, renderErr := g.RenderVariants(label, background, anchors)

	var errs []error
	if renderErr != nil {
		errs = append(errs, renderErr)
	}
	for i, scene := range scenes {
		if scene == nil {
			continue
		}
		path := outputPath
		if len(anchors) > 1 {
			path = imageio.VariantPath(outputPath, AnchorTag(anchors[i]))
		}
		if err := imageio.Save(scene, path, g.opts.Save); err != nil {
			errs = append(errs, err)
			continue
		}
		g.opts.Logger.Info("wrote mockup", "path", path, "anchor", anchors[i])
	}
	return errors.Join(errs...)
}

// renderSilhouette draws the container layer, sampling the cap colour from
// the source artwork when requested. Sampling from the source rather than
// the cropped label keeps the silhouette identical across anchor variants.
func (g *Generator) renderSilhouette(label image.Image) *image.NRGBA {
	cfg := g.opts.Silhouette
	if g.opts.AutoCapColor && label != nil {
		cfg.CapColor = palette.Average(label)
		g.opts.Logger.Debug("sampled cap colour from artwork",
			"color", fmt.Sprintf("#%02x%02x%02x", cfg.CapColor.R, cfg.CapColor.G, cfg.CapColor.B))
	}
	start := time.Now()
	sil := silhouette.NewWithConfig(cfg).Render(g.opts.Geometry)
	g.opts.Logger.Debug("rendered container silhouette",
		"canvas", fmt.Sprintf("%dx%d", g.opts.Geometry.CanvasWidth, g.opts.Geometry.CanvasHeight),
		"glass", cfg.Glass,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return sil
}

// renderScene prepares and warps the label for one anchor and composites the
// full scene over the rendered silhouette.
func (g *Generator) renderScene(sil *image.NRGBA, label, background image.Image, anchor float64) (*image.NRGBA, error) {
	var warped *image.NRGBA
	if label != nil {
		box := g.opts.Geometry.LabelBox().Rect()
		prepared := warp.PrepareLabel(label, box.Dx(), box.Dy(), anchor)

		start := time.Now()
		w, err := warp.Apply(prepared, g.opts.Warp)
		if err != nil {
			return nil, err
		}
		warped = w
		g.opts.Logger.Debug("warped label",
			"anchor", anchor,
			"strategy", g.opts.Warp.Strategy,
			"size", fmt.Sprintf("%dx%d", box.Dx(), box.Dy()),
			"elapsed", time.Since(start).Round(time.Millisecond))
	}
	return compose.NewWithConfig(g.opts.Compose).Scene(g.opts.Geometry, sil, warped, background), nil
}

// AnchorTag returns the filename tag for an anchor position: "left",
// "center" and "right" for the common stops, a percentage tag otherwise.
func AnchorTag(anchor float64) string {
	switch anchor {
	case 0:
		return "left"
	case 0.5:
		return "center"
	case 1:
		return "right"
	}
	return fmt.Sprintf("a%d", int(math.Round(anchor*100)))
}

// GetVersion returns the library version.
func GetVersion() string {
	return Version
}
