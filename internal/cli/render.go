package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	labelmockup "github.com/ekarev/label-mockup"
	"github.com/ekarev/label-mockup/internal/config"
	"github.com/ekarev/label-mockup/internal/utils"
	"github.com/ekarev/label-mockup/pkg/errors"
	"github.com/ekarev/label-mockup/pkg/imageio"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output          string
	configPath      string
	bottleColor     string
	capColor        string
	backgroundColor string
	backgroundImage string
	glass           bool
	strategy        string
	curvature       float64
	bulge           float64
	passes          int
	fadeWidth       float64
	fadeStrength    float64
	anchors         []float64
	format          string
	quality         int
	lossless        bool
}

// newRenderCmd creates the render command. The label argument is a file,
// URL or directory; directories are rendered in batch.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [label]",
		Short: "Render label artwork onto the bottle",
		Long:  `Render bends flat label artwork around a procedurally drawn bottle and writes the finished mockup. The label argument accepts a file path, an http(s) URL, or a directory of artwork files to render in batch.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], &opts)
		},
	}

	def := config.Default()
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or output directory in batch mode")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (TOML)")
	cmd.Flags().StringVar(&opts.bottleColor, "bottle-color", def.Style.BottleColor, "bottle body colour (hex or CSS name)")
	cmd.Flags().StringVar(&opts.capColor, "cap-color", def.Style.CapColor, "cap colour, or auto to sample the label artwork")
	cmd.Flags().StringVar(&opts.backgroundColor, "background", def.Style.BackgroundColor, "background colour")
	cmd.Flags().StringVar(&opts.backgroundImage, "background-image", def.Style.BackgroundImage, "background image path or URL, cover-scaled to the canvas")
	cmd.Flags().BoolVar(&opts.glass, "glass", def.Style.Glass, "translucent glass body")
	cmd.Flags().StringVar(&opts.strategy, "warp", def.Warp.Strategy, "label warp strategy: mesh or remap")
	cmd.Flags().Float64Var(&opts.curvature, "curvature", def.Warp.Curvature, "warp strength, 0 to 1")
	cmd.Flags().Float64Var(&opts.bulge, "bulge", def.Warp.VerticalBulge, "vertical bulge amount")
	cmd.Flags().IntVar(&opts.passes, "passes", def.Warp.Passes, "number of warp passes")
	cmd.Flags().Float64Var(&opts.fadeWidth, "fade-width", def.Warp.FadeWidth, "edge fade width as a fraction of label width")
	cmd.Flags().Float64Var(&opts.fadeStrength, "fade-strength", def.Warp.FadeStrength, "edge fade strength, 0 to 1")
	cmd.Flags().Float64SliceVar(&opts.anchors, "anchors", def.Output.Anchors, "crop anchors for wide artwork: 0=left, 0.5=center, 1=right")
	cmd.Flags().StringVarP(&opts.format, "format", "f", def.Output.Format, "output format: png, jpg or webp")
	cmd.Flags().IntVar(&opts.quality, "quality", def.Output.Quality, "jpg/webp quality, 1 to 100")
	cmd.Flags().BoolVar(&opts.lossless, "lossless", def.Output.Lossless, "lossless webp encoding")

	return cmd
}

func runRender(cmd *cobra.Command, labelSource string, opts *renderOpts) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	gen, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}

	if utils.DirExists(labelSource) {
		return renderDir(logger, gen, cfg, labelSource, opts)
	}
	return renderOne(logger, gen, cfg, labelSource, opts)
}

func renderOne(logger *log.Logger, gen *labelmockup.Generator, cfg *config.Config, labelSource string, opts *renderOpts) error {
	output := opts.output
	if output == "" {
		output = defaultOutput(labelSource, cfg.Output.Format)
	}

	p := newProgress(logger)
	logger.Debug("rendering",
		"label", labelSource,
		"strategy", cfg.Warp.Strategy,
		"curvature", cfg.Warp.Curvature,
		"anchors", cfg.Output.Anchors)
	if err := gen.RenderFile(labelSource, cfg.Style.BackgroundImage, output, cfg.Output.Anchors); err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %d mockup(s) of %s", len(cfg.Output.Anchors), filepath.Base(labelSource)))
	return nil
}

// renderDir renders every image file under dir. Failures are logged and
// skipped so one broken file does not abort the batch.
func renderDir(logger *log.Logger, gen *labelmockup.Generator, cfg *config.Config, dir string, opts *renderOpts) error {
	files, err := utils.ListImageFiles(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, err, "failed to scan %s", dir)
	}
	if len(files) == 0 {
		return errors.New(errors.ErrCodeNotFound, "no image files found in %s", dir)
	}

	p := newProgress(logger)
	rendered := 0
	var failed []string
	for _, file := range files {
		var output string
		if opts.output != "" {
			output = utils.OutputFilename(file, opts.output, "_bottle", cfg.Output.Format)
		} else {
			output = defaultOutput(file, cfg.Output.Format)
		}

		if err := gen.RenderFile(file, cfg.Style.BackgroundImage, output, cfg.Output.Anchors); err != nil {
			logger.Error("render failed", "label", file, "err", err)
			failed = append(failed, filepath.Base(file))
			continue
		}
		rendered++
	}
	p.done(fmt.Sprintf("Rendered %d of %d labels", rendered, len(files)))

	if len(failed) > 0 {
		return fmt.Errorf("%d label(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config, so
// the precedence is flags, then config file, then defaults.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, opts *renderOpts) {
	flags := cmd.Flags()
	if flags.Changed("bottle-color") {
		cfg.Style.BottleColor = opts.bottleColor
	}
	if flags.Changed("cap-color") {
		cfg.Style.CapColor = opts.capColor
	}
	if flags.Changed("background") {
		cfg.Style.BackgroundColor = opts.backgroundColor
	}
	if flags.Changed("background-image") {
		cfg.Style.BackgroundImage = opts.backgroundImage
	}
	if flags.Changed("glass") {
		cfg.Style.Glass = opts.glass
	}
	if flags.Changed("warp") {
		cfg.Warp.Strategy = opts.strategy
	}
	if flags.Changed("curvature") {
		cfg.Warp.Curvature = opts.curvature
	}
	if flags.Changed("bulge") {
		cfg.Warp.VerticalBulge = opts.bulge
	}
	if flags.Changed("passes") {
		cfg.Warp.Passes = opts.passes
	}
	if flags.Changed("fade-width") {
		cfg.Warp.FadeWidth = opts.fadeWidth
	}
	if flags.Changed("fade-strength") {
		cfg.Warp.FadeStrength = opts.fadeStrength
	}
	if flags.Changed("anchors") {
		cfg.Output.Anchors = opts.anchors
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("quality") {
		cfg.Output.Quality = opts.quality
	}
	if flags.Changed("lossless") {
		cfg.Output.Lossless = opts.lossless
	}
}

// loadConfig reads the named config file, or the default location when it
// exists, or falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	if def := config.GetConfigPath(); utils.FileExists(def) {
		return config.LoadFromFile(def)
	}
	return config.Default(), nil
}

// newGenerator converts a validated config into a mockup generator.
func newGenerator(cfg *config.Config, logger *log.Logger) (*labelmockup.Generator, error) {
	silCfg, err := cfg.SilhouetteConfig()
	if err != nil {
		return nil, err
	}
	warpOpts, err := cfg.WarpOptions()
	if err != nil {
		return nil, err
	}
	composeCfg, err := cfg.ComposeConfig()
	if err != nil {
		return nil, err
	}

	return labelmockup.NewWithOptions(labelmockup.Options{
		Geometry:     cfg.Descriptor(),
		Silhouette:   silCfg,
		Warp:         warpOpts,
		Compose:      composeCfg,
		Save:         imageio.SaveOptions{Quality: cfg.Output.Quality, Lossless: cfg.Output.Lossless},
		AutoCapColor: cfg.AutoCapColor(),
		Logger:       logger,
	}), nil
}

// defaultOutput derives the output path from the label source and swaps in
// the configured format's extension.
func defaultOutput(labelSource, format string) string {
	out := imageio.DerivedOutputPath(labelSource)
	ext := strings.ToLower(format)
	if ext != "" && ext != "png" {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + "." + ext
	}
	return out
}
