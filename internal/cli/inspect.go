package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/ekarev/label-mockup/internal/config"
	"github.com/ekarev/label-mockup/pkg/geometry"
)

// newInspectCmd creates the inspect command, which prints the derived
// container layout as JSON. Useful for checking how ratio changes move the
// boxes without rendering anything.
func newInspectCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the derived container layout as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return writeLayout(cmd.OutOrStdout(), cfg.Descriptor())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (TOML)")
	return cmd
}

type boxInfo struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func describeBox(b geometry.Box) boxInfo {
	return boxInfo{
		Left:   b.Left,
		Top:    b.Top,
		Right:  b.Right,
		Bottom: b.Bottom,
		Width:  b.Width(),
		Height: b.Height(),
	}
}

func writeLayout(w io.Writer, d geometry.Descriptor) error {
	layout := struct {
		CanvasWidth  int     `json:"canvas_width"`
		CanvasHeight int     `json:"canvas_height"`
		Body         boxInfo `json:"body"`
		Neck         boxInfo `json:"neck"`
		Shoulder     boxInfo `json:"shoulder"`
		Cap          boxInfo `json:"cap"`
		Label        boxInfo `json:"label"`
	}{
		CanvasWidth:  d.CanvasWidth,
		CanvasHeight: d.CanvasHeight,
		Body:         describeBox(d.BodyBox()),
		Neck:         describeBox(d.NeckBox()),
		Shoulder:     describeBox(d.ShoulderBox()),
		Cap:          describeBox(d.CapBox()),
		Label:        describeBox(d.LabelBox()),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(layout)
}
