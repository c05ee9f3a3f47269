package svg2png

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// MagickRenderer rasterizes the raw source SVG with ImageMagick's convert
// tool. It bypasses the document transformer entirely: recoloring happens via
// convert's -fill flag and padding via -scale/-extent, so its output is not
// pixel-equivalent to the Inkscape strategy's (36x36 content centered on a
// 72x72 canvas instead of a 0.7 padding matrix at native width). The two are
// deliberately kept as separate, named strategies.
type MagickRenderer struct {
	Runner CommandRunner
	Output io.Writer // receives line-prefixed renderer output
	Color  string    // fill color for convert's -fill flag; empty means the job's color is used
}

// NewMagickRenderer creates a MagickRenderer with a real command runner.
func NewMagickRenderer(color string) *MagickRenderer {
	return &MagickRenderer{Runner: &ExecRunner{}, Output: os.Stderr, Color: color}
}

func (r *MagickRenderer) Name() string { return RendererMagick }

// NeedsTransform reports that this strategy works on the raw source document.
func (r *MagickRenderer) NeedsTransform() bool { return false }

// Rasterize runs a single convert invocation and returns its exit code.
func (r *MagickRenderer) Rasterize(ctx context.Context, input, output string) (int, error) {
	args := []string{
		"-trim",
		"-scale", "36x36",
		"-extent", "72x72",
		"-gravity", "center",
		"-define", "png:color-type=6",
		"-background", "none",
		"-colorspace", "sRGB",
		"-channel", "RGB",
		"-threshold", "-1",
		"-density", "300",
		"-fill", r.Color,
		"+opaque", "none",
		input,
		output,
	}

	code, err := r.Runner.Stream(ctx, r.Output, "convert", args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return 0, fmt.Errorf("%w: convert", ErrRendererNotFound)
		}
		return 0, err
	}
	return code, nil
}
