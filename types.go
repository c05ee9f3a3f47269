package svg2png

import (
	"io"
	"time"
)

// Renderer name constants.
const (
	RendererInkscape = "inkscape"
	RendererMagick   = "magick"
	RendererChrome   = "chrome"
)

// Geometry constants for the rendered icons.
const (
	// ShrinkFactor is the ratio by which visible content is scaled down
	// within the canvas to leave a padding border.
	ShrinkFactor = 0.7

	// DefaultOutputWidth is the pixel width requested from the renderer.
	DefaultOutputWidth = 72
)

// Job parameterizes one SVG to PNG conversion.
type Job struct {
	Color      string // fill color, substituted verbatim (e.g. "#FFFFFF")
	SourcePath string // input .svg file
	DestPath   string // output .png file
}

// Validate checks that the job carries the required values.
func (j Job) Validate() error {
	if j.SourcePath == "" {
		return ErrEmptySource
	}
	if j.DestPath == "" {
		return ErrEmptyDest
	}
	if j.Color == "" {
		return ErrEmptyColor
	}
	return nil
}

// Result holds the outcome of a single conversion.
type Result struct {
	OutputPath string
	ExitCode   int // renderer subprocess exit code, 0 on success
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout      time.Duration
	width        int
	rendererName string
	color        string
}

// defaultTimeout is used when no timeout is specified. Renderers normally
// finish an icon in well under a second; the cap exists so a hung renderer
// cannot block a batch forever.
const defaultTimeout = 2 * time.Minute

// WithTimeout sets the per-conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("svg2png: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithOutputWidth sets the pixel width requested from the renderer.
func WithOutputWidth(w int) Option {
	if w <= 0 {
		panic("svg2png: WithOutputWidth must be positive")
	}
	return func(c *Converter) {
		c.cfg.width = w
	}
}

// WithRenderer injects a renderer strategy (e.g. for tests, or to select
// the ImageMagick or Chrome backend instead of the default Inkscape one).
func WithRenderer(r Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithRendererName selects a built-in renderer strategy by name. Unlike
// WithRenderer this builds a fresh strategy per Converter, which matters for
// pools: each pooled converter keeps its own browser or subprocess state.
// Panics on an unknown name (programmer error; validate user input first).
func WithRendererName(name, color string) Option {
	if name != RendererInkscape && name != RendererMagick && name != RendererChrome {
		panic("svg2png: unknown renderer name " + name)
	}
	return func(c *Converter) {
		c.cfg.rendererName = name
		c.cfg.color = color
	}
}

// WithRunner injects the subprocess runner used by the default renderer.
func WithRunner(runner CommandRunner) Option {
	return func(c *Converter) {
		c.runner = runner
	}
}

// WithRendererOutput sets the writer receiving line-prefixed renderer output.
func WithRendererOutput(w io.Writer) Option {
	return func(c *Converter) {
		c.rendererOutput = w
	}
}
