package svg2png

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/iconforge/go-svg2png/internal/fileutil"
)

// Renderer rasterizes an SVG file to a PNG file, returning the renderer
// subprocess's exit code. Implementations that consume the recolored, padded
// intermediate document report NeedsTransform true; the ImageMagick strategy
// works on the raw source and recolors with its own flag.
type Renderer interface {
	Name() string
	NeedsTransform() bool
	Rasterize(ctx context.Context, inputPath, outputPath string) (exitCode int, err error)
}

// Compile-time interface implementation checks.
var (
	_ Renderer = (*InkscapeRenderer)(nil)
	_ Renderer = (*MagickRenderer)(nil)
	_ Renderer = (*ChromeRenderer)(nil)
)

// NewRenderer builds the named renderer strategy. The color is only used by
// the ImageMagick strategy, which recolors via its own flag; width applies to
// the strategies that accept one.
func NewRenderer(name, color string, width int, runner CommandRunner, output io.Writer) (Renderer, error) {
	switch name {
	case RendererInkscape:
		return &InkscapeRenderer{Runner: runner, Output: output, Width: width}, nil
	case RendererMagick:
		return &MagickRenderer{Runner: runner, Output: output, Color: color}, nil
	case RendererChrome:
		return &ChromeRenderer{Width: width}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
}

// Converter orchestrates one conversion at a time: transform the document,
// write it to a unique temporary file, hand it to the renderer, and always
// release the temporary file afterwards.
type Converter struct {
	cfg            converterConfig
	renderer       Renderer
	runner         CommandRunner
	rendererOutput io.Writer
}

// New creates a Converter with default configuration: the Inkscape strategy,
// DefaultOutputWidth, and a real command runner. Use options to customize
// behavior (e.g., WithRenderer, WithTimeout).
func New(opts ...Option) *Converter {
	c := &Converter{
		cfg:            converterConfig{timeout: defaultTimeout, width: DefaultOutputWidth},
		rendererOutput: os.Stderr,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.runner == nil {
		c.runner = &ExecRunner{}
	}
	if c.renderer == nil {
		name := c.cfg.rendererName
		if name == "" {
			name = RendererInkscape
		}
		// WithRendererName only admits known names, so the error is unreachable.
		c.renderer, _ = NewRenderer(name, c.cfg.color, c.cfg.width, c.runner, c.rendererOutput)
	}

	return c
}

// Convert runs the full pipeline for one job. A nonzero renderer exit code is
// returned both in the Result and as an ErrRenderFailed so callers can log it
// without losing the code; such failures are terminal for the job but must
// not abort sibling jobs in a batch. A conversion that outlives its timeout
// returns context.DeadlineExceeded rather than a render failure. The
// temporary intermediate file is removed on every exit path.
func (c *Converter) Convert(ctx context.Context, job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	input := job.SourcePath
	if c.renderer.NeedsTransform() {
		src, err := os.ReadFile(job.SourcePath) // #nosec G304 -- caller-provided job path
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", job.SourcePath, err)
		}

		transformed, err := Transform(src, job.Color)
		if err != nil {
			return nil, err
		}

		tmpPath, cleanup, err := fileutil.WriteTempFile(string(transformed), "svg")
		if err != nil {
			return nil, err
		}
		defer cleanup()
		input = tmpPath
	}

	renderer := c.renderer
	if mr, ok := renderer.(*MagickRenderer); ok && mr.Color == "" {
		// The strategy recolors via its own flag; an unset Color falls
		// back to the job's.
		clone := *mr
		clone.Color = job.Color
		renderer = &clone
	}

	code, err := renderer.Rasterize(ctx, input, job.DestPath)
	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		// A killed subprocess reports exit code -1; surface the timeout
		// instead so a hung renderer is not mistaken for a failed one.
		return nil, fmt.Errorf("rendering %s: %w", job.SourcePath, ctxErr)
	}

	result := &Result{OutputPath: job.DestPath, ExitCode: code}
	if code != 0 {
		return result, fmt.Errorf("%w: %s exit code %d", ErrRenderFailed, c.renderer.Name(), code)
	}
	return result, nil
}

// Renderer returns the active renderer strategy.
func (c *Converter) Renderer() Renderer {
	return c.renderer
}

// Close releases renderer resources (e.g. the headless browser).
func (c *Converter) Close() error {
	if closer, ok := c.renderer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
