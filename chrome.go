package svg2png

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ChromeRenderer rasterizes the transformed intermediate document by loading
// it in headless Chrome and capturing a PNG screenshot of a square viewport.
// Rod automatically downloads Chromium on first run if none is found.
type ChromeRenderer struct {
	Width   int           // viewport edge length in pixels (0 = DefaultOutputWidth)
	Timeout time.Duration // page load timeout (0 = defaultTimeout)

	browser *rod.Browser
}

// NewChromeRenderer creates a ChromeRenderer. The browser is launched lazily
// on first use.
func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{}
}

func (r *ChromeRenderer) Name() string { return RendererChrome }

// NeedsTransform reports that this strategy consumes the recolored, padded
// intermediate document.
func (r *ChromeRenderer) NeedsTransform() bool { return true }

// ensureBrowser lazily launches and connects to the browser.
func (r *ChromeRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *ChromeRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// Rasterize opens the input file in headless Chrome and writes a PNG
// screenshot of the viewport to output. The exit code is always zero on
// success; browser failures surface as errors rather than codes.
func (r *ChromeRenderer) Rasterize(ctx context.Context, input, output string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := r.ensureBrowser(); err != nil {
		return 0, err
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return 0, fmt.Errorf("resolving input path: %w", err)
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + abs})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	edge := r.Width
	if edge <= 0 {
		edge = DefaultOutputWidth
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             edge,
		Height:            edge,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}); err != nil {
		return 0, fmt.Errorf("%w: setting viewport: %v", ErrPageLoad, err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return 0, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	buf, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	// #nosec G306 -- rendered icons are meant to be readable
	if err := os.WriteFile(output, buf, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", output, err)
	}
	return 0, nil
}
