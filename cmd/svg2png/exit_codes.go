package main

import (
	"errors"
	"os"

	svg2png "github.com/iconforge/go-svg2png"
	"github.com/iconforge/go-svg2png/internal/config"
)

// Exit codes for the svg2png CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error (including SVG parse failures)
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitRenderer = 4 // Renderer missing, unsupported, or failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Renderer errors (exit 4)
	if errors.Is(err, svg2png.ErrRendererNotFound) ||
		errors.Is(err, svg2png.ErrRenderFailed) ||
		errors.Is(err, svg2png.ErrUnsupportedRenderer) ||
		errors.Is(err, svg2png.ErrBrowserConnect) ||
		errors.Is(err, svg2png.ErrPageCreate) ||
		errors.Is(err, svg2png.ErrPageLoad) ||
		errors.Is(err, svg2png.ErrScreenshot) {
		return ExitRenderer
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidRenderer) ||
		errors.Is(err, config.ErrInvalidWidth) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, config.ErrColorTooLong) ||
		errors.Is(err, svg2png.ErrEmptyColor) ||
		errors.Is(err, svg2png.ErrUnknownRenderer) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
