package svg2png

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource = errors.New("source path cannot be empty")
	ErrEmptyDest   = errors.New("destination path cannot be empty")
	ErrEmptyColor  = errors.New("fill color cannot be empty")

	// Document transform errors.
	ErrParse            = errors.New("failed to parse SVG document")
	ErrMissingAttribute = errors.New("missing required attribute")

	// Renderer errors.
	ErrRendererNotFound    = errors.New("renderer executable not found")
	ErrRenderFailed        = errors.New("renderer exited with failure")
	ErrUnsupportedRenderer = errors.New("unsupported renderer version")
	ErrUnknownRenderer     = errors.New("unknown renderer name")

	// Browser renderer errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("failed to capture screenshot")
)
