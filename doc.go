// Package svg2png converts SVG icon files into recolored, padded PNG raster
// images by invoking an external renderer as a subprocess.
//
// # Quick Start
//
// Create a converter, convert an icon, and close when done:
//
//	conv := svg2png.New()
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, svg2png.Job{
//	    Color:      "#FFFFFF",
//	    SourcePath: "icons/home.svg",
//	    DestPath:   "icons/home.png",
//	})
//
// # Conversion Pipeline
//
// The conversion process follows two stages:
//
//  1. Document transform: every visible child of the SVG root is recolored
//     to the target fill and wrapped in a group scaled down by ShrinkFactor
//     and re-centered, producing a padding border. The result is written to
//     a unique temporary file, removed when the conversion ends.
//  2. Rasterization: an external renderer turns the intermediate document
//     into a PNG. The renderer's exit code is surfaced in the Result.
//
// # Renderer Strategies
//
// Three strategies implement the Renderer interface:
//
//   - Inkscape (default): probes the installed version with
//     `inkscape --version` and selects the matching CLI dialect (the 1.x
//     flags differ from the 0.x ones).
//   - ImageMagick: a single `convert` invocation on the raw source, with
//     recoloring done by convert's own -fill flag. Its crop and scale
//     parameters differ from the Inkscape strategy's; the two are separate
//     strategies, not interchangeable backends.
//   - Chrome: loads the intermediate document in headless Chrome (go-rod)
//     and screenshots a square viewport.
//
// Inject a strategy with WithRenderer, or substitute a fake in tests:
//
//	conv := svg2png.New(svg2png.WithRenderer(&svg2png.MagickRenderer{...}))
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool:
//
//	pool := svg2png.NewConverterPool(4)
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, job)
package svg2png
