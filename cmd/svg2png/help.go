package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2png <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert SVG icons to recolored, padded PNGs (default)")
	fmt.Fprintln(w, "  doctor     Check renderer availability and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'svg2png help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2png convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert SVG icons to recolored, padded PNG raster images.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    SVG file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>     Output file or directory (default: beside source)")
	fmt.Fprintln(w, "      --color <s>         Fill color substituted into the icons (default \"#FFFFFF\")")
	fmt.Fprintln(w, "  -r, --renderer <s>      Renderer strategy: inkscape, magick, chrome")
	fmt.Fprintln(w, "      --width <n>         Output width in pixels (0 = renderer default)")
	fmt.Fprintln(w, "  -w, --workers <n>       Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>       Per-file timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -c, --config <name>     Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet             Only show errors")
	fmt.Fprintln(w, "  -v, --verbose           Show detailed timing and renderer output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The magick strategy renders the raw source and recolors with ImageMagick's")
	fmt.Fprintln(w, "own -fill flag; its output differs from the inkscape and chrome strategies,")
	fmt.Fprintln(w, "which render the recolored, padded intermediate document.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2png doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check renderer availability, environment, and system requirements.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --json    Output results as JSON")
}
