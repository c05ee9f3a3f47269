package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	svg2png "github.com/iconforge/go-svg2png"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string         `json:"status"` // "ready", "warnings", "errors"
	Renderers []rendererInfo `json:"renderers"`
	Env       envInfo        `json:"environment"`
	System    systemInfo     `json:"system"`
	Warnings  []string       `json:"warnings,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
}

// rendererInfo holds detection results for one renderer strategy.
type rendererInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Dialect string `json:"dialect,omitempty"` // Inkscape only
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks. A missing individual renderer is
// a warning; it becomes an error only when no renderer at all is usable.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkInkscape(result)
	checkMagick(result)
	checkChrome(result)
	checkEnvironment(result)
	checkSystem(result)

	anyFound := false
	for _, r := range result.Renderers {
		if r.Found {
			anyFound = true
			break
		}
	}
	if !anyFound {
		result.Errors = append(result.Errors,
			"no renderer available: install Inkscape, ImageMagick, or Chrome")
	}

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkInkscape detects the Inkscape installation and its CLI dialect.
func checkInkscape(result *doctorResult) {
	info := rendererInfo{Name: "inkscape"}
	defer func() { result.Renderers = append(result.Renderers, info) }()

	path, err := exec.LookPath("inkscape")
	if err != nil {
		result.Warnings = append(result.Warnings, "Inkscape not found in PATH")
		return
	}
	info.Found = true
	info.Path = path

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Inkscape version: %v", err))
		return
	}

	dialect, version, err := svg2png.DetectDialect(string(out))
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Unsupported Inkscape version: %s", strings.TrimSpace(string(out))))
		return
	}
	info.Version = version
	info.Dialect = dialect.String()
}

// checkMagick detects the ImageMagick convert tool.
func checkMagick(result *doctorResult) {
	info := rendererInfo{Name: "magick"}
	defer func() { result.Renderers = append(result.Renderers, info) }()

	path, err := exec.LookPath("convert")
	if err != nil {
		result.Warnings = append(result.Warnings, "ImageMagick convert not found in PATH")
		return
	}
	info.Found = true
	info.Path = path

	out, err := exec.Command(path, "-version").Output()
	if err == nil {
		// First line looks like "Version: ImageMagick 6.9.11-60 ..."
		if line, _, ok := strings.Cut(string(out), "\n"); ok {
			info.Version = strings.TrimSpace(strings.TrimPrefix(line, "Version:"))
		}
	}
}

// checkChrome detects a Chrome/Chromium installation for the browser strategy.
func checkChrome(result *doctorResult) {
	info := rendererInfo{Name: "chrome"}
	defer func() { result.Renderers = append(result.Renderers, info) }()

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	info.Found = true
	info.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output()
	if err == nil {
		info.Version = strings.TrimSpace(string(out))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "svg2png-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "svg2png doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Renderers")
	for _, info := range r.Renderers {
		if info.Found {
			fmt.Fprintf(w, "  [OK] %s: %s\n", info.Name, info.Path)
			if info.Version != "" {
				if info.Dialect != "" {
					fmt.Fprintf(w, "       version %s (dialect %s)\n", info.Version, info.Dialect)
				} else {
					fmt.Fprintf(w, "       version %s\n", info.Version)
				}
			}
		} else {
			fmt.Fprintf(w, "  [--] %s: not found\n", info.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
