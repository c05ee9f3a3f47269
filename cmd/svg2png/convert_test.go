package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	svg2png "github.com/iconforge/go-svg2png"
	"github.com/iconforge/go-svg2png/internal/config"
)

// fakeConverter records jobs and returns a canned outcome.
type fakeConverter struct {
	code    int
	err     error
	failFor map[string]error // per-source overrides

	jobs []svg2png.Job
}

func (f *fakeConverter) Convert(_ context.Context, job svg2png.Job) (*svg2png.Result, error) {
	f.jobs = append(f.jobs, job)
	if err, ok := f.failFor[job.SourcePath]; ok {
		return &svg2png.Result{OutputPath: job.DestPath, ExitCode: 1}, err
	}
	return &svg2png.Result{OutputPath: job.DestPath, ExitCode: f.code}, f.err
}

// fakePool hands out a single shared converter.
type fakePool struct {
	conv *fakeConverter
	size int
}

func (p *fakePool) Acquire() Converter  { return p.conv }
func (p *fakePool) Release(c Converter) {}
func (p *fakePool) Size() int           { return p.size }

func TestDiscoverFiles_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.svg", "b.png", "c.svg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
	}

	files, err := discoverFiles(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("found %d files, want 2", len(files))
	}
	for _, f := range files {
		if filepath.Ext(f.InputPath) != ".svg" {
			t.Errorf("non-SVG file selected: %s", f.InputPath)
		}
		if filepath.Ext(f.OutputPath) != ".png" {
			t.Errorf("output path %q missing .png extension", f.OutputPath)
		}
	}
}

func TestDiscoverFiles_NestedDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "actions")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "home.svg"), []byte("x"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "out")
	files, err := discoverFiles(dir, outDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("found %d files, want 1", len(files))
	}
	want := filepath.Join(outDir, "actions", "home.png")
	if files[0].OutputPath != want {
		t.Errorf("output path = %q, want %q (directory structure must mirror input)", files[0].OutputPath, want)
	}
}

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svg := filepath.Join(dir, "icon.svg")
	if err := os.WriteFile(svg, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	files, err := discoverFiles(svg, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("found %d files, want 1", len(files))
	}
	if want := filepath.Join(dir, "icon.png"); files[0].OutputPath != want {
		t.Errorf("output path = %q, want %q", files[0].OutputPath, want)
	}
}

func TestDiscoverFiles_WrongExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "icon.SVG")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := discoverFiles(path, ""); !errors.Is(err, ErrInvalidExtension) {
		t.Fatalf("error = %v, want ErrInvalidExtension", err)
	}
}

func TestDiscoverFiles_Missing(t *testing.T) {
	t.Parallel()

	_, err := discoverFiles(filepath.Join(t.TempDir(), "absent"), "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want os.ErrNotExist", err)
	}
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inputPath    string
		outputDir    string
		baseInputDir string
		want         string
	}{
		{
			name:      "beside source when no output dir",
			inputPath: filepath.Join("icons", "home.svg"),
			want:      filepath.Join("icons", "home.png"),
		},
		{
			name:      "explicit png file",
			inputPath: "home.svg",
			outputDir: filepath.Join("out", "custom.png"),
			want:      filepath.Join("out", "custom.png"),
		},
		{
			name:      "flat output dir",
			inputPath: "home.svg",
			outputDir: "out",
			want:      filepath.Join("out", "home.png"),
		},
		{
			name:         "mirrors input tree under output dir",
			inputPath:    filepath.Join("icons", "actions", "home.svg"),
			outputDir:    "out",
			baseInputDir: "icons",
			want:         filepath.Join("out", "actions", "home.png"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.inputPath, tt.outputDir, tt.baseInputDir)
			if got != tt.want {
				t.Errorf("resolveOutputPath(%q, %q, %q) = %q, want %q",
					tt.inputPath, tt.outputDir, tt.baseInputDir, got, tt.want)
			}
		})
	}
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	if got, err := resolveInputPath([]string{"icons"}, cfg); err != nil || got != "icons" {
		t.Errorf("positional arg: got (%q, %v), want (icons, nil)", got, err)
	}

	cfg.Input.DefaultDir = "default-icons"
	if got, err := resolveInputPath(nil, cfg); err != nil || got != "default-icons" {
		t.Errorf("config default: got (%q, %v), want (default-icons, nil)", got, err)
	}

	cfg.Input.DefaultDir = ""
	if _, err := resolveInputPath(nil, cfg); !errors.Is(err, ErrNoInput) {
		t.Errorf("no input: error = %v, want ErrNoInput", err)
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Render.Width = 48

	flags := &convertFlags{color: "#000000", renderer: "magick", workers: 2}
	if err := mergeFlags(flags, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Render.Color != "#000000" {
		t.Errorf("color = %q, want flag value", cfg.Render.Color)
	}
	if cfg.Render.Renderer != "magick" {
		t.Errorf("renderer = %q, want flag value", cfg.Render.Renderer)
	}
	if cfg.Render.Width != 48 {
		t.Errorf("width = %d, want config value preserved", cfg.Render.Width)
	}
	if cfg.Render.Workers != 2 {
		t.Errorf("workers = %d, want flag value", cfg.Render.Workers)
	}
}

func TestMergeFlags_InvalidRenderer(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	err := mergeFlags(&convertFlags{renderer: "gimp"}, cfg)
	if !errors.Is(err, config.ErrInvalidRenderer) {
		t.Fatalf("error = %v, want ErrInvalidRenderer", err)
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		wantErr bool
	}{
		{name: "auto", workers: 0},
		{name: "explicit", workers: 4},
		{name: "at cap", workers: svg2png.MaxPoolSize},
		{name: "negative", workers: -1, wantErr: true},
		{name: "above cap", workers: svg2png.MaxPoolSize + 1, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateWorkers(tt.workers)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWorkerCount) {
					t.Fatalf("error = %v, want ErrInvalidWorkerCount", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	files := []FileToConvert{
		{InputPath: "a.svg", OutputPath: filepath.Join(outDir, "a.png")},
		{InputPath: "b.svg", OutputPath: filepath.Join(outDir, "b.png")},
		{InputPath: "c.svg", OutputPath: filepath.Join(outDir, "c.png")},
	}

	conv := &fakeConverter{}
	results := convertBatch(context.Background(), &fakePool{conv: conv, size: 2}, files, "#FFFFFF")

	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
		if r.InputPath != files[i].InputPath {
			t.Errorf("result %d input = %q, want %q (order must match input)", i, r.InputPath, files[i].InputPath)
		}
	}
	if len(conv.jobs) != len(files) {
		t.Errorf("converter ran %d jobs, want %d", len(conv.jobs), len(files))
	}
	for _, job := range conv.jobs {
		if job.Color != "#FFFFFF" {
			t.Errorf("job color = %q, want #FFFFFF", job.Color)
		}
	}
}

func TestConvertBatch_ContinuesPastFailures(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	files := []FileToConvert{
		{InputPath: "ok.svg", OutputPath: filepath.Join(outDir, "ok.png")},
		{InputPath: "bad.svg", OutputPath: filepath.Join(outDir, "bad.png")},
		{InputPath: "also-ok.svg", OutputPath: filepath.Join(outDir, "also-ok.png")},
	}

	conv := &fakeConverter{failFor: map[string]error{
		"bad.svg": svg2png.ErrRenderFailed,
	}}
	results := convertBatch(context.Background(), &fakePool{conv: conv, size: 1}, files, "#FFFFFF")

	if len(conv.jobs) != 3 {
		t.Fatalf("converter ran %d jobs, want all 3 despite a failure", len(conv.jobs))
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			if r.ExitCode != 1 {
				t.Errorf("failed result exit code = %d, want 1", r.ExitCode)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed count = %d, want 1", failed)
	}
}

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.svg", OutputPath: "a.png"},
		{InputPath: "b.svg", OutputPath: "b.png", Err: svg2png.ErrRenderFailed, ExitCode: 1},
	}

	var stdout, stderr strings.Builder
	env := &Environment{Stdout: &stdout, Stderr: &stderr}

	failed := printResultsWithWriter(results, false, false, env)

	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if !strings.Contains(stdout.String(), "Created a.png") {
		t.Errorf("stdout missing success line: %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
		t.Errorf("stdout missing summary: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "FAILED b.svg") {
		t.Errorf("stderr missing failure line: %q", stderr.String())
	}
}

func TestPrintResultsWithWriter_Quiet(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.svg", OutputPath: "a.png"},
		{InputPath: "b.svg", OutputPath: "b.png"},
	}

	var stdout, stderr strings.Builder
	env := &Environment{Stdout: &stdout, Stderr: &stderr}

	if failed := printResultsWithWriter(results, true, false, env); failed != 0 {
		t.Errorf("failed = %d, want 0", failed)
	}
	if stdout.String() != "" {
		t.Errorf("quiet mode wrote to stdout: %q", stdout.String())
	}
}
