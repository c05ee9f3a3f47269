package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	svg2png "github.com/iconforge/go-svg2png"
	"github.com/iconforge/go-svg2png/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidExtension   = errors.New("file must have .svg extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// dirPermissions is used when creating output directories.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, job svg2png.Job) (*svg2png.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*svg2png.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() Converter
	Release(Converter)
	Size() int
}

// converterPool adapts svg2png.ConverterPool to the CLI Pool interface.
type converterPool struct {
	p *svg2png.ConverterPool
}

func (c converterPool) Acquire() Converter { return c.p.Acquire() }

func (c converterPool) Release(conv Converter) {
	if cc, ok := conv.(*svg2png.Converter); ok {
		c.p.Release(cc)
	}
}

func (c converterPool) Size() int { return c.p.Size() }

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	ExitCode   int
	Err        error
	Duration   time.Duration
}

// runConvert orchestrates the conversion process.
func runConvert(positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	// Load configuration
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Merge CLI flags into config (CLI wins)
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	// Resolve output directory
	outputDir := resolveOutputDir(flags.output, cfg)

	// Discover files to convert
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no SVG files found in %s", inputPath)
	}

	opts, err := buildConverterOptions(cfg, flags, env)
	if err != nil {
		return err
	}

	poolSize := svg2png.ResolvePoolSize(cfg.Render.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := svg2png.NewConverterPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	results := convertBatch(context.Background(), converterPool{pool}, files, cfg.Render.Color)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
// The merged config is re-validated since flags can carry invalid values too.
func mergeFlags(flags *convertFlags, cfg *config.Config) error {
	if flags.color != "" {
		cfg.Render.Color = flags.color
	}
	if flags.renderer != "" {
		cfg.Render.Renderer = flags.renderer
	}
	if flags.width > 0 {
		cfg.Render.Width = flags.width
	}
	if flags.workers > 0 {
		cfg.Render.Workers = flags.workers
	}
	if flags.timeout != "" {
		cfg.Render.Timeout = flags.timeout
	}
	return cfg.Validate()
}

// buildConverterOptions translates the merged config into library options.
func buildConverterOptions(cfg *config.Config, flags *convertFlags, env *Environment) ([]svg2png.Option, error) {
	opts := []svg2png.Option{
		svg2png.WithRendererName(cfg.Render.Renderer, cfg.Render.Color),
	}

	if cfg.Render.Width > 0 {
		opts = append(opts, svg2png.WithOutputWidth(cfg.Render.Width))
	}

	if cfg.Render.Timeout != "" {
		d, err := time.ParseDuration(cfg.Render.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", config.ErrInvalidTimeout, cfg.Render.Timeout, err)
		}
		opts = append(opts, svg2png.WithTimeout(d))
	}

	// Renderer chatter goes to stderr unless quiet.
	rendererOut := env.Stderr
	if flags.common.quiet {
		rendererOut = io.Discard
	}
	opts = append(opts, svg2png.WithRendererOutput(rendererOut))

	return opts, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// discoverFiles finds all SVG files to convert. Only files whose extension is
// exactly ".svg" become candidates; everything else is ignored.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateSVGExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".svg" {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PNG output path for an SVG file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".png")
	}

	if strings.HasSuffix(outputDir, ".png") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".png")
		}
	}

	return filepath.Join(outputDir, base+".png")
}

// validateSVGExtension checks that the file has exactly a .svg extension.
func validateSVGExtension(path string) error {
	if ext := filepath.Ext(path); ext != ".svg" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > svg2png.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, svg2png.MaxPoolSize)
	}
	return nil
}

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, color string) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], color)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result. A failed
// render is recorded in the result rather than propagated, so the batch
// continues past individual failures.
func convertFile(ctx context.Context, conv Converter, f FileToConvert, color string) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	res, err := conv.Convert(ctx, svg2png.Job{
		Color:      color,
		SourcePath: f.InputPath,
		DestPath:   f.OutputPath,
	})
	if res != nil {
		result.ExitCode = res.ExitCode
	}
	result.Err = err
	result.Duration = time.Since(start)
	return result
}

// printResultsWithWriter outputs conversion results using the provided writers.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
