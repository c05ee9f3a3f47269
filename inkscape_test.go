package svg2png

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"reflect"
	"testing"
)

// MockRunner records invocations and plays back canned results.
type MockRunner struct {
	RunOutput  string
	RunErr     error
	StreamCode int
	StreamErr  error

	RunCalls    [][]string
	StreamCalls [][]string
}

func (m *MockRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	m.RunCalls = append(m.RunCalls, append([]string{name}, args...))
	return m.RunOutput, m.RunErr
}

func (m *MockRunner) Stream(_ context.Context, _ io.Writer, name string, args ...string) (int, error) {
	m.StreamCalls = append(m.StreamCalls, append([]string{name}, args...))
	return m.StreamCode, m.StreamErr
}

func TestDetectDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		output      string
		wantDialect Dialect
		wantVersion string
		wantErr     error
	}{
		{
			name:        "1.x",
			output:      "Inkscape 1.0.2 (e86c870879, 2021-01-15)",
			wantDialect: DialectV1,
			wantVersion: "1.0.2",
		},
		{
			name:        "0.x",
			output:      "Inkscape 0.92.5 (2060ec1f9f, 2020-04-08)",
			wantDialect: DialectV0,
			wantVersion: "0.92.5",
		},
		{
			name:    "future major version",
			output:  "Inkscape 2.0 (deadbeef, 2030-01-01)",
			wantErr: ErrUnsupportedRenderer,
		},
		{
			name:    "no version line",
			output:  "command not understood",
			wantErr: ErrUnsupportedRenderer,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: ErrUnsupportedRenderer,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dialect, version, err := DetectDialect(tt.output)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dialect != tt.wantDialect {
				t.Errorf("dialect = %v, want %v", dialect, tt.wantDialect)
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
		})
	}
}

func TestInkscapeRenderer_Rasterize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		wantArgs []string
	}{
		{
			name:    "1.x export flags",
			version: "Inkscape 1.0.2 (e86c870879, 2021-01-15)",
			wantArgs: []string{
				"inkscape", "--export-filename=out.png", "in.svg", "-w", "72",
			},
		},
		{
			name:    "0.x export flags",
			version: "Inkscape 0.92.5 (2060ec1f9f, 2020-04-08)",
			wantArgs: []string{
				"inkscape", "--without-gui", "--export-png=out.png", "in.svg", "-w", "72",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &MockRunner{RunOutput: tt.version}
			r := &InkscapeRenderer{Runner: runner, Output: io.Discard}

			code, err := r.Rasterize(context.Background(), "in.svg", "out.png")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code != 0 {
				t.Errorf("exit code = %d, want 0", code)
			}

			if len(runner.RunCalls) != 1 {
				t.Fatalf("version probed %d times, want 1", len(runner.RunCalls))
			}
			wantProbe := []string{"inkscape", "--version"}
			if !reflect.DeepEqual(runner.RunCalls[0], wantProbe) {
				t.Errorf("probe argv = %v, want %v", runner.RunCalls[0], wantProbe)
			}

			if len(runner.StreamCalls) != 1 {
				t.Fatalf("export invoked %d times, want 1", len(runner.StreamCalls))
			}
			if !reflect.DeepEqual(runner.StreamCalls[0], tt.wantArgs) {
				t.Errorf("export argv = %v, want %v", runner.StreamCalls[0], tt.wantArgs)
			}
		})
	}
}

func TestInkscapeRenderer_CustomWidth(t *testing.T) {
	t.Parallel()

	runner := &MockRunner{RunOutput: "Inkscape 1.1"}
	r := &InkscapeRenderer{Runner: runner, Output: io.Discard, Width: 128}

	if _, err := r.Rasterize(context.Background(), "in.svg", "out.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	args := runner.StreamCalls[0]
	if got := args[len(args)-1]; got != "128" {
		t.Errorf("width argument = %q, want %q", got, "128")
	}
}

func TestInkscapeRenderer_NotInstalled(t *testing.T) {
	t.Parallel()

	runner := &MockRunner{RunErr: &exec.Error{Name: "inkscape", Err: exec.ErrNotFound}}
	r := &InkscapeRenderer{Runner: runner, Output: io.Discard}

	_, err := r.Rasterize(context.Background(), "in.svg", "out.png")
	if !errors.Is(err, ErrRendererNotFound) {
		t.Fatalf("error = %v, want ErrRendererNotFound", err)
	}
}

func TestInkscapeRenderer_UnsupportedVersion(t *testing.T) {
	t.Parallel()

	runner := &MockRunner{RunOutput: "not inkscape at all"}
	r := &InkscapeRenderer{Runner: runner, Output: io.Discard}

	_, err := r.Rasterize(context.Background(), "in.svg", "out.png")
	if !errors.Is(err, ErrUnsupportedRenderer) {
		t.Fatalf("error = %v, want ErrUnsupportedRenderer", err)
	}
	if len(runner.StreamCalls) != 0 {
		t.Error("export must not run when the version is unsupported")
	}
}

func TestInkscapeRenderer_NonzeroExit(t *testing.T) {
	t.Parallel()

	runner := &MockRunner{RunOutput: "Inkscape 1.0.2", StreamCode: 1}
	r := &InkscapeRenderer{Runner: runner, Output: io.Discard}

	code, err := r.Rasterize(context.Background(), "in.svg", "out.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
