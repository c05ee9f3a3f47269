package svg2png

import (
	"runtime"
	"testing"
)

func TestNewConverterPool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        int
		wantSize int
	}{
		{name: "explicit size", n: 4, wantSize: 4},
		{name: "zero clamps to one", n: 0, wantSize: 1},
		{name: "negative clamps to one", n: -3, wantSize: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewConverterPool(tt.n, WithRenderer(&fakeRenderer{name: "fake"}))
			defer p.Close()

			if got := p.Size(); got != tt.wantSize {
				t.Errorf("Size() = %d, want %d", got, tt.wantSize)
			}
		})
	}
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	p := NewConverterPool(2, WithRenderer(&fakeRenderer{name: "fake"}))
	defer p.Close()

	c1 := p.Acquire()
	c2 := p.Acquire()
	if c1 == nil || c2 == nil {
		t.Fatal("Acquire returned nil converter")
	}
	if c1 == c2 {
		t.Error("pool handed out the same converter twice without a release")
	}

	p.Release(c1)
	c3 := p.Acquire()
	if c3 != c1 {
		t.Error("released converter was not reused")
	}
}

func TestConverterPool_CloseIdempotent(t *testing.T) {
	t.Parallel()

	p := NewConverterPool(1, WithRenderer(&fakeRenderer{name: "fake"}))
	p.Acquire()

	if err := p.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit workers win", workers: 3, want: 3},
		{name: "explicit above cap respected", workers: 16, want: 16},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestResolvePoolSize_Automatic(t *testing.T) {
	t.Parallel()

	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Fatalf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}

	want := runtime.GOMAXPROCS(0) / 2
	if want < MinPoolSize {
		want = MinPoolSize
	}
	if want > MaxPoolSize {
		want = MaxPoolSize
	}
	if got != want {
		t.Errorf("ResolvePoolSize(0) = %d, want %d for GOMAXPROCS=%d", got, want, runtime.GOMAXPROCS(0))
	}
}
