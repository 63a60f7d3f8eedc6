package planner

import (
	"errors"
	"slices"
	"testing"

	"github.com/backmassage/storyboard/internal/opt"
)

func TestPlan_Clip(t *testing.T) {
	s, err := Plan(opt.Some(2.0), 4, Hints{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if s.Mode != ModeSeek {
		t.Errorf("Mode = %v, want seek", s.Mode)
	}
	want := []float64{0.25, 0.75, 1.25, 1.75}
	if got := s.Seconds(); !slices.Equal(got, want) {
		t.Errorf("Seconds = %v, want %v", got, want)
	}
}

func TestPlan_StrictlyIncreasingInside(t *testing.T) {
	for _, d := range []float64{0.04, 1, 2, 59.94, 3600, 7261.3} {
		for _, n := range []int{1, 2, 3, 7, 16, 100} {
			s, err := Plan(opt.Some(d), n, Hints{})
			if err != nil {
				t.Fatalf("Plan(%v, %d): %v", d, n, err)
			}
			ts := s.Seconds()
			if len(ts) != n {
				t.Fatalf("Plan(%v, %d) returned %d timestamps", d, n, len(ts))
			}
			for i, v := range ts {
				if v <= 0 || v >= d {
					t.Errorf("Plan(%v, %d)[%d] = %v outside (0, %v)", d, n, i, v, d)
				}
				if i > 0 && v <= ts[i-1] {
					t.Errorf("Plan(%v, %d) not strictly increasing at %d", d, n, i)
				}
			}
		}
	}
}

func TestPlan_InvalidCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := Plan(opt.Some(10.0), n, Hints{}); !errors.Is(err, ErrInvalidThumbnailCount) {
			t.Errorf("Plan(count=%d) err = %v, want ErrInvalidThumbnailCount", n, err)
		}
	}
}

func TestPlan_Modes(t *testing.T) {
	tests := []struct {
		name     string
		duration opt.Value[float64]
		hints    Hints
		want     Mode
	}{
		{"seek", opt.Some(10.0), Hints{}, ModeSeek},
		{"override", opt.Some(10.0), Hints{Overridden: true}, ModeSequential},
		{"frame by frame", opt.Some(10.0), Hints{FrameByFrame: true}, ModeSequential},
		{"unknown duration", opt.None[float64](), Hints{}, ModeOrdinal},
		{"zero duration", opt.Some(0.0), Hints{}, ModeOrdinal},
		{"unknown and frame by frame", opt.None[float64](), Hints{FrameByFrame: true}, ModeOrdinal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Plan(tt.duration, 4, tt.hints)
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if s.Mode != tt.want {
				t.Errorf("Mode = %v, want %v", s.Mode, tt.want)
			}
			if s.Mode.Degraded() != (tt.want != ModeSeek) {
				t.Errorf("Degraded = %v", s.Mode.Degraded())
			}
		})
	}
}

func TestPlan_UnknownDurationNeedsFrameCount(t *testing.T) {
	s, err := Plan(opt.None[float64](), 4, Hints{FrameRate: opt.Some(25.0)})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !s.NeedsFrameCount() {
		t.Fatal("NeedsFrameCount = false, want true")
	}
	if len(s.Points) != 0 {
		t.Errorf("unexpected points %v", s.Points)
	}

	s, err = s.Resolve(100)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.NeedsFrameCount() {
		t.Error("NeedsFrameCount after Resolve")
	}
	var frames []int64
	for _, p := range s.Points {
		frames = append(frames, p.Frame.OrElse(-1))
	}
	if want := []int64{12, 37, 62, 87}; !slices.Equal(frames, want) {
		t.Errorf("frames = %v, want %v", frames, want)
	}
	if want := []float64{0.48, 1.48, 2.48, 3.48}; !slices.Equal(s.Seconds(), want) {
		t.Errorf("Seconds = %v, want %v", s.Seconds(), want)
	}
	if d := s.Duration.OrElse(0); d != 4 {
		t.Errorf("Duration = %v, want 4", d)
	}
}

func TestPlan_KnownFrameCount(t *testing.T) {
	s, err := Plan(opt.None[float64](), 2, Hints{FrameCount: opt.Some[int64](10)})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if s.NeedsFrameCount() {
		t.Error("NeedsFrameCount with known frame count")
	}
	if s.Seconds() != nil {
		t.Errorf("Seconds without frame rate = %v, want nil", s.Seconds())
	}
}

func TestPlan_RequireTimestamps(t *testing.T) {
	_, err := Plan(opt.None[float64](), 4, Hints{RequireTimestamps: true})
	if !errors.Is(err, ErrDurationUnavailable) {
		t.Errorf("err = %v, want ErrDurationUnavailable", err)
	}
}

func TestResolve_NoFrames(t *testing.T) {
	s, _ := Plan(opt.None[float64](), 4, Hints{})
	if _, err := s.Resolve(0); !errors.Is(err, ErrDurationUnavailable) {
		t.Errorf("Resolve(0) err = %v, want ErrDurationUnavailable", err)
	}
}

func TestOrdinals(t *testing.T) {
	tests := []struct {
		total int64
		count int
		want  []int64
	}{
		{100, 4, []int64{12, 37, 62, 87}},
		{4, 4, []int64{0, 1, 2, 3}},
		{2, 4, []int64{0, 1, 2, 3}},
		{1, 1, []int64{0}},
	}
	for _, tt := range tests {
		if got := Ordinals(tt.total, tt.count); !slices.Equal(got, tt.want) {
			t.Errorf("Ordinals(%d, %d) = %v, want %v", tt.total, tt.count, got, tt.want)
		}
	}
}
