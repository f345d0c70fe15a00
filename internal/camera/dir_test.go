package camera

import (
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFrames writes n solid PNG frames whose red channel encodes their index.
func writeFrames(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 8, 6))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+3] = uint8(i*10), 255
		}
		f, err := os.Create(filepath.Join(dir, "frame"+string(rune('a'+i))+".png"))
		if err != nil {
			t.Fatalf("failed to create frame: %v", err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatalf("failed to encode frame: %v", err)
		}
		f.Close()
	}
}

func redOf(img image.Image) uint8 {
	r, _, _, _ := img.At(0, 0).RGBA()
	return uint8(r >> 8)
}

func fastSettings() Settings {
	s := DefaultSettings()
	s.FPS = 1000
	return s
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Width != 320 || s.Height != 240 || s.FPS != 24 {
		t.Errorf("got %dx%d@%d, want 320x240@24", s.Width, s.Height, s.FPS)
	}
	if s.WarmUp != 100*time.Millisecond {
		t.Errorf("WarmUp: got %v", s.WarmUp)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if got := s.FrameInterval(); got != time.Second/24 {
		t.Errorf("FrameInterval: got %v", got)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero width", func(s *Settings) { s.Width = 0 }},
		{"negative height", func(s *Settings) { s.Height = -1 }},
		{"zero fps", func(s *Settings) { s.FPS = 0 }},
		{"negative warm-up", func(s *Settings) { s.WarmUp = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDirSource_PlaysInOrderThenEOF(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 3)

	src, err := OpenDir(dir, fastSettings(), false)
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	defer src.Close()

	if src.Len() != 3 {
		t.Errorf("Len: got %d, want 3", src.Len())
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		img, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		if got := redOf(img); got != uint8(i*10) {
			t.Errorf("frame %d: red = %d, want %d", i, got, i*10)
		}
	}

	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after last frame, got %v", err)
	}
}

func TestDirSource_Loops(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 2)

	src, err := OpenDir(dir, fastSettings(), true)
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	defer src.Close()

	want := []uint8{0, 10, 0, 10, 0}
	for i, w := range want {
		img, err := src.Next(context.Background())
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		if got := redOf(img); got != w {
			t.Errorf("frame %d: red = %d, want %d", i, got, w)
		}
	}
}

func TestDirSource_Paces(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 3)

	s := DefaultSettings()
	s.FPS = 50
	src, err := OpenDir(dir, s, false)
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	defer src.Close()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := src.Next(context.Background()); err != nil {
			t.Fatalf("Next failed: %v", err)
		}
	}

	// First frame is immediate, the next two wait one 20 ms slot each.
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("replay too fast: %v for 3 frames at 50 fps", elapsed)
	}
}

func TestDirSource_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 2)

	s := DefaultSettings()
	s.FPS = 1
	src, err := OpenDir(dir, s, false)
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	defer src.Close()

	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("first Next failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error while waiting for the next slot, got %v", err)
	}
}

func TestOpenDir_Errors(t *testing.T) {
	if _, err := OpenDir(filepath.Join(t.TempDir(), "missing"), fastSettings(), false); err == nil {
		t.Error("expected error for missing directory")
	}

	empty := t.TempDir()
	if err := os.WriteFile(filepath.Join(empty, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenDir(empty, fastSettings(), false); err == nil {
		t.Error("expected error for directory without images")
	}
}

func TestDirSource_BadFrame(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 1)
	if err := os.WriteFile(filepath.Join(dir, "framez.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := OpenDir(dir, fastSettings(), false)
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	defer src.Close()

	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("first frame should decode: %v", err)
	}
	if _, err := src.Next(context.Background()); err == nil || errors.Is(err, io.EOF) {
		t.Errorf("expected decode error, got %v", err)
	}
	if _, err := src.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after bad frame, got %v", err)
	}
}

func TestOpenDevice_WithoutOpenCV(t *testing.T) {
	src, err := OpenDevice(context.Background(), DefaultSettings())
	if err == nil {
		src.Close()
		t.Skip("built with opencv")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Logf("OpenDevice: %v", err)
	}
}
