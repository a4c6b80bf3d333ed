package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kropptrevor/qoi-encoder/qoi"
)

func TestZstd(t *testing.T) {
	t.Parallel()

	t.Run("Should round trip a QOI stream", func(t *testing.T) {
		t.Parallel()
		buf, err := qoi.Encode(bytes.Repeat([]byte{1, 2, 3}, 500), qoi.Descriptor{Width: 50, Height: 10, Channels: qoi.ChannelsRGB})
		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		expected := buf.Detach()

		compressed, err := compressZstd(expected)
		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		actual, err := maybeDecompressZstd(compressed)

		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		if !bytes.Equal(expected, actual) {
			t.Fatalf("expected %08b, but got %08b", expected, actual)
		}
	})

	t.Run("Should pass through plain streams", func(t *testing.T) {
		t.Parallel()
		expected := []byte{'q', 'o', 'i', 'f', 0, 0, 0, 1, 0, 0, 0, 1, 3, 0}

		actual, err := maybeDecompressZstd(expected)

		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		if !bytes.Equal(expected, actual) {
			t.Fatalf("expected %08b, but got %08b", expected, actual)
		}
	})
}

func TestLoadImage(t *testing.T) {
	t.Parallel()

	encodePNG := func(t *testing.T, m image.Image) []byte {
		t.Helper()
		var buf bytes.Buffer
		if err := png.Encode(&buf, m); err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		return buf.Bytes()
	}

	t.Run("Should pick RGB for opaque images", func(t *testing.T) {
		t.Parallel()
		m := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		m.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 255})
		m.SetNRGBA(1, 0, color.NRGBA{4, 5, 6, 255})

		d, pix, err := loadImage(encodePNG(t, m), qoi.Descriptor{})

		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		if d.Channels != qoi.ChannelsRGB || d.Width != 2 || d.Height != 1 {
			t.Fatalf("unexpected descriptor %v", d)
		}
		if expected := []byte{1, 2, 3, 4, 5, 6}; !bytes.Equal(expected, pix) {
			t.Fatalf("expected %v, but got %v", expected, pix)
		}
	})

	t.Run("Should keep alpha for translucent images", func(t *testing.T) {
		t.Parallel()
		m := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		m.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 4})

		d, pix, err := loadImage(encodePNG(t, m), qoi.Descriptor{})

		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		if d.Channels != qoi.ChannelsRGBA {
			t.Fatalf("expected %d channels, but got %d", qoi.ChannelsRGBA, d.Channels)
		}
		if expected := []byte{1, 2, 3, 4}; !bytes.Equal(expected, pix) {
			t.Fatalf("expected %v, but got %v", expected, pix)
		}
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		t.Parallel()

		_, _, err := loadImage([]byte("not an image"), qoi.Descriptor{})

		if err == nil {
			t.Fatal("expected non-nil error")
		}
	})
}

// execute runs the root command with args. The commands share global flag
// state, so callers must not run in parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "in.raw")
	pix := bytes.Repeat([]byte{10, 20, 30, 11, 21, 31}, 4)
	if err := os.WriteFile(rawPath, pix, 0644); err != nil {
		t.Fatalf("expected nil error, but got %v", err)
	}

	t.Run("Should encode raw pixels and identify the header", func(t *testing.T) {
		qoiPath := filepath.Join(dir, "out.qoi")

		_, err := execute(t, "encode", "--raw", "-i", rawPath, "-o", qoiPath,
			"--width", "4", "--height", "2", "--channels", "3", "--colorspace", "1", "--zstd=false")

		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		stream, err := os.ReadFile(qoiPath)
		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		expected := qoi.Descriptor{Width: 4, Height: 2, Channels: qoi.ChannelsRGB, ColorSpace: qoi.ColorSpaceLinear}
		actual, err := qoi.ParseHeader(stream)
		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		if expected != actual {
			t.Fatalf("expected %v, but got %v", expected, actual)
		}
		if end := stream[len(stream)-8:]; !bytes.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 1}, end) {
			t.Fatalf("expected end marker, but got %08b", end)
		}

		report, err := execute(t, "identify", qoiPath)

		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		for _, line := range []string{"Dimensions:  4 x 2", "Channels:    3", "Color space: linear"} {
			if !strings.Contains(report, line) {
				t.Fatalf("expected %q in %q", line, report)
			}
		}
	})

	t.Run("Should identify a zstd wrapped stream", func(t *testing.T) {
		zstPath := filepath.Join(dir, "out.qoi.zst")

		_, err := execute(t, "encode", "--raw", "-i", rawPath, "-o", zstPath,
			"--width", "4", "--height", "2", "--channels", "3", "--colorspace", "0", "--zstd=true")

		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		report, err := execute(t, "identify", zstPath)
		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		for _, line := range []string{"Dimensions:  4 x 2", "Color space: sRGB with linear alpha", "(zstd)"} {
			if !strings.Contains(report, line) {
				t.Fatalf("expected %q in %q", line, report)
			}
		}
	})

	t.Run("Should reject raw input of the wrong length", func(t *testing.T) {
		_, err := execute(t, "encode", "--raw", "-i", rawPath, "-o", filepath.Join(dir, "bad.qoi"),
			"--width", "5", "--height", "2", "--channels", "3", "--colorspace", "0", "--zstd=false")

		if !errors.Is(err, qoi.ErrInvalidLength) {
			t.Fatalf("expected %q but got %q", qoi.ErrInvalidLength, err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, "bad.qoi")); !os.IsNotExist(statErr) {
			t.Fatalf("expected no output file, but got %v", statErr)
		}
	})
}
