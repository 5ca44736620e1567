// Package snapshot stores downsized screenshots of failing steps.
package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nfnt/resize"
)

// DefaultMaxWidth keeps screenshots readable without bloating CI artifacts
const DefaultMaxWidth = 800

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Save decodes a PNG screenshot, shrinks it to maxWidth keeping the aspect
// ratio, and writes it to dir. It returns the written path.
func Save(data []byte, dir, name string, maxWidth uint) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode screenshot: %w", err)
	}
	img = Shrink(img, maxWidth)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(name))
	if err := writePNG(img, path); err != nil {
		return "", err
	}
	return path, nil
}

// writePNG encodes img to path. Nothing is left at path on failure.
func writePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// Shrink scales img down to maxWidth. Narrower images are returned as is.
func Shrink(img image.Image, maxWidth uint) image.Image {
	if maxWidth == 0 {
		maxWidth = DefaultMaxWidth
	}
	if uint(img.Bounds().Dx()) <= maxWidth {
		return img
	}
	// Height 0 preserves the aspect ratio.
	return resize.Resize(maxWidth, 0, img, resize.Lanczos3)
}

// FileName makes name safe for use as a file name and adds the .png extension
func FileName(name string) string {
	s := strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if s == "" {
		s = "screenshot"
	}
	return s + ".png"
}
