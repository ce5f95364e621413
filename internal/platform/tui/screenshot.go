package tui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/vovakirdan/tui-engine/internal/config"
)

// SaveScreenshot writes img as a PNG named after the scene and time into dir
// and returns the file path.
func SaveScreenshot(dir, sceneID string, img image.Image, at time.Time) (string, error) {
	dir, err := config.ExpandPath(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: cannot create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", sceneID, at.Format("20060102_150405.000")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("screenshot: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}
