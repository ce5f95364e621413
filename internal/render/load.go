package render

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder
)

// LoadBitmap decodes a PNG, JPEG, GIF or BMP file into a bitmap.
func LoadBitmap(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	bm, err := DecodeBitmap(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return bm, nil
}

// DecodeBitmap decodes any registered image format from r.
func DecodeBitmap(r io.Reader) (*Bitmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewBitmapFromImage(img), nil
}
