// Package snapshot exports paint maps, dirt maps and the display as PNG
// files.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
)

// ToImage converts float texels in [0,1], bottom row first, into an image
// with the top row first. channels is 1 (grey) or 4 (RGBA, straight alpha).
func ToImage(pixels []float32, width, height, channels int) (image.Image, error) {
	if channels != 1 && channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	if len(pixels) != width*height*channels {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*channels, len(pixels))
	}

	if channels == 1 {
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			srcY := height - 1 - y // Flip Y
			for x := 0; x < width; x++ {
				img.SetGray(x, y, color.Gray{Y: toByte(pixels[srcY*width+x])})
			}
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := height - 1 - y // Flip Y
		src := pixels[srcY*width*4 : (srcY+1)*width*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for i, v := range src {
			dst[i] = toByte(v)
		}
	}
	return img, nil
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Capture writes PNG files into one directory.
type Capture struct {
	outputDir string
	prefix    string
}

// NewCapture creates a capture handler. An empty outputDir writes into the
// working directory.
func NewCapture(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// Save encodes img as <prefix>_<name>.png and returns the path.
func (c *Capture) Save(name string, img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := fmt.Sprintf("%s_%s.png", c.prefix, name)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// SavePixels converts float texels with ToImage, scales them and saves.
func (c *Capture) SavePixels(name string, pixels []float32, width, height, channels, scale int) (string, error) {
	img, err := ToImage(pixels, width, height, channels)
	if err != nil {
		return "", err
	}
	return c.Save(name, Scale(img, scale))
}

// Timestamped returns a name unique to the current second.
func Timestamped() string {
	return time.Now().Format("2006-01-02_15-04-05")
}
