package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Framebuffer is a row-major pixel grid. Terminal output packs two rows
// into each cell with half-block characters, so a terminal of R rows wants
// a framebuffer 2R pixels high.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
}

// NewFramebuffer creates a width×height framebuffer of transparent pixels.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize changes the dimensions, reusing the pixel slice when it is large
// enough. Contents are cleared to transparent.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	n := width * height
	if cap(fb.Pixels) >= n {
		fb.Pixels = fb.Pixels[:n]
		clear(fb.Pixels)
	} else {
		fb.Pixels = make([]Color, n)
	}
	fb.Width, fb.Height = width, height
}

// Bounds returns the pixel rectangle.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

func (fb *Framebuffer) in(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Clear fills every pixel with c.
func (fb *Framebuffer) Clear(c Color) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel writes (x, y); out-of-range writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if fb.in(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// GetPixel reads (x, y), or transparent black outside the buffer.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.in(x, y) {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a Bresenham line between two pixels, inclusive.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect fills the w×h rectangle at (x, y), clipped to the buffer.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(fb.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := fb.Pixels[py*fb.Width : (py+1)*fb.Width]
		for px := r.Min.X; px < r.Max.X; px++ {
			row[px] = c
		}
	}
}

// DrawRectOutline draws the one-pixel border of the w×h rectangle at
// (x, y).
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	right, bottom := x+w-1, y+h-1
	fb.DrawLine(x, y, right, y, c)
	fb.DrawLine(x, bottom, right, bottom, c)
	fb.DrawLine(x, y, x, bottom, c)
	fb.DrawLine(right, y, right, bottom, c)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	if x < 0 {
		return -1
	}
	return 1
}

// ToImage copies the framebuffer into an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for i, c := range fb.Pixels {
		o := i * 4
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// SavePNG writes the framebuffer to path as a PNG.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
