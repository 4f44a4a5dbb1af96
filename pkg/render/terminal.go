package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/archipelago/pkg/math3d"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.Width; col++ {
			topColor := r.GetPixel(col, topY)
			botColor := r.GetPixel(col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(topColor),
					Bg: rgbaToColor(botColor),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorSky   = color.RGBA{135, 206, 235, 255}
	ColorSea   = color.RGBA{20, 90, 160, 255}
	ColorFoam  = color.RGBA{200, 230, 245, 255}
	ColorBoat  = color.RGBA{150, 90, 40, 255}
	ColorBody  = color.RGBA{230, 60, 60, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// FromFloat converts [0, 1] channels to a Color.
func FromFloat(rgb [3]float64) Color {
	return RGB(channel(rgb[0]), channel(rgb[1]), channel(rgb[2]))
}

// Shade scales a color's channels by intensity, saturating at 255.
func Shade(c Color, intensity float64) Color {
	return RGB(
		channel(float64(c.R)/255*intensity),
		channel(float64(c.G)/255*intensity),
		channel(float64(c.B)/255*intensity),
	)
}

func channel(v float64) uint8 {
	return uint8(math3d.Clamp(v, 0, 1)*255 + 0.5)
}
