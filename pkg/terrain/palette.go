package terrain

import "fmt"

// ColorStyle is the visual theme of an island.
type ColorStyle int

const (
	Tropical ColorStyle = iota
	Volcano
	Arctic

	styleCount
)

// StyleCount is the number of color styles.
const StyleCount = int(styleCount)

var styleNames = [...]string{"tropical", "volcano", "arctic"}

func (s ColorStyle) String() string {
	if s < 0 || s >= styleCount {
		return fmt.Sprintf("ColorStyle(%d)", int(s))
	}
	return styleNames[s]
}

// bandLimits are the upper bounds of the first three elevation bands as a
// fraction of the maximum height.
var bandLimits = [3]float64{0.15, 0.45, 0.75}

var palettes = [styleCount][4][3]float64{
	Tropical: {
		{0.86, 0.78, 0.55}, // sand
		{0.35, 0.70, 0.30}, // grass
		{0.15, 0.50, 0.20}, // forest
		{0.50, 0.45, 0.40}, // rock
	},
	Volcano: {
		{0.30, 0.28, 0.26},
		{0.40, 0.20, 0.15},
		{0.60, 0.25, 0.10},
		{0.90, 0.40, 0.10},
	},
	Arctic: {
		{0.60, 0.65, 0.70},
		{0.75, 0.85, 0.95},
		{0.90, 0.95, 1.00},
		{1.00, 1.00, 1.00},
	},
}

// ColorForHeight returns the RGB band color for a height above the island
// base. Unknown styles fall back to Tropical.
func ColorForHeight(style ColorStyle, h, maxHeight float64) [3]float64 {
	if style < 0 || style >= styleCount {
		style = Tropical
	}
	t := 0.0
	if maxHeight > 0 {
		t = h / maxHeight
	}
	band := len(bandLimits)
	for i, limit := range bandLimits {
		if t < limit {
			band = i
			break
		}
	}
	return palettes[style][band]
}
