package main

import (
	"fmt"
	"image/color"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/archipelago/pkg/game"
)

var (
	hudBg     = color.RGBA{0, 0, 0, 255}
	hudText   = color.RGBA{235, 235, 235, 255}
	hudGood   = color.RGBA{120, 220, 120, 255}
	hudWarn   = color.RGBA{240, 200, 80, 255}
	hudAlert  = color.RGBA{240, 90, 90, 255}
	noticeFor = 2 * time.Second
)

// hud draws status lines over the top and bottom terminal rows.
type hud struct {
	show bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time

	message string
	until   time.Time
}

func newHUD() *hud {
	return &hud{show: true, fpsTime: time.Now()}
}

// tick updates the FPS counter. Call once per frame.
func (h *hud) tick(now time.Time) {
	h.fpsFrames++
	if elapsed := now.Sub(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// notice shows a transient message on the bottom row.
func (h *hud) notice(msg string, now time.Time) {
	h.message = msg
	h.until = now.Add(noticeFor)
}

func (h *hud) draw(scr uv.Screen, area uv.Rectangle, w *game.World, s *game.Scene, blocked bool) {
	top, bottom := area.Min.Y, area.Max.Y-1
	if h.message != "" && time.Now().Before(h.until) {
		drawText(scr, area.Min.X, bottom, " "+h.message+" ", hudWarn)
	}
	if !h.show {
		return
	}

	drawText(scr, area.Min.X, top, fmt.Sprintf(" %.0f FPS ", h.fps), hudGood)
	title := fmt.Sprintf(" seed %d · gen %d ", w.Islands.Seed(), w.Generation)
	drawText(scr, max((area.Dx()-len(title))/2, area.Min.X), top, title, hudText)

	status := fmt.Sprintf(" heading %3.0f° · %d/%d ashore ",
		w.Heading(), w.Grounded(), len(w.Crowd.Bodies))
	if blocked {
		status += "· AGROUND "
	}
	fg := hudText
	switch {
	case blocked:
		fg = hudAlert
	case s.Blocked:
		fg = hudWarn
	}
	drawText(scr, max(area.Max.X-len([]rune(status)), area.Min.X), bottom, status, fg)
}

// drawText writes s one cell per rune, clipped to the screen.
func drawText(scr uv.Screen, x, y int, s string, fg color.Color) {
	b := scr.Bounds()
	for _, r := range s {
		if x >= b.Max.X {
			return
		}
		if x >= b.Min.X && y >= b.Min.Y && y < b.Max.Y {
			scr.SetCell(x, y, &uv.Cell{
				Content: string(r),
				Width:   1,
				Style:   uv.Style{Fg: fg, Bg: hudBg},
			})
		}
		x++
	}
}
