package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// upperHalfBlock shows the top pixel as foreground and the bottom pixel as
// background of a single cell.
const upperHalfBlock = "▀"

// CellWriter receives terminal cells. uv.Screen implements it.
type CellWriter interface {
	SetCell(x, y int, c *uv.Cell)
}

// Draw paints the framebuffer onto scr inside area. Terminal row r shows
// framebuffer rows 2r and 2r+1, so the framebuffer should be twice as tall
// as the area.
func (fb *Framebuffer) Draw(scr CellWriter, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		y := (row - area.Min.Y) * 2
		if y >= fb.Height {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: upperHalfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, y)),
					Bg: cellColor(fb.GetPixel(x, y+1)),
				},
			})
		}
	}
}

// cellColor maps fully transparent pixels to the terminal default color.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
