package tui

import (
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// DrawText renders pre-styled text into area.
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawStyled renders text with style, sized to fill area.
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// rows splits area into a one-line header, a body and a one-line footer.
func rows(area uv.Rectangle) (header, body, footer uv.Rectangle) {
	header = uv.Rect(area.Min.X, area.Min.Y, area.Dx(), min(1, area.Dy()))
	footerY := max(area.Max.Y-1, header.Max.Y)
	footer = uv.Rect(area.Min.X, footerY, area.Dx(), area.Max.Y-footerY)
	body = uv.Rect(area.Min.X, header.Max.Y, area.Dx(), max(0, footerY-header.Max.Y))
	return header, body, footer
}
