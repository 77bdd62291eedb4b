package tui

// Key labels used in hint bars.
const (
	KeyUpDown    = "↑/↓"
	KeyLeftRight = "←/→"
	KeyEnter     = "enter"
	KeyEsc       = "esc"
	KeyTab       = "tab"
	KeyCtrlC     = "ctrl+c"
	KeyCtrlN     = "ctrl+n"
	KeyCtrlB     = "ctrl+b"
	KeyCtrlS     = "ctrl+s"
	KeyCtrlR     = "ctrl+r"
	KeyCtrlD     = "ctrl+d"
	KeyCtrlL     = "ctrl+l"
)

// RenderHint renders a single key-description pair.
func RenderHint(key, desc string) string {
	return styleHintKey.Render(key) + " " + styleHintDesc.Render(desc)
}

// RenderHintBar renders key-description pairs separated by bullets.
// Example: RenderHintBar("tab", "next field", "esc", "close")
// Returns: "tab next field • esc close"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + styleHintSeparator.Render("•") + " "
		}
		result += RenderHint(pairs[i], pairs[i+1])
	}
	return result
}
