package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"

	progressWidth = 20
)

// RenderProgress renders how much of a list is done as a bar like
// [█████░░░░░] 5/8. An empty list renders an empty bar with 0/0.
func RenderProgress(completed, total, width int) string {
	if width < 2 {
		width = 2
	}
	completed = max(0, min(completed, total))

	filled := 0
	if total > 0 {
		filled = completed * width / total
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	switch {
	case total > 0 && completed == total:
		style = StyleGreen
	case completed == 0:
		style = StyleDim
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), completed, total)
}
