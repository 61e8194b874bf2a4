package style

import (
	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown for the terminal. Plain output, or any glamour
// failure, returns the source unchanged.
func (r *Renderer) Markdown(content string, width int) string {
	if !r.styled {
		return content
	}

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
