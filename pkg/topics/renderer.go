package topics

import (
	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for display
type Renderer interface {
	// Render takes raw content and its file extension and returns formatted content
	Render(content string, format string) string
}

// PlainRenderer returns content as-is
type PlainRenderer struct{}

// Render returns the content unchanged
func (r *PlainRenderer) Render(content string, format string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour
type GlamourRenderer struct {
	Style string // "dark", "light", "notty", "auto", or path to a custom style
	Width int    // 0 leaves wrapping to glamour
}

// NewGlamourRenderer creates a markdown renderer with style auto-detection
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

// Render converts markdown to terminal output, falling back to the raw
// content when glamour cannot render it
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
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
