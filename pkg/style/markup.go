package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles
type MarkupParser struct {
	styles   map[string]lipgloss.Style
	patterns map[string]*regexp.Regexp
	plain    bool
}

// NewMarkupParser creates a parser with the default tags. A plain parser
// strips the tags instead of styling.
func NewMarkupParser(plain bool) *MarkupParser {
	p := &MarkupParser{
		styles:   make(map[string]lipgloss.Style),
		patterns: make(map[string]*regexp.Regexp),
		plain:    plain,
	}
	for tag, st := range map[string]lipgloss.Style{
		"title":      TitleStyle,
		"success":    SuccessStyle,
		"error":      ErrorStyle,
		"warning":    WarningStyle,
		"info":       InfoStyle,
		"code":       CodeStyle,
		"path":       PathStyle,
		"muted":      MutedStyle,
		"bold":       lipgloss.NewStyle().Bold(true),
		"enabled":    EnabledStyle,
		"disabled":   DisabledStyle,
		"separator":  SeparatorStyle,
		"override":   OverrideStyle,
		"overridden": OverriddenStyle,
	} {
		p.AddStyle(tag, st)
	}
	return p
}

// AddStyle registers or replaces a tag
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
	p.patterns[tag] = regexp.MustCompile(`\[` + regexp.QuoteMeta(tag) + `\](.*?)\[/` + regexp.QuoteMeta(tag) + `\]`)
}

// Render processes markup text. Nested tags are resolved innermost first.
func (p *MarkupParser) Render(text string) string {
	result := text
	for {
		before := result
		for tag, pattern := range p.patterns {
			style := p.styles[tag]
			result = pattern.ReplaceAllStringFunc(result, func(match string) string {
				content := pattern.FindStringSubmatch(match)[1]
				if p.plain {
					return content
				}
				return style.Render(content)
			})
		}
		if result == before {
			return result
		}
	}
}

// RenderTemplate substitutes {{key}} variables, then renders markup
func (p *MarkupParser) RenderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return p.Render(result)
}
