package modstack

import (
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/modstack/pkg/style"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// helpStyled reports whether help output may carry styling. Help goes to
// stdout, and NO_COLOR or a dumb terminal turn it off.
func helpStyled() bool {
	return style.DetectFormat(os.Stdout) == style.FormatTerminal
}

func formatBold(s string) string {
	if !helpStyled() {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting registers the funcs used by MsgUsageTemplate
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}
