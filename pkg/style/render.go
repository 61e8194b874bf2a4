package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/modstack/pkg/conflicts"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/overlay"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Renderer turns engine results into terminal output
type Renderer struct {
	styled bool
	markup *MarkupParser
}

// NewRenderer creates a renderer for a resolved format. pterm styling is
// switched globally to match.
func NewRenderer(format Format) *Renderer {
	styled := format == FormatTerminal
	if styled {
		pterm.EnableStyling()
	} else {
		pterm.DisableStyling()
	}
	return &Renderer{styled: styled, markup: NewMarkupParser(!styled)}
}

// Styled reports whether output carries colours
func (r *Renderer) Styled() bool { return r.styled }

// Markup renders [tag] markup
func (r *Renderer) Markup(text string) string {
	return r.markup.Render(text)
}

func (r *Renderer) paint(st lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return st.Render(text)
}

func (r *Renderer) table(data pterm.TableData) string {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		// pterm only fails on malformed data; fall back to tab separated rows
		var b strings.Builder
		for _, row := range data {
			b.WriteString(strings.Join(row, "\t") + "\n")
		}
		return b.String()
	}
	return out
}

// LoadOrder renders the order as a table of position, state and name.
// Separators take no position.
func (r *Renderer) LoadOrder(lo loadorder.LoadOrder) string {
	if len(lo) == 0 {
		return r.paint(MutedStyle, "Load order is empty")
	}

	data := pterm.TableData{{"#", "State", "Package"}}
	pos := 0
	for _, e := range lo {
		switch e.State {
		case loadorder.Separator:
			data = append(data, []string{"", "", r.paint(SeparatorStyle, "── "+e.Name+" ──")})
		case loadorder.Enabled:
			data = append(data, []string{fmt.Sprint(pos), r.paint(EnabledStyle, "enabled"), e.Name})
			pos++
		default:
			data = append(data, []string{fmt.Sprint(pos), r.paint(DisabledStyle, "disabled"), r.paint(DisabledStyle, e.Name)})
			pos++
		}
	}
	return r.table(data)
}

// SyncReport summarises a load order sync, empty when nothing changed
func (r *Renderer) SyncReport(rep loadorder.SyncReport) string {
	if !rep.Changed() {
		return ""
	}
	var lines []string
	for _, name := range rep.Added {
		lines = append(lines, r.Markup(fmt.Sprintf("[info]+[/info] %s (new package, disabled)", name)))
	}
	for _, name := range rep.Pruned {
		lines = append(lines, r.Markup(fmt.Sprintf("[warning]-[/warning] %s (directory gone)", name)))
	}
	for _, name := range rep.Duplicates {
		lines = append(lines, r.Markup(fmt.Sprintf("[warning]-[/warning] %s (duplicate entry)", name)))
	}
	return strings.Join(lines, "\n")
}

// Deploy summarises a deployment
func (r *Renderer) Deploy(res *overlay.DeployResult) string {
	var b strings.Builder
	if res.Restored != nil && !res.Restored.NothingToRestore {
		b.WriteString(r.Restore(res.Restored) + "\n")
	}
	b.WriteString(r.Markup(fmt.Sprintf(
		"[success]Deployed[/success] %d package(s): %d path(s) overlaid, %d original(s) backed up",
		res.Packages, len(res.CopyManifest), len(res.BackupManifest))))
	if len(res.Plugins) > 0 {
		b.WriteString(fmt.Sprintf("\n%d plugin(s) indexed", len(res.Plugins)))
	}
	if res.Swept > 0 {
		b.WriteString(fmt.Sprintf("\n%d stray link(s) removed", res.Swept))
	}
	for _, s := range res.Skipped {
		b.WriteString("\n" + r.Markup(fmt.Sprintf("[warning]skipped[/warning] %s/%s: %v", s.Package, s.Path, s.Err)))
	}
	return b.String()
}

// Restore summarises a restore
func (r *Renderer) Restore(res *overlay.RestoreResult) string {
	if res.NothingToRestore {
		return r.paint(MutedStyle, "Nothing to restore")
	}
	var b strings.Builder
	b.WriteString(r.Markup(fmt.Sprintf(
		"[success]Restored[/success] target: %d path(s) removed, %d original(s) put back",
		res.Removed, res.Restored)))
	for _, f := range res.Failures {
		b.WriteString("\n" + r.Markup(fmt.Sprintf("[error]failed[/error] %s: %v", f.Path, f.Err)))
	}
	return b.String()
}

// Status describes whether a deployment is active
type Status struct {
	Active      bool
	Copied      int
	BackedUp    int
	Packages    int
	Enabled     int
	TargetRoot  string
	PackageRoot string
}

// Status renders a deployment status block
func (r *Renderer) Status(s Status) string {
	state := r.paint(MutedStyle, "not deployed")
	if s.Active {
		state = r.paint(SuccessStyle, "deployed")
	}
	lines := []string{
		fmt.Sprintf("%-10s %s", "state:", state),
		fmt.Sprintf("%-10s %s", "target:", r.paint(PathStyle, s.TargetRoot)),
		fmt.Sprintf("%-10s %s", "packages:", r.paint(PathStyle, s.PackageRoot)),
		fmt.Sprintf("%-10s %d enabled of %d", "order:", s.Enabled, s.Packages),
	}
	if s.Active {
		lines = append(lines, fmt.Sprintf("%-10s %d overlaid, %d backed up", "manifest:", s.Copied, s.BackedUp))
	}
	return strings.Join(lines, "\n")
}

func edgeNames(edges []conflicts.Edge) string {
	names := make([]string, 0, len(edges))
	for _, e := range edges {
		names = append(names, fmt.Sprintf("%s (%d)", e.Package, len(e.Files)))
	}
	return strings.Join(names, ", ")
}

// Conflicts renders the override report as a table
func (r *Renderer) Conflicts(res *conflicts.Result) string {
	report := res.Report()
	if len(report) == 0 {
		return r.paint(SuccessStyle, "No conflicts")
	}

	data := pterm.TableData{{"Package", "Overrides", "Overridden by", "Fully overridden by"}}
	for _, pr := range report {
		data = append(data, []string{
			pr.Package,
			r.paint(OverrideStyle, edgeNames(pr.Overrides)),
			r.paint(OverriddenStyle, edgeNames(pr.OverriddenBy)),
			r.paint(ErrorStyle, strings.Join(pr.FullyOverriddenBy, ", ")),
		})
	}
	return r.table(data)
}

// ConflictsMarkdown writes the override report as a markdown document
func ConflictsMarkdown(res *conflicts.Result) string {
	report := res.Report()
	var b strings.Builder
	b.WriteString("# Conflicts\n\n")
	if len(report) == 0 {
		b.WriteString("No conflicts.\n")
		return b.String()
	}
	for _, pr := range report {
		b.WriteString("## " + pr.Package + "\n\n")
		if len(pr.FullyOverriddenBy) > 0 {
			b.WriteString("**Fully overridden by** " + strings.Join(pr.FullyOverriddenBy, ", ") + "\n\n")
		}
		for _, e := range pr.Overrides {
			b.WriteString(fmt.Sprintf("- overrides **%s**: %s\n", e.Package, codeList(e.Files)))
		}
		for _, e := range pr.OverriddenBy {
			b.WriteString(fmt.Sprintf("- overridden by **%s**: %s\n", e.Package, codeList(e.Files)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func codeList(files []string) string {
	quoted := make([]string, len(files))
	for i, f := range files {
		quoted[i] = "`" + f + "`"
	}
	return strings.Join(quoted, ", ")
}
