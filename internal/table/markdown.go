package table

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"edgestats/internal/association"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// Markdown renders the grid as a GitHub-style table.
func (g *Grid) Markdown() string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(cellEscaper.Replace(c))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	header := append([]string{" "}, g.Header...)
	header = append(header, "Total")
	writeRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)

	for _, row := range g.Rows {
		cells := []string{row.Label}
		for _, c := range row.Cells {
			cells = append(cells, c.Text())
		}
		writeRow(append(cells, row.Total.Text()))
	}

	totals := []string{"Total"}
	for _, c := range g.Totals {
		totals = append(totals, c.Text())
	}
	writeRow(append(totals, g.GrandTotal.Text()))
	return b.String()
}

// PanelMarkdown renders the statistics panel: upstream scalars, then a
// "From Table" section.
func PanelMarkdown(p association.Panel) string {
	if p.Empty() {
		return "### Nothing to display\n"
	}
	var b strings.Builder
	b.WriteString("### Statistics\n\n")
	for _, l := range p.Upstream {
		b.WriteString("- " + l.Text + "\n")
	}
	if len(p.FromTable) > 0 {
		b.WriteString("\n#### From Table\n\n")
		for _, l := range p.FromTable {
			b.WriteString("- " + l.Text + "\n")
		}
	}
	return b.String()
}

// HTML converts markdown produced by this package into an HTML fragment.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, r)
}

// Report renders the statistics panel followed by the table, if any, as HTML.
func Report(p association.Panel, g *Grid) []byte {
	md := PanelMarkdown(p)
	if g != nil {
		md += "\n### Contingency Table\n\n" + g.Markdown()
	}
	return HTML(md)
}
