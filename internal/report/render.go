package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"nsfgstats/domain/stats"
)

// WriteText prints the report the way the exercise script does: the
// mode, the top modes one per line, then each comparison.
func WriteText(w io.Writer, r *Report) error {
	if err := WriteModes(w, r); err != nil {
		return err
	}
	for _, c := range r.Comparisons {
		if err := WriteComparison(w, c); err != nil {
			return err
		}
	}
	return nil
}

// WriteModes prints the mode line followed by the top modes
func WriteModes(w io.Writer, r *Report) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Mode of %s %s\n", r.ModeVariable, num(r.Mode))
	for _, p := range r.TopModes {
		fmt.Fprintf(&buf, "%s %d\n", num(p.Value), p.Freq)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteComparison prints the two means, their difference and Cohen's d,
// one line each.
func WriteComparison(w io.Writer, c Comparison) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %s %s\n", c.Variable, num(c.FirstsMean), num(c.OthersMean))
	fmt.Fprintf(&buf, "%s: %s\n", c.Variable, num(c.Difference))
	fmt.Fprintf(&buf, "%s: %s\n", c.Variable, num(c.CohenD))
	_, err := w.Write(buf.Bytes())
	return err
}

// Markdown renders the report as a Markdown document
func Markdown(r *Report) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Pregnancy statistics\n\n")
	fmt.Fprintf(&buf, "Run `%s` over %s, generated %s.\n\n", r.RunID, r.Source, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&buf, "| group | records |\n|---|---:|\n")
	fmt.Fprintf(&buf, "| live births | %d |\n| first babies | %d |\n| others | %d |\n\n", r.Live, r.Firsts, r.Others)

	fmt.Fprintf(&buf, "## Modes of %s\n\n", r.ModeVariable)
	fmt.Fprintf(&buf, "The mode is **%s**.\n\n", num(r.Mode))
	writePairs(&buf, "frequency", r.TopModes)

	if len(r.Smallest) > 0 {
		fmt.Fprintf(&buf, "### Smallest values\n\n")
		writePairs(&buf, "frequency", r.Smallest)
		fmt.Fprintf(&buf, "### Largest values\n\n")
		writePairs(&buf, "frequency", r.Largest)
	}

	if len(r.Comparisons) > 0 {
		fmt.Fprintf(&buf, "## First babies versus others\n\n")
		fmt.Fprintf(&buf, "| variable | firsts mean | others mean | difference | Cohen's d |\n")
		fmt.Fprintf(&buf, "|---|---:|---:|---:|---:|\n")
		for _, c := range r.Comparisons {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s |\n",
				c.Variable, fixed(c.FirstsMean), fixed(c.OthersMean), fixed(c.Difference), fixed(c.CohenD))
		}
		fmt.Fprintf(&buf, "\n")
	}
	return buf.Bytes()
}

// HTML renders the report as a complete HTML page
func HTML(r *Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Pregnancy statistics",
	})
	return markdown.ToHTML(Markdown(r), p, renderer)
}

func writePairs(buf *bytes.Buffer, label string, pairs []stats.Pair) {
	fmt.Fprintf(buf, "| value | %s |\n|---:|---:|\n", label)
	for _, p := range pairs {
		fmt.Fprintf(buf, "| %s | %d |\n", num(p.Value), p.Freq)
	}
	buf.WriteString("\n")
}

// num uses the shortest representation that round-trips, so 39 prints
// as 39 and means keep all their digits.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
