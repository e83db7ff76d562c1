package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/contactscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the results in Markdown format.
func (w *MarkdownWriter) Write(results []*model.SiteResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, results)
	w.writeSummaryTable(md, results)
	for _, r := range results {
		w.writeSite(md, r)
	}
	w.writeFooter(md, results)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and run totals.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, results []*model.SiteResult) {
	md.H1("Contactscan Report")
	md.PlainText("")

	emails, phones := totalContacts(results)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Sites Crawled", strconv.Itoa(len(results))},
			{"Emails Found", strconv.Itoa(emails)},
			{"Phones Found", strconv.Itoa(phones)},
		},
	})
	md.PlainText("")
}

// writeSummaryTable writes the per-site overview table.
func (w *MarkdownWriter) writeSummaryTable(md *markdown.Markdown, results []*model.SiteResult) {
	md.H2("Overview")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("No sites were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			"`" + r.URL + "`",
			strconv.Itoa(len(r.Emails)),
			strconv.Itoa(len(r.Phones)),
			strconv.Itoa(r.PagesVisited),
			r.StopReason.String(),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Site", "Emails", "Phones", "Pages", "Stop Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSite writes one site's detail section.
func (w *MarkdownWriter) writeSite(md *markdown.Markdown, r *model.SiteResult) {
	md.H2(r.URL)
	md.PlainText("")

	if r.UsedDynamicFallback {
		md.Note("Static crawling found nothing; the contacts below came from a browser-rendered fetch of the landing page.")
		md.PlainText("")
	}

	md.H3("Emails")
	md.PlainText("")
	if len(r.Emails) == 0 {
		md.PlainText("No emails found.")
	} else {
		items := make([]string, len(r.Emails))
		for i, e := range r.Emails {
			items[i] = "[" + e + "](mailto:" + e + ")"
		}
		md.BulletList(items...)
	}
	md.PlainText("")

	md.H3("Phones")
	md.PlainText("")
	if len(r.Phones) == 0 {
		md.PlainText("No phones found.")
	} else {
		items := make([]string, len(r.Phones))
		for i, p := range r.Phones {
			items[i] = p + " ([WhatsApp](" + model.WhatsAppLink(p) + "))"
		}
		md.BulletList(items...)
	}
	md.PlainText("")
}

// writeFooter writes the bulk mailto section and the generator line.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, results []*model.SiteResult) {
	if mailto := model.BulkMailto(results); mailto != "" {
		md.H2("Write To All")
		md.PlainText("")
		md.PlainText("[Open a draft addressing every collected email](" + mailto + ")")
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by contactscan*")
}
