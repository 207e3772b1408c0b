package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

const osmBrowseURL = "https://www.openstreetmap.org/"

// WriteMarkdown writes r as a GitHub-flavored Markdown document.
func WriteMarkdown(w io.Writer, r *Report) error {
	md := markdown.NewMarkdown(w)

	md.H1(r.Kind.Title() + ": " + r.Area)
	md.PlainText("")
	md.PlainText(summary(r))
	md.PlainText("")

	switch r.Kind {
	case KindMissingHousenumbers, KindAdditionalHousenumbers:
		writeRowsTable(md, r)
	case KindMissingStreets, KindAdditionalStreets:
		writeStreetList(md, r)
	case KindLints:
		writeLintsTable(md, r)
	}

	return md.Build()
}

func writeRowsTable(md *markdown.Markdown, r *Report) {
	if len(r.Rows) == 0 {
		md.PlainText("Nothing to report.")
		return
	}
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{row.Street, strconv.Itoa(row.Count), joinNumbers(row.Numbers)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Street", "Count", "House numbers"},
		Rows:   rows,
	})
}

func writeStreetList(md *markdown.Markdown, r *Report) {
	if len(r.Streets) == 0 {
		md.PlainText("Nothing to report.")
		return
	}
	md.BulletList(r.Streets...)
}

func writeLintsTable(md *markdown.Markdown, r *Report) {
	if len(r.Lints) == 0 {
		md.PlainText("Nothing to report.")
		return
	}
	rows := make([][]string, 0, len(r.Lints))
	for _, l := range r.Lints {
		object := objectRef(l)
		if object != "" {
			object = "[" + object + "](" + osmBrowseURL + object + ")"
		}
		rows = append(rows, []string{l.Street, l.HouseNumber, l.Source.String(), l.Reason.String(), object})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Street", "House number", "Source", "Reason", "OSM object"},
		Rows:   rows,
	})
}
