package report

import (
	"bufio"
	"fmt"
	"io"
)

// WriteText writes r as a tab-separated plain-text table preceded by a
// title and a summary line.
func WriteText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s: %s\n", r.Kind.Title(), r.Area)
	fmt.Fprintln(bw, summary(r))
	fmt.Fprintln(bw)

	switch r.Kind {
	case KindMissingHousenumbers, KindAdditionalHousenumbers:
		for _, row := range r.Rows {
			fmt.Fprintf(bw, "%s\t[%d]\t%s\n", row.Street, row.Count, joinNumbers(row.Numbers))
		}
	case KindMissingStreets, KindAdditionalStreets:
		for _, s := range r.Streets {
			fmt.Fprintln(bw, s)
		}
	case KindLints:
		for _, l := range r.Lints {
			fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\n", l.Street, l.HouseNumber, l.Source, l.Reason, objectRef(l))
		}
	}

	return bw.Flush()
}
