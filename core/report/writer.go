package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"area-reconciler/core/addr"
	"area-reconciler/core/reconcile"
)

// Write encodes r to w in format f.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatText:
		return WriteText(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// Render returns r encoded in format f.
func Render(r *Report, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, r, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// joinNumbers renders display ranges as "1, 3-7, 10 (comment)".
func joinNumbers(numbers []addr.HouseNumberRange) string {
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if n.Comment != "" {
			parts = append(parts, n.Number+" ("+n.Comment+")")
			continue
		}
		parts = append(parts, n.Number)
	}
	return strings.Join(parts, ", ")
}

// objectRef renders the OSM object of a lint as "node/123", or "" when unknown.
func objectRef(l reconcile.Lint) string {
	if l.ObjectType == "" || l.ObjectID == 0 {
		return ""
	}
	return fmt.Sprintf("%s/%d", l.ObjectType, l.ObjectID)
}

// summary is the one-line headline of the counted reports.
func summary(r *Report) string {
	switch r.Kind {
	case KindMissingHousenumbers, KindMissingStreets:
		return fmt.Sprintf("Coverage: %s%% (%d present, %d missing)", r.Coverage, r.Done, r.Missing)
	case KindAdditionalHousenumbers, KindAdditionalStreets:
		return fmt.Sprintf("%d not in the reference", r.Missing)
	default:
		return fmt.Sprintf("%d lints", r.Missing)
	}
}
