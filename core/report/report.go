package report

import (
	"context"
	"errors"
	"fmt"

	"area-reconciler/core/reconcile"
)

// ErrUnknownKind is returned for a report name that is not one of Kinds.
var ErrUnknownKind = errors.New("unknown report")

// ErrUnknownFormat is returned for a format that is not one of Formats.
var ErrUnknownFormat = errors.New("unknown format")

// Kind names one report of an area.
type Kind string

const (
	KindMissingHousenumbers    Kind = "missing-housenumbers"
	KindAdditionalHousenumbers Kind = "additional-housenumbers"
	KindMissingStreets         Kind = "missing-streets"
	KindAdditionalStreets      Kind = "additional-streets"
	KindLints                  Kind = "lints"
)

// Kinds lists every report.
var Kinds = []Kind{
	KindMissingHousenumbers,
	KindAdditionalHousenumbers,
	KindMissingStreets,
	KindAdditionalStreets,
	KindLints,
}

// ParseKind validates a report name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// Title returns the heading used in human-readable formats.
func (k Kind) Title() string {
	switch k {
	case KindMissingHousenumbers:
		return "Missing house numbers"
	case KindAdditionalHousenumbers:
		return "Additional house numbers"
	case KindMissingStreets:
		return "Missing streets"
	case KindAdditionalStreets:
		return "Additional streets"
	case KindLints:
		return "Lints"
	default:
		return string(k)
	}
}

// Format is the encoding of a report artifact. Its value is the file extension.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// Formats lists every artifact format.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON}

// ParseFormat validates a format name. An empty name selects FormatText.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Report is the format-independent content of one report.
type Report struct {
	Area string `json:"area"`
	Kind Kind   `json:"kind"`

	// Coverage is set for the missing reports.
	Coverage string `json:"coverage,omitempty"`

	// Done and Missing count display ranges for house-number reports and
	// streets for street reports.
	Done    int `json:"done"`
	Missing int `json:"missing"`

	Rows    []reconcile.TableRow `json:"rows,omitempty"`
	Streets []string             `json:"streets,omitempty"`
	Lints   []reconcile.Lint     `json:"lints,omitempty"`
}

// Build runs the reconciliation a report needs.
func Build(ctx context.Context, rel *reconcile.Relation, kind Kind) (*Report, error) {
	r := &Report{Area: rel.Name(), Kind: kind}

	switch kind {
	case KindMissingHousenumbers:
		ongoing, done, err := rel.GetMissingHousenumbers(ctx)
		if err != nil {
			return nil, err
		}
		r.Rows = reconcile.Table(ongoing)
		r.Missing = countRows(r.Rows)
		r.Done = countRows(reconcile.Table(done))
		if r.Coverage, err = rel.Coverage(ctx); err != nil {
			return nil, err
		}

	case KindAdditionalHousenumbers:
		items, err := rel.GetAdditionalHousenumbers(ctx)
		if err != nil {
			return nil, err
		}
		r.Rows = reconcile.Table(items)
		r.Missing = countRows(r.Rows)

	case KindMissingStreets:
		onlyInReference, inBoth, err := rel.GetMissingStreets(ctx)
		if err != nil {
			return nil, err
		}
		r.Streets = onlyInReference
		r.Missing = len(onlyInReference)
		r.Done = len(inBoth)
		if r.Coverage, err = rel.StreetCoverage(ctx); err != nil {
			return nil, err
		}

	case KindAdditionalStreets:
		streets, err := rel.GetAdditionalStreets(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range streets {
			r.Streets = append(r.Streets, s.DisplayName())
		}
		r.Missing = len(streets)

	case KindLints:
		lints, err := rel.GetLints(ctx)
		if err != nil {
			return nil, err
		}
		r.Lints = lints
		r.Missing = len(lints)

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}

	return r, nil
}

func countRows(rows []reconcile.TableRow) int {
	n := 0
	for _, row := range rows {
		n += row.Count
	}
	return n
}
