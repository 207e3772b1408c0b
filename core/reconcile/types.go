package reconcile

import (
	"cmp"
	"strings"

	"area-reconciler/core/addr"
)

// Config holds tuning knobs of the normalizer and the street collation.
type Config struct {
	// MaxIntervalWidth is the widest "start-end" token that is still expanded.
	MaxIntervalWidth int `mapstructure:"max_interval_width" default:"24" validate:"gte=1"`
	// Locale selects the collation used to order street names.
	Locale string `mapstructure:"locale" default:"hu" validate:"required"`
}

// DefaultConfig returns the configuration used when none is loaded.
func DefaultConfig() Config {
	return Config{MaxIntervalWidth: 24, Locale: "hu"}
}

// LintSource tells which policy list or rule a lint is about.
// The declaration order is the report order.
type LintSource int

const (
	// LintSourceInvalid is about an entry of a street's invalid list.
	LintSourceInvalid LintSource = iota
	// LintSourceValid is about an entry of a street's valid list.
	LintSourceValid
	// LintSourceRange is about a street's ranges.
	LintSourceRange
)

func (s LintSource) String() string {
	switch s {
	case LintSourceInvalid:
		return "invalid"
	case LintSourceValid:
		return "valid"
	case LintSourceRange:
		return "range"
	default:
		return "unknown"
	}
}

// MarshalText renders the source in reports.
func (s LintSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LintReason tells why a house number did not reconcile cleanly.
// The declaration order is the report order.
type LintReason int

const (
	// LintReasonCreatedInOSM: the number is filtered out of the reference but
	// exists in OSM.
	LintReasonCreatedInOSM LintReason = iota
	// LintReasonOutOfRange: the reference number is outside the street's ranges
	// but exists in OSM.
	LintReasonOutOfRange
	// LintReasonDeletedFromRef: a policy list entry matches nothing in either
	// inventory any more.
	LintReasonDeletedFromRef
)

func (r LintReason) String() string {
	switch r {
	case LintReasonCreatedInOSM:
		return "created-in-osm"
	case LintReasonOutOfRange:
		return "out-of-range"
	case LintReasonDeletedFromRef:
		return "deleted-from-reference"
	default:
		return "unknown"
	}
}

// MarshalText renders the reason in reports.
func (r LintReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Lint describes one house number that did not reconcile cleanly.
type Lint struct {
	// Relation is the area name.
	Relation string `json:"relation"`

	// Street is the OSM street name.
	Street string `json:"street"`

	Source LintSource `json:"source"`

	// HouseNumber is the canonical number the lint is about.
	HouseNumber string `json:"housenumber"`

	Reason LintReason `json:"reason"`

	// ObjectID and ObjectType point at the OSM object carrying the number.
	// They are empty for DeletedFromRef lints.
	ObjectID   int64  `json:"object_id,omitempty"`
	ObjectType string `json:"object_type,omitempty"`
}

// CompareLints orders lints by source, reason, street and house number.
func CompareLints(a, b Lint) int {
	if c := cmp.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Reason, b.Reason); c != 0 {
		return c
	}
	if c := strings.Compare(a.Street, b.Street); c != 0 {
		return c
	}
	return addr.CompareNumbers(a.HouseNumber, b.HouseNumber)
}

// LintSink receives lints produced while normalizing reference numbers.
type LintSink interface {
	AddLint(Lint)
}

// LintFunc adapts a function to LintSink.
type LintFunc func(Lint)

// AddLint calls f(l).
func (f LintFunc) AddLint(l Lint) {
	f(l)
}

// ObjectRef identifies an OSM object.
type ObjectRef struct {
	ID   int64
	Type string
}

// Observed maps canonical house numbers seen in OSM to the first object carrying them.
type Observed map[string]ObjectRef

// StreetNumbers is a street with the house numbers a report lists for it.
type StreetNumbers struct {
	Street  addr.Street        `json:"street"`
	Numbers []addr.HouseNumber `json:"housenumbers"`
}

// Ranges returns the display ranges of the numbers.
func (s StreetNumbers) Ranges() []addr.HouseNumberRange {
	return addr.CoalesceRanges(s.Numbers)
}

// TableRow is one line of a missing or additional house-number table.
type TableRow struct {
	Street string `json:"street"`
	// Count is the number of display ranges in Numbers.
	Count   int                     `json:"count"`
	Numbers []addr.HouseNumberRange `json:"housenumbers"`
}

// Table turns street/number lists into report rows, keeping their order.
func Table(items []StreetNumbers) []TableRow {
	rows := make([]TableRow, 0, len(items))
	for _, item := range items {
		ranges := item.Ranges()
		rows = append(rows, TableRow{
			Street:  item.Street.DisplayName(),
			Count:   len(ranges),
			Numbers: ranges,
		})
	}
	return rows
}
