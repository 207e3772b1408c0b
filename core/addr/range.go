package addr

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned for range bounds that are not numbers or that
// violate the ordering and parity rules of their interpolation.
var ErrInvalidRange = errors.New("invalid range")

// Interpolation controls which numbers inside a Range are members.
type Interpolation int

const (
	// InterpolationDefault keeps only numbers sharing the parity of the range start.
	InterpolationDefault Interpolation = iota
	// InterpolationAll keeps every integer inside the range.
	InterpolationAll
)

// ParseInterpolation maps the document spelling to an Interpolation.
// An empty string is the default.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return InterpolationDefault, nil
	case "all":
		return InterpolationAll, nil
	default:
		return InterpolationDefault, fmt.Errorf("unknown interpolation %q", s)
	}
}

func (i Interpolation) String() string {
	if i == InterpolationAll {
		return "all"
	}
	return "default"
}

// Range is an inclusive interval of house numbers.
type Range struct {
	Start         int
	End           int
	Interpolation Interpolation
	// RefSettlement overrides the area settlement for numbers in this range.
	RefSettlement string
}

// NewRange validates the bounds and returns a Range.
func NewRange(start, end int, interpolation Interpolation, refSettlement string) (Range, error) {
	if end < start {
		return Range{}, fmt.Errorf("%w: end %d is before start %d", ErrInvalidRange, end, start)
	}
	if interpolation == InterpolationDefault && start%2 != end%2 {
		return Range{}, fmt.Errorf("%w: start %d and end %d differ in parity", ErrInvalidRange, start, end)
	}
	return Range{Start: start, End: end, Interpolation: interpolation, RefSettlement: refSettlement}, nil
}

// ParseRange builds a Range from textual bounds as they appear in area documents.
func ParseRange(start, end string, interpolation Interpolation, refSettlement string) (Range, error) {
	s, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return Range{}, fmt.Errorf("%w: start %q is not a number", ErrInvalidRange, start)
	}
	e, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return Range{}, fmt.Errorf("%w: end %q is not a number", ErrInvalidRange, end)
	}
	return NewRange(s, e, interpolation, refSettlement)
}

// Contains reports whether n is a member of the range.
func (r Range) Contains(n int) bool {
	if n < r.Start || n > r.End {
		return false
	}
	return r.Interpolation == InterpolationAll || n%2 == r.Start%2
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Ranges is the set of ranges configured for one street. The ranges may overlap.
type Ranges struct {
	items             []Range
	defaultSettlement string
}

// NewRanges groups items; defaultSettlement is returned by Settlements when no
// matching range carries an override.
func NewRanges(items []Range, defaultSettlement string) Ranges {
	return Ranges{items: slices.Clone(items), defaultSettlement: defaultSettlement}
}

// DefaultRanges returns the ranges used for streets without explicit ranges:
// odd numbers 1-999 and even numbers 2-998.
func DefaultRanges(interpolation Interpolation, defaultSettlement string) Ranges {
	return NewRanges([]Range{
		{Start: 1, End: 999, Interpolation: interpolation},
		{Start: 2, End: 998, Interpolation: interpolation},
	}, defaultSettlement)
}

// Contains reports whether any range accepts n.
func (r Ranges) Contains(n int) bool {
	for _, item := range r.items {
		if item.Contains(n) {
			return true
		}
	}
	return false
}

// Settlements returns the settlement codes n belongs to: the sorted, unique
// overrides of every matching range, or the default settlement when none apply.
func (r Ranges) Settlements(n int) []string {
	var ret []string
	for _, item := range r.items {
		if item.RefSettlement != "" && item.Contains(n) {
			ret = append(ret, item.RefSettlement)
		}
	}
	if len(ret) == 0 {
		return []string{r.defaultSettlement}
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}

// AllSettlements returns every settlement code the ranges can resolve to.
func (r Ranges) AllSettlements() []string {
	ret := []string{r.defaultSettlement}
	for _, item := range r.items {
		if item.RefSettlement != "" {
			ret = append(ret, item.RefSettlement)
		}
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}
