package reconcile

import (
	"fmt"
	"testing"

	"area-reconciler/core/addr"
	"area-reconciler/core/area"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArea(t *testing.T, own area.Document) *area.Config {
	t.Helper()
	settlement := "011"
	c, err := area.NewConfig("test", area.Document{RefSettlement: &settlement}, own)
	require.NoError(t, err)
	return c
}

func numbers(items []addr.HouseNumber) []string {
	ret := make([]string, 0, len(items))
	for _, item := range items {
		ret = append(ret, item.Number)
	}
	return ret
}

func normalize(n *Normalizer, a *area.Config, street, raw string) []string {
	return numbers(n.Normalize(street, raw, a.StreetRanges(street), nil, nil))
}

func TestNormalize_Intervals(t *testing.T) {
	a := newArea(t, area.Document{})
	n := NewNormalizer(a, DefaultConfig())

	tests := []struct {
		raw  string
		want []string
	}{
		{"2-6", []string{"2", "4", "6"}},
		{"5-8", []string{"5", "8"}},
		{"0-42", []string{"42"}},
		{"42-1", []string{"42"}},
		{"2-2000", []string{"2"}},
		{"1-1", []string{"1"}},
		{"1;2", []string{"1", "2"}},
		{"1,3", []string{"1", "3"}},
		{"1*", []string{"1*"}},
		{"42/A", []string{"42"}},
		{"5a-8", []string{"5", "8"}},
		{"x", []string{}},
		{"1-2-3", []string{"1", "2", "3"}},
		{"3;3", []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(n, a, "Street", tt.raw))
		})
	}
}

func TestNormalize_HighRange(t *testing.T) {
	a := newArea(t, area.Document{
		Filters: map[string]area.FilterDocument{
			"Street": {Ranges: []area.RangeDocument{{Start: "1000", End: "1100"}}},
		},
	})
	n := NewNormalizer(a, DefaultConfig())

	assert.Equal(t, []string{"1002", "1004", "1006"}, normalize(n, a, "Street", "1002-1006"))
	assert.Equal(t, []string{"1100"}, normalize(n, a, "Street", "1100-1102"))
}

func TestNormalize_ParityExpansion(t *testing.T) {
	a := newArea(t, area.Document{})
	n := NewNormalizer(a, DefaultConfig())

	for start := 1; start <= 30; start++ {
		for end := start; end <= start+24; end += 2 {
			raw := fmt.Sprintf("%d-%d", start, end)
			var want []string
			for i := start; i <= end; i++ {
				if i%2 == start%2 {
					want = append(want, fmt.Sprint(i))
				}
			}
			assert.Equal(t, want, normalize(n, a, "Street", raw), raw)
		}
	}
}

func TestNormalize_WidthThresholdIsConfigurable(t *testing.T) {
	a := newArea(t, area.Document{})
	cfg := DefaultConfig()
	cfg.MaxIntervalWidth = 4
	n := NewNormalizer(a, cfg)

	assert.Equal(t, []string{"2", "4", "6"}, normalize(n, a, "Street", "2-6"))
	assert.Equal(t, []string{"2", "8"}, normalize(n, a, "Street", "2-8"))
}

func TestNormalize_InterpolationAll(t *testing.T) {
	a := newArea(t, area.Document{
		Filters: map[string]area.FilterDocument{"All utca": {Interpolation: "all"}},
	})
	n := NewNormalizer(a, DefaultConfig())

	assert.Equal(t, []string{"1", "2", "3", "4"}, normalize(n, a, "All utca", "1-4"))
	assert.Equal(t, []string{"1", "3", "5"}, normalize(n, a, "Other utca", "1-5"))
}

func TestNormalize_Letters(t *testing.T) {
	yes := true
	a := newArea(t, area.Document{HousenumberLetters: &yes})
	n := NewNormalizer(a, DefaultConfig())

	for _, raw := range []string{"42a", "42 a", "42/a", "42/A"} {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, []string{"42/A"}, normalize(n, a, "Street", raw))
		})
	}
	assert.Equal(t, []string{"42/A*"}, normalize(n, a, "Street", "42a*"))
	assert.Equal(t, []string{"9"}, normalize(n, a, "Street", "9 AB"))
	assert.Equal(t, []string{"1/A", "1/C"}, normalize(n, a, "Street", "1/A-1/C"))

	lower := "lower"
	la := newArea(t, area.Document{HousenumberLetters: &yes, LetterSuffixStyle: &lower})
	assert.Equal(t, []string{"42/a"}, normalize(NewNormalizer(la, DefaultConfig()), la, "Street", "42A"))
}

func TestNormalize_Idempotent(t *testing.T) {
	yes := true
	for _, letters := range []bool{false, true} {
		doc := area.Document{}
		if letters {
			doc.HousenumberLetters = &yes
		}
		a := newArea(t, doc)
		n := NewNormalizer(a, DefaultConfig())

		for _, raw := range []string{"1", "42a", "7 b*", "2-10", "5-8", "13/C", "1*"} {
			for _, once := range normalize(n, a, "Street", raw) {
				assert.Equal(t, []string{once}, normalize(n, a, "Street", once), "letters=%v raw=%q", letters, raw)
			}
		}
	}
}

func TestNormalize_Comment(t *testing.T) {
	a := newArea(t, area.Document{})
	n := NewNormalizer(a, DefaultConfig())

	got := n.Normalize("Street", "12\tcorner house", a.StreetRanges("Street"), nil, nil)
	require.Len(t, got, 1)
	assert.Equal(t, addr.HouseNumber{Number: "12", Source: "12", Comment: "corner house"}, got[0])
}

func TestNormalize_PolicyAndLints(t *testing.T) {
	a := newArea(t, area.Document{
		Filters: map[string]area.FilterDocument{
			"Street": {
				Invalid: []string{"7", "11"},
				Valid:   []string{"1001"},
				Ranges:  []area.RangeDocument{{Start: "1", End: "21"}},
			},
		},
	})
	n := NewNormalizer(a, DefaultConfig())
	ranges := a.StreetRanges("Street")
	observed := Observed{"7": {ID: 1, Type: "node"}, "23": {ID: 2, Type: "way"}}

	var lints []Lint
	sink := LintFunc(func(l Lint) { lints = append(lints, l) })

	got := n.Normalize("Street", "5;7;11;23;25;1001", ranges, observed, sink)
	assert.Equal(t, []string{"5", "1001"}, numbers(got))

	assert.Equal(t, []Lint{
		{Relation: "test", Street: "Street", Source: LintSourceInvalid, HouseNumber: "7", Reason: LintReasonCreatedInOSM, ObjectID: 1, ObjectType: "node"},
		{Relation: "test", Street: "Street", Source: LintSourceRange, HouseNumber: "23", Reason: LintReasonOutOfRange, ObjectID: 2, ObjectType: "way"},
	}, lints)

	// Without observations nothing is reported.
	lints = nil
	n.Normalize("Street", "7;23", ranges, nil, sink)
	assert.Empty(t, lints)
}

func TestNormalize_InvalidComparedAfterNormalization(t *testing.T) {
	a := newArea(t, area.Document{
		Filters: map[string]area.FilterDocument{"Street": {Invalid: []string{"12/b"}}},
	})
	n := NewNormalizer(a, DefaultConfig())

	// Letters are off, so "12/b" in the list means "12".
	assert.Empty(t, normalize(n, a, "Street", "12"))
	assert.Equal(t, []string{"14"}, normalize(n, a, "Street", "14"))
}

func TestLiterals(t *testing.T) {
	a := newArea(t, area.Document{})
	n := NewNormalizer(a, DefaultConfig())

	literals, comment := n.Literals("Street", "0-3\tnote")
	assert.Equal(t, "note", comment)
	assert.Equal(t, []Literal{
		{Number: "0", Value: 0, Token: "0-3"},
		{Number: "3", Value: 3, Token: "0-3"},
	}, literals)
}
