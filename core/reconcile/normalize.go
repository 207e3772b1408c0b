package reconcile

import (
	"strconv"
	"strings"

	"area-reconciler/core/addr"
	"area-reconciler/core/area"
	"area-reconciler/core/utils"
)

// Literal is one canonical house number produced from a raw value, before
// any policy filtering.
type Literal struct {
	// Number is the canonical form, e.g. "42", "42/A" or "7*".
	Number string
	// Value is the numeric part used for range membership.
	Value int
	// Token is the ";"/","-separated piece Number came from.
	Token string
}

// policyLists holds the canonical invalid and valid entries of one street.
type policyLists struct {
	invalid map[string]struct{}
	valid   map[string]struct{}
}

// Normalizer turns raw house-number values into canonical house numbers under
// one area's policy. It caches per-street lists and is not safe for concurrent use.
type Normalizer struct {
	area  *area.Config
	cfg   Config
	lists map[string]policyLists
}

// NewNormalizer creates a Normalizer for an area.
func NewNormalizer(a *area.Config, cfg Config) *Normalizer {
	return &Normalizer{area: a, cfg: cfg, lists: map[string]policyLists{}}
}

// Literals expands raw into canonical literals without filtering. A reference
// comment separated by a tab is returned separately.
func (n *Normalizer) Literals(street, raw string) (literals []Literal, comment string) {
	value, comment, _ := strings.Cut(raw, "\t")
	interpolation := n.area.Interpolation(street)
	for _, token := range utils.SplitAny(value, ";,") {
		for _, piece := range n.expand(token, interpolation) {
			number, v, ok := n.canonical(piece)
			if !ok {
				continue
			}
			literals = append(literals, Literal{Number: number, Value: v, Token: token})
		}
	}
	return literals, strings.TrimSpace(comment)
}

// Normalize returns the de-duplicated house numbers of raw that pass the
// street's policy. When observed is set, numbers rejected by the policy but
// present in observed are reported to sink.
func (n *Normalizer) Normalize(street, raw string, ranges addr.Ranges, observed Observed, sink LintSink) []addr.HouseNumber {
	literals, comment := n.Literals(street, raw)
	lists := n.policy(street)

	var ret []addr.HouseNumber
	seen := make(map[string]struct{}, len(literals))
	for _, lit := range literals {
		if !n.accept(street, lit, ranges, lists, observed, sink) {
			continue
		}
		if _, ok := seen[lit.Number]; ok {
			continue
		}
		seen[lit.Number] = struct{}{}
		ret = append(ret, addr.HouseNumber{Number: lit.Number, Source: lit.Token, Comment: comment})
	}
	return ret
}

// Canonical returns the canonical form of a single house number, or "" when it
// has no numeric part.
func (n *Normalizer) Canonical(value string) string {
	number, _, _ := n.canonical(value)
	return number
}

func (n *Normalizer) accept(street string, lit Literal, ranges addr.Ranges, lists policyLists, observed Observed, sink LintSink) bool {
	if _, ok := lists.invalid[lit.Number]; ok {
		n.report(sink, observed, street, lit.Number, LintSourceInvalid, LintReasonCreatedInOSM)
		return false
	}
	if _, ok := lists.valid[lit.Number]; ok {
		return true
	}
	if !ranges.Contains(lit.Value) {
		n.report(sink, observed, street, lit.Number, LintSourceRange, LintReasonOutOfRange)
		return false
	}
	return true
}

func (n *Normalizer) report(sink LintSink, observed Observed, street, number string, source LintSource, reason LintReason) {
	if sink == nil {
		return
	}
	obj, ok := observed[number]
	if !ok {
		return
	}
	sink.AddLint(Lint{
		Relation:    n.area.Name(),
		Street:      street,
		Source:      source,
		HouseNumber: number,
		Reason:      reason,
		ObjectID:    obj.ID,
		ObjectType:  obj.Type,
	})
}

// expand splits an interval token into the literals it stands for.
func (n *Normalizer) expand(token string, interpolation addr.Interpolation) []string {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return parts
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || start < 0 || end < 0 {
		return parts
	}
	if end < start {
		// "42-1" is a typo for "42", not an interval.
		return parts[:1]
	}

	evenOdd := interpolation == addr.InterpolationDefault
	if start == 0 ||
		end-start > n.cfg.MaxIntervalWidth ||
		(evenOdd && start%2 != end%2) {
		return parts
	}

	step := 1
	if evenOdd {
		step = 2
	}
	ret := make([]string, 0, (end-start)/step+1)
	for i := start; i <= end; i += step {
		ret = append(ret, strconv.Itoa(i))
	}
	return ret
}

// canonical applies the letter-suffix policy to one literal.
func (n *Normalizer) canonical(value string) (string, int, bool) {
	value = strings.TrimSpace(value)
	body, starred := strings.CutSuffix(value, "*")
	v, ok := utils.LeadingInt(body)
	if !ok {
		return "", 0, false
	}
	if n.area.HousenumberLetters() {
		if number, ok := addr.CanonicalLetterSuffix(value, n.area.LetterSuffixStyle()); ok {
			return number, v, true
		}
	}
	number := strconv.Itoa(v)
	if starred {
		number += "*"
	}
	return number, v, true
}

// policy returns the canonical invalid and valid lists of a street.
func (n *Normalizer) policy(street string) policyLists {
	if lists, ok := n.lists[street]; ok {
		return lists
	}
	f, _ := n.area.Filter(street)
	lists := policyLists{invalid: n.canonicalSet(f.Invalid), valid: n.canonicalSet(f.Valid)}
	n.lists[street] = lists
	return lists
}

func (n *Normalizer) canonicalSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if number := n.Canonical(v); number != "" {
			set[number] = struct{}{}
		}
	}
	return set
}
