package reconcile

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"area-reconciler/core/addr"
	"area-reconciler/core/area"
	"area-reconciler/core/inventory"
	"area-reconciler/core/metrics"
	"area-reconciler/core/utils"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// osmNumbers is the memo entry of one street's OSM house numbers.
type osmNumbers struct {
	// numbers passed the street's ranges.
	numbers []addr.HouseNumber
	// observed holds every canonical number seen, filtered or not.
	observed Observed
}

// refNumbers is the memo entry of one street's reference house numbers.
type refNumbers struct {
	numbers []addr.HouseNumber
	// seen holds every canonical number of the street's reference rows.
	seen map[string]struct{}
}

type missingResult struct {
	ongoing []StreetNumbers
	done    []StreetNumbers
}

type missingStreetsResult struct {
	onlyInReference []string
	inBoth          []string
}

// Relation reconciles one area. It loads its inventory lazily and memoizes
// per-street results, so it must be created per request and never shared
// between goroutines.
type Relation struct {
	area     *area.Config
	inv      inventory.Inventory
	norm     *Normalizer
	collator *collate.Collator
	logger   *zap.Logger
	metrics  *metrics.Metrics

	osmStreets  []inventory.OSMStreet
	osmByStreet map[string][]inventory.OSMHouseNumber
	// osmOrder lists house-number street names in first-seen order.
	osmOrder    []string
	refByStreet map[string][]inventory.RefHouseNumber
	refStreets  []string

	osmMemo map[string]*osmNumbers
	refMemo map[string]*refNumbers
	missing        *missingResult
	missingStreets *missingStreetsResult
	lints          []Lint
}

// NewRelation creates the engine for one area.
func NewRelation(a *area.Config, inv inventory.Inventory, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Relation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relation{
		area:     a,
		inv:      inv,
		norm:     NewNormalizer(a, cfg),
		collator: collate.New(language.Make(cfg.Locale)),
		logger:   logger.With(zap.String("area", a.Name())),
		metrics:  m,
		osmMemo:  map[string]*osmNumbers{},
		refMemo:  map[string]*refNumbers{},
	}
}

// Name returns the area name.
func (r *Relation) Name() string {
	return r.area.Name()
}

func (r *Relation) observe(operation string, start time.Time) {
	d := time.Since(start)
	r.metrics.ObserveReconcile(operation, d)
	r.logger.Debug("Reconciliation finished", zap.String("operation", operation), zap.Duration("took", d))
}

func (r *Relation) sortStrings(values []string) {
	slices.SortStableFunc(values, r.collator.CompareString)
}

func (r *Relation) countyMatches(county string) bool {
	want := r.area.RefCounty()
	return want == "" || county == "" || county == want
}

func settlementAllowed(allowed []string, settlement string) bool {
	if settlement == "" {
		return true
	}
	for _, s := range allowed {
		if s == "" || s == settlement {
			return true
		}
	}
	return false
}

func (r *Relation) loadOSMStreets(ctx context.Context) ([]inventory.OSMStreet, error) {
	if r.osmStreets != nil {
		return r.osmStreets, nil
	}
	rows, err := r.inv.OSMStreets(ctx, r.Name())
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []inventory.OSMStreet{}
	}
	r.osmStreets = rows
	return rows, nil
}

func (r *Relation) loadOSMHouseNumbers(ctx context.Context) (map[string][]inventory.OSMHouseNumber, error) {
	if r.osmByStreet != nil {
		return r.osmByStreet, nil
	}
	rows, err := r.inv.OSMHouseNumbers(ctx, r.Name())
	if err != nil {
		return nil, err
	}
	byStreet := map[string][]inventory.OSMHouseNumber{}
	for _, row := range rows {
		name := row.StreetName()
		if name == "" {
			continue
		}
		if _, ok := byStreet[name]; !ok {
			r.osmOrder = append(r.osmOrder, name)
		}
		byStreet[name] = append(byStreet[name], row)
	}
	r.osmByStreet = byStreet
	return byStreet, nil
}

// loadRefHouseNumbers groups the reference rows of the area's county by street.
func (r *Relation) loadRefHouseNumbers(ctx context.Context) (map[string][]inventory.RefHouseNumber, error) {
	if r.refByStreet != nil {
		return r.refByStreet, nil
	}
	rows, err := r.inv.RefHouseNumbers(ctx, r.Name())
	if err != nil {
		return nil, err
	}
	byStreet := map[string][]inventory.RefHouseNumber{}
	for _, row := range rows {
		if row.Street == "" || !r.countyMatches(row.County) {
			continue
		}
		byStreet[row.Street] = append(byStreet[row.Street], row)
	}
	r.refByStreet = byStreet
	return byStreet, nil
}

// loadRefStreets returns the unique reference street names of the area.
func (r *Relation) loadRefStreets(ctx context.Context) ([]string, error) {
	if r.refStreets != nil {
		return r.refStreets, nil
	}
	rows, err := r.inv.RefStreets(ctx, r.Name())
	if err != nil {
		return nil, err
	}
	allowed := r.area.Settlements()
	names := []string{}
	for _, row := range rows {
		if row.Street == "" || !r.countyMatches(row.County) || !settlementAllowed(allowed, row.Settlement) {
			continue
		}
		names = append(names, row.Street)
	}
	r.refStreets = addr.Unique(names, addr.Identity[string])
	return r.refStreets, nil
}

// streets returns the OSM streets of the area in collation order. With
// withHouseNumbers set, streets only known from house-number objects
// (addr:street or addr:place) are included.
func (r *Relation) streets(ctx context.Context, withHouseNumbers bool) ([]addr.Street, error) {
	osmStreets, err := r.loadOSMStreets(ctx)
	if err != nil {
		return nil, err
	}
	var ret []addr.Street
	seen := map[string]struct{}{}
	add := func(name string, id int64, typ string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		ret = append(ret, r.area.Street(name, id, typ))
	}
	for _, s := range osmStreets {
		add(s.Name, s.ID, s.Type)
	}
	if withHouseNumbers {
		byStreet, err := r.loadOSMHouseNumbers(ctx)
		if err != nil {
			return nil, err
		}
		for _, name := range r.osmOrder {
			first := byStreet[name][0]
			add(name, first.ID, first.Type)
		}
	}
	slices.SortStableFunc(ret, func(a, b addr.Street) int {
		return r.collator.CompareString(a.OSMName, b.OSMName)
	})
	return ret, nil
}

// osmNumbersFor builds, once per street, the OSM house numbers that pass the
// street's ranges and the set of all numbers observed on it.
func (r *Relation) osmNumbersFor(ctx context.Context, street string) (*osmNumbers, error) {
	if entry, ok := r.osmMemo[street]; ok {
		return entry, nil
	}
	byStreet, err := r.loadOSMHouseNumbers(ctx)
	if err != nil {
		return nil, err
	}

	ranges := r.area.StreetRanges(street)
	entry := &osmNumbers{observed: Observed{}}
	for _, row := range byStreet[street] {
		obj := ObjectRef{ID: row.ID, Type: row.Type}
		for _, raw := range []string{row.HouseNumber, row.ConscriptionNumber} {
			if raw == "" {
				continue
			}
			literals, _ := r.norm.Literals(street, raw)
			for _, lit := range literals {
				if _, ok := entry.observed[lit.Number]; !ok {
					entry.observed[lit.Number] = obj
				}
			}
			entry.numbers = append(entry.numbers, r.norm.Normalize(street, raw, ranges, nil, nil)...)
		}
	}
	entry.numbers = addr.Unique(entry.numbers, addr.NumberKey)
	addr.SortHouseNumbers(entry.numbers)
	r.osmMemo[street] = entry
	return entry, nil
}

// refNumbersFor normalizes, once per street, the reference rows of the
// street's reference name. Lints are recorded against the OSM observations.
func (r *Relation) refNumbersFor(ctx context.Context, street string) (*refNumbers, error) {
	if entry, ok := r.refMemo[street]; ok {
		return entry, nil
	}
	byStreet, err := r.loadRefHouseNumbers(ctx)
	if err != nil {
		return nil, err
	}
	osm, err := r.osmNumbersFor(ctx, street)
	if err != nil {
		return nil, err
	}

	ranges := r.area.StreetRanges(street)
	allowed := ranges.AllSettlements()
	sink := LintFunc(func(l Lint) { r.lints = append(r.lints, l) })
	entry := &refNumbers{seen: map[string]struct{}{}}
	for _, row := range byStreet[r.area.RefStreetOf(street)] {
		raw := row.HouseNumber
		if row.Comment != "" {
			raw += "\t" + row.Comment
		}
		literals, _ := r.norm.Literals(street, raw)
		for _, lit := range literals {
			entry.seen[lit.Number] = struct{}{}
		}
		if !settlementAllowed(allowed, row.Settlement) {
			continue
		}
		for _, hn := range r.norm.Normalize(street, raw, ranges, osm.observed, sink) {
			n, _ := utils.LeadingInt(hn.Number)
			if !settlementAllowed(ranges.Settlements(n), row.Settlement) {
				continue
			}
			entry.numbers = append(entry.numbers, hn)
		}
	}
	entry.numbers = addr.Unique(entry.numbers, addr.NumberKey)
	addr.SortHouseNumbers(entry.numbers)
	r.refMemo[street] = entry
	return entry, nil
}

// GetMissingStreets returns the reference streets absent from OSM and the
// reference streets present in both, in collation order. OSM names are mapped
// to reference names first; street-filters entries are never reported missing.
func (r *Relation) GetMissingStreets(ctx context.Context) (onlyInReference []string, inBoth []string, err error) {
	if r.missingStreets != nil {
		return r.missingStreets.onlyInReference, r.missingStreets.inBoth, nil
	}
	defer r.observe("missing-streets", time.Now())

	refNames, err := r.loadRefStreets(ctx)
	if err != nil {
		return nil, nil, err
	}
	streets, err := r.streets(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	osmNames := make([]string, 0, len(streets))
	for _, s := range streets {
		osmNames = append(osmNames, s.RefName)
	}

	onlyInReference = addr.OnlyInFirst(refNames, osmNames, addr.Identity[string])
	onlyInReference = addr.OnlyInFirst(onlyInReference, r.area.StreetFilters(), addr.Identity[string])
	inBoth = addr.InBoth(refNames, osmNames, addr.Identity[string])
	r.sortStrings(onlyInReference)
	r.sortStrings(inBoth)
	r.missingStreets = &missingStreetsResult{onlyInReference: onlyInReference, inBoth: inBoth}
	return onlyInReference, inBoth, nil
}

// GetAdditionalStreets returns OSM streets whose reference name is not in the
// reference street registry, minus osm-street-filters entries.
func (r *Relation) GetAdditionalStreets(ctx context.Context) ([]addr.Street, error) {
	defer r.observe("additional-streets", time.Now())

	refNames, err := r.loadRefStreets(ctx)
	if err != nil {
		return nil, err
	}
	streets, err := r.streets(ctx, false)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(refNames))
	for _, name := range refNames {
		known[name] = struct{}{}
	}
	filtered := r.area.OSMStreetFilters()

	var ret []addr.Street
	for _, s := range streets {
		if slices.Contains(filtered, s.OSMName) {
			continue
		}
		if _, ok := known[s.RefName]; ok {
			continue
		}
		ret = append(ret, s)
	}
	return ret, nil
}

// GetMissingHousenumbers classifies, per OSM street, the reference house
// numbers into ongoing (absent from OSM) and done (present in OSM). Ongoing
// streets are ordered by the number of missing ranges, largest first.
func (r *Relation) GetMissingHousenumbers(ctx context.Context) (ongoing []StreetNumbers, done []StreetNumbers, err error) {
	if r.missing != nil {
		return r.missing.ongoing, r.missing.done, nil
	}
	defer r.observe("missing-housenumbers", time.Now())

	streets, err := r.streets(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	if _, err := r.loadRefHouseNumbers(ctx); err != nil {
		return nil, nil, err
	}

	for _, street := range streets {
		osm, err := r.osmNumbersFor(ctx, street.OSMName)
		if err != nil {
			return nil, nil, err
		}
		ref, err := r.refNumbersFor(ctx, street.OSMName)
		if err != nil {
			return nil, nil, err
		}
		if missing := addr.OnlyInFirst(ref.numbers, osm.numbers, addr.NumberKey); len(missing) > 0 {
			ongoing = append(ongoing, StreetNumbers{Street: street, Numbers: missing})
		}
		if present := addr.InBoth(ref.numbers, osm.numbers, addr.NumberKey); len(present) > 0 {
			done = append(done, StreetNumbers{Street: street, Numbers: present})
		}
	}

	if err := r.lintStalePolicy(ctx); err != nil {
		return nil, nil, err
	}

	sortByRangeCount(ongoing)
	r.missing = &missingResult{ongoing: ongoing, done: done}
	r.logger.Debug("Missing house numbers computed",
		zap.Int("streets", len(streets)),
		zap.Int("ongoing", len(ongoing)),
		zap.Int("done", len(done)))
	return ongoing, done, nil
}

// lintStalePolicy records DeletedFromRef lints for invalid and valid entries
// that match nothing in either inventory.
func (r *Relation) lintStalePolicy(ctx context.Context) error {
	filters := r.area.Filters()
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, street := range names {
		f := filters[street]
		if len(f.Invalid) == 0 && len(f.Valid) == 0 {
			continue
		}
		ref, err := r.refNumbersFor(ctx, street)
		if err != nil {
			return err
		}
		osm, err := r.osmNumbersFor(ctx, street)
		if err != nil {
			return err
		}
		stale := func(values []string, source LintSource) {
			for _, v := range values {
				number := r.norm.Canonical(v)
				if number == "" {
					continue
				}
				_, inRef := ref.seen[number]
				_, inOSM := osm.observed[number]
				if inRef || inOSM {
					continue
				}
				r.lints = append(r.lints, Lint{
					Relation:    r.Name(),
					Street:      street,
					Source:      source,
					HouseNumber: number,
					Reason:      LintReasonDeletedFromRef,
				})
			}
		}
		stale(f.Invalid, LintSourceInvalid)
		stale(f.Valid, LintSourceValid)
	}
	return nil
}

// GetAdditionalHousenumbers returns, per OSM street, house numbers present in
// OSM but not in the reference, minus the street's valid list. Streets in
// osm-street-filters are skipped.
func (r *Relation) GetAdditionalHousenumbers(ctx context.Context) ([]StreetNumbers, error) {
	defer r.observe("additional-housenumbers", time.Now())

	streets, err := r.streets(ctx, true)
	if err != nil {
		return nil, err
	}
	if _, err := r.loadRefHouseNumbers(ctx); err != nil {
		return nil, err
	}
	filtered := r.area.OSMStreetFilters()

	var ret []StreetNumbers
	for _, street := range streets {
		if slices.Contains(filtered, street.OSMName) {
			continue
		}
		osm, err := r.osmNumbersFor(ctx, street.OSMName)
		if err != nil {
			return nil, err
		}
		ref, err := r.refNumbersFor(ctx, street.OSMName)
		if err != nil {
			return nil, err
		}
		extra := addr.OnlyInFirst(osm.numbers, ref.numbers, addr.NumberKey)
		valid := r.norm.policy(street.OSMName).valid
		extra = slices.DeleteFunc(extra, func(h addr.HouseNumber) bool {
			_, ok := valid[h.Number]
			return ok
		})
		if len(extra) > 0 {
			ret = append(ret, StreetNumbers{Street: street, Numbers: extra})
		}
	}
	sortByRangeCount(ret)
	return ret, nil
}

// GetLints returns the lints recorded since the last call, ordered by source,
// reason, street and number, and forgets them. The missing house-number pass
// is run first when it has not run yet.
func (r *Relation) GetLints(ctx context.Context) ([]Lint, error) {
	if r.missing == nil {
		if _, _, err := r.GetMissingHousenumbers(ctx); err != nil {
			return nil, err
		}
	}
	lints := addr.Unique(r.lints, addr.Identity[Lint])
	r.lints = nil
	slices.SortStableFunc(lints, CompareLints)

	counts := map[[2]string]int{}
	for _, l := range lints {
		counts[[2]string{l.Source.String(), l.Reason.String()}]++
	}
	for k, n := range counts {
		r.metrics.AddLints(k[0], k[1], n)
	}
	return lints, nil
}

// Coverage returns the share of reference house-number ranges present in OSM,
// formatted with two decimals.
func (r *Relation) Coverage(ctx context.Context) (string, error) {
	ongoing, done, err := r.GetMissingHousenumbers(ctx)
	if err != nil {
		return "", err
	}
	return FormatPercent(countRanges(done), countRanges(ongoing)), nil
}

// StreetCoverage returns the share of reference streets present in OSM,
// formatted with two decimals.
func (r *Relation) StreetCoverage(ctx context.Context) (string, error) {
	onlyInReference, inBoth, err := r.GetMissingStreets(ctx)
	if err != nil {
		return "", err
	}
	return FormatPercent(len(inBoth), len(onlyInReference)), nil
}

// FormatPercent returns done/(done+ongoing) as a percentage rounded half away
// from zero to two decimals. An empty denominator is full coverage.
func FormatPercent(done, ongoing int) string {
	total := done + ongoing
	if total == 0 {
		return "100.00"
	}
	percent := float64(done) * 100 / float64(total)
	return fmt.Sprintf("%.2f", math.Round(percent*100)/100)
}

func countRanges(items []StreetNumbers) int {
	n := 0
	for _, item := range items {
		n += len(item.Ranges())
	}
	return n
}

func sortByRangeCount(items []StreetNumbers) {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item.Street.OSMName] = len(item.Ranges())
	}
	sort.SliceStable(items, func(i, j int) bool {
		return counts[items[i].Street.OSMName] > counts[items[j].Street.OSMName]
	})
}
