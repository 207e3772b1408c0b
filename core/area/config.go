package area

import (
	"fmt"
	"slices"

	"area-reconciler/core/addr"
)

// MissingStreetsPolicy selects which reports an area produces.
type MissingStreetsPolicy int

const (
	// MissingStreetsYes produces both street and house-number reports.
	MissingStreetsYes MissingStreetsPolicy = iota
	// MissingStreetsNo disables the missing-streets report.
	MissingStreetsNo
	// MissingStreetsOnly produces street reports only.
	MissingStreetsOnly
)

func (p MissingStreetsPolicy) String() string {
	switch p {
	case MissingStreetsNo:
		return "no"
	case MissingStreetsOnly:
		return "only"
	default:
		return "yes"
	}
}

func parseMissingStreets(s string) MissingStreetsPolicy {
	switch s {
	case "no":
		return MissingStreetsNo
	case "only":
		return MissingStreetsOnly
	default:
		return MissingStreetsYes
	}
}

// StreetFilter is the resolved policy of one street.
type StreetFilter struct {
	Ranges        []addr.Range
	Invalid       []string
	Valid         []string
	Interpolation addr.Interpolation
	// ShowRefStreet is nil when the filter does not override the default.
	ShowRefStreet *bool
	RefSettlement string
}

// Config is the resolved policy of one area. The shared and area-specific
// layers are kept and every accessor resolves its key on read.
type Config struct {
	name    string
	shared  Document
	own     Document
	filters map[string]StreetFilter
}

// pick returns the area-specific value, else the shared one, else def.
func pick[T any](own, shared *T, def T) T {
	if own != nil {
		return *own
	}
	if shared != nil {
		return *shared
	}
	return def
}

func pickSlice[T any](own, shared []T) []T {
	if own != nil {
		return own
	}
	return shared
}

func pickMap[K comparable, V any](own, shared map[K]V) map[K]V {
	if own != nil {
		return own
	}
	return shared
}

// NewConfig resolves the two layers of an area. Range bounds and the
// refstreets mapping are validated here so that a broken document fails before
// any reconciliation starts.
func NewConfig(name string, shared, own Document) (*Config, error) {
	c := &Config{name: name, shared: shared, own: own}

	filters, err := c.resolveFilters()
	if err != nil {
		return nil, err
	}
	c.filters = filters

	refStreets := c.RefStreets()
	seen := make(map[string]string, len(refStreets))
	for osmName, refName := range refStreets {
		if other, ok := seen[refName]; ok {
			return nil, &ConfigError{
				Area: name,
				Key:  "refstreets",
				Err:  fmt.Errorf("%q and %q both map to %q", min(other, osmName), max(other, osmName), refName),
			}
		}
		seen[refName] = osmName
	}

	return c, nil
}

func (c *Config) resolveFilters() (map[string]StreetFilter, error) {
	docs := pickMap(c.own.Filters, c.shared.Filters)
	filters := make(map[string]StreetFilter, len(docs))
	for street, doc := range docs {
		interpolation, err := addr.ParseInterpolation(doc.Interpolation)
		if err != nil {
			return nil, &ConfigError{Area: c.name, Key: "filters." + street + ".interpolation", Err: err}
		}
		f := StreetFilter{
			Invalid:       doc.Invalid,
			Valid:         doc.Valid,
			Interpolation: interpolation,
			ShowRefStreet: doc.ShowRefStreet,
			RefSettlement: doc.RefSettlement,
		}
		for i, rd := range doc.Ranges {
			r, err := addr.ParseRange(rd.Start, rd.End, interpolation, rd.RefSettlement)
			if err != nil {
				return nil, &ConfigError{Area: c.name, Key: fmt.Sprintf("filters.%s.ranges[%d]", street, i), Err: err}
			}
			f.Ranges = append(f.Ranges, r)
		}
		filters[street] = f
	}
	return filters, nil
}

// Name returns the area name.
func (c *Config) Name() string { return c.name }

// OSMRelation returns the OSM relation id of the area boundary.
func (c *Config) OSMRelation() int64 { return pick(c.own.OSMRelation, c.shared.OSMRelation, 0) }

// RefCounty returns the reference county code.
func (c *Config) RefCounty() string { return pick(c.own.RefCounty, c.shared.RefCounty, "") }

// RefSettlement returns the default reference settlement code.
func (c *Config) RefSettlement() string { return pick(c.own.RefSettlement, c.shared.RefSettlement, "") }

// MissingStreets returns the report policy. Defaults to MissingStreetsYes.
func (c *Config) MissingStreets() MissingStreetsPolicy {
	return parseMissingStreets(pick(c.own.MissingStreets, c.shared.MissingStreets, "yes"))
}

// HousenumberLetters reports whether letter suffixes are significant. Defaults to false.
func (c *Config) HousenumberLetters() bool {
	return pick(c.own.HousenumberLetters, c.shared.HousenumberLetters, false)
}

// AdditionalHousenumbers reports whether the additional house-number report is enabled.
// Defaults to true.
func (c *Config) AdditionalHousenumbers() bool {
	return pick(c.own.AdditionalHousenumbers, c.shared.AdditionalHousenumbers, true)
}

// LetterSuffixStyle returns the case of canonical letter suffixes. Defaults to upper.
func (c *Config) LetterSuffixStyle() addr.LetterSuffixStyle {
	return addr.ParseLetterSuffixStyle(pick(c.own.LetterSuffixStyle, c.shared.LetterSuffixStyle, "upper"))
}

// Active reports whether the area is tracked.
func (c *Config) Active() bool {
	return !pick(c.own.Inactive, c.shared.Inactive, false)
}

// Alias returns alternative names of the area.
func (c *Config) Alias() []string { return slices.Clone(pickSlice(c.own.Alias, c.shared.Alias)) }

// StreetFilters returns reference street names known to be absent on purpose.
func (c *Config) StreetFilters() []string {
	return slices.Clone(pickSlice(c.own.StreetFilters, c.shared.StreetFilters))
}

// OSMStreetFilters returns OSM street names to leave out of the additional streets report.
func (c *Config) OSMStreetFilters() []string {
	return slices.Clone(pickSlice(c.own.OSMStreetFilters, c.shared.OSMStreetFilters))
}

// RefStreets returns the OSM name to reference name alias map.
func (c *Config) RefStreets() map[string]string {
	return pickMap(c.own.RefStreets, c.shared.RefStreets)
}

// RefStreetOf maps an OSM street name to its reference name.
func (c *Config) RefStreetOf(osmName string) string {
	if ref, ok := c.RefStreets()[osmName]; ok {
		return ref
	}
	return osmName
}

// Filters returns the resolved street filters keyed by OSM street name.
func (c *Config) Filters() map[string]StreetFilter {
	return c.filters
}

// Filter returns the filter of one street.
func (c *Config) Filter(street string) (StreetFilter, bool) {
	f, ok := c.filters[street]
	return f, ok
}

// Interpolation returns the interpolation of a street.
func (c *Config) Interpolation(street string) addr.Interpolation {
	return c.filters[street].Interpolation
}

// StreetSettlement returns the settlement a street belongs to when no range overrides it.
func (c *Config) StreetSettlement(street string) string {
	if f, ok := c.filters[street]; ok && f.RefSettlement != "" {
		return f.RefSettlement
	}
	return c.RefSettlement()
}

// StreetRanges returns the configured ranges of a street, or the default
// 1-999 / 2-998 pair when the street has none.
func (c *Config) StreetRanges(street string) addr.Ranges {
	f, ok := c.filters[street]
	settlement := c.StreetSettlement(street)
	if !ok || len(f.Ranges) == 0 {
		return addr.DefaultRanges(f.Interpolation, settlement)
	}
	return addr.NewRanges(f.Ranges, settlement)
}

// ShowRefStreet reports whether reports show the reference name next to the
// OSM name. Aliased streets show it unless the filter says otherwise.
func (c *Config) ShowRefStreet(street string) bool {
	if f, ok := c.filters[street]; ok && f.ShowRefStreet != nil {
		return *f.ShowRefStreet
	}
	_, aliased := c.RefStreets()[street]
	return aliased
}

// Settlements returns every settlement code referenced by the area.
func (c *Config) Settlements() []string {
	ret := []string{c.RefSettlement()}
	for street := range c.filters {
		ret = append(ret, c.StreetRanges(street).AllSettlements()...)
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}

// Street builds the addr.Street for an OSM street name.
func (c *Config) Street(osmName string, osmID int64, osmType string) addr.Street {
	return addr.Street{
		OSMName:       osmName,
		RefName:       c.RefStreetOf(osmName),
		ShowRefStreet: c.ShowRefStreet(osmName),
		OSMID:         osmID,
		OSMType:       osmType,
	}
}
