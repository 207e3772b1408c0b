package relations

import (
	"context"
	"errors"
	"fmt"

	"area-reconciler/core/area"
	"area-reconciler/core/inventory"
	"area-reconciler/core/metrics"
	"area-reconciler/core/reconcile"
	"area-reconciler/core/report"

	"go.uber.org/zap"
)

// ErrReportDisabled is returned when an area's policy turns a report off.
var ErrReportDisabled = errors.New("report disabled for area")

// Summary describes one area in listings.
type Summary struct {
	Name           string        `json:"name"`
	Aliases        []string      `json:"aliases,omitempty"`
	OSMRelation    int64         `json:"osmrelation"`
	RefCounty      string        `json:"refcounty"`
	RefSettlement  string        `json:"refsettlement"`
	MissingStreets string        `json:"missing_streets"`
	Active         bool          `json:"active"`
	Reports        []report.Kind `json:"reports"`
}

// CacheEntry is the freshness of one cached report artifact.
type CacheEntry struct {
	Report  report.Kind   `json:"report"`
	Format  report.Format `json:"format"`
	Path    string        `json:"path"`
	Current bool          `json:"current"`
}

// Service computes and caches area reports.
type Service struct {
	areas   *area.Loader
	inv     inventory.Inventory
	cache   *reconcile.ResultCache
	cfg     reconcile.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService creates a new relations service.
func NewService(areas *area.Loader, inv inventory.Inventory, cache *reconcile.ResultCache, cfg reconcile.Config, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		areas:   areas,
		inv:     inv,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// Allowed reports whether the policy of a enables the report kind.
func Allowed(a *area.Config, kind report.Kind) error {
	policy := a.MissingStreets()
	switch kind {
	case report.KindMissingStreets, report.KindAdditionalStreets:
		if policy == area.MissingStreetsNo {
			return fmt.Errorf("%w: %s for %s (missing-streets: no)", ErrReportDisabled, kind, a.Name())
		}
	case report.KindMissingHousenumbers, report.KindLints:
		if policy == area.MissingStreetsOnly {
			return fmt.Errorf("%w: %s for %s (missing-streets: only)", ErrReportDisabled, kind, a.Name())
		}
	case report.KindAdditionalHousenumbers:
		if policy == area.MissingStreetsOnly || !a.AdditionalHousenumbers() {
			return fmt.Errorf("%w: %s for %s", ErrReportDisabled, kind, a.Name())
		}
	}
	return nil
}

func enabledReports(a *area.Config) []report.Kind {
	var ret []report.Kind
	for _, kind := range report.Kinds {
		if Allowed(a, kind) == nil {
			ret = append(ret, kind)
		}
	}
	return ret
}

// Areas lists every configured area. Inactive areas are only included when
// all is set.
func (s *Service) Areas(ctx context.Context, all bool) ([]Summary, error) {
	names, err := s.areas.Names(ctx)
	if err != nil {
		return nil, err
	}
	ret := make([]Summary, 0, len(names))
	for _, name := range names {
		a, err := s.areas.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		if !a.Active() && !all {
			continue
		}
		ret = append(ret, Summary{
			Name:           name,
			Aliases:        a.Alias(),
			OSMRelation:    a.OSMRelation(),
			RefCounty:      a.RefCounty(),
			RefSettlement:  a.RefSettlement(),
			MissingStreets: a.MissingStreets().String(),
			Active:         a.Active(),
			Reports:        enabledReports(a),
		})
	}
	return ret, nil
}

// Dependencies returns every path a report of name is computed from.
func (s *Service) Dependencies(name string) []string {
	return append(s.areas.Paths(name), s.inv.Dependencies(name)...)
}

// Report returns one report of an area, from the cache when it is current.
// name may be an alias; the report is cached under the canonical name.
func (s *Service) Report(ctx context.Context, name string, kind report.Kind, format report.Format) ([]byte, error) {
	a, err := s.areas.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := Allowed(a, kind); err != nil {
		return nil, err
	}

	key := reconcile.CacheKey{Area: a.Name(), Report: string(kind), Format: string(format)}
	return s.cache.GetOrCompute(ctx, key, s.Dependencies(a.Name()), func(ctx context.Context) ([]byte, error) {
		rel := reconcile.NewRelation(a, s.inv, s.cfg, s.logger, s.metrics)
		r, err := report.Build(ctx, rel, kind)
		if err != nil {
			return nil, err
		}
		return report.Render(r, format)
	})
}

// MissingHousenumbers returns the missing house numbers report of an area.
func (s *Service) MissingHousenumbers(ctx context.Context, name string, format report.Format) ([]byte, error) {
	return s.Report(ctx, name, report.KindMissingHousenumbers, format)
}

// AdditionalHousenumbers returns the additional house numbers report of an area.
func (s *Service) AdditionalHousenumbers(ctx context.Context, name string, format report.Format) ([]byte, error) {
	return s.Report(ctx, name, report.KindAdditionalHousenumbers, format)
}

// MissingStreets returns the missing streets report of an area.
func (s *Service) MissingStreets(ctx context.Context, name string, format report.Format) ([]byte, error) {
	return s.Report(ctx, name, report.KindMissingStreets, format)
}

// AdditionalStreets returns the additional streets report of an area.
func (s *Service) AdditionalStreets(ctx context.Context, name string, format report.Format) ([]byte, error) {
	return s.Report(ctx, name, report.KindAdditionalStreets, format)
}

// Lints returns the lints report of an area.
func (s *Service) Lints(ctx context.Context, name string, format report.Format) ([]byte, error) {
	return s.Report(ctx, name, report.KindLints, format)
}

// CacheStatus reports the freshness of every artifact of an area.
func (s *Service) CacheStatus(ctx context.Context, name string) ([]CacheEntry, error) {
	a, err := s.areas.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	deps := s.Dependencies(a.Name())

	var ret []CacheEntry
	for _, kind := range enabledReports(a) {
		for _, format := range report.Formats {
			p := s.cache.Path(reconcile.CacheKey{Area: a.Name(), Report: string(kind), Format: string(format)})
			current, err := s.cache.IsCurrent(ctx, p, deps)
			if err != nil {
				return nil, err
			}
			ret = append(ret, CacheEntry{Report: kind, Format: format, Path: p, Current: current})
		}
	}
	return ret, nil
}
