package relations

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"area-reconciler/core/area"
	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"
	"area-reconciler/core/metrics"
	"area-reconciler/core/reconcile"
	"area-reconciler/core/report"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sharedYAML = `
gazdagret:
  osmrelation: 2713748
  refcounty: "01"
  refsettlement: "011"
onlystreets:
  osmrelation: 1
  refcounty: "01"
  refsettlement: "011"
  missing-streets: only
nostreets:
  osmrelation: 2
  refcounty: "01"
  refsettlement: "011"
  missing-streets: "no"
noextracts:
  osmrelation: 3
  refcounty: "01"
  refsettlement: "011"
retired:
  osmrelation: 4
  refcounty: "01"
  refsettlement: "011"
  inactive: true
`

func extracts(area string) map[string]string {
	return map[string]string{
		"workdir/streets-" + area + ".tsv": "@id\tname\thighway\n" +
			"1\tAdy utca\tresidential\n",
		"workdir/street-housenumbers-" + area + ".tsv": "@id\taddr:street\taddr:housenumber\t@type\n" +
			"10\tAdy utca\t1\tnode\n",
		"workdir/streets-reference-" + area + ".tsv": "COUNTY_CODE\tSETTLEMENT_CODE\tSTREET\n" +
			"01\t011\tAdy utca\n" +
			"01\t011\tBéla utca\n",
		"workdir/street-housenumbers-reference-" + area + ".tsv": "COUNTY_CODE\tSETTLEMENT_CODE\tSTREET\tHOUSENUMBER\tCOMMENT\n" +
			"01\t011\tAdy utca\t1\t\n" +
			"01\t011\tAdy utca\t3\t\n",
	}
}

type workspace struct {
	root    string
	service *Service
	cache   *reconcile.ResultCache
	metrics *metrics.Metrics
}

// newWorkspace writes files below a temporary root and backdates them so
// that artifacts written during the test are strictly newer.
func newWorkspace(t *testing.T, files map[string]string) *workspace {
	t.Helper()
	root := t.TempDir()
	past := time.Now().Add(-time.Hour)
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		require.NoError(t, os.Chtimes(p, past, past))
	}

	fs, err := fsys.NewLocal(root)
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	cache := reconcile.NewResultCache(fs, "workdir/cache", nil, m)
	svc := NewService(area.NewLoader(fs, "data"), inventory.NewFiles(fs, "workdir"), cache, reconcile.DefaultConfig(), nil, m)
	return &workspace{root: root, service: svc, cache: cache, metrics: m}
}

func defaultWorkspace(t *testing.T) *workspace {
	files := map[string]string{"data/relations.yaml": sharedYAML}
	for _, name := range []string{"gazdagret", "onlystreets", "nostreets"} {
		for k, v := range extracts(name) {
			files[k] = v
		}
	}
	return newWorkspace(t, files)
}

func TestAllowed(t *testing.T) {
	l := defaultWorkspace(t).service.areas
	ctx := context.Background()

	tests := []struct {
		area    string
		kind    report.Kind
		allowed bool
	}{
		{"gazdagret", report.KindMissingHousenumbers, true},
		{"gazdagret", report.KindMissingStreets, true},
		{"onlystreets", report.KindMissingStreets, true},
		{"onlystreets", report.KindAdditionalStreets, true},
		{"onlystreets", report.KindMissingHousenumbers, false},
		{"onlystreets", report.KindAdditionalHousenumbers, false},
		{"onlystreets", report.KindLints, false},
		{"nostreets", report.KindMissingStreets, false},
		{"nostreets", report.KindAdditionalStreets, false},
		{"nostreets", report.KindMissingHousenumbers, true},
	}
	for _, tt := range tests {
		t.Run(tt.area+"/"+string(tt.kind), func(t *testing.T) {
			a, err := l.Load(ctx, tt.area)
			require.NoError(t, err)
			err = Allowed(a, tt.kind)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrReportDisabled)
			}
		})
	}
}

func TestAllowed_AdditionalHousenumbersOff(t *testing.T) {
	ws := newWorkspace(t, map[string]string{
		"data/relations.yaml":         sharedYAML,
		"data/relation-gazdagret.yaml": "additional-housenumbers: false\n",
	})
	a, err := ws.service.areas.Load(context.Background(), "gazdagret")
	require.NoError(t, err)

	assert.ErrorIs(t, Allowed(a, report.KindAdditionalHousenumbers), ErrReportDisabled)
	assert.NoError(t, Allowed(a, report.KindMissingHousenumbers))
}

func TestService_Areas(t *testing.T) {
	svc := defaultWorkspace(t).service
	ctx := context.Background()

	areas, err := svc.Areas(ctx, false)
	require.NoError(t, err)
	names := make([]string, 0, len(areas))
	for _, a := range areas {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"gazdagret", "noextracts", "nostreets", "onlystreets"}, names)

	only := areas[3]
	assert.Equal(t, "only", only.MissingStreets)
	assert.Equal(t, []report.Kind{report.KindMissingStreets, report.KindAdditionalStreets}, only.Reports)
	assert.Equal(t, int64(2713748), areas[0].OSMRelation)
	assert.Len(t, areas[0].Reports, len(report.Kinds))

	all, err := svc.Areas(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.False(t, all[4].Active)
}

func TestService_Report(t *testing.T) {
	ws := defaultWorkspace(t)
	ctx := context.Background()

	t.Run("MissingHousenumbersText", func(t *testing.T) {
		body, err := ws.service.MissingHousenumbers(ctx, "gazdagret", report.FormatText)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Coverage: 50.00% (1 present, 1 missing)")
		assert.Contains(t, string(body), "Ady utca\t[1]\t3\n")
	})

	t.Run("MissingStreetsJSON", func(t *testing.T) {
		body, err := ws.service.MissingStreets(ctx, "gazdagret", report.FormatJSON)
		require.NoError(t, err)

		var got struct {
			Area     string   `json:"area"`
			Coverage string   `json:"coverage"`
			Streets  []string `json:"streets"`
		}
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "gazdagret", got.Area)
		assert.Equal(t, "50.00", got.Coverage)
		assert.Equal(t, []string{"Béla utca"}, got.Streets)
	})

	t.Run("AdditionalAndLints", func(t *testing.T) {
		_, err := ws.service.AdditionalHousenumbers(ctx, "gazdagret", report.FormatMarkdown)
		require.NoError(t, err)
		_, err = ws.service.AdditionalStreets(ctx, "gazdagret", report.FormatText)
		require.NoError(t, err)
		_, err = ws.service.Lints(ctx, "gazdagret", report.FormatText)
		require.NoError(t, err)
	})

	t.Run("Disabled", func(t *testing.T) {
		_, err := ws.service.MissingHousenumbers(ctx, "onlystreets", report.FormatText)
		assert.ErrorIs(t, err, ErrReportDisabled)
	})

	t.Run("UnknownArea", func(t *testing.T) {
		_, err := ws.service.MissingStreets(ctx, "nowhere", report.FormatText)
		assert.ErrorIs(t, err, area.ErrUnknownArea)
	})

	t.Run("NotAvailable", func(t *testing.T) {
		_, err := ws.service.MissingStreets(ctx, "noextracts", report.FormatText)
		assert.ErrorIs(t, err, inventory.ErrNotAvailable)

		p := ws.cache.Path(reconcile.CacheKey{Area: "noextracts", Report: "missing-streets", Format: "txt"})
		_, statErr := os.Stat(filepath.Join(ws.root, filepath.FromSlash(p)))
		assert.True(t, os.IsNotExist(statErr), "failed computations are not cached")
	})
}

func TestService_ReportByAlias(t *testing.T) {
	files := extracts("gazdagret")
	files["data/relations.yaml"] = sharedYAML
	files["data/relation-gazdagret.yaml"] = "alias: [budaors_old]\n"
	ws := newWorkspace(t, files)
	ctx := context.Background()

	byAlias, err := ws.service.MissingHousenumbers(ctx, "budaors_old", report.FormatText)
	require.NoError(t, err)
	byName, err := ws.service.MissingHousenumbers(ctx, "gazdagret", report.FormatText)
	require.NoError(t, err)
	assert.Equal(t, byName, byAlias)

	key := reconcile.CacheKey{Area: "gazdagret", Report: string(report.KindMissingHousenumbers), Format: string(report.FormatText)}
	_, err = os.Stat(filepath.Join(ws.root, filepath.FromSlash(ws.cache.Path(key))))
	assert.NoError(t, err)

	areas, err := ws.service.Areas(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"budaors_old"}, areas[0].Aliases)
}

func TestService_ReportCaching(t *testing.T) {
	ws := defaultWorkspace(t)
	ctx := context.Background()
	key := reconcile.CacheKey{Area: "gazdagret", Report: string(report.KindMissingStreets), Format: string(report.FormatText)}
	cached := filepath.Join(ws.root, filepath.FromSlash(ws.cache.Path(key)))

	first, err := ws.service.MissingStreets(ctx, "gazdagret", report.FormatText)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(ws.metrics.CacheLookups.WithLabelValues("missing-streets", "miss")))

	// Served from the artifact while it is current.
	require.NoError(t, os.WriteFile(cached, []byte("from cache"), 0o644))
	second, err := ws.service.MissingStreets(ctx, "gazdagret", report.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "from cache", string(second))
	assert.Equal(t, 1.0, testutil.ToFloat64(ws.metrics.CacheLookups.WithLabelValues("missing-streets", "hit")))

	// Editing the area configuration invalidates it.
	future := time.Now().Add(time.Hour)
	shared := filepath.Join(ws.root, "data", "relations.yaml")
	require.NoError(t, os.Chtimes(shared, future, future))

	third, err := ws.service.MissingStreets(ctx, "gazdagret", report.FormatText)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(third))
}

func TestService_CacheStatus(t *testing.T) {
	ws := defaultWorkspace(t)
	ctx := context.Background()

	_, err := ws.service.MissingStreets(ctx, "onlystreets", report.FormatJSON)
	require.NoError(t, err)

	entries, err := ws.service.CacheStatus(ctx, "onlystreets")
	require.NoError(t, err)
	// Two enabled reports in three formats.
	require.Len(t, entries, 6)
	for _, e := range entries {
		want := e.Report == report.KindMissingStreets && e.Format == report.FormatJSON
		assert.Equal(t, want, e.Current, "%s.%s", e.Report, e.Format)
	}

	_, err = ws.service.CacheStatus(ctx, "nowhere")
	assert.ErrorIs(t, err, area.ErrUnknownArea)
}

func TestService_Dependencies(t *testing.T) {
	svc := defaultWorkspace(t).service
	deps := svc.Dependencies("gazdagret")
	assert.Equal(t, []string{
		"data/relations.yaml",
		"data/relation-gazdagret.yaml",
		"workdir/streets-gazdagret.tsv",
		"workdir/street-housenumbers-gazdagret.tsv",
		"workdir/streets-reference-gazdagret.tsv",
		"workdir/street-housenumbers-reference-gazdagret.tsv",
	}, deps)
}
