package inventory

import (
	"context"
	"testing"

	"area-reconciler/core/fsys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFiles(t *testing.T, files map[string]string) *Files {
	t.Helper()
	fs, err := fsys.NewLocal(t.TempDir())
	require.NoError(t, err)
	for name, content := range files {
		require.NoError(t, fsys.WriteAll(context.Background(), fs, name, []byte(content)))
	}
	return NewFiles(fs, "workdir")
}

func TestFiles_OSMHouseNumbers(t *testing.T) {
	f := newTestFiles(t, map[string]string{
		"workdir/street-housenumbers-gazdagret.tsv": "@id\taddr:street\taddr:housenumber\taddr:postcode\taddr:place\taddr:conscriptionnumber\taddr:flats\t@type\n" +
			"1\tTörökugrató utca\t1\t1111\t\t\t\tnode\n" +
			"2\t\t2-4\t1111\tTér\t\t\tway\n" +
			"x\tShort utca\t7\n",
	})

	rows, err := f.OSMHouseNumbers(context.Background(), "gazdagret")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, "Törökugrató utca", rows[0].StreetName())
	assert.Equal(t, "node", rows[0].Type)

	assert.Equal(t, "Tér", rows[1].StreetName())
	assert.Equal(t, "2-4", rows[1].HouseNumber)

	// Malformed id and short row degrade instead of failing.
	assert.Equal(t, int64(0), rows[2].ID)
	assert.Equal(t, "", rows[2].Type)
}

func TestFiles_ColumnsMatchedByName(t *testing.T) {
	f := newTestFiles(t, map[string]string{
		"workdir/street-housenumbers-reference-a.tsv": "HOUSENUMBER\tSTREET\tCOMMENT\tCOUNTY_CODE\tSETTLEMENT_CODE\n" +
			"12\tMain utca\tcorner\t01\t011\n",
		"workdir/streets-reference-a.tsv": "COUNTY_CODE\tSETTLEMENT_CODE\tSTREET\n01\t011\tMain utca\n",
		"workdir/streets-a.tsv":           "@id\tname\thighway\t@type\n7\tMain utca\tresidential\tway\n",
	})
	ctx := context.Background()

	refs, err := f.RefHouseNumbers(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []RefHouseNumber{{County: "01", Settlement: "011", Street: "Main utca", HouseNumber: "12", Comment: "corner"}}, refs)

	streets, err := f.RefStreets(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []RefStreet{{County: "01", Settlement: "011", Street: "Main utca"}}, streets)

	osm, err := f.OSMStreets(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []OSMStreet{{ID: 7, Name: "Main utca", Highway: "residential", Type: "way"}}, osm)
}

func TestFiles_Errors(t *testing.T) {
	f := newTestFiles(t, map[string]string{
		"workdir/streets-broken.tsv": "@id\thighway\n1\tprimary\n",
		"workdir/streets-empty.tsv":  "",
	})
	ctx := context.Background()

	_, err := f.OSMStreets(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotAvailable)

	_, err = f.OSMStreets(ctx, "broken")
	var ee *ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "workdir/streets-broken.tsv", ee.Path)
	assert.ErrorContains(t, err, `missing column "name"`)

	_, err = f.OSMStreets(ctx, "empty")
	assert.ErrorContains(t, err, "missing header row")
}

func TestFiles_Dependencies(t *testing.T) {
	f := NewFiles(nil, "workdir")
	assert.Equal(t, []string{
		"workdir/streets-a.tsv",
		"workdir/street-housenumbers-a.tsv",
		"workdir/streets-reference-a.tsv",
		"workdir/street-housenumbers-reference-a.tsv",
	}, f.Dependencies("a"))
}
