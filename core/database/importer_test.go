package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExtracts(t *testing.T, fs fsys.FileSystem, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, fsys.WriteAll(context.Background(), fs, name, []byte(content)))
	}
}

func newTestFS(t *testing.T) fsys.FileSystem {
	t.Helper()
	fs, err := fsys.NewLocal(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestImporter_Import(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	fs := newTestFS(t)
	writeExtracts(t, fs, map[string]string{
		"workdir/streets-budafok.tsv": "@id\tname\thighway\t@type\n" +
			"1\tPetőfi utca\tresidential\tway\n" +
			"2\tAdy utca\tresidential\tway\n",
		"workdir/street-housenumbers-budafok.tsv": "@id\taddr:street\taddr:housenumber\t@type\n" +
			"10\tPetőfi utca\t2-6\tnode\n",
		"workdir/street-housenumbers-reference-budafok.tsv": "COUNTY_CODE\tSETTLEMENT_CODE\tSTREET\tHOUSENUMBER\tCOMMENT\n" +
			"01\t011\tPetőfi utca\t8\tnew\n",
	})

	store := NewRowStore(db, fs, "workdir/stamps")
	importer := NewImporter(db, inventory.NewFiles(fs, "workdir"), store, nil)

	result, err := importer.Import(ctx, "budafok")
	require.NoError(t, err)
	assert.Equal(t, map[inventory.Kind]int{
		inventory.KindOSMStreets:      2,
		inventory.KindOSMHouseNumbers: 1,
		inventory.KindRefHouseNumbers: 1,
	}, result.Rows)
	assert.Equal(t, []inventory.Kind{inventory.KindRefStreets}, result.Skipped)

	streets, err := store.OSMStreets(ctx, "budafok")
	require.NoError(t, err)
	assert.Equal(t, []inventory.OSMStreet{
		{ID: 1, Name: "Petőfi utca", Highway: "residential", Type: "way"},
		{ID: 2, Name: "Ady utca", Highway: "residential", Type: "way"},
	}, streets)

	refs, err := store.RefHouseNumbers(ctx, "budafok")
	require.NoError(t, err)
	assert.Equal(t, []inventory.RefHouseNumber{
		{County: "01", Settlement: "011", Street: "Petőfi utca", HouseNumber: "8", Comment: "new"},
	}, refs)

	// Skipped datasets stay unavailable.
	_, err = store.RefStreets(ctx, "budafok")
	assert.ErrorIs(t, err, inventory.ErrNotAvailable)

	// Other areas are untouched.
	_, err = store.OSMStreets(ctx, "other")
	assert.ErrorIs(t, err, inventory.ErrNotAvailable)

	exists, err := fs.PathExists(ctx, store.StampPath("budafok", inventory.KindOSMStreets))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Contains(t, store.Dependencies("budafok"), "workdir/stamps/streets-budafok.stamp")
}

func TestImporter_ReimportReplacesRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	fs := newTestFS(t)
	store := NewRowStore(db, fs, "stamps")
	importer := NewImporter(db, inventory.NewFiles(fs, "workdir"), store, nil)

	writeExtracts(t, fs, map[string]string{
		"workdir/streets-a.tsv": "@id\tname\n1\tOld utca\n2\tGone utca\n",
		"workdir/streets-b.tsv": "@id\tname\n3\tB utca\n",
	})
	_, err := importer.Import(ctx, "a")
	require.NoError(t, err)
	_, err = importer.Import(ctx, "b")
	require.NoError(t, err)

	writeExtracts(t, fs, map[string]string{
		"workdir/streets-a.tsv": "@id\tname\n1\tNew utca\n",
	})
	_, err = importer.Import(ctx, "a")
	require.NoError(t, err)

	streets, err := store.OSMStreets(ctx, "a")
	require.NoError(t, err)
	require.Len(t, streets, 1)
	assert.Equal(t, "New utca", streets[0].Name)

	streets, err = store.OSMStreets(ctx, "b")
	require.NoError(t, err)
	require.Len(t, streets, 1)
}

// failingSource returns OSM streets and reports every other dataset missing.
type failingSource struct {
	inventory.Inventory
	streets []inventory.OSMStreet
	err     error
}

func (f failingSource) OSMStreets(context.Context, string) ([]inventory.OSMStreet, error) {
	return f.streets, f.err
}

func (f failingSource) OSMHouseNumbers(_ context.Context, area string) ([]inventory.OSMHouseNumber, error) {
	return nil, inventory.NotAvailable(area, inventory.KindOSMHouseNumbers)
}

func (f failingSource) RefStreets(_ context.Context, area string) ([]inventory.RefStreet, error) {
	return nil, inventory.NotAvailable(area, inventory.KindRefStreets)
}

func (f failingSource) RefHouseNumbers(_ context.Context, area string) ([]inventory.RefHouseNumber, error) {
	return nil, inventory.NotAvailable(area, inventory.KindRefHouseNumbers)
}

func TestImporter_RollbackWritesNoStamp(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMockDB(t)
	fs := newTestFS(t)
	store := NewRowStore(db, fs, "stamps")
	source := failingSource{streets: []inventory.OSMStreet{{ID: 1, Name: "Fő utca"}}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `osm_streets`")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := NewImporter(db, source, store, nil).Import(ctx, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	exists, err := fs.PathExists(ctx, store.StampPath("a", inventory.KindOSMStreets))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_FailedInsertRollsBack(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMockDB(t)
	fs := newTestFS(t)
	store := NewRowStore(db, fs, "stamps")
	source := failingSource{streets: []inventory.OSMStreet{
		{ID: 1, Name: "Fő utca"},
		{ID: 2, Name: "Kossuth utca"},
	}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `osm_streets`")).
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `osm_streets`")).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	result, err := NewImporter(db, source, store, nil).Import(ctx, "a")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "insert rows")
	assert.Contains(t, err.Error(), "duplicate key")

	for _, kind := range inventory.Kinds {
		exists, err := fs.PathExists(ctx, store.StampPath("a", kind))
		require.NoError(t, err)
		assert.False(t, exists, kind)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_SourceError(t *testing.T) {
	db, _ := setupMockDB(t)
	source := failingSource{err: &inventory.ExtractError{Path: "streets-a.tsv", Err: errors.New("missing column")}}

	_, err := NewImporter(db, source, NewRowStore(db, newTestFS(t), "stamps"), nil).Import(context.Background(), "a")
	var extractErr *inventory.ExtractError
	assert.ErrorAs(t, err, &extractErr)
}

func TestRowStore_QueryError(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMockDB(t)
	fs := newTestFS(t)
	store := NewRowStore(db, fs, "stamps")
	require.NoError(t, fsys.WriteAll(ctx, fs, store.StampPath("a", inventory.KindRefStreets), []byte("now")))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `ref_streets`")).WillReturnError(errors.New("gone away"))

	_, err := store.RefStreets(ctx, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone away")
	assert.NotErrorIs(t, err, inventory.ErrNotAvailable)
}
