package checks

import (
	"context"
	"testing"
	"time"

	"area-reconciler/core/database"
	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckExtracts(t *testing.T) {
	ctx := context.Background()
	fs, root := newTestFS(t, map[string]string{
		"workdir/streets-a.tsv":                       "@id\tname\n",
		"workdir/street-housenumbers-a.tsv":           "@id\taddr:street\taddr:housenumber\n",
		"workdir/streets-reference-a.tsv":             "STREET\n",
		"workdir/street-housenumbers-reference-a.tsv": "STREET\tHOUSENUMBER\n",
		"workdir/streets-b.tsv":                       "@id\tname\n",
	})
	files := inventory.NewFiles(fs, "workdir")

	t.Run("Files", func(t *testing.T) {
		reports, err := CheckExtracts(ctx, fs, []string{"a", "b"}, files, nil)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "b", reports[0].Area)
		assert.Equal(t, []inventory.Kind{
			inventory.KindOSMHouseNumbers,
			inventory.KindRefStreets,
			inventory.KindRefHouseNumbers,
		}, reports[0].Missing)
		assert.Empty(t, reports[0].Stale)
	})

	t.Run("Stale Imports", func(t *testing.T) {
		store := database.NewRowStore(nil, fs, "workdir")
		now := time.Now()

		// streets: imported after the extract changed.
		// street-housenumbers: extract changed after the import.
		// The reference datasets were never imported.
		for name, mtime := range map[string]time.Time{
			"workdir/streets-a.tsv":             now.Add(-2 * time.Hour),
			"workdir/street-housenumbers-a.tsv": now,
		} {
			setMTime(t, root, name, mtime)
		}
		for kind, mtime := range map[inventory.Kind]time.Time{
			inventory.KindOSMStreets:      now.Add(-time.Hour),
			inventory.KindOSMHouseNumbers: now.Add(-time.Hour),
		} {
			p := store.StampPath("a", kind)
			require.NoError(t, fsys.WriteAll(ctx, fs, p, []byte(now.Format(time.RFC3339))))
			setMTime(t, root, p, mtime)
		}

		reports, err := CheckExtracts(ctx, fs, []string{"a"}, files, store)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Empty(t, reports[0].Missing)
		assert.Equal(t, []inventory.Kind{
			inventory.KindOSMHouseNumbers,
			inventory.KindRefStreets,
			inventory.KindRefHouseNumbers,
		}, reports[0].Stale)
	})
}
