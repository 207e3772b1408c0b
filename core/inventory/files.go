package inventory

import (
	"context"
	"fmt"
	"io"
	"path"

	"area-reconciler/core/fsys"
	"area-reconciler/core/utils"
)

// Files reads per-area extract files from a work directory.
type Files struct {
	fs  fsys.FileSystem
	dir string
}

// NewFiles creates a Files inventory reading from dir.
func NewFiles(fs fsys.FileSystem, dir string) *Files {
	return &Files{fs: fs, dir: dir}
}

// Path returns the extract path of one dataset of area.
func (f *Files) Path(area string, kind Kind) string {
	return path.Join(f.dir, fmt.Sprintf("%s-%s.tsv", kind, area))
}

// Dependencies returns the four extract paths of area.
func (f *Files) Dependencies(area string) []string {
	deps := make([]string, 0, len(Kinds))
	for _, kind := range Kinds {
		deps = append(deps, f.Path(area, kind))
	}
	return deps
}

func (f *Files) read(ctx context.Context, area string, kind Kind, required []string, fn func(get func(string) string)) error {
	p := f.Path(area, kind)
	r, err := f.fs.OpenRead(ctx, p)
	if err != nil {
		if fsys.IsNotExist(err) {
			return NotAvailable(area, kind)
		}
		return err
	}
	defer r.Close()
	return decode(p, r, required, fn)
}

func decode(p string, r io.Reader, required []string, fn func(get func(string) string)) error {
	tr, err := newTSVReader(r, required...)
	if err != nil {
		return &ExtractError{Path: p, Err: err}
	}
	if err := tr.each(fn); err != nil {
		return &ExtractError{Path: p, Err: err}
	}
	return nil
}

func (f *Files) OSMStreets(ctx context.Context, area string) ([]OSMStreet, error) {
	var ret []OSMStreet
	err := f.read(ctx, area, KindOSMStreets, []string{ColID, ColName}, func(get func(string) string) {
		ret = append(ret, OSMStreet{
			ID:      utils.ToInt64(get(ColID)),
			Name:    get(ColName),
			Highway: get(ColHighway),
			Service: get(ColService),
			Surface: get(ColSurface),
			Leisure: get(ColLeisure),
			Type:    get(ColType),
		})
	})
	return ret, err
}

func (f *Files) OSMHouseNumbers(ctx context.Context, area string) ([]OSMHouseNumber, error) {
	var ret []OSMHouseNumber
	err := f.read(ctx, area, KindOSMHouseNumbers, []string{ColID, ColStreet, ColHouseNumber}, func(get func(string) string) {
		ret = append(ret, OSMHouseNumber{
			ID:                 utils.ToInt64(get(ColID)),
			Street:             get(ColStreet),
			Place:              get(ColPlace),
			HouseNumber:        get(ColHouseNumber),
			Postcode:           get(ColPostcode),
			ConscriptionNumber: get(ColConscriptionNumber),
			Flats:              get(ColFlats),
			Type:               get(ColType),
		})
	})
	return ret, err
}

func (f *Files) RefStreets(ctx context.Context, area string) ([]RefStreet, error) {
	var ret []RefStreet
	err := f.read(ctx, area, KindRefStreets, []string{ColRefStreet}, func(get func(string) string) {
		ret = append(ret, RefStreet{
			County:     get(ColCounty),
			Settlement: get(ColSettlement),
			Street:     get(ColRefStreet),
		})
	})
	return ret, err
}

func (f *Files) RefHouseNumbers(ctx context.Context, area string) ([]RefHouseNumber, error) {
	var ret []RefHouseNumber
	err := f.read(ctx, area, KindRefHouseNumbers, []string{ColRefStreet, ColRefHouseNumber}, func(get func(string) string) {
		ret = append(ret, RefHouseNumber{
			County:      get(ColCounty),
			Settlement:  get(ColSettlement),
			Street:      get(ColRefStreet),
			HouseNumber: get(ColRefHouseNumber),
			Comment:     get(ColComment),
		})
	})
	return ret, err
}

var _ Inventory = (*Files)(nil)
