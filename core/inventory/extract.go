package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Extract column names.
const (
	ColID                 = "@id"
	ColType               = "@type"
	ColName               = "name"
	ColHighway            = "highway"
	ColService            = "service"
	ColSurface            = "surface"
	ColLeisure            = "leisure"
	ColStreet             = "addr:street"
	ColPlace              = "addr:place"
	ColHouseNumber        = "addr:housenumber"
	ColPostcode           = "addr:postcode"
	ColConscriptionNumber = "addr:conscriptionnumber"
	ColFlats              = "addr:flats"
	ColCounty             = "COUNTY_CODE"
	ColSettlement         = "SETTLEMENT_CODE"
	ColRefStreet          = "STREET"
	ColRefHouseNumber     = "HOUSENUMBER"
	ColComment            = "COMMENT"
)

// ExtractError reports a structurally broken extract file.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// tsvReader reads a tab-separated file whose header names the columns.
type tsvReader struct {
	r      *csv.Reader
	header map[string]int
}

func newTSVReader(r io.Reader, required ...string) (*tsvReader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, err
	}
	header := make(map[string]int, len(head))
	for i, name := range head {
		// Overpass quotes nothing but some tools add a BOM.
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		header[name] = i
	}
	for _, name := range required {
		if _, ok := header[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return &tsvReader{r: cr, header: header}, nil
}

// next returns the next record as a column lookup. It returns io.EOF at the end.
func (t *tsvReader) next() (func(string) string, error) {
	record, err := t.r.Read()
	if err != nil {
		return nil, err
	}
	return func(col string) string {
		i, ok := t.header[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}, nil
}

// each calls fn for every record.
func (t *tsvReader) each(fn func(get func(string) string)) error {
	for {
		get, err := t.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(get)
	}
}
