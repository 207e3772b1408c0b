package area

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Document is one layer of area configuration as stored in YAML.
// A nil field means the key is absent from this layer.
type Document struct {
	OSMRelation            *int64                    `yaml:"osmrelation"`
	RefCounty              *string                   `yaml:"refcounty"`
	RefSettlement          *string                   `yaml:"refsettlement"`
	MissingStreets         *string                   `yaml:"missing-streets" validate:"omitempty,oneof=yes no only"`
	HousenumberLetters     *bool                     `yaml:"housenumber-letters"`
	AdditionalHousenumbers *bool                     `yaml:"additional-housenumbers"`
	LetterSuffixStyle      *string                   `yaml:"letter-suffix-style" validate:"omitempty,oneof=upper lower"`
	Inactive               *bool                     `yaml:"inactive"`
	Alias                  []string                  `yaml:"alias"`
	Filters                map[string]FilterDocument `yaml:"filters" validate:"dive"`
	RefStreets             map[string]string         `yaml:"refstreets"`
	StreetFilters          []string                  `yaml:"street-filters"`
	OSMStreetFilters       []string                  `yaml:"osm-street-filters"`
}

// FilterDocument is the per-street policy.
type FilterDocument struct {
	Ranges        []RangeDocument `yaml:"ranges" validate:"dive"`
	Invalid       []string        `yaml:"invalid"`
	Valid         []string        `yaml:"valid"`
	Interpolation string          `yaml:"interpolation" validate:"omitempty,oneof=all default"`
	ShowRefStreet *bool           `yaml:"show-refstreet"`
	RefSettlement string          `yaml:"refsettlement"`
}

// RangeDocument keeps bounds as text so that non-numeric values reach the
// resolver and are reported with their area and street.
type RangeDocument struct {
	Start         string `yaml:"start" validate:"required"`
	End           string `yaml:"end" validate:"required"`
	RefSettlement string `yaml:"refsettlement"`
}

var validate = validator.New()

// decodeStrict decodes one YAML document into v, rejecting unknown keys.
// An empty stream leaves v untouched.
func decodeStrict(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// DecodeDocument reads an area-specific document.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := decodeStrict(r, &doc); err != nil {
		return Document{}, err
	}
	if err := validate.Struct(doc); err != nil {
		return Document{}, fmt.Errorf("validate: %w", err)
	}
	return doc, nil
}

// DecodeShared reads relations.yaml: a map from area name to its shared document.
func DecodeShared(r io.Reader) (map[string]Document, error) {
	docs := map[string]Document{}
	if err := decodeStrict(r, &docs); err != nil {
		return nil, err
	}
	for name, doc := range docs {
		if err := validate.Struct(doc); err != nil {
			return nil, &ConfigError{Area: name, Key: "relations.yaml", Err: err}
		}
	}
	return docs, nil
}
