package inventory

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotAvailable is returned when an area's extract or import does not exist yet.
var ErrNotAvailable = errors.New("inventory not available")

// Source selects the Inventory implementation.
const (
	SourceFiles    = "files"
	SourceDatabase = "database"
)

// Config holds configuration for the inventory source.
type Config struct {
	// Source is "files" to read extracts directly or "database" to read imported rows.
	Source string `mapstructure:"source" default:"files" validate:"oneof=files database"`
}

// OSMStreet is one street object observed in OSM.
type OSMStreet struct {
	ID      int64
	Name    string
	Highway string
	Service string
	Surface string
	Leisure string
	Type    string
}

// OSMHouseNumber is one address object observed in OSM.
type OSMHouseNumber struct {
	ID                 int64
	Street             string
	Place              string
	HouseNumber        string
	Postcode           string
	ConscriptionNumber string
	Flats              string
	Type               string
}

// StreetName returns addr:street, falling back to addr:place.
func (h OSMHouseNumber) StreetName() string {
	if h.Street != "" {
		return h.Street
	}
	return h.Place
}

// RefStreet is one row of the reference street registry.
type RefStreet struct {
	County     string
	Settlement string
	Street     string
}

// RefHouseNumber is one row of the reference house-number registry.
type RefHouseNumber struct {
	County      string
	Settlement  string
	Street      string
	HouseNumber string
	Comment     string
}

// Inventory is the per-area query surface of the engine.
type Inventory interface {
	OSMStreets(ctx context.Context, area string) ([]OSMStreet, error)
	OSMHouseNumbers(ctx context.Context, area string) ([]OSMHouseNumber, error)
	RefStreets(ctx context.Context, area string) ([]RefStreet, error)
	RefHouseNumbers(ctx context.Context, area string) ([]RefHouseNumber, error)
	// Dependencies returns the paths whose modification invalidates reports of area.
	Dependencies(area string) []string
}

// Kind identifies one of the four per-area datasets.
type Kind string

const (
	KindOSMStreets      Kind = "streets"
	KindOSMHouseNumbers Kind = "street-housenumbers"
	KindRefStreets      Kind = "streets-reference"
	KindRefHouseNumbers Kind = "street-housenumbers-reference"
)

// Kinds lists every dataset in import order.
var Kinds = []Kind{KindOSMStreets, KindOSMHouseNumbers, KindRefStreets, KindRefHouseNumbers}

// NotAvailable wraps ErrNotAvailable with the area and dataset.
func NotAvailable(area string, kind Kind) error {
	return fmt.Errorf("%w: %s for area %s", ErrNotAvailable, kind, area)
}
