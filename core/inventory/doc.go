// Package inventory is the read side of the street and house-number data an
// area is reconciled from.
//
// Inventory returns, per area, the OSM streets and house numbers and the
// reference registry rows. Two implementations exist: Files reads the
// tab-separated extract files from the work directory, and the database
// package provides a row store fed by the import command.
//
// When the data of an area has not been produced yet every implementation
// returns an error wrapping ErrNotAvailable, so callers can tell "not yet
// available" from a real failure.
package inventory
