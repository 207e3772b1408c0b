package database

import "area-reconciler/core/inventory"

// OSMStreetRow is an imported row of the OSM streets extract.
type OSMStreetRow struct {
	ID      uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Area    string `gorm:"column:area;type:varchar(128);not null;index"`
	OSMID   int64  `gorm:"column:osm_id;type:bigint"`
	OSMType string `gorm:"column:osm_type;type:varchar(16)"`
	Name    string `gorm:"column:name;type:varchar(255)"`
	Highway string `gorm:"column:highway;type:varchar(64)"`
	Service string `gorm:"column:service;type:varchar(64)"`
	Surface string `gorm:"column:surface;type:varchar(64)"`
	Leisure string `gorm:"column:leisure;type:varchar(64)"`
}

func (OSMStreetRow) TableName() string { return "osm_streets" }

// OSMHouseNumberRow is an imported row of the OSM house-numbers extract.
type OSMHouseNumberRow struct {
	ID                 uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Area               string `gorm:"column:area;type:varchar(128);not null;index"`
	OSMID              int64  `gorm:"column:osm_id;type:bigint"`
	OSMType            string `gorm:"column:osm_type;type:varchar(16)"`
	Street             string `gorm:"column:street;type:varchar(255)"`
	Place              string `gorm:"column:place;type:varchar(255)"`
	HouseNumber        string `gorm:"column:housenumber;type:varchar(255)"`
	Postcode           string `gorm:"column:postcode;type:varchar(16)"`
	ConscriptionNumber string `gorm:"column:conscriptionnumber;type:varchar(64)"`
	Flats              string `gorm:"column:flats;type:varchar(64)"`
}

func (OSMHouseNumberRow) TableName() string { return "osm_housenumbers" }

// RefStreetRow is an imported row of the reference street registry.
type RefStreetRow struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Area       string `gorm:"column:area;type:varchar(128);not null;index"`
	County     string `gorm:"column:county_code;type:varchar(16)"`
	Settlement string `gorm:"column:settlement_code;type:varchar(16)"`
	Street     string `gorm:"column:street;type:varchar(255)"`
}

func (RefStreetRow) TableName() string { return "ref_streets" }

// RefHouseNumberRow is an imported row of the reference house-number registry.
type RefHouseNumberRow struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Area        string `gorm:"column:area;type:varchar(128);not null;index"`
	County      string `gorm:"column:county_code;type:varchar(16)"`
	Settlement  string `gorm:"column:settlement_code;type:varchar(16)"`
	Street      string `gorm:"column:street;type:varchar(255)"`
	HouseNumber string `gorm:"column:housenumber;type:varchar(255)"`
	Comment     string `gorm:"column:comment;type:varchar(255)"`
}

func (RefHouseNumberRow) TableName() string { return "ref_housenumbers" }

// Models lists every table of the row store in import order.
func Models() []any {
	return []any{&OSMStreetRow{}, &OSMHouseNumberRow{}, &RefStreetRow{}, &RefHouseNumberRow{}}
}

func newOSMStreetRow(area string, s inventory.OSMStreet) OSMStreetRow {
	return OSMStreetRow{
		Area: area, OSMID: s.ID, OSMType: s.Type, Name: s.Name,
		Highway: s.Highway, Service: s.Service, Surface: s.Surface, Leisure: s.Leisure,
	}
}

func (r OSMStreetRow) toInventory() inventory.OSMStreet {
	return inventory.OSMStreet{
		ID: r.OSMID, Type: r.OSMType, Name: r.Name,
		Highway: r.Highway, Service: r.Service, Surface: r.Surface, Leisure: r.Leisure,
	}
}

func newOSMHouseNumberRow(area string, h inventory.OSMHouseNumber) OSMHouseNumberRow {
	return OSMHouseNumberRow{
		Area: area, OSMID: h.ID, OSMType: h.Type, Street: h.Street, Place: h.Place,
		HouseNumber: h.HouseNumber, Postcode: h.Postcode,
		ConscriptionNumber: h.ConscriptionNumber, Flats: h.Flats,
	}
}

func (r OSMHouseNumberRow) toInventory() inventory.OSMHouseNumber {
	return inventory.OSMHouseNumber{
		ID: r.OSMID, Type: r.OSMType, Street: r.Street, Place: r.Place,
		HouseNumber: r.HouseNumber, Postcode: r.Postcode,
		ConscriptionNumber: r.ConscriptionNumber, Flats: r.Flats,
	}
}

func newRefStreetRow(area string, s inventory.RefStreet) RefStreetRow {
	return RefStreetRow{Area: area, County: s.County, Settlement: s.Settlement, Street: s.Street}
}

func (r RefStreetRow) toInventory() inventory.RefStreet {
	return inventory.RefStreet{County: r.County, Settlement: r.Settlement, Street: r.Street}
}

func newRefHouseNumberRow(area string, h inventory.RefHouseNumber) RefHouseNumberRow {
	return RefHouseNumberRow{
		Area: area, County: h.County, Settlement: h.Settlement, Street: h.Street,
		HouseNumber: h.HouseNumber, Comment: h.Comment,
	}
}

func (r RefHouseNumberRow) toInventory() inventory.RefHouseNumber {
	return inventory.RefHouseNumber{
		County: r.County, Settlement: r.Settlement, Street: r.Street,
		HouseNumber: r.HouseNumber, Comment: r.Comment,
	}
}
