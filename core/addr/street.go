package addr

// Street is a street as reported by the engine.
type Street struct {
	OSMName string `json:"osm_name"`
	// RefName equals OSMName when no alias applies.
	RefName       string `json:"ref_name"`
	ShowRefStreet bool   `json:"show_ref_street"`
	OSMID         int64  `json:"osm_id,omitempty"`
	OSMType       string `json:"osm_type,omitempty"`
}

// DisplayName returns the OSM name, followed by the reference name in
// parentheses when the two differ and the area asks to show it.
func (s Street) DisplayName() string {
	if s.ShowRefStreet && s.RefName != "" && s.RefName != s.OSMName {
		return s.OSMName + " (" + s.RefName + ")"
	}
	return s.OSMName
}
