package models

// DefaultRegionName names the catch-all region used when no box matches.
const DefaultRegionName = "default"

// Region is a named bounding box. Regions are static tables and never change
// after start-up.
type Region struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
	SubRegion string  `json:"sub_region,omitempty"`
	MinLat    float64 `json:"min_lat"`
	MaxLat    float64 `json:"max_lat"`
	MinLng    float64 `json:"min_lng"`
	MaxLng    float64 `json:"max_lng"`
}

// Contains reports whether c lies inside the box, edges included.
func (r Region) Contains(c Coordinate) bool {
	return c.Latitude >= r.MinLat && c.Latitude <= r.MaxLat &&
		c.Longitude >= r.MinLng && c.Longitude <= r.MaxLng
}

func (r Region) IsDefault() bool {
	return r.Name == DefaultRegionName
}
