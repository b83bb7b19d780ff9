package geo

// Polygon is a GeoJSON polygon geometry
type Polygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// BuildSquare returns a closed rectangle centered at lon/lat with a half-width of delta on both axes. The ring starts
// at the north-east corner, runs clockwise and repeats the first vertex as the last one.
func BuildSquare(lon, lat, delta float64) Polygon {
	c1 := [2]float64{lon + delta, lat + delta}
	c2 := [2]float64{lon + delta, lat - delta}
	c3 := [2]float64{lon - delta, lat - delta}
	c4 := [2]float64{lon - delta, lat + delta}
	return Polygon{
		Type:        "Polygon",
		Coordinates: [][][2]float64{{c1, c2, c3, c4, c1}},
	}
}
