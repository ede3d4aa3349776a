package portfolio

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// WalkingPath builds the simulated route CIT-U -> Labangon -> National
// Museum -> back towards CIT-U.
func WalkingPath() []Coordinate {
	lat := []float64{10.3013, 10.3050, 10.3080}
	lon := []float64{123.8906, 123.8890, 123.8870}

	segments := []struct {
		fromLat, toLat, fromLon, toLon float64
		n                              int
	}{
		{10.3080, 10.3120, 123.8870, 123.8860, 5},
		{10.3120, 10.2933, 123.8860, 123.9016, 8},
		{10.2933, 10.3013, 123.9016, 123.8906, 5},
	}
	for _, s := range segments {
		lat = append(lat, Linspace(s.fromLat, s.toLat, s.n)...)
		lon = append(lon, Linspace(s.fromLon, s.toLon, s.n)...)
	}

	path := make([]Coordinate, len(lat))
	for i := range lat {
		path[i] = Coordinate{Lat: lat[i], Lon: lon[i]}
	}
	return path
}
