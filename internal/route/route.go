// Package route maps race distance to geographic position and back.
//
// A Path is built from an ordered list of coordinates (typically a KML
// LineString). Distance along the path accumulates haversine leg lengths;
// PointAt interpolates along the great circle between the two bracketing
// path points, and DistanceTo runs a shrinking-window search for the
// nearest point on the path.
package route

import (
	"errors"
	"fmt"
	"math"
)

// earthRadius is the spherical Earth radius in meters used for haversine
// and great-circle interpolation.
const earthRadius = 6.371e6

// Coordinate is a geographic position in degrees.
type Coordinate struct {
	Lon float64
	Lat float64
}

// PathPoint ties a coordinate to its cumulative distance along the path.
type PathPoint struct {
	RaceDistance float64 // m
	Coordinate   Coordinate
}

// Path is an immutable polyline with cumulative distances.
type Path struct {
	Name   string
	Points []PathPoint
	Length float64 // m
}

// DistanceBetween returns the haversine distance in meters between two
// coordinates.
func DistanceBetween(c1, c2 Coordinate) float64 {
	phi1 := c1.Lat * math.Pi / 180.0
	phi2 := c2.Lat * math.Pi / 180.0

	deltaPhi := phi2 - phi1
	deltaLambda := (c2.Lon - c1.Lon) * math.Pi / 180.0

	a := math.Pow(math.Sin(deltaPhi/2.0), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(deltaLambda/2.0), 2)
	return 2.0 * math.Asin(math.Sqrt(a)) * earthRadius
}

// NewPath builds a Path from ordered coordinates, accumulating leg lengths.
func NewPath(name string, coords []Coordinate) (*Path, error) {
	if len(coords) < 2 {
		return nil, errors.New("path needs at least two coordinates")
	}
	p := &Path{Name: name, Points: make([]PathPoint, 0, len(coords))}
	p.Points = append(p.Points, PathPoint{RaceDistance: 0.0, Coordinate: coords[0]})
	prev := coords[0]
	for _, c := range coords[1:] {
		p.Length += DistanceBetween(prev, c)
		p.Points = append(p.Points, PathPoint{RaceDistance: p.Length, Coordinate: c})
		prev = c
	}
	return p, nil
}

// PointAt returns the coordinate at the given distance along the path,
// interpolating along the great circle between the bracketing points.
func (p *Path) PointAt(distance float64) (Coordinate, error) {
	if len(p.Points) == 0 {
		return Coordinate{}, errors.New("path not initialized")
	}
	if distance < 0.0 {
		return Coordinate{}, fmt.Errorf("distance %.1f is negative", distance)
	}
	if distance > p.Length {
		return Coordinate{}, fmt.Errorf("distance %.1f is past the end of the path", distance)
	}

	// Binary search for the two bracketing path points.
	upper := len(p.Points) - 1
	lower := 0
	for upper-lower > 1 {
		middle := (upper-lower)/2 + lower
		if distance == p.Points[middle].RaceDistance {
			return p.Points[middle].Coordinate, nil
		}
		if distance < p.Points[middle].RaceDistance {
			upper = middle
		} else {
			lower = middle
		}
	}

	lc := p.Points[lower].Coordinate
	uc := p.Points[upper].Coordinate

	diff := p.Points[upper].RaceDistance - p.Points[lower].RaceDistance
	if diff == 0 {
		return uc, nil
	}

	angularDistance := DistanceBetween(lc, uc) / earthRadius
	f := (distance - p.Points[lower].RaceDistance) / diff

	a := math.Sin((1-f)*angularDistance) / math.Sin(angularDistance)
	b := math.Sin(f*angularDistance) / math.Sin(angularDistance)

	const degToRad = math.Pi / 180.0
	phi1 := lc.Lat * degToRad
	phi2 := uc.Lat * degToRad
	lambda1 := lc.Lon * degToRad
	lambda2 := uc.Lon * degToRad

	x := a*math.Cos(phi1)*math.Cos(lambda1) + b*math.Cos(phi2)*math.Cos(lambda2)
	y := a*math.Cos(phi1)*math.Sin(lambda1) + b*math.Cos(phi2)*math.Sin(lambda2)
	z := a*math.Sin(phi1) + b*math.Sin(phi2)

	phi := math.Atan2(z, math.Sqrt(x*x+y*y))
	lambda := math.Atan2(y, x)

	return Coordinate{Lon: lambda / degToRad, Lat: phi / degToRad}, nil
}

// DistanceTo returns the race distance of the point on the path nearest to
// the given coordinate. The search repeatedly samples a window around the
// best candidate and shrinks it; accuracy is well under a meter for
// realistic paths.
func (p *Path) DistanceTo(c Coordinate) (float64, error) {
	if len(p.Points) == 0 {
		return 0, errors.New("path not initialized")
	}

	const (
		samplesPerWindow = 19 // odd, so the current best stays a candidate
		shrinkFactor     = 0.25
		maxIterations    = 20
	)

	leastDist := math.Inf(1)
	closestRaceDist := 0.0

	searchCenter := p.Length / 2.0
	searchSize := p.Length / 2.0

	for i := 0; i < maxIterations; i++ {
		lo := math.Max(searchCenter-searchSize, 0)
		hi := math.Min(searchCenter+searchSize, p.Length)
		step := (hi - lo) / float64(samplesPerWindow-1)

		for s := 0; s < samplesPerWindow; s++ {
			raceDist := math.Min(lo+float64(s)*step, hi)
			point, err := p.PointAt(raceDist)
			if err != nil {
				return 0, err
			}
			dist := DistanceBetween(c, point)
			if dist < leastDist {
				leastDist = dist
				closestRaceDist = raceDist
			}
		}

		searchCenter = closestRaceDist
		searchSize *= shrinkFactor
	}

	return closestRaceDist, nil
}

// LocationAt implements the engine's Locator contract, returning latitude
// and longitude in degrees. Distances outside the path are clamped to its
// endpoints.
func (p *Path) LocationAt(distance float64) (lat, lon float64) {
	if distance < 0 {
		distance = 0
	}
	if distance > p.Length {
		distance = p.Length
	}
	c, err := p.PointAt(distance)
	if err != nil {
		// Clamped distance is always in range; this is unreachable with a
		// well-formed path.
		end := p.Points[len(p.Points)-1].Coordinate
		return end.Lat, end.Lon
	}
	return c.Lat, c.Lon
}
