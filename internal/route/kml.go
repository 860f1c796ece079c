package route

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// kmlDocument mirrors the subset of KML we consume: the first Placemark
// LineString under Document/Folder.
type kmlDocument struct {
	Document struct {
		Name   string `xml:"name"`
		Folder struct {
			Placemarks []struct {
				LineString struct {
					Coordinates string `xml:"coordinates"`
				} `xml:"LineString"`
			} `xml:"Placemark"`
		} `xml:"Folder"`
	} `xml:"Document"`
}

// LoadKML reads a KML file and builds a Path from its first LineString.
func LoadKML(path string) (*Path, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading route file: %w", err)
	}
	return ParseKML(raw)
}

// ParseKML builds a Path from raw KML bytes.
func ParseKML(raw []byte) (*Path, error) {
	var doc kmlDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing KML: %w", err)
	}

	var coordText string
	for _, pm := range doc.Document.Folder.Placemarks {
		if strings.TrimSpace(pm.LineString.Coordinates) != "" {
			coordText = pm.LineString.Coordinates
			break
		}
	}
	if coordText == "" {
		return nil, fmt.Errorf("KML has no LineString coordinates")
	}

	coords, err := parseCoordinates(coordText)
	if err != nil {
		return nil, err
	}
	return NewPath(doc.Document.Name, coords)
}

// parseCoordinates splits whitespace-separated "lon,lat[,elevation]" groups.
func parseCoordinates(text string) ([]Coordinate, error) {
	groups := strings.Fields(text)
	coords := make([]Coordinate, 0, len(groups))
	for _, group := range groups {
		fields := strings.Split(group, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed coordinate %q", group)
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed longitude in %q: %w", group, err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed latitude in %q: %w", group, err)
		}
		coords = append(coords, Coordinate{Lon: lon, Lat: lat})
	}
	return coords, nil
}
