// Package geo holds the distance and geohash helpers shared by the console
// and the search engine.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/errors"
	"github.com/mmcloughlin/geohash"
)

// EarthRadiusKm is the mean radius of the spherical Earth approximation.
const EarthRadiusKm = 6371.0

// maxScoredKm is the distance from which a result gets no geo boost.
const maxScoredKm = 100.0

// MaxScore is KmToScore(0).
const MaxScore = 0.1

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// HaversineKm returns the great-circle distance between a and b.
func HaversineKm(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// KmToScore converts a distance to a score in [0, MaxScore]. It decreases
// monotonically and reaches 0 at maxScoredKm.
func KmToScore(km float64) float64 {
	if km < 0 {
		km = 0
	}
	km = math.Min(km, maxScoredKm)
	return MaxScore - MaxScore*math.Sqrt(km/maxScoredKm)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Cell is the bounding box of a geohash.
type Cell struct {
	N, S, E, W float64
}

// Decode returns the bounding box of hash.
func Decode(hash string) (Cell, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return Cell{}, apperrors.New(apperrors.ErrInvalidGeohash, apperrors.KindCollaborator, "empty geohash")
	}
	if err := geohash.Validate(hash); err != nil {
		return Cell{}, apperrors.Newf(apperrors.ErrInvalidGeohash, apperrors.KindCollaborator, "%q: %v", hash, err)
	}
	box := geohash.BoundingBox(hash)
	return Cell{N: box.MaxLat, S: box.MinLat, E: box.MaxLng, W: box.MinLng}, nil
}

// Polygon is a GeoJSON Polygon geometry.
type Polygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Polygon returns the cell as a closed ring [w,n] [e,n] [e,s] [w,s] [w,n].
func (c Cell) Polygon() Polygon {
	return Polygon{
		Type: "Polygon",
		Coordinates: [][][2]float64{{
			{c.W, c.N},
			{c.E, c.N},
			{c.E, c.S},
			{c.W, c.S},
			{c.W, c.N},
		}},
	}
}

// GeoJSON encodes the cell's polygon.
func (c Cell) GeoJSON() (string, error) {
	data, err := json.Marshal(c.Polygon())
	if err != nil {
		return "", fmt.Errorf("encoding polygon: %w", err)
	}
	return string(data), nil
}

// Expand returns the geohash of p at precision followed by its eight
// neighbours.
func Expand(p Point, precision uint) []string {
	center := geohash.EncodeWithPrecision(p.Lat, p.Lon, precision)
	return append([]string{center}, geohash.Neighbors(center)...)
}
