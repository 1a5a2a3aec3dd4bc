// Package geometry converts coordinates and extents to and from well-known text.
package geometry

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

var (
	ErrGeometryKind  = errors.New("unexpected geometry kind")
	ErrNotARectangle = errors.New("polygon is not an axis-aligned rectangle")
)

func PointToWkt(longitude, latitude float64) string {
	return wkt.MarshalString(orb.Point{longitude, latitude})
}

func WktToPoint(geometry string) (longitude, latitude float64, err error) {
	g, err := parse(geometry)
	if err != nil {
		return 0, 0, err
	}
	point, ok := g.(orb.Point)
	if !ok {
		return 0, 0, fmt.Errorf("%w: want Point, got %s", ErrGeometryKind, g.GeoJSONType())
	}
	return point.Lon(), point.Lat(), nil
}

// BoxToWkt expects min <= max on both axes
func BoxToWkt(lonMin, latMin, lonMax, latMax float64) string {
	bound := orb.Bound{Min: orb.Point{lonMin, latMin}, Max: orb.Point{lonMax, latMax}}
	return wkt.MarshalString(bound.ToPolygon())
}

func WktToBox(geometry string) (lonMin, latMin, lonMax, latMax float64, err error) {
	g, err := parse(geometry)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	polygon, ok := g.(orb.Polygon)
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("%w: want Polygon, got %s", ErrGeometryKind, g.GeoJSONType())
	}
	bound := polygon.Bound()
	if !isRectangle(polygon, bound) {
		return 0, 0, 0, 0, ErrNotARectangle
	}
	return bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat(), nil
}

func parse(geometry string) (orb.Geometry, error) {
	g, err := wkt.Unmarshal(geometry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeometryKind, err)
	}
	return g, nil
}

// isRectangle reports whether the polygon is exactly the rectangle spanned by bound.
// The ring is reduced to its corner vertices first; spikes that double back over an edge are rejected.
func isRectangle(polygon orb.Polygon, bound orb.Bound) bool {
	if len(polygon) != 1 {
		return false
	}
	ring := polygon[0]
	if len(ring) < 5 || !ring.Closed() {
		return false
	}
	corners := [4]orb.Point{
		bound.Min,
		{bound.Max[0], bound.Min[1]},
		bound.Max,
		{bound.Min[0], bound.Max[1]},
	}
	if bound.Min[0] == bound.Max[0] || bound.Min[1] == bound.Max[1] {
		// zero-area box: the ring can only repeat its corners
		for _, p := range ring {
			if p != corners[0] && p != corners[2] {
				return false
			}
		}
		return true
	}
	vertices, ok := cornerVertices(ring)
	if !ok || len(vertices) != 4 {
		return false
	}
	var seen [4]bool
	for i, p := range vertices {
		next := vertices[(i+1)%4]
		if p[0] != next[0] && p[1] != next[1] {
			return false
		}
		found := false
		for c := range corners {
			if p == corners[c] && !seen[c] {
				seen[c], found = true, true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// cornerVertices drops the closing point, repeated points and points in the middle of a straight run.
// It fails when the ring reverses direction on itself.
func cornerVertices(ring orb.Ring) ([]orb.Point, bool) {
	points := make([]orb.Point, 0, len(ring))
	for _, p := range ring[:len(ring)-1] {
		if len(points) == 0 || points[len(points)-1] != p {
			points = append(points, p)
		}
	}
	for len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	for changed := true; changed && len(points) >= 3; {
		changed = false
		for i, b := range points {
			a := points[(i+len(points)-1)%len(points)]
			c := points[(i+1)%len(points)]
			ux, uy := b[0]-a[0], b[1]-a[1]
			vx, vy := c[0]-b[0], c[1]-b[1]
			if ux*vy-uy*vx != 0 {
				continue
			}
			if ux*vx+uy*vy <= 0 {
				return nil, false
			}
			points = append(points[:i], points[i+1:]...)
			changed = true
			break
		}
	}
	return points, true
}
