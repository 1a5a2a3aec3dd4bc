package geometry

import (
	"database/sql/driver"
	"fmt"
)

// Point is a WGS84 position stored as a WKT POINT column
type Point struct {
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
}

func (p Point) Value() (driver.Value, error) {
	return PointToWkt(p.Longitude, p.Latitude), nil
}

func (p *Point) Scan(src interface{}) error {
	text, err := columnText(src)
	if err != nil {
		return err
	}
	p.Longitude, p.Latitude, err = WktToPoint(text)
	return err
}

func (Point) GormDataType() string {
	return "string"
}

// Box is an axis-aligned extent stored as a rectangular WKT POLYGON column
type Box struct {
	LongitudeMin float64 `json:"longitude_min" binding:"gte=-180,lte=180"`
	LatitudeMin  float64 `json:"latitude_min" binding:"gte=-90,lte=90"`
	LongitudeMax float64 `json:"longitude_max" binding:"gte=-180,lte=180,gtefield=LongitudeMin"`
	LatitudeMax  float64 `json:"latitude_max" binding:"gte=-90,lte=90,gtefield=LatitudeMin"`
}

func (b Box) Value() (driver.Value, error) {
	return BoxToWkt(b.LongitudeMin, b.LatitudeMin, b.LongitudeMax, b.LatitudeMax), nil
}

func (b *Box) Scan(src interface{}) error {
	text, err := columnText(src)
	if err != nil {
		return err
	}
	b.LongitudeMin, b.LatitudeMin, b.LongitudeMax, b.LatitudeMax, err = WktToBox(text)
	return err
}

func (Box) GormDataType() string {
	return "string"
}

func columnText(src interface{}) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%w: cannot scan %T", ErrGeometryKind, src)
	}
}
