package models

import (
	"surveyserver/apperr"
)

// Hotspot is a tagged point inside an imagery item that links to either an asset or other imagery.
//
// For a photo source X and Y are the flat position in [0,1] from the top-left corner.
// For a pano source X is the yaw in [-180,180] and Y the pitch in [-90,90] degrees from the optical centre.
type Hotspot struct {
	Base
	SourceImageryID      uint     `gorm:"not null;index" json:"source_imagery_id"`
	SourceImagery        *Imagery `gorm:"foreignKey:SourceImageryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	AssetID              *uint    `gorm:"index" json:"asset_id"`
	Asset                *Asset   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DestinationImageryID *uint    `gorm:"index" json:"destination_imagery_id"`
	DestinationImagery   *Imagery `gorm:"foreignKey:DestinationImageryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	X                    float64  `gorm:"column:x_coord;not null" json:"x_coord"`
	Y                    float64  `gorm:"column:y_coord;not null" json:"y_coord"`
}

func NewHotspot(sourceImageryID uint, x, y float64) *Hotspot {
	return &Hotspot{SourceImageryID: sourceImageryID, X: x, Y: y}
}

func (Hotspot) EntityName() string { return "hotspot" }

// CheckTarget enforces that exactly one of AssetID and DestinationImageryID is set
func (h *Hotspot) CheckTarget() error {
	hasAsset, hasDestination := h.AssetID != nil, h.DestinationImageryID != nil
	switch {
	case hasAsset && hasDestination:
		return apperr.InvalidHotspotReference(h.ID, "asset_id", "asset_id and destination_imagery_id are mutually exclusive")
	case !hasAsset && !hasDestination:
		return apperr.InvalidHotspotReference(h.ID, "asset_id", "one of asset_id or destination_imagery_id is required")
	}
	return nil
}

// CheckPlacement validates X/Y against the coordinate system of the source imagery kind
func (h *Hotspot) CheckPlacement(source ImageryKind) error {
	xMin, xMax, yMin, yMax := 0.0, 1.0, 0.0, 1.0
	if source.IsPano() {
		xMin, xMax, yMin, yMax = -180, 180, -90, 90
	}
	if h.X < xMin || h.X > xMax {
		return apperr.InvalidArgument("x_coord", placementMessage(source, xMin, xMax))
	}
	if h.Y < yMin || h.Y > yMax {
		return apperr.InvalidArgument("y_coord", placementMessage(source, yMin, yMax))
	}
	return nil
}

func placementMessage(source ImageryKind, min, max float64) string {
	unit := ""
	if source.IsPano() {
		unit = " degrees"
	}
	return "must be within [" + formatBound(min) + ", " + formatBound(max) + "]" + unit + " for " + string(source)
}

type HotspotCreate struct {
	AssetID              *uint   `json:"asset_id" binding:"omitempty,min=1"`
	DestinationImageryID *uint   `json:"destination_imagery_id" binding:"omitempty,min=1"`
	X                    float64 `json:"x_coord"`
	Y                    float64 `json:"y_coord"`
}

func (c *HotspotCreate) Hotspot(sourceImageryID uint) *Hotspot {
	hotspot := NewHotspot(sourceImageryID, c.X, c.Y)
	hotspot.AssetID = c.AssetID
	hotspot.DestinationImageryID = c.DestinationImageryID
	return hotspot
}

type HotspotUpdate struct {
	AssetID              Optional[uint] `json:"asset_id" binding:"omitempty,min=1"`
	DestinationImageryID Optional[uint] `json:"destination_imagery_id" binding:"omitempty,min=1"`
	X                    *float64       `json:"x_coord"`
	Y                    *float64       `json:"y_coord"`
}

func (u *HotspotUpdate) Apply(h *Hotspot) {
	u.AssetID.applyTo(&h.AssetID)
	u.DestinationImageryID.applyTo(&h.DestinationImageryID)
	applyValue(u.X, &h.X)
	applyValue(u.Y, &h.Y)
}
