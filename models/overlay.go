package models

import (
	"surveyserver/geometry"
)

// Overlay is a georeferenced floor plan image covering Extent on one level
type Overlay struct {
	Base
	Name             string       `gorm:"type:varchar(100);not null;index" json:"name"`
	Extent           geometry.Box `gorm:"type:varchar(255);not null" json:"extent"`
	Level            int          `gorm:"not null" json:"level"`
	SurveyID         uint         `gorm:"not null;index" json:"survey_id"`
	Survey           *Survey      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	OriginalFilename *string      `gorm:"type:varchar(255)" json:"original_filename"`
	StoredFilename   *string      `gorm:"type:varchar(255)" json:"-"`
}

func NewOverlay(name string, surveyID uint, extent geometry.Box) *Overlay {
	return &Overlay{Name: name, SurveyID: surveyID, Extent: extent, Level: DefaultLevel}
}

func (Overlay) EntityName() string { return "overlay" }
func (o *Overlay) GetName() string { return o.Name }

func (o *Overlay) FilePath() string {
	return storedPath(DirOverlays, o.StoredFilename)
}

func (o *Overlay) HasFile() bool {
	return o.StoredFilename != nil
}

type OverlayCreate struct {
	Name   string       `json:"name" binding:"required,max=100"`
	Extent geometry.Box `json:"extent"`
	Level  *int         `json:"level"`
}

func (c *OverlayCreate) Validate() error {
	return checkName(&c.Name)
}

func (c *OverlayCreate) Overlay(surveyID uint) *Overlay {
	overlay := NewOverlay(c.Name, surveyID, c.Extent)
	overlay.Level = levelOrDefault(c.Level)
	return overlay
}

type OverlayUpdate struct {
	Name   *string       `json:"name" binding:"omitempty,max=100"`
	Extent *geometry.Box `json:"extent"`
	Level  *int          `json:"level"`
}

func (u *OverlayUpdate) Validate() error {
	return checkName(u.Name)
}

func (u *OverlayUpdate) Apply(o *Overlay) {
	applyValue(u.Name, &o.Name)
	applyValue(u.Extent, &o.Extent)
	applyValue(u.Level, &o.Level)
}
