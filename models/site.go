package models

import (
	"github.com/zsefvlol/timezonemapper"
	"gorm.io/gorm"

	"surveyserver/geometry"
)

// Site is a physical location. Sites nest at most one level deep.
type Site struct {
	Base
	Name         string         `gorm:"type:varchar(100);not null;index" json:"name"`
	Coordinates  geometry.Point `gorm:"type:varchar(100);not null" json:"coordinates"`
	ParentSiteID *uint          `gorm:"index" json:"parent_site_id"`
	ParentSite   *Site          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TimeZone     string         `gorm:"-" json:"time_zone"`
}

func NewSite(name string, coordinates geometry.Point, parentSiteID *uint) *Site {
	site := &Site{Name: name, Coordinates: coordinates, ParentSiteID: parentSiteID}
	site.fillTimeZone()
	return site
}

func (Site) EntityName() string { return "site" }
func (s *Site) GetName() string { return s.Name }

func (s *Site) IsRoot() bool {
	return s.ParentSiteID == nil
}

func (s *Site) fillTimeZone() {
	s.TimeZone = timezonemapper.LatLngToTimezoneString(s.Coordinates.Latitude, s.Coordinates.Longitude)
}

func (s *Site) AfterFind(tx *gorm.DB) error {
	s.fillTimeZone()
	return nil
}

func (s *Site) AfterSave(tx *gorm.DB) error {
	s.fillTimeZone()
	return nil
}

type SiteCreate struct {
	Name         string         `json:"name" binding:"required,max=100"`
	Coordinates  geometry.Point `json:"coordinates"`
	ParentSiteID *uint          `json:"parent_site_id" binding:"omitempty,min=1"`
}

func (c *SiteCreate) Validate() error {
	return checkName(&c.Name)
}

func (c *SiteCreate) Site() *Site {
	return NewSite(c.Name, c.Coordinates, c.ParentSiteID)
}

type SiteUpdate struct {
	Name         *string         `json:"name" binding:"omitempty,max=100"`
	Coordinates  *geometry.Point `json:"coordinates"`
	ParentSiteID Optional[uint]  `json:"parent_site_id" binding:"omitempty,min=1"`
}

func (u *SiteUpdate) Validate() error {
	return checkName(u.Name)
}

func (u *SiteUpdate) Apply(s *Site) {
	applyValue(u.Name, &s.Name)
	applyValue(u.Coordinates, &s.Coordinates)
	u.ParentSiteID.applyTo(&s.ParentSiteID)
	s.fillTimeZone()
}
