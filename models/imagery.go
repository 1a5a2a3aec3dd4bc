package models

import (
	"surveyserver/apperr"
	"surveyserver/geometry"
)

type ImageryKind string

const (
	ImageryPhoto         ImageryKind = "photo"
	ImagerySphericalPano ImageryKind = "spherical_pano"
	ImageryCubicPano     ImageryKind = "cubic_pano"
)

func (k ImageryKind) Valid() bool {
	switch k {
	case ImageryPhoto, ImagerySphericalPano, ImageryCubicPano:
		return true
	}
	return false
}

func (k ImageryKind) IsPano() bool {
	return k == ImagerySphericalPano || k == ImageryCubicPano
}

// Imagery is a flat photo or a 360 degree panorama. Kind is fixed once created.
type Imagery struct {
	Base
	Kind             ImageryKind    `gorm:"type:varchar(20);not null;index" json:"kind"`
	Name             string         `gorm:"type:varchar(100);not null;index" json:"name"`
	Description      *string        `gorm:"type:varchar(255)" json:"description"`
	Coordinates      geometry.Point `gorm:"type:varchar(100);not null" json:"coordinates"`
	Heading          *float64       `json:"heading"` // degrees from true north of the image centre
	CustomMarker     *string        `gorm:"type:varchar(100);index" json:"custom_marker"`
	OriginalFilename *string        `gorm:"type:varchar(255)" json:"original_filename"`
	StoredFilename   *string        `gorm:"type:varchar(255)" json:"-"`
	SurveyID         uint           `gorm:"not null;index" json:"survey_id"`
	Survey           *Survey        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Level            int            `gorm:"not null" json:"level"`
}

func (Imagery) TableName() string {
	return "imagery"
}

func NewImagery(kind ImageryKind, name string, surveyID uint, coordinates geometry.Point) *Imagery {
	return &Imagery{Kind: kind, Name: name, SurveyID: surveyID, Coordinates: coordinates, Level: DefaultLevel}
}

func (Imagery) EntityName() string { return "imagery" }
func (i *Imagery) GetName() string { return i.Name }

func (i *Imagery) FilePath() string {
	return storedPath(DirImagery, i.StoredFilename)
}

func (i *Imagery) ThumbPath() string {
	if i.StoredFilename == nil {
		return ""
	}
	return DirThumbs + "/" + *i.StoredFilename + ".jpg"
}

func (i *Imagery) HasFile() bool {
	return i.StoredFilename != nil
}

func checkHeading(heading *float64) error {
	if heading != nil && (*heading < -180 || *heading > 180) {
		return apperr.InvalidArgument("heading", "must be within [-180, 180]")
	}
	return nil
}

type ImageryCreate struct {
	Kind         ImageryKind    `json:"kind" binding:"required,oneof=photo spherical_pano cubic_pano"`
	Name         string         `json:"name" binding:"required,max=100"`
	Description  *string        `json:"description" binding:"omitempty,max=255"`
	Coordinates  geometry.Point `json:"coordinates"`
	Heading      *float64       `json:"heading"`
	CustomMarker *string        `json:"custom_marker" binding:"omitempty,max=100"`
	Level        *int           `json:"level"`
}

func (c *ImageryCreate) Validate() error {
	if !c.Kind.Valid() {
		return apperr.InvalidArgument("kind", "must be one of photo, spherical_pano, cubic_pano")
	}
	if err := checkName(&c.Name); err != nil {
		return err
	}
	return checkHeading(c.Heading)
}

func (c *ImageryCreate) Imagery(surveyID uint) *Imagery {
	imagery := NewImagery(c.Kind, c.Name, surveyID, c.Coordinates)
	imagery.Description = c.Description
	imagery.Heading = c.Heading
	imagery.CustomMarker = c.CustomMarker
	imagery.Level = levelOrDefault(c.Level)
	return imagery
}

type ImageryUpdate struct {
	Name         *string           `json:"name" binding:"omitempty,max=100"`
	Description  Optional[string]  `json:"description" binding:"omitempty,max=255"`
	Coordinates  *geometry.Point   `json:"coordinates"`
	Heading      Optional[float64] `json:"heading"`
	CustomMarker Optional[string]  `json:"custom_marker" binding:"omitempty,max=100"`
	Level        *int              `json:"level"`
}

func (u *ImageryUpdate) Validate() error {
	if err := checkName(u.Name); err != nil {
		return err
	}
	return checkHeading(u.Heading.Value)
}

func (u *ImageryUpdate) Apply(i *Imagery) {
	applyValue(u.Name, &i.Name)
	u.Description.applyTo(&i.Description)
	applyValue(u.Coordinates, &i.Coordinates)
	u.Heading.applyTo(&i.Heading)
	u.CustomMarker.applyTo(&i.CustomMarker)
	applyValue(u.Level, &i.Level)
}
