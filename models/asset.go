package models

import (
	"surveyserver/geometry"
)

// Asset is a point of interest recorded during a survey
type Asset struct {
	Base
	Name        string         `gorm:"type:varchar(100);not null;index" json:"name"`
	Description *string        `gorm:"type:varchar(255)" json:"description"`
	Coordinates geometry.Point `gorm:"type:varchar(100);not null" json:"coordinates"`
	AssetTypeID uint           `gorm:"not null;index" json:"asset_type_id"`
	AssetType   *AssetType     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	SurveyID    uint           `gorm:"not null;index" json:"survey_id"`
	Survey      *Survey        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Level       int            `gorm:"not null" json:"level"`
}

func NewAsset(name string, surveyID, assetTypeID uint, coordinates geometry.Point) *Asset {
	return &Asset{
		Name:        name,
		SurveyID:    surveyID,
		AssetTypeID: assetTypeID,
		Coordinates: coordinates,
		Level:       DefaultLevel,
	}
}

func (Asset) EntityName() string { return "asset" }
func (a *Asset) GetName() string { return a.Name }

type AssetCreate struct {
	Name        string         `json:"name" binding:"required,max=100"`
	Description *string        `json:"description" binding:"omitempty,max=255"`
	Coordinates geometry.Point `json:"coordinates"`
	AssetTypeID uint           `json:"asset_type_id" binding:"required"`
	Level       *int           `json:"level"`
}

func (c *AssetCreate) Validate() error {
	return checkName(&c.Name)
}

func (c *AssetCreate) Asset(surveyID uint) *Asset {
	asset := NewAsset(c.Name, surveyID, c.AssetTypeID, c.Coordinates)
	asset.Description = c.Description
	asset.Level = levelOrDefault(c.Level)
	return asset
}

type AssetUpdate struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description Optional[string] `json:"description" binding:"omitempty,max=255"`
	Coordinates *geometry.Point  `json:"coordinates"`
	AssetTypeID *uint            `json:"asset_type_id" binding:"omitempty,min=1"`
	Level       *int             `json:"level"`
}

func (u *AssetUpdate) Validate() error {
	return checkName(u.Name)
}

func (u *AssetUpdate) Apply(a *Asset) {
	applyValue(u.Name, &a.Name)
	u.Description.applyTo(&a.Description)
	applyValue(u.Coordinates, &a.Coordinates)
	applyValue(u.AssetTypeID, &a.AssetTypeID)
	applyValue(u.Level, &a.Level)
}

// AssetProperty is a stored custom field value of an asset. Name is copied, not linked,
// so renaming an AssetPropertyName leaves existing values untouched.
type AssetProperty struct {
	Base
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Value   string `gorm:"type:text;not null" json:"value"`
	AssetID uint   `gorm:"not null;index" json:"asset_id"`
	Asset   *Asset `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func NewAssetProperty(assetID uint, name, value string) *AssetProperty {
	return &AssetProperty{AssetID: assetID, Name: name, Value: value}
}

func (AssetProperty) EntityName() string { return "asset property" }
func (p *AssetProperty) GetName() string { return p.Name }

type AssetPropertyCreate struct {
	Name  string `json:"name" binding:"required,max=100"`
	Value string `json:"value"`
}

func (c *AssetPropertyCreate) Validate() error {
	return checkName(&c.Name)
}

func (c *AssetPropertyCreate) AssetProperty(assetID uint) *AssetProperty {
	return NewAssetProperty(assetID, c.Name, c.Value)
}

type AssetPropertyUpdate struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Value *string `json:"value"`
}

func (u *AssetPropertyUpdate) Validate() error {
	return checkName(u.Name)
}

func (u *AssetPropertyUpdate) Apply(p *AssetProperty) {
	applyValue(u.Name, &p.Name)
	applyValue(u.Value, &p.Value)
}
