package models

// AssetType classifies assets and defines their custom property names
type AssetType struct {
	Base
	Name                 string  `gorm:"type:varchar(100);not null;index" json:"name"`
	Description          *string `gorm:"type:varchar(255)" json:"description"`
	Category             *string `gorm:"type:varchar(100)" json:"category"`
	OriginalIconFilename *string `gorm:"type:varchar(255)" json:"original_icon_filename"`
	StoredIconFilename   *string `gorm:"type:varchar(255)" json:"-"`
}

func NewAssetType(name string) *AssetType {
	return &AssetType{Name: name}
}

func (AssetType) EntityName() string { return "asset type" }
func (t *AssetType) GetName() string { return t.Name }

func (t *AssetType) IconPath() string {
	return storedPath(DirIcons, t.StoredIconFilename)
}

type AssetTypeCreate struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
}

func (c *AssetTypeCreate) Validate() error {
	return checkName(&c.Name)
}

func (c *AssetTypeCreate) AssetType() *AssetType {
	assetType := NewAssetType(c.Name)
	assetType.Description = c.Description
	assetType.Category = c.Category
	return assetType
}

type AssetTypeUpdate struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description Optional[string] `json:"description" binding:"omitempty,max=255"`
	Category    Optional[string] `json:"category" binding:"omitempty,max=100"`
}

func (u *AssetTypeUpdate) Validate() error {
	return checkName(u.Name)
}

func (u *AssetTypeUpdate) Apply(t *AssetType) {
	applyValue(u.Name, &t.Name)
	u.Description.applyTo(&t.Description)
	u.Category.applyTo(&t.Category)
}

// AssetPropertyName is one custom field slot of an asset type
type AssetPropertyName struct {
	Base
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_property_name_type,priority:2" json:"name"`
	AssetTypeID uint       `gorm:"not null;uniqueIndex:idx_property_name_type,priority:1" json:"asset_type_id"`
	AssetType   *AssetType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func NewAssetPropertyName(assetTypeID uint, name string) *AssetPropertyName {
	return &AssetPropertyName{AssetTypeID: assetTypeID, Name: name}
}

func (AssetPropertyName) EntityName() string { return "asset property name" }
func (n *AssetPropertyName) GetName() string { return n.Name }

type AssetPropertyNameCreate struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (c *AssetPropertyNameCreate) Validate() error {
	return checkName(&c.Name)
}

type AssetPropertyNameUpdate struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
}

func (u *AssetPropertyNameUpdate) Validate() error {
	return checkName(u.Name)
}

func (u *AssetPropertyNameUpdate) Apply(n *AssetPropertyName) {
	applyValue(u.Name, &n.Name)
}
