package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyserver/db"
	"surveyserver/models"
)

const seedYAML = `
asset_types:
  - name: Fire extinguisher
    category: Safety
    property_names: [Serial number, Inspection date]
  - name: Camera
    description: CCTV camera
    property_names:
      - Model
`

func TestSeedAssetTypes(t *testing.T) {
	f := newFixture(t)
	existing := f.assetType("Camera")

	result, err := f.svc.SeedAssetTypes(f.ctx, []byte(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, SeedResult{AssetTypes: 1, PropertyNames: 3}, result)

	types, err := List[models.AssetType](f.ctx, f.svc, db.ListOptions{SortBy: db.SortByName})
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, existing.ID, types[0].ID)
	assert.Nil(t, types[0].Description)
	assert.Equal(t, "Safety", *types[1].Category)

	names, err := f.svc.ListPropertyNames(f.ctx, existing.ID, db.ListOptions{})
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "Model", names[0].Name)

	again, err := f.svc.SeedAssetTypes(f.ctx, []byte(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, again)
}

func TestParseSeedFile(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"empty", "", false},
		{"unknown field", "asset_types:\n  - name: Door\n    colour: red\n", true},
		{"missing name", "asset_types:\n  - category: Safety\n", true},
		{"not yaml", "asset_types: [", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedFile([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
