package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyserver/apperr"
	"surveyserver/geometry"
)

func TestAssetUpdate_Apply(t *testing.T) {
	description := "north entrance"
	tests := []struct {
		name    string
		payload string
		want    func(a *Asset)
	}{
		{
			name:    "name only",
			payload: `{"name": "X"}`,
			want: func(a *Asset) {
				a.Name = "X"
			},
		},
		{
			name:    "explicit null clears description",
			payload: `{"description": null}`,
			want: func(a *Asset) {
				a.Description = nil
			},
		},
		{
			name:    "absent description is kept",
			payload: `{"level": 0}`,
			want: func(a *Asset) {
				a.Level = 0
			},
		},
		{
			name:    "coordinates and type",
			payload: `{"coordinates": {"longitude": 1.5, "latitude": -2.5}, "asset_type_id": 9}`,
			want: func(a *Asset) {
				a.Coordinates = geometry.Point{Longitude: 1.5, Latitude: -2.5}
				a.AssetTypeID = 9
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := NewAsset("Camera", 1, 2, geometry.Point{Longitude: 10, Latitude: 20})
			asset.Description = &description
			want := *asset
			tt.want(&want)

			var update AssetUpdate
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &update))
			update.Apply(asset)
			assert.Equal(t, want, *asset)
		})
	}
}

func TestOptional(t *testing.T) {
	var payload struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
		C Optional[uint]   `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": null, "c": 4}`), &payload))

	assert.True(t, payload.A.Set)
	assert.Nil(t, payload.A.Value)
	assert.Nil(t, payload.A.Validatable())
	assert.False(t, payload.B.Set)
	assert.True(t, payload.C.Set)
	assert.Equal(t, uint(4), *payload.C.Value)
	assert.Equal(t, uint(4), payload.C.Validatable())

	out, err := json.Marshal(Some("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(out))
	assert.True(t, Null[int]().Set)
}

func TestHotspot_CheckTarget(t *testing.T) {
	id := uint(3)
	tests := []struct {
		name        string
		asset       *uint
		destination *uint
		wantErr     bool
	}{
		{"asset only", &id, nil, false},
		{"destination only", nil, &id, false},
		{"both", &id, &id, true},
		{"neither", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hotspot := NewHotspot(1, 0.5, 0.5)
			hotspot.AssetID = tt.asset
			hotspot.DestinationImageryID = tt.destination
			err := hotspot.CheckTarget()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidHotspotReference)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHotspot_CheckPlacement(t *testing.T) {
	tests := []struct {
		name      string
		kind      ImageryKind
		x, y      float64
		wantField string
	}{
		{"photo centre", ImageryPhoto, 0.5, 0.5, ""},
		{"photo corners", ImageryPhoto, 1, 0, ""},
		{"photo x out of range", ImageryPhoto, 1.01, 0.5, "x_coord"},
		{"photo negative y", ImageryPhoto, 0.5, -0.1, "y_coord"},
		{"pano yaw and pitch", ImagerySphericalPano, -180, 90, ""},
		{"pano yaw out of range", ImageryCubicPano, 181, 0, "x_coord"},
		{"pano pitch out of range", ImagerySphericalPano, 10, -91, "y_coord"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewHotspot(1, tt.x, tt.y).CheckPlacement(tt.kind)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			details, ok := apperr.Details(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindInvalidArgument, details.Kind)
			assert.Equal(t, tt.wantField, details.Field)
		})
	}
}

func TestImageryKind(t *testing.T) {
	assert.True(t, ImageryPhoto.Valid())
	assert.False(t, ImageryKind("video").Valid())
	assert.False(t, ImageryPhoto.IsPano())
	assert.True(t, ImagerySphericalPano.IsPano())
	assert.True(t, ImageryCubicPano.IsPano())
}

func TestSiteTimeZone(t *testing.T) {
	site := NewSite("Tower", geometry.Point{Longitude: -0.0761, Latitude: 51.5081}, nil)
	assert.Equal(t, "Europe/London", site.TimeZone)

	update := SiteUpdate{Coordinates: &geometry.Point{Longitude: 139.7454, Latitude: 35.6586}}
	update.Apply(site)
	assert.Equal(t, "Asia/Tokyo", site.TimeZone)
}

func TestSurveyCreate_Validate(t *testing.T) {
	var payload SurveyCreate
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Spring", "start_date": "2024-05-02T00:00:00Z", "end_date": "2024-05-01T00:00:00Z"}`), &payload))
	err := payload.Validate()
	details, ok := apperr.Details(err)
	require.True(t, ok)
	assert.Equal(t, "end_date", details.Field)

	require.NoError(t, json.Unmarshal([]byte(`{"end_date": "2024-05-03T00:00:00Z"}`), &payload))
	assert.NoError(t, payload.Validate())

	blank := SurveyCreate{Name: "  "}
	assert.ErrorIs(t, blank.Validate(), apperr.ErrInvalidArgument)
}

func TestFilePaths(t *testing.T) {
	name := "0b8c.jpg"
	imagery := NewImagery(ImageryPhoto, "Lobby", 1, geometry.Point{})
	assert.Equal(t, "", imagery.FilePath())
	assert.Equal(t, "", imagery.ThumbPath())

	imagery.StoredFilename = &name
	assert.Equal(t, "imagery/0b8c.jpg", imagery.FilePath())
	assert.Equal(t, "thumbs/0b8c.jpg.jpg", imagery.ThumbPath())

	overlay := NewOverlay("Ground floor", 1, geometry.Box{})
	overlay.StoredFilename = strPtr("plan.svg")
	assert.Equal(t, "overlays/plan.svg", overlay.FilePath())
	assert.Equal(t, DefaultLevel, overlay.Level)
}
