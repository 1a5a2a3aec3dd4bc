package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyserver/apperr"
	"surveyserver/db"
	"surveyserver/models"
)

func TestHotspotTarget(t *testing.T) {
	f := newFixture(t)
	survey := f.survey(f.site("Campus", nil).ID, false)
	asset := f.asset(survey.ID, f.assetType("Door").ID)
	source := f.imagery(survey.ID, models.ImageryPhoto)
	destination := f.imagery(survey.ID, models.ImageryPhoto)

	tests := []struct {
		name        string
		asset       *uint
		destination *uint
		err         error
	}{
		{"both", &asset.ID, &destination.ID, apperr.ErrInvalidHotspotReference},
		{"neither", nil, nil, apperr.ErrInvalidHotspotReference},
		{"asset only", &asset.ID, nil, nil},
		{"destination only", nil, &destination.ID, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hotspot := models.NewHotspot(source.ID, 0.5, 0.5)
			hotspot.AssetID = tt.asset
			hotspot.DestinationImageryID = tt.destination
			err := f.svc.CreateHotspot(f.ctx, hotspot)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Zero(t, hotspot.ID)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, hotspot.ID)
		})
	}
}

func TestHotspotPlacement(t *testing.T) {
	f := newFixture(t)
	survey := f.survey(f.site("Campus", nil).ID, false)
	asset := f.asset(survey.ID, f.assetType("Door").ID)
	photo := f.imagery(survey.ID, models.ImageryPhoto)
	pano := f.imagery(survey.ID, models.ImagerySphericalPano)

	tests := []struct {
		name   string
		source uint
		x, y   float64
		field  string
	}{
		{"photo centre", photo.ID, 0.5, 0.5, ""},
		{"photo corner", photo.ID, 1, 0, ""},
		{"photo x out of range", photo.ID, 1.5, 0.5, "x_coord"},
		{"photo y negative", photo.ID, 0.5, -0.1, "y_coord"},
		{"pano yaw and pitch", pano.ID, -180, 90, ""},
		{"pano yaw out of range", pano.ID, 181, 0, "x_coord"},
		{"pano pitch out of range", pano.ID, 0, -91, "y_coord"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hotspot := models.NewHotspot(tt.source, tt.x, tt.y)
			hotspot.AssetID = &asset.ID
			err := f.svc.CreateHotspot(f.ctx, hotspot)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperr.ErrInvalidArgument)
			details, _ := apperr.Details(err)
			assert.Equal(t, tt.field, details.Field)
		})
	}
}

func TestHotspotReferences(t *testing.T) {
	f := newFixture(t)
	site := f.site("Campus", nil)
	survey := f.survey(site.ID, false)
	otherSurvey := f.survey(site.ID, false)
	assetType := f.assetType("Door")
	foreignAsset := f.asset(otherSurvey.ID, assetType.ID)
	photo := f.imagery(survey.ID, models.ImageryPhoto)
	spherical := f.imagery(survey.ID, models.ImagerySphericalPano)
	cubic := f.imagery(survey.ID, models.ImageryCubicPano)
	foreignPano := f.imagery(otherSurvey.ID, models.ImagerySphericalPano)

	tests := []struct {
		name        string
		source      uint
		asset       *uint
		destination *uint
		err         error
		field       string
	}{
		{"missing source", 999, &foreignAsset.ID, nil, apperr.ErrNotFound, "source_imagery_id"},
		{"missing asset", spherical.ID, uintPtr(999), nil, apperr.ErrNotFound, "asset_id"},
		{"missing destination", spherical.ID, nil, uintPtr(999), apperr.ErrNotFound, "destination_imagery_id"},
		{"self link", spherical.ID, nil, &spherical.ID, apperr.ErrInvalidHotspotReference, "destination_imagery_id"},
		{"photo to pano", photo.ID, nil, &spherical.ID, apperr.ErrInvalidHotspotReference, "destination_imagery_id"},
		{"pano to photo", cubic.ID, nil, &photo.ID, apperr.ErrInvalidHotspotReference, "destination_imagery_id"},
		{"asset in another survey", spherical.ID, &foreignAsset.ID, nil, apperr.ErrInvalidHotspotReference, "asset_id"},
		{"pano in another survey", spherical.ID, nil, &foreignPano.ID, apperr.ErrInvalidHotspotReference, "destination_imagery_id"},
		{"spherical to cubic", spherical.ID, nil, &cubic.ID, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hotspot := models.NewHotspot(tt.source, 0.5, 0.5)
			hotspot.AssetID = tt.asset
			hotspot.DestinationImageryID = tt.destination
			err := f.svc.CreateHotspot(f.ctx, hotspot)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
			details, _ := apperr.Details(err)
			assert.Equal(t, tt.field, details.Field)
		})
	}
}

func TestUpdateHotspot(t *testing.T) {
	f := newFixture(t)
	survey := f.survey(f.site("Campus", nil).ID, false)
	asset := f.asset(survey.ID, f.assetType("Door").ID)
	pano := f.imagery(survey.ID, models.ImagerySphericalPano)
	next := f.imagery(survey.ID, models.ImagerySphericalPano)
	hotspot := f.assetHotspot(pano.ID, asset.ID)

	// adding a destination while the asset is still set breaks exactly-one
	_, err := f.svc.UpdateHotspot(f.ctx, hotspot.ID, &models.HotspotUpdate{DestinationImageryID: models.Some(next.ID)})
	assert.ErrorIs(t, err, apperr.ErrInvalidHotspotReference)

	updated, err := f.svc.UpdateHotspot(f.ctx, hotspot.ID, &models.HotspotUpdate{
		AssetID:              models.Null[uint](),
		DestinationImageryID: models.Some(next.ID),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.AssetID)
	assert.Equal(t, next.ID, *updated.DestinationImageryID)

	hotspots, err := f.svc.ListHotspots(f.ctx, pano.ID, db.ListOptions{})
	require.NoError(t, err)
	require.Len(t, hotspots, 1)
	assert.Equal(t, 10.0, hotspots[0].X)

	require.NoError(t, f.svc.DeleteHotspot(f.ctx, hotspot.ID))
	assert.ErrorIs(t, f.svc.DeleteHotspot(f.ctx, hotspot.ID), apperr.ErrNotFound)
}
