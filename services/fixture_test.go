package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"surveyserver/geometry"
	"surveyserver/logger"
	"surveyserver/models"
	"surveyserver/testutil"
)

type countingNotifier struct {
	calls atomic.Int32
}

func (n *countingNotifier) Notify() {
	n.calls.Add(1)
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	svc   *Service
	files *countingNotifier
}

func newFixture(t *testing.T) *fixture {
	files := &countingNotifier{}
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		svc:   New(testutil.DB(t), logger.Nop(), files),
		files: files,
	}
}

func (f *fixture) site(name string, parentID *uint) *models.Site {
	site := models.NewSite(name, geometry.Point{Longitude: -0.12, Latitude: 51.5}, parentID)
	require.NoError(f.t, f.svc.CreateSite(f.ctx, site))
	return site
}

func (f *fixture) survey(siteID uint, latest bool) *models.Survey {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	survey := models.NewSurvey("Walkthrough", siteID, start, start.AddDate(0, 0, 2), latest)
	require.NoError(f.t, f.svc.CreateSurvey(f.ctx, survey))
	return survey
}

func (f *fixture) assetType(name string) *models.AssetType {
	assetType := models.NewAssetType(name)
	require.NoError(f.t, f.svc.CreateAssetType(f.ctx, assetType))
	return assetType
}

func (f *fixture) asset(surveyID, assetTypeID uint) *models.Asset {
	asset := models.NewAsset("Asset", surveyID, assetTypeID, geometry.Point{Longitude: -0.1, Latitude: 51.4})
	require.NoError(f.t, f.svc.CreateAsset(f.ctx, asset))
	return asset
}

func (f *fixture) imagery(surveyID uint, kind models.ImageryKind) *models.Imagery {
	imagery := models.NewImagery(kind, string(kind), surveyID, geometry.Point{Longitude: -0.1, Latitude: 51.4})
	require.NoError(f.t, f.svc.CreateImagery(f.ctx, imagery))
	return imagery
}

func (f *fixture) overlay(surveyID uint) *models.Overlay {
	overlay := models.NewOverlay("Ground floor", surveyID, geometry.Box{LongitudeMin: -0.2, LatitudeMin: 51.3, LongitudeMax: -0.1, LatitudeMax: 51.4})
	require.NoError(f.t, f.svc.CreateOverlay(f.ctx, overlay))
	return overlay
}

func (f *fixture) assetHotspot(sourceID, assetID uint) *models.Hotspot {
	hotspot := models.NewHotspot(sourceID, 10, 5)
	hotspot.AssetID = &assetID
	require.NoError(f.t, f.svc.CreateHotspot(f.ctx, hotspot))
	return hotspot
}

func (f *fixture) linkHotspot(sourceID, destinationID uint) *models.Hotspot {
	hotspot := models.NewHotspot(sourceID, -45, 0)
	hotspot.DestinationImageryID = &destinationID
	require.NoError(f.t, f.svc.CreateHotspot(f.ctx, hotspot))
	return hotspot
}

// queuedPaths lists the FileDeletion rows written so far
func (f *fixture) queuedPaths() []string {
	var paths []string
	require.NoError(f.t, f.svc.DB.Model(&models.FileDeletion{}).Order("id").Pluck("path", &paths).Error)
	return paths
}

func uintPtr(v uint) *uint {
	return &v
}

func strPtr(s string) *string {
	return &s
}
