package handlers

import (
	"github.com/gin-gonic/gin"

	"surveyserver/metrics"
	"surveyserver/models"
	"surveyserver/utils"
)

// FileRoutePatterns match the endpoints serving stored files, which are not gzipped
var FileRoutePatterns = []string{`^/(overlays|imagery)/[0-9]+/(file|thumb)$`, `^/asset-types/[0-9]+/icon$`}

// Routes registers every resource endpoint on r
func (a *API) Routes(r gin.IRouter) {
	files := utils.FileCache{MaxAge: a.FileCacheTime}.Handler()
	thumbs := utils.FileCache{MaxAge: a.ThumbCacheTime}.Handler()

	r.GET("/healthz", a.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/sites", a.SiteList)
	r.POST("/sites", a.SiteCreate)
	r.GET("/sites/:id", getOne[models.Site](a))
	r.PUT("/sites/:id", updateWith(a, a.Service.UpdateSite))
	r.DELETE("/sites/:id", deleteWith(a, a.Service.DeleteSite))
	r.GET("/sites/:id/sub-sites", a.SiteSubSites)
	r.GET("/sites/:id/surveys", a.SiteSurveys)
	r.POST("/sites/:id/surveys", a.SiteSurveyCreate)

	r.GET("/surveys", a.SurveyList)
	r.GET("/surveys/:id", getOne[models.Survey](a))
	r.PUT("/surveys/:id", updateWith(a, a.Service.UpdateSurvey))
	r.DELETE("/surveys/:id", deleteWith(a, a.Service.DeleteSurvey))
	r.POST("/surveys/:id/latest", a.SurveyPromote)
	r.GET("/surveys/:id/overlays", a.SurveyOverlays)
	r.POST("/surveys/:id/overlays", a.SurveyOverlayCreate)
	r.GET("/surveys/:id/assets", a.SurveyAssets)
	r.POST("/surveys/:id/assets", a.SurveyAssetCreate)
	r.GET("/surveys/:id/imagery", a.SurveyImagery)
	r.POST("/surveys/:id/imagery", a.SurveyImageryCreate)

	r.GET("/overlays", a.OverlayList)
	r.GET("/overlays/:id", getOne[models.Overlay](a))
	r.PUT("/overlays/:id", updateWith(a, a.Service.UpdateOverlay))
	r.DELETE("/overlays/:id", deleteWith(a, a.Service.DeleteOverlay))
	r.GET("/overlays/:id/file", files, a.OverlayFile)
	r.PUT("/overlays/:id/file", a.OverlayUpload)

	r.GET("/assets", a.AssetList)
	r.GET("/assets/:id", getOne[models.Asset](a))
	r.PUT("/assets/:id", updateWith(a, a.Service.UpdateAsset))
	r.DELETE("/assets/:id", deleteWith(a, a.Service.DeleteAsset))
	r.GET("/assets/:id/properties", a.AssetProperties)
	r.POST("/assets/:id/properties", a.AssetPropertyCreate)
	r.GET("/asset-properties/:id", getOne[models.AssetProperty](a))
	r.PUT("/asset-properties/:id", updateWith(a, a.Service.UpdateAssetProperty))
	r.DELETE("/asset-properties/:id", deleteWith(a, a.Service.DeleteAssetProperty))

	r.GET("/asset-types", a.AssetTypeList)
	r.POST("/asset-types", a.AssetTypeCreate)
	r.GET("/asset-types/:id", getOne[models.AssetType](a))
	r.PUT("/asset-types/:id", updateWith(a, a.Service.UpdateAssetType))
	r.DELETE("/asset-types/:id", deleteWith(a, a.Service.DeleteAssetType))
	r.GET("/asset-types/:id/icon", files, a.AssetTypeIcon)
	r.PUT("/asset-types/:id/icon", a.AssetTypeIconUpload)
	r.GET("/asset-types/:id/property-names", a.AssetTypePropertyNames)
	r.POST("/asset-types/:id/property-names", a.AssetTypePropertyNameCreate)
	r.GET("/asset-property-names/:id", getOne[models.AssetPropertyName](a))
	r.PUT("/asset-property-names/:id", updateWith(a, a.Service.UpdatePropertyName))
	r.DELETE("/asset-property-names/:id", deleteWith(a, a.Service.DeletePropertyName))

	r.GET("/imagery", a.ImageryList)
	r.GET("/imagery/:id", getOne[models.Imagery](a))
	r.PUT("/imagery/:id", updateWith(a, a.Service.UpdateImagery))
	r.DELETE("/imagery/:id", deleteWith(a, a.Service.DeleteImagery))
	r.GET("/imagery/:id/file", files, a.ImageryFile)
	r.PUT("/imagery/:id/file", a.ImageryUpload)
	r.GET("/imagery/:id/thumb", thumbs, a.ImageryThumb)
	r.GET("/imagery/:id/hotspots", a.ImageryHotspots)
	r.POST("/imagery/:id/hotspots", a.ImageryHotspotCreate)
	r.GET("/hotspots/:id", getOne[models.Hotspot](a))
	r.PUT("/hotspots/:id", updateWith(a, a.Service.UpdateHotspot))
	r.DELETE("/hotspots/:id", deleteWith(a, a.Service.DeleteHotspot))
}
